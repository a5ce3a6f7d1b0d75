package models

// MatchScore is the reduction of one candidate's correspondences to a
// supporting-evidence count and a scalar confidence. Confidence blends
// correspondence breadth and closeness; it is not a calibrated probability.
type MatchScore struct {
	GoodCount  int
	Confidence float64
}

// RecognitionResult is the accepted output of one recognition call.
// Callers receive it together with a boolean; a false boolean means no
// candidate cleared the acceptance gates, which is a normal outcome.
type RecognitionResult struct {
	Artwork       Artwork
	Confidence    float64
	GoodMatches   int
	QueryFeatures int
}

// IngestionSummary aggregates the outcome of one feature-database build.
// Every considered image is counted exactly once, either as saved or under
// one skip reason.
type IngestionSummary struct {
	ImagesFound       int
	SavedFeatures     int
	SkippedNoMetID    int
	SkippedNotInDB    int
	SkippedLoadError  int
	SkippedNoFeatures int
	SkippedStoreError int
}

// CatalogSummary aggregates the outcome of one catalog pipeline run.
type CatalogSummary struct {
	CandidatesChecked int
	Saved             int
	ImagesDownloaded  int
	FetchFailed       int
	MissingImage      int
	DBFailed          int
	DownloadFailed    int
	APIErrors         int
}

// NarrationSummary aggregates the outcome of one narration generation run.
type NarrationSummary struct {
	Artworks  int
	Generated int
	Failed    int
}
