package models

// Artwork is a catalog entry as stored in the artworks table. The catalog
// (the Met Collection API) owns these fields; the engine only stores and
// displays them.
type Artwork struct {
	ID            int64
	MetObjectID   int64
	Title         string
	Artist        string
	Date          string
	Medium        string
	Department    string
	ImageURL      string
	AudioFilePath string
}
