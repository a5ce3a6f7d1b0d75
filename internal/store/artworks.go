package store

import (
	"database/sql"
	"fmt"

	"github.com/lensa-guide/lensa/internal/models"
)

// UpsertArtwork inserts a catalog entry or refreshes its fields when an
// artwork with the same Met object ID already exists. Returns the local
// artwork ID.
func (s *Store) UpsertArtwork(a *models.Artwork) (int64, error) {
	_, err := s.db.Exec(`
		INSERT INTO artworks (met_object_id, title, artist, date, medium, department, image_url)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(met_object_id) DO UPDATE SET
			title = excluded.title,
			artist = excluded.artist,
			date = excluded.date,
			medium = excluded.medium,
			department = excluded.department,
			image_url = excluded.image_url`,
		a.MetObjectID, a.Title, a.Artist, a.Date, a.Medium, a.Department, a.ImageURL,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert artwork: %w", err)
	}

	var id int64
	err = s.db.QueryRow(
		"SELECT id FROM artworks WHERE met_object_id = ?", a.MetObjectID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve artwork id: %w", err)
	}
	return id, nil
}

// GetArtwork returns an artwork by its local ID. A missing row is a valid
// result (false, nil), not an error.
func (s *Store) GetArtwork(id int64) (models.Artwork, bool, error) {
	return s.getArtwork("SELECT id, met_object_id, title, artist, date, medium, department, image_url, audio_file_path FROM artworks WHERE id = ?", id)
}

// GetArtworkByMetID returns an artwork by its Met object ID. A missing row
// is a valid result (false, nil), not an error.
func (s *Store) GetArtworkByMetID(metObjectID int64) (models.Artwork, bool, error) {
	return s.getArtwork("SELECT id, met_object_id, title, artist, date, medium, department, image_url, audio_file_path FROM artworks WHERE met_object_id = ?", metObjectID)
}

func (s *Store) getArtwork(query string, arg int64) (models.Artwork, bool, error) {
	var a models.Artwork
	var metID sql.NullInt64
	var artist, date, medium, department, imageURL, audioPath sql.NullString

	err := s.db.QueryRow(query, arg).Scan(
		&a.ID, &metID, &a.Title, &artist, &date, &medium, &department, &imageURL, &audioPath,
	)
	if err == sql.ErrNoRows {
		return models.Artwork{}, false, nil
	}
	if err != nil {
		return models.Artwork{}, false, fmt.Errorf("failed to get artwork: %w", err)
	}

	a.MetObjectID = metID.Int64
	a.Artist = artist.String
	a.Date = date.String
	a.Medium = medium.String
	a.Department = department.String
	a.ImageURL = imageURL.String
	a.AudioFilePath = audioPath.String
	return a, true, nil
}

// ListArtworks returns all catalog entries ordered by local ID.
func (s *Store) ListArtworks() ([]models.Artwork, error) {
	rows, err := s.db.Query(
		"SELECT id, met_object_id, title, artist, date, medium, department, image_url, audio_file_path FROM artworks ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list artworks: %w", err)
	}
	defer rows.Close()

	var artworks []models.Artwork
	for rows.Next() {
		var a models.Artwork
		var metID sql.NullInt64
		var artist, date, medium, department, imageURL, audioPath sql.NullString
		if err := rows.Scan(&a.ID, &metID, &a.Title, &artist, &date, &medium, &department, &imageURL, &audioPath); err != nil {
			return nil, fmt.Errorf("failed to scan artwork row: %w", err)
		}
		a.MetObjectID = metID.Int64
		a.Artist = artist.String
		a.Date = date.String
		a.Medium = medium.String
		a.Department = department.String
		a.ImageURL = imageURL.String
		a.AudioFilePath = audioPath.String
		artworks = append(artworks, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate artworks: %w", err)
	}
	return artworks, nil
}

// SetAudioPath records the generated narration file for an artwork.
func (s *Store) SetAudioPath(artworkID int64, path string) error {
	_, err := s.db.Exec("UPDATE artworks SET audio_file_path = ? WHERE id = ?", path, artworkID)
	if err != nil {
		return fmt.Errorf("failed to set audio path: %w", err)
	}
	return nil
}

// CountArtworks returns the number of catalog entries.
func (s *Store) CountArtworks() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM artworks").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count artworks: %w", err)
	}
	return count, nil
}
