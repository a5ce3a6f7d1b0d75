package store

import (
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/lensa-guide/lensa/internal/models"
)

var (
	ErrInvalidBlob = errors.New("invalid descriptor blob")
)

// blobVersion is the current version of the descriptor blob layout.
const blobVersion = 1

// blob header: version (1 byte) + width (uint16 LE) + count (uint32 LE)
const blobHeaderSize = 7

// EncodeDescriptorSet serializes a descriptor set into the versioned binary
// blob layout: version byte, descriptor width, descriptor count, then the
// raw row-major descriptor bytes. The layout is self-describing so the
// scoring engine can reconstruct the exact count and width.
func EncodeDescriptorSet(set models.DescriptorSet) []byte {
	count := set.Count()
	buf := make([]byte, blobHeaderSize+count*set.Width)
	buf[0] = blobVersion
	binary.LittleEndian.PutUint16(buf[1:3], uint16(set.Width))
	binary.LittleEndian.PutUint32(buf[3:7], uint32(count))
	copy(buf[blobHeaderSize:], set.Data[:count*set.Width])
	return buf
}

// DecodeDescriptorSet parses a descriptor blob back into a descriptor set.
func DecodeDescriptorSet(blob []byte) (models.DescriptorSet, error) {
	if len(blob) < blobHeaderSize {
		return models.DescriptorSet{}, fmt.Errorf("%w: blob too short (%d bytes)", ErrInvalidBlob, len(blob))
	}
	if blob[0] != blobVersion {
		return models.DescriptorSet{}, fmt.Errorf("%w: unsupported version %d", ErrInvalidBlob, blob[0])
	}

	width := int(binary.LittleEndian.Uint16(blob[1:3]))
	count := int(binary.LittleEndian.Uint32(blob[3:7]))
	if width <= 0 {
		return models.DescriptorSet{}, fmt.Errorf("%w: non-positive width %d", ErrInvalidBlob, width)
	}

	expected := blobHeaderSize + count*width
	if len(blob) != expected {
		return models.DescriptorSet{}, fmt.Errorf("%w: expected %d bytes for %d descriptors of width %d, got %d",
			ErrInvalidBlob, expected, count, width, len(blob))
	}

	data := make([]byte, count*width)
	copy(data, blob[blobHeaderSize:])
	return models.DescriptorSet{Width: width, Data: data}, nil
}

// PutDescriptors stores a descriptor set for an artwork, atomically
// superseding any existing record for the same (artwork, kind) pair.
func (s *Store) PutDescriptors(artworkID int64, set models.DescriptorSet, kind string) error {
	blob := EncodeDescriptorSet(set)

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"DELETE FROM artwork_features WHERE artwork_id = ? AND feature_kind = ?",
		artworkID, kind,
	)
	if err != nil {
		return fmt.Errorf("failed to supersede descriptors: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO artwork_features (artwork_id, feature_kind, descriptor, descriptor_count, descriptor_width)
		VALUES (?, ?, ?, ?, ?)`,
		artworkID, kind, blob, set.Count(), set.Width,
	)
	if err != nil {
		return fmt.Errorf("failed to insert descriptors: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit descriptors: %w", err)
	}
	return nil
}

// SnapshotDescriptors returns the full current set of descriptor records for
// a feature kind, ordered by artwork ID so a scan over the snapshot is
// deterministic. The read observes a consistent point-in-time view.
func (s *Store) SnapshotDescriptors(kind string) ([]models.DescriptorRecord, error) {
	rows, err := s.db.Query(`
		SELECT artwork_id, descriptor
		FROM artwork_features
		WHERE feature_kind = ?
		ORDER BY artwork_id`,
		kind,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read descriptor snapshot: %w", err)
	}
	defer rows.Close()

	var records []models.DescriptorRecord
	for rows.Next() {
		var artworkID int64
		var blob []byte
		if err := rows.Scan(&artworkID, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan descriptor row: %w", err)
		}

		set, err := DecodeDescriptorSet(blob)
		if err != nil {
			return nil, fmt.Errorf("artwork %d: %w", artworkID, err)
		}

		records = append(records, models.DescriptorRecord{ArtworkID: artworkID, Set: set})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate descriptor snapshot: %w", err)
	}

	return records, nil
}

// CountDescriptorRecords returns the number of stored descriptor records for
// a feature kind.
func (s *Store) CountDescriptorRecords(kind string) (int, error) {
	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM artwork_features WHERE feature_kind = ?", kind,
	).Scan(&count)
	if err != nil && err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to count descriptor records: %w", err)
	}
	return count, nil
}
