// Package models defines the data types shared across the Lensa engine.
package models

// DescriptorWidth is the byte width of a single binary feature descriptor.
// The default extractor emits 256-bit descriptors.
const DescriptorWidth = 32

// MaxHammingDistance is the largest possible Hamming distance between two
// descriptors of DescriptorWidth bytes.
const MaxHammingDistance = DescriptorWidth * 8

// DefaultFeatureKind tags descriptors produced by the default extractor.
const DefaultFeatureKind = "orb"

// DescriptorSet is an ordered sequence of fixed-width binary feature
// descriptors extracted from one image. Descriptors are stored row-major in
// a single flat buffer. A set with zero descriptors is a valid state and
// means "no usable features". Sets are immutable once produced.
type DescriptorSet struct {
	Width int    // bytes per descriptor
	Data  []byte // Count()*Width bytes
}

// Count returns the number of descriptors in the set.
func (s DescriptorSet) Count() int {
	if s.Width <= 0 {
		return 0
	}
	return len(s.Data) / s.Width
}

// Empty reports whether the set contains no descriptors.
func (s DescriptorSet) Empty() bool {
	return s.Count() == 0
}

// At returns the i-th descriptor as a sub-slice of the underlying buffer.
// The returned slice must not be modified.
func (s DescriptorSet) At(i int) []byte {
	return s.Data[i*s.Width : (i+1)*s.Width]
}

// DescriptorRecord is one persisted (artwork, descriptor set) pair as read
// back from the store during a recognition scan.
type DescriptorRecord struct {
	ArtworkID int64
	Set       DescriptorSet
}

// Correspondence is the result of matching one query descriptor against a
// reference set: the distances to its nearest and second-nearest reference
// descriptors.
type Correspondence struct {
	QueryIndex     int
	BestDistance   int
	SecondDistance int
}
