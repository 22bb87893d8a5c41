package models

import "sort"

// HashIndex maps a content hash to the files sharing it. Records within a
// group keep insertion order, which for a concurrent scan is completion
// order and therefore differs between runs.
//
// HashIndex is not safe for concurrent mutation; the scanner gives a single
// goroutine ownership of it while a scan is running.
type HashIndex struct {
	groups map[string][]*HashRecord
	files  int
}

// NewHashIndex creates an empty index
func NewHashIndex() *HashIndex {
	return &HashIndex{groups: make(map[string][]*HashRecord)}
}

// Add appends a record to the group for its hash, creating the group if needed
func (idx *HashIndex) Add(record *HashRecord) {
	idx.groups[record.Hash] = append(idx.groups[record.Hash], record)
	idx.files++
}

// Group returns the records sharing hash, or nil
func (idx *HashIndex) Group(hash string) []*HashRecord {
	return idx.groups[hash]
}

// Groups returns the underlying mapping. Callers must treat it as read-only.
func (idx *HashIndex) Groups() map[string][]*HashRecord {
	return idx.groups
}

// Keys returns all hashes in lexical order
func (idx *HashIndex) Keys() []string {
	keys := make([]string, 0, len(idx.groups))
	for k := range idx.groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of distinct hashes
func (idx *HashIndex) Len() int {
	return len(idx.groups)
}

// FileCount returns the total number of records across all groups
func (idx *HashIndex) FileCount() int {
	return idx.files
}

// Duplicates returns a new index holding only groups with more than one member.
// The records are shared with the receiver, not copied.
func (idx *HashIndex) Duplicates() *HashIndex {
	dupes := NewHashIndex()
	for hash, records := range idx.groups {
		if len(records) > 1 {
			dupes.groups[hash] = records
			dupes.files += len(records)
		}
	}
	return dupes
}

// Paths returns the set of paths in each group keyed by hash. Useful for
// comparing two indexes while ignoring intra-group order.
func (idx *HashIndex) Paths() map[string][]string {
	out := make(map[string][]string, len(idx.groups))
	for hash, records := range idx.groups {
		paths := make([]string, 0, len(records))
		for _, r := range records {
			paths = append(paths, r.Path)
		}
		sort.Strings(paths)
		out[hash] = paths
	}
	return out
}

// Clone returns a copy of the index with its own group slices
func (idx *HashIndex) Clone() *HashIndex {
	c := NewHashIndex()
	for hash, records := range idx.groups {
		c.groups[hash] = append([]*HashRecord(nil), records...)
	}
	c.files = idx.files
	return c
}
