package index

// PostingList is the list of record positions stored under one token, in the
// order they were added during the build. The same position may appear more
// than once when a record is indexed under the same key twice.
type PostingList []uint32
