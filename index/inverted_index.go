package index

// InvertedIndex maps a token to the positions of the records whose name,
// city, or long state produced that token.
//
// It is written only while being built. Once handed to a search service it is
// never mutated, so concurrent lookups need no locking.
type InvertedIndex struct {
	Index map[string]PostingList
}

// NewInvertedIndex creates an empty index.
func NewInvertedIndex() *InvertedIndex {
	return &InvertedIndex{Index: make(map[string]PostingList)}
}

// Add appends pos to the posting list of token.
func (ii *InvertedIndex) Add(token string, pos uint32) {
	ii.Index[token] = append(ii.Index[token], pos)
}

// Lookup returns the posting list for token, if any.
func (ii *InvertedIndex) Lookup(token string) (PostingList, bool) {
	postings, ok := ii.Index[token]
	return postings, ok
}

// TermCount returns the number of distinct tokens in the index.
func (ii *InvertedIndex) TermCount() int {
	return len(ii.Index)
}
