package query

import (
	"errors"
	"fmt"
	"math"

	"github.com/blockidx/daatsearch/index"
	"github.com/blockidx/daatsearch/tokenize"
)

// ErrEmptyQuery is returned when a query string tokenizes to zero terms.
var ErrEmptyQuery = errors.New("query has no terms")

// ErrTermNotFound is returned by a conjunctive query when any term is
// absent from the lexicon, since an AND query can never match in that
// case.
var ErrTermNotFound = errors.New("term not found in lexicon")

// PrepareTerms tokenizes and deduplicates a raw query string, preserving
// first-occurrence order, per the shared tokenization contract (§4.8).
func PrepareTerms(raw string) ([]string, error) {
	terms := tokenize.SplitUnique(raw)
	if len(terms) == 0 {
		return nil, ErrEmptyQuery
	}
	return terms, nil
}

// openLists resolves each term through table and opens a List over its
// postings. found[i] is false where a term has no lexicon entry.
func openLists(dir string, manifest index.Manifest, table *index.LexiconTable, terms []string) ([]*index.List, []bool, error) {
	lists := make([]*index.List, len(terms))
	found := make([]bool, len(terms))
	for i, term := range terms {
		entry, ok := table.Lookup(term)
		if !ok {
			continue
		}
		entry.Term = term
		list, err := index.OpenList(dir, manifest, entry)
		if err != nil {
			closeLists(lists)
			return nil, nil, fmt.Errorf("open list for %q: %w", term, err)
		}
		lists[i] = list
		found[i] = true
	}
	return lists, found, nil
}

func closeLists(lists []*index.List) {
	for _, l := range lists {
		if l != nil {
			l.Close()
		}
	}
}

// Conjunctive runs a document-at-a-time AND query: only documents
// containing every term are scored, and the score is the sum of each
// term's BM25 impact on that document.
func Conjunctive(dir string, manifest index.Manifest, table *index.LexiconTable, terms []string) ([]Result, error) {
	lists, found, err := openLists(dir, manifest, table, terms)
	if err != nil {
		return nil, err
	}
	defer closeLists(lists)

	for _, ok := range found {
		if !ok {
			return nil, ErrTermNotFound
		}
	}

	topK := NewTopKHeap(index.TopK)
	var currentDocID int32
	for {
		candidate, ok := lists[0].NextGEQ(currentDocID)
		if !ok {
			break
		}
		allMatched := true
		for i := 1; i < len(lists); i++ {
			next, ok := lists[i].NextGEQ(candidate)
			if !ok {
				allMatched = false
				candidate = -1
				break
			}
			if next != candidate {
				allMatched = false
				currentDocID = next
				break
			}
		}
		if candidate == -1 {
			break
		}
		if allMatched {
			var total float64
			for _, l := range lists {
				total += l.CurrentImpact()
			}
			topK.Offer(uint32(candidate), total)
			currentDocID = candidate + 1
		}
	}
	return topK.Results(), nil
}

// Disjunctive runs a document-at-a-time OR query: every document
// containing at least one term is scored, with the score summing the
// impact from whichever of the query's terms matched that document.
func Disjunctive(dir string, manifest index.Manifest, table *index.LexiconTable, terms []string) ([]Result, error) {
	lists, found, err := openLists(dir, manifest, table, terms)
	if err != nil {
		return nil, err
	}
	defer closeLists(lists)

	currentDocIDs := make([]int32, len(lists))
	exhausted := make([]bool, len(lists))
	for i, l := range lists {
		if !found[i] {
			exhausted[i] = true
			continue
		}
		docID, ok := l.NextGEQ(0)
		if !ok {
			exhausted[i] = true
			continue
		}
		currentDocIDs[i] = docID
	}

	topK := NewTopKHeap(index.TopK)
	for {
		minDocID := int32(math.MaxInt32)
		for i := range lists {
			if !exhausted[i] && currentDocIDs[i] < minDocID {
				minDocID = currentDocIDs[i]
			}
		}
		if minDocID == math.MaxInt32 {
			break
		}

		var total float64
		for i, l := range lists {
			if !exhausted[i] && currentDocIDs[i] == minDocID {
				total += l.CurrentImpact()
			}
		}
		topK.Offer(uint32(minDocID), total)

		allExhausted := true
		for i, l := range lists {
			if !exhausted[i] && currentDocIDs[i] == minDocID {
				docID, ok := l.NextGEQ(minDocID + 1)
				if !ok {
					exhausted[i] = true
				} else {
					currentDocIDs[i] = docID
				}
			}
			if !exhausted[i] {
				allExhausted = false
			}
		}
		if allExhausted {
			break
		}
	}
	return topK.Results(), nil
}
