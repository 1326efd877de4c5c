package infopoisk

import (
	"log/slog"
	"time"

	"github.com/RoaringBitmap/roaring"
)

// ═══════════════════════════════════════════════════════════════════════════════
// SEARCH FACADE
// ═══════════════════════════════════════════════════════════════════════════════
// Search wraps a built or loaded index and answers boolean queries against
// it. Unlike the original's BooleanSearch, which stashed the most recent
// query's statistics in a last_stats member, Search.Query returns its
// SearchStats directly — a deliberate re-architecture (spec's design notes
// flag the mutable-last-stats approach as unsafe for concurrent callers):
// nothing in Search itself is mutated by a query, so it needs no mutex of
// its own. Concurrent Query calls are then as safe as the source: Builder
// guards its state with a mutex, while Reader seeks one shared file handle
// and builds its term directory lazily without locking, so a Reader-backed
// Search is not safe for concurrent Query calls.
// ═══════════════════════════════════════════════════════════════════════════════

// SearchStats reports what happened during one Query call.
type SearchStats struct {
	Query            string
	ResultCount      int
	TermsProcessed   int
	ProcessingMillis float64
}

// Result is one entry of a formatted result page.
type Result struct {
	DocID     uint32
	Title     string
	URL       string
	Relevance float64
}

// PostingsSource abstracts over an in-memory Builder or an on-disk Reader —
// both can answer "what documents contain this stem" and "how many
// documents are there total", which is all Search needs.
type PostingsSource interface {
	Bitmap(term string) *roaring.Bitmap
	Document(docID uint32) (ForwardEntry, error)
	DocumentCount() uint32

	// Ready reports whether the source has an index to query at all. A
	// Builder that has never run Build/Load is not ready; a Reader, which
	// only exists after a successful OpenIndex, always is.
	Ready() bool
}

// Search answers boolean queries against a PostingsSource.
type Search struct {
	source PostingsSource
}

// NewSearch returns a Search backed by source.
func NewSearch(source PostingsSource) *Search {
	return &Search{source: source}
}

// Query parses and evaluates a boolean expression, returning the sorted
// doc-ids that match plus statistics about the call. Query terms are
// lowercased, not stemmed (see query.go). A malformed query (unbalanced
// parentheses, unexpected lexeme) returns ErrMalformedQuery with a nil
// id slice.
func (s *Search) Query(query string) ([]uint32, SearchStats, error) {
	if !s.source.Ready() {
		return nil, SearchStats{}, ErrIndexNotLoaded
	}

	start := time.Now()

	tokens := tokenizeQuery(query)

	bm, err := ParseQuery(query, s.source.DocumentCount(), s.source.Bitmap)
	if err != nil {
		slog.Debug("malformed query", slog.String("query", query), slog.Any("error", err))
		return nil, SearchStats{}, err
	}

	ids := bm.ToArray()

	stats := SearchStats{
		Query:            query,
		ResultCount:      len(ids),
		TermsProcessed:   len(tokens) - 1, // exclude the trailing END lexeme
		ProcessingMillis: float64(time.Since(start).Nanoseconds()) / 1e6,
	}

	return ids, stats, nil
}

// BatchSearch runs Query over every element of queries in order, stopping
// at the first error.
func (s *Search) BatchSearch(queries []string) ([][]uint32, []SearchStats, error) {
	results := make([][]uint32, len(queries))
	stats := make([]SearchStats, len(queries))

	for i, q := range queries {
		ids, st, err := s.Query(q)
		if err != nil {
			return nil, nil, err
		}
		results[i] = ids
		stats[i] = st
	}

	return results, stats, nil
}

// FormatResults slices [offset, offset+limit) of ids and resolves each
// doc-id to its forward-index metadata. A doc-id beyond the forward
// index's range (stale index, corrupted ids) is skipped rather than
// erroring the whole page. Relevance is 1/(rank+1), rank being the
// doc-id's absolute position in ids — a placeholder ordering, not a
// quality score; this engine does not rank.
func (s *Search) FormatResults(ids []uint32, offset, limit int) []Result {
	end := offset + limit
	if end > len(ids) {
		end = len(ids)
	}
	if offset > end {
		offset = end
	}

	results := make([]Result, 0, end-offset)
	for i := offset; i < end; i++ {
		docID := ids[i]

		entry, err := s.source.Document(docID)
		if err != nil {
			continue
		}

		title := entry.Title
		if title == "" {
			title = "Untitled Document"
		}

		results = append(results, Result{
			DocID:     docID,
			Title:     title,
			URL:       entry.URL,
			Relevance: 1.0 / float64(i+1),
		})
	}

	return results
}
