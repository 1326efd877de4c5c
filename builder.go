package infopoisk

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/RoaringBitmap/roaring"
)

// ═══════════════════════════════════════════════════════════════════════════════
// INDEX BUILDER
// ═══════════════════════════════════════════════════════════════════════════════
// Builder turns a finite stream of Documents into an inverted index: a
// forward index (doc-id → metadata) and an inverted index (stem → sorted
// set of doc-ids holding it). Unlike a general-purpose engine, it tracks no
// term positions — this engine answers boolean membership queries only, so
// a stem either occurs in a document or it doesn't.
//
// STEP-BY-STEP EXAMPLE:
// ----------------------
// Input: doc 0 = "The quick brown foxes jump"
//
//	tokenize  → ["quick", "brown", "foxes", "jump"]
//	stem      → ["quick", "brown", "fox", "jump"]
//	forward_index[0] = {doc_length: 4}
//	inverted_index["fox"] ← add doc 0
//
// ═══════════════════════════════════════════════════════════════════════════════

// Stats mirrors the original's Statistics struct: totals collected during
// Build, reported back to a caller (and to the CLI's --stats flag).
type Stats struct {
	TotalDocuments int
	TotalTerms     int
	TotalPostings  int
	AvgTermLength  float64
	AvgDocLength   float64
	IndexingMillis float64
}

// Builder accumulates an inverted index in memory. The zero value is not
// usable; construct with NewBuilder.
type Builder struct {
	mu sync.Mutex

	forward  []ForwardEntry
	inverted map[string]*roaring.Bitmap // stem → bitmap of doc-ids

	stats Stats
	built bool
}

// NewBuilder returns an empty Builder ready for Build.
func NewBuilder() *Builder {
	return &Builder{
		inverted: make(map[string]*roaring.Bitmap),
	}
}

// Build consumes every document loader yields, in order, assigning each one
// an internal doc-id equal to its position in that sequence. It replaces
// any index previously held by b. Returns ErrFormatLimitExceeded if any
// document's id/url/title overflows the binary format's length prefixes —
// the caller learns this at build time rather than failing later on Save.
func (b *Builder) Build(loader DocumentLoader) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	start := time.Now()

	b.forward = b.forward[:0]
	b.inverted = make(map[string]*roaring.Bitmap)

	docID := uint32(0)
	for {
		doc, ok := loader.Next()
		if !ok {
			break
		}
		if err := b.processDocument(doc, docID); err != nil {
			return err
		}
		docID++
	}

	b.computeStats(time.Since(start))
	b.built = true

	slog.Info("index built",
		slog.Int("documents", b.stats.TotalDocuments),
		slog.Int("terms", b.stats.TotalTerms),
		slog.Int("postings", b.stats.TotalPostings),
	)

	return nil
}

// processDocument tokenizes, normalizes, and folds one document into the
// forward and inverted indexes. docID becomes that document's forward-index
// slot and every posting recorded for its terms.
func (b *Builder) processDocument(doc Document, docID uint32) error {
	entry := ForwardEntry{
		ID:    doc.ID,
		URL:   doc.URL,
		Title: doc.Title,
	}
	if err := entry.validate(); err != nil {
		return err
	}

	seen := make(map[string]struct{})
	tokens := Tokenize(doc.Content)
	for _, tok := range tokens.Tokens {
		stem := Stem(tok)
		if len(stem) < minStemLen || len(stem) > maxStemLen {
			continue
		}
		seen[stem] = struct{}{}
	}

	entry.DocLength = uint32(len(seen))
	// Reserved checksum field: the original assigns each forward entry its
	// own ordinal as a placeholder real checksum (boolean_index.cpp,
	// save_index) — carried over unchanged rather than invented anew.
	entry.Checksum = docID

	for stem := range seen {
		bm, ok := b.inverted[stem]
		if !ok {
			bm = roaring.New()
			b.inverted[stem] = bm
		}
		bm.Add(docID)
	}

	b.forward = append(b.forward, entry)
	return nil
}

// computeStats fills b.stats from the current forward/inverted indexes.
func (b *Builder) computeStats(elapsed time.Duration) {
	var totalTermChars, totalPostings int
	for term, bm := range b.inverted {
		totalTermChars += len(term)
		totalPostings += int(bm.GetCardinality())
	}

	var totalDocTerms int
	for _, e := range b.forward {
		totalDocTerms += int(e.DocLength)
	}

	stats := Stats{
		TotalDocuments: len(b.forward),
		TotalTerms:     len(b.inverted),
		TotalPostings:  totalPostings,
		IndexingMillis: float64(elapsed.Nanoseconds()) / 1e6,
	}
	if len(b.inverted) > 0 {
		stats.AvgTermLength = float64(totalTermChars) / float64(len(b.inverted))
	}
	if len(b.forward) > 0 {
		stats.AvgDocLength = float64(totalDocTerms) / float64(len(b.forward))
	}

	b.stats = stats
}

// Statistics returns the totals collected by the most recent Build or Load.
func (b *Builder) Statistics() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stats
}

// ForwardIndex returns the built forward index, ordered by doc-id.
func (b *Builder) ForwardIndex() []ForwardEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]ForwardEntry, len(b.forward))
	copy(out, b.forward)
	return out
}

// InvertedIndex returns the built inverted index as sorted-term entries,
// each carrying a sorted-unique doc-id slice (roaring.Bitmap.ToArray already
// returns one, so no extra sort/dedup pass is needed here).
func (b *Builder) InvertedIndex() []InvertedEntry {
	b.mu.Lock()
	defer b.mu.Unlock()

	entries := make([]InvertedEntry, 0, len(b.inverted))
	for term, bm := range b.inverted {
		entries = append(entries, InvertedEntry{Term: term, DocIDs: bm.ToArray()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Term < entries[j].Term })
	return entries
}

// Bitmap returns the posting bitmap for a stem, or nil if the stem was
// never indexed. The returned bitmap must not be mutated by the caller.
func (b *Builder) Bitmap(stem string) *roaring.Bitmap {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.inverted[stem]
}

// DocCount returns the number of documents in the built forward index.
func (b *Builder) DocCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.forward)
}

// Document returns the forward entry for docID, implementing PostingsSource
// so a Builder can back a Search directly without a save/load round trip.
func (b *Builder) Document(docID uint32) (ForwardEntry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if docID >= uint32(len(b.forward)) {
		return ForwardEntry{}, ErrOutOfRange
	}
	return b.forward[docID], nil
}

// DocumentCount implements PostingsSource.
func (b *Builder) DocumentCount() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return uint32(len(b.forward))
}

// Save writes the built index to path in FASH format.
func (b *Builder) Save(path string) error {
	b.mu.Lock()
	forward := make([]ForwardEntry, len(b.forward))
	copy(forward, b.forward)
	inverted := make([]InvertedEntry, 0, len(b.inverted))
	for term, bm := range b.inverted {
		inverted = append(inverted, InvertedEntry{Term: term, DocIDs: bm.ToArray()})
	}
	b.mu.Unlock()

	slog.Info("saving index", slog.String("path", path))
	return WriteIndex(path, forward, inverted)
}

// Load replaces b's contents with the index read from path, recomputing
// statistics the same way Build does. Returns false (with an error) if the
// file cannot be parsed as a FASH index.
func (b *Builder) Load(path string) (bool, error) {
	slog.Info("loading index", slog.String("path", path))

	r, err := OpenIndex(path)
	if err != nil {
		return false, err
	}
	defer r.Close()

	forward, err := r.ForwardIndex()
	if err != nil {
		return false, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.forward = forward
	b.inverted = make(map[string]*roaring.Bitmap)

	if err := r.buildTermDirectory(); err != nil {
		return false, err
	}
	for _, td := range r.termDir {
		ids, err := r.PostingsFor(td.term)
		if err != nil {
			return false, err
		}
		bm := roaring.New()
		bm.AddMany(ids)
		b.inverted[td.term] = bm
	}

	b.computeStats(0)
	b.built = true

	slog.Info("index loaded",
		slog.Int("documents", b.stats.TotalDocuments),
		slog.Int("terms", b.stats.TotalTerms),
	)

	return true, nil
}

// Ready implements PostingsSource: a Builder is queryable once Build or Load
// has completed successfully at least once.
func (b *Builder) Ready() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.built
}
