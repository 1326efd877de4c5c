package infopoisk

// ═══════════════════════════════════════════════════════════════════════════════
// DOCUMENT MODEL
// ═══════════════════════════════════════════════════════════════════════════════
// A Document is the unit the core consumes from a loader (JSON file, database
// cursor, whatever) and never mutates. It is only ever read once, during Build.
// ═══════════════════════════════════════════════════════════════════════════════

// Document is one corpus item as supplied by an external loader.
type Document struct {
	ID      string // stable external identifier, e.g. a URL slug or DB key
	URL     string
	Title   string
	Content string // UTF-8 text; analysed as ASCII (see tokenizer.go)
	Source  string // optional provenance tag, not indexed
}

// DocumentLoader is the pull iterator the core expects from an external
// collaborator (spec §6: "fetch_documents(limit?) → sequence<Document>").
// Next returns (doc, true) while documents remain, (zero, false) once
// exhausted. The core assumes the sequence is finite and delivered in a
// deterministic order — that order becomes the internal doc-id assignment.
type DocumentLoader interface {
	Next() (Document, bool)
}

// SliceLoader adapts an in-memory slice of documents to DocumentLoader. This
// is the loader the test suite uses; a real front-end supplies its own (see
// cmd/infopoisk/loader.go for a JSON/TOML-manifest implementation).
type SliceLoader struct {
	docs []Document
	pos  int
}

// NewSliceLoader wraps docs for sequential delivery in the given order.
func NewSliceLoader(docs []Document) *SliceLoader {
	return &SliceLoader{docs: docs}
}

// Next implements DocumentLoader.
func (l *SliceLoader) Next() (Document, bool) {
	if l.pos >= len(l.docs) {
		return Document{}, false
	}
	doc := l.docs[l.pos]
	l.pos++
	return doc, true
}

// ═══════════════════════════════════════════════════════════════════════════════
// ON-DISK / IN-MEMORY RECORD TYPES (spec §3)
// ═══════════════════════════════════════════════════════════════════════════════

// Limits enforced on every ForwardEntry and InvertedEntry field. Builds or
// saves that violate these fail with ErrFormatLimitExceeded — the binary
// format's length prefixes (1 byte for id/term, 2 bytes for url/title)
// cannot represent anything larger.
const (
	maxIDLen    = 255
	maxURLLen   = 65535
	maxTitleLen = 65535
	maxTermLen  = 255

	// minStemLen/maxStemLen bound every stem actually stored in the
	// inverted index (spec §3 invariant, §4.3 step 2).
	minStemLen = 2
	maxStemLen = 50
)

// ForwardEntry is one record of the forward index: internal doc-id (its
// slot in the owning slice) to document metadata.
type ForwardEntry struct {
	ID        string // external id, ≤ 255 bytes
	URL       string // ≤ 65535 bytes
	Title     string // ≤ 65535 bytes
	DocLength uint32 // count of distinct normalized stems in the document
	Checksum  uint32 // reserved; currently just the entry's ordinal (spec §9)
}

// validate reports ErrFormatLimitExceeded if any field overflows its
// on-disk length prefix.
func (e ForwardEntry) validate() error {
	if len(e.ID) > maxIDLen {
		return ErrFormatLimitExceeded
	}
	if len(e.URL) > maxURLLen {
		return ErrFormatLimitExceeded
	}
	if len(e.Title) > maxTitleLen {
		return ErrFormatLimitExceeded
	}
	return nil
}

// InvertedEntry is one record of the inverted index: a normalized stem to
// its sorted, duplicate-free list of internal doc-ids (spec §3). DocIDs is
// kept as the plain sorted slice the binary codec reads and writes
// directly; the builder and search facade work with the equivalent
// *roaring.Bitmap representation and only flatten to this shape when a
// term's postings are about to be persisted or inspected standalone.
type InvertedEntry struct {
	Term   string // ≤ 255 bytes, already lowercased and stemmed
	DocIDs []uint32
}

func (e InvertedEntry) validate() error {
	if len(e.Term) > maxTermLen {
		return ErrFormatLimitExceeded
	}
	return nil
}
