package infopoisk

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"sort"

	"github.com/RoaringBitmap/roaring"
)

// ═══════════════════════════════════════════════════════════════════════════════
// BINARY INDEX CODEC — the "FASH" file format
// ═══════════════════════════════════════════════════════════════════════════════
// Layout (all multi-byte integers little-endian):
//
//	offset  0   u32  magic    = 0x48534146 ("FASH")
//	offset  4   u16  version  = 1
//	offset  6   u16  flags    (reserved, always 0)
//	offset  8   u32  doc_count
//	offset 12   u32  term_count
//	offset 16   u64  forward_offset   (patched after the forward index is written)
//	offset 24   u64  inverted_offset  (patched after the inverted index is written)
//	offset 32   -    8 reserved zero bytes
//
//	[forward index region, at forward_offset]
//	  u32 entry_count
//	  per entry: u8 id_len + id, u16 url_len + url, u16 title_len + title,
//	             u32 doc_length, u32 checksum
//
//	[inverted index region, at inverted_offset, terms sorted ascending]
//	  u32 term_count
//	  per term: u8 term_len + term, u32 doc_count, doc_count × u32 doc_id
//
// The writer writes the header with zeroed offset fields, streams the
// forward then inverted regions, and seeks back to patch bytes 16 and 24
// once each region's actual offset is known — the same two-pass protocol
// as the original's BinaryIndexWriter.
// ═══════════════════════════════════════════════════════════════════════════════

const (
	fashMagic   uint32 = 0x48534146
	fashVersion uint16 = 1

	headerSize = 40 // 4+2+2+4+4+8+8+8 reserved
)

// WriteIndex writes forward and inverted to path in FASH format.
func WriteIndex(path string, forward []ForwardEntry, inverted []InvertedEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	if err := writeHeader(w, uint32(len(forward)), uint32(len(inverted))); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}

	forwardOffset, err := currentOffset(f)
	if err != nil {
		return err
	}
	w = bufio.NewWriter(f)
	if err := writeForwardIndex(w, forward); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}

	invertedOffset, err := currentOffset(f)
	if err != nil {
		return err
	}
	w = bufio.NewWriter(f)
	if err := writeInvertedIndex(w, inverted); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if err := patchUint64At(f, 16, forwardOffset); err != nil {
		return err
	}
	if err := patchUint64At(f, 24, invertedOffset); err != nil {
		return err
	}

	return nil
}

func currentOffset(f *os.File) (uint64, error) {
	pos, err := f.Seek(0, io.SeekCurrent)
	return uint64(pos), err
}

func patchUint64At(f *os.File, at int64, value uint64) error {
	end, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	if _, err := f.Seek(at, io.SeekStart); err != nil {
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, value); err != nil {
		return err
	}
	_, err = f.Seek(end, io.SeekStart)
	return err
}

func writeHeader(w io.Writer, docCount, termCount uint32) error {
	fields := []any{
		fashMagic, fashVersion, uint16(0), docCount, termCount,
		uint64(0), uint64(0), // forward_offset, inverted_offset placeholders
		uint32(0), uint32(0), // reserved
	}
	for _, f := range fields {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return err
		}
	}
	return nil
}

func writeForwardIndex(w io.Writer, entries []ForwardEntry) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(entries))); err != nil {
		return err
	}
	for _, e := range entries {
		if err := e.validate(); err != nil {
			return err
		}
		if err := writeShortString(w, e.ID); err != nil {
			return err
		}
		if err := writeLongString(w, e.URL); err != nil {
			return err
		}
		if err := writeLongString(w, e.Title); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, e.DocLength); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, e.Checksum); err != nil {
			return err
		}
	}
	return nil
}

// writeInvertedIndex writes entries sorted ascending by term, matching the
// original's write_inverted_index sort step.
func writeInvertedIndex(w io.Writer, entries []InvertedEntry) error {
	sorted := make([]InvertedEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Term < sorted[j].Term })

	if err := binary.Write(w, binary.LittleEndian, uint32(len(sorted))); err != nil {
		return err
	}
	for _, e := range sorted {
		if err := e.validate(); err != nil {
			return err
		}
		if err := writeShortString(w, e.Term); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(len(e.DocIDs))); err != nil {
			return err
		}
		for _, id := range e.DocIDs {
			if err := binary.Write(w, binary.LittleEndian, id); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeShortString writes a 1-byte-length-prefixed string (used for ids
// and terms, both bounded to 255 bytes).
func writeShortString(w io.Writer, s string) error {
	if len(s) > maxIDLen {
		return ErrFormatLimitExceeded
	}
	if err := binary.Write(w, binary.LittleEndian, uint8(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

// writeLongString writes a 2-byte-length-prefixed string (used for urls
// and titles, bounded to 65535 bytes).
func writeLongString(w io.Writer, s string) error {
	if len(s) > maxURLLen {
		return ErrFormatLimitExceeded
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

// ═══════════════════════════════════════════════════════════════════════════════
// READER
// ═══════════════════════════════════════════════════════════════════════════════

// Reader gives random-access, seek-based reads of a FASH index file: the
// forward index is cached whole on first use, the inverted index is looked
// up per term via a lazily-built directory of (term, file offset) pairs
// found by one linear scan, searched thereafter with binary search — the
// same strategy as the original's build_term_index/find_term.
type Reader struct {
	f *os.File

	docCount  uint32
	termCount uint32

	forwardOffset  uint64
	invertedOffset uint64

	forwardCache []ForwardEntry
	termDir      []termPosition // built lazily, sorted by term
}

type termPosition struct {
	term   string
	offset int64
}

// OpenIndex opens path and reads its header. The caller must call Close.
func OpenIndex(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r := &Reader{f: f}
	if err := r.readHeader(); err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

// Close releases the underlying file handle.
func (r *Reader) Close() error { return r.f.Close() }

// DocCount returns the document count recorded in the header.
func (r *Reader) DocCount() uint32 { return r.docCount }

// TermCount returns the term count recorded in the header.
func (r *Reader) TermCount() uint32 { return r.termCount }

func (r *Reader) readHeader() error {
	if _, err := r.f.Seek(0, io.SeekStart); err != nil {
		return err
	}

	var magic uint32
	if err := binary.Read(r.f, binary.LittleEndian, &magic); err != nil {
		return err
	}
	if magic != fashMagic {
		return ErrInvalidFormat
	}

	var version, flags uint16
	if err := binary.Read(r.f, binary.LittleEndian, &version); err != nil {
		return err
	}
	if version != fashVersion {
		return ErrUnsupportedVersion
	}
	if err := binary.Read(r.f, binary.LittleEndian, &flags); err != nil {
		return err
	}

	if err := binary.Read(r.f, binary.LittleEndian, &r.docCount); err != nil {
		return err
	}
	if err := binary.Read(r.f, binary.LittleEndian, &r.termCount); err != nil {
		return err
	}
	if err := binary.Read(r.f, binary.LittleEndian, &r.forwardOffset); err != nil {
		return err
	}
	if err := binary.Read(r.f, binary.LittleEndian, &r.invertedOffset); err != nil {
		return err
	}

	return nil
}

// ForwardIndex returns the full forward index, reading and caching it on
// first call.
func (r *Reader) ForwardIndex() ([]ForwardEntry, error) {
	if r.forwardCache != nil {
		return r.forwardCache, nil
	}

	if _, err := r.f.Seek(int64(r.forwardOffset), io.SeekStart); err != nil {
		return nil, err
	}

	var count uint32
	if err := binary.Read(r.f, binary.LittleEndian, &count); err != nil {
		return nil, err
	}

	entries := make([]ForwardEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		id, err := readShortString(r.f)
		if err != nil {
			return nil, err
		}
		url, err := readLongString(r.f)
		if err != nil {
			return nil, err
		}
		title, err := readLongString(r.f)
		if err != nil {
			return nil, err
		}
		var docLength, checksum uint32
		if err := binary.Read(r.f, binary.LittleEndian, &docLength); err != nil {
			return nil, err
		}
		if err := binary.Read(r.f, binary.LittleEndian, &checksum); err != nil {
			return nil, err
		}
		entries = append(entries, ForwardEntry{ID: id, URL: url, Title: title, DocLength: docLength, Checksum: checksum})
	}

	r.forwardCache = entries
	return entries, nil
}

// DocumentInfo returns the forward entry for docID, or ErrOutOfRange if
// docID is not a valid forward-index slot.
func (r *Reader) DocumentInfo(docID uint32) (ForwardEntry, error) {
	entries, err := r.ForwardIndex()
	if err != nil {
		return ForwardEntry{}, err
	}
	if docID >= uint32(len(entries)) {
		return ForwardEntry{}, ErrOutOfRange
	}
	return entries[docID], nil
}

// buildTermDirectory performs the one linear scan over the inverted index
// region needed to record each term's starting file offset, without
// reading its posting list. Subsequent PostingsFor calls binary-search
// this directory and seek straight to the term they want.
func (r *Reader) buildTermDirectory() error {
	if r.termDir != nil {
		return nil
	}

	if _, err := r.f.Seek(int64(r.invertedOffset), io.SeekStart); err != nil {
		return err
	}

	var termCount uint32
	if err := binary.Read(r.f, binary.LittleEndian, &termCount); err != nil {
		return err
	}

	dir := make([]termPosition, 0, termCount)
	for i := uint32(0); i < termCount; i++ {
		pos, err := r.f.Seek(0, io.SeekCurrent)
		if err != nil {
			return err
		}
		term, err := readShortString(r.f)
		if err != nil {
			return err
		}
		dir = append(dir, termPosition{term: term, offset: pos})

		var docCount uint32
		if err := binary.Read(r.f, binary.LittleEndian, &docCount); err != nil {
			return err
		}
		if _, err := r.f.Seek(int64(docCount)*4, io.SeekCurrent); err != nil {
			return err
		}
	}

	r.termDir = dir
	return nil
}

// PostingsFor returns the sorted doc-id list for term, or nil if term does
// not occur in the index (not an error — see errors.go).
func (r *Reader) PostingsFor(term string) ([]uint32, error) {
	if err := r.buildTermDirectory(); err != nil {
		return nil, err
	}

	i := sort.Search(len(r.termDir), func(i int) bool { return r.termDir[i].term >= term })
	if i == len(r.termDir) || r.termDir[i].term != term {
		return nil, nil
	}

	if _, err := r.f.Seek(r.termDir[i].offset, io.SeekStart); err != nil {
		return nil, err
	}
	if _, err := readShortString(r.f); err != nil { // re-read and discard the term itself
		return nil, err
	}

	var docCount uint32
	if err := binary.Read(r.f, binary.LittleEndian, &docCount); err != nil {
		return nil, err
	}

	ids := make([]uint32, docCount)
	for i := range ids {
		if err := binary.Read(r.f, binary.LittleEndian, &ids[i]); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

func readShortString(r io.Reader) (string, error) {
	var length uint8
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return "", err
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func readLongString(r io.Reader) (string, error) {
	var length uint16
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return "", err
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// Bitmap implements PostingsSource directly against the on-disk index, so a
// Search can run straight off an OpenIndex reader without a load-into-
// Builder step. Errors from the underlying seek/read are swallowed into a
// nil result, exactly as for an absent term, which the query parser treats
// as an empty posting set — a query-time term lookup never fails the whole
// query, it just yields no matches (same contract Builder.Bitmap offers in
// memory).
func (r *Reader) Bitmap(term string) *roaring.Bitmap {
	ids, err := r.PostingsFor(term)
	if err != nil || ids == nil {
		return nil
	}
	bm := roaring.New()
	bm.AddMany(ids)
	return bm
}

// Document implements PostingsSource.
func (r *Reader) Document(docID uint32) (ForwardEntry, error) {
	return r.DocumentInfo(docID)
}

// DocumentCount implements PostingsSource.
func (r *Reader) DocumentCount() uint32 {
	return r.docCount
}

// Ready implements PostingsSource. A Reader only exists after a successful
// OpenIndex, so it is always ready to query.
func (r *Reader) Ready() bool {
	return true
}
