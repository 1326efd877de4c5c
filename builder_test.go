package infopoisk

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func sampleDocs() []Document {
	return []Document{
		{ID: "d1", URL: "http://example.com/1", Title: "Machine Learning", Content: "machine learning is fun"},
		{ID: "d2", URL: "http://example.com/2", Title: "Deep Learning", Content: "deep learning and machine learning"},
		{ID: "d3", URL: "http://example.com/3", Title: "Python Programming", Content: "python programming is great"},
		{ID: "d4", URL: "http://example.com/4", Title: "ML with Python", Content: "machine learning with python"},
	}
}

func TestBuilder_BuildAssignsSequentialDocIDs(t *testing.T) {
	b := NewBuilder()
	if err := b.Build(NewSliceLoader(sampleDocs())); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	fwd := b.ForwardIndex()
	if len(fwd) != 4 {
		t.Fatalf("expected 4 forward entries, got %d", len(fwd))
	}
	for i, e := range fwd {
		if e.ID != sampleDocs()[i].ID {
			t.Errorf("forward[%d].ID = %q, want %q", i, e.ID, sampleDocs()[i].ID)
		}
		if e.Checksum != uint32(i) {
			t.Errorf("forward[%d].Checksum = %d, want %d", i, e.Checksum, i)
		}
	}
}

func TestBuilder_InvertedIndexContainsStems(t *testing.T) {
	b := NewBuilder()
	if err := b.Build(NewSliceLoader(sampleDocs())); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	bmMachine := b.Bitmap(Stem("machine"))
	if bmMachine == nil {
		t.Fatal("expected a postings bitmap for 'machine'")
	}
	got := bitmapToSlice(bmMachine)
	want := []int{0, 1, 3}
	if !slicesEqual(got, want) {
		t.Errorf("postings for machine = %v, want %v", got, want)
	}
}

func TestBuilder_UnknownStemHasNoBitmap(t *testing.T) {
	b := NewBuilder()
	if err := b.Build(NewSliceLoader(sampleDocs())); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if b.Bitmap("quantum") != nil {
		t.Error("expected nil bitmap for a stem never indexed")
	}
}

func TestBuilder_StatisticsNonZero(t *testing.T) {
	b := NewBuilder()
	if err := b.Build(NewSliceLoader(sampleDocs())); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	stats := b.Statistics()
	if stats.TotalDocuments != 4 {
		t.Errorf("TotalDocuments = %d, want 4", stats.TotalDocuments)
	}
	if stats.TotalTerms == 0 {
		t.Error("expected a nonzero number of unique terms")
	}
	if stats.AvgDocLength <= 0 {
		t.Error("expected a positive average document length")
	}
}

func TestBuilder_OversizedIDRejected(t *testing.T) {
	b := NewBuilder()
	docs := []Document{
		{ID: strings.Repeat("x", maxIDLen+1), URL: "u", Title: "t", Content: "hello world"},
	}
	err := b.Build(NewSliceLoader(docs))
	if !errors.Is(err, ErrFormatLimitExceeded) {
		t.Errorf("expected ErrFormatLimitExceeded, got %v", err)
	}
}

func TestBuilder_DocumentAndDocumentCount(t *testing.T) {
	b := NewBuilder()
	if err := b.Build(NewSliceLoader(sampleDocs())); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if b.DocumentCount() != 4 {
		t.Errorf("DocumentCount = %d, want 4", b.DocumentCount())
	}
	entry, err := b.Document(2)
	if err != nil {
		t.Fatalf("Document(2) failed: %v", err)
	}
	if entry.ID != "d3" {
		t.Errorf("Document(2).ID = %q, want d3", entry.ID)
	}
	if _, err := b.Document(99); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange for out-of-range doc id, got %v", err)
	}
}

// scenarioCorpus is the fixed corpus spec.md §8 scenarios A–D run their
// queries against: d0 "fashion design trends", d1 "designer fashion",
// d2 "shoes and bags".
func scenarioCorpus() []Document {
	return []Document{
		{ID: "d0", URL: "http://example.com/0", Title: "D0", Content: "fashion design trends"},
		{ID: "d1", URL: "http://example.com/1", Title: "D1", Content: "designer fashion"},
		{ID: "d2", URL: "http://example.com/2", Title: "D2", Content: "shoes and bags"},
	}
}

// scenarioQueries is every query from spec.md §8 scenarios A–D, paired
// with its expected doc-id result.
func scenarioQueries() map[string][]int {
	return map[string][]int{
		"fashion":                      {0, 1},
		"fashion design":               {0, 1},
		"fashion && shoe":              {},
		"shoe || bag":                  {2},
		"!shoe":                        {0, 1},
		"fashion || !design":           {0, 1, 2},
		"(fashion || shoe) && !design": {2},
	}
}

// TestBuilder_SaveLoadRoundTrip is spec.md §8 Scenario E: build, save,
// load into a fresh Builder, and re-run every scenario A–D query against
// the loaded index — results must match doc-id-for-doc-id against the
// pre-save results.
func TestBuilder_SaveLoadRoundTrip(t *testing.T) {
	built := NewBuilder()
	if err := built.Build(NewSliceLoader(scenarioCorpus())); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	preSave := NewSearch(built)

	path := filepath.Join(t.TempDir(), "scenario.fash")
	if err := built.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded := NewBuilder()
	if ok, err := loaded.Load(path); !ok {
		t.Fatalf("Load failed: %v", err)
	}
	postLoad := NewSearch(loaded)

	for query, want := range scenarioQueries() {
		beforeIDs, _, err := preSave.Query(query)
		if err != nil {
			t.Fatalf("pre-save Query(%q) failed: %v", query, err)
		}
		if !slicesEqual(uint32sToInts(beforeIDs), want) {
			t.Fatalf("pre-save Query(%q) = %v, want %v", query, beforeIDs, want)
		}

		afterIDs, _, err := postLoad.Query(query)
		if err != nil {
			t.Fatalf("post-load Query(%q) failed: %v", query, err)
		}
		if !slicesEqual(uint32sToInts(afterIDs), want) {
			t.Errorf("post-load Query(%q) = %v, want %v (pre-save: %v)", query, afterIDs, want, beforeIDs)
		}
	}

	if loaded.DocCount() != built.DocCount() {
		t.Errorf("loaded DocCount = %d, want %d", loaded.DocCount(), built.DocCount())
	}
}

func TestBuilder_BuildResetsPriorState(t *testing.T) {
	b := NewBuilder()
	if err := b.Build(NewSliceLoader(sampleDocs()[:2])); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if err := b.Build(NewSliceLoader(sampleDocs()[:1])); err != nil {
		t.Fatalf("second Build failed: %v", err)
	}
	if b.DocCount() != 1 {
		t.Errorf("expected second Build to discard prior state, DocCount = %d", b.DocCount())
	}
}
