package infopoisk

import (
	"errors"
	"testing"

	"github.com/RoaringBitmap/roaring"
)

// testPostings is a tiny fixed term→docIDs table standing in for a built
// index, used to exercise the query grammar in isolation.
func testPostings() func(string) *roaring.Bitmap {
	table := map[string][]uint32{
		"machine":  {0, 1, 3},
		"learning": {0, 1, 3},
		"python":   {2, 3},
		"deep":     {1},
		"cat":      {4},
		"dog":      {4},
		"bird":     {},
	}
	return func(term string) *roaring.Bitmap {
		ids, ok := table[term]
		if !ok {
			return nil
		}
		bm := roaring.New()
		bm.AddMany(ids)
		return bm
	}
}

const testDocCount = 5

func TestParseQuery_SingleTerm(t *testing.T) {
	bm, err := ParseQuery("machine", testDocCount, testPostings())
	if err != nil {
		t.Fatalf("ParseQuery failed: %v", err)
	}
	want := []int{0, 1, 3}
	if !slicesEqual(bitmapToSlice(bm), want) {
		t.Errorf("got %v, want %v", bitmapToSlice(bm), want)
	}
}

func TestParseQuery_ImplicitAnd(t *testing.T) {
	bm, err := ParseQuery("machine python", testDocCount, testPostings())
	if err != nil {
		t.Fatalf("ParseQuery failed: %v", err)
	}
	want := []int{3}
	if !slicesEqual(bitmapToSlice(bm), want) {
		t.Errorf("got %v, want %v", bitmapToSlice(bm), want)
	}
}

func TestParseQuery_ExplicitAnd(t *testing.T) {
	bm, err := ParseQuery("machine && python", testDocCount, testPostings())
	if err != nil {
		t.Fatalf("ParseQuery failed: %v", err)
	}
	want := []int{3}
	if !slicesEqual(bitmapToSlice(bm), want) {
		t.Errorf("got %v, want %v", bitmapToSlice(bm), want)
	}
}

func TestParseQuery_Or(t *testing.T) {
	bm, err := ParseQuery("cat || dog", testDocCount, testPostings())
	if err != nil {
		t.Fatalf("ParseQuery failed: %v", err)
	}
	want := []int{4}
	if !slicesEqual(bitmapToSlice(bm), want) {
		t.Errorf("got %v, want %v", bitmapToSlice(bm), want)
	}
}

func TestParseQuery_Not(t *testing.T) {
	bm, err := ParseQuery("!python", testDocCount, testPostings())
	if err != nil {
		t.Fatalf("ParseQuery failed: %v", err)
	}
	want := []int{0, 1, 4}
	if !slicesEqual(bitmapToSlice(bm), want) {
		t.Errorf("got %v, want %v", bitmapToSlice(bm), want)
	}
}

func TestParseQuery_NotByHyphen(t *testing.T) {
	bm, err := ParseQuery("-python", testDocCount, testPostings())
	if err != nil {
		t.Fatalf("ParseQuery failed: %v", err)
	}
	want := []int{0, 1, 4}
	if !slicesEqual(bitmapToSlice(bm), want) {
		t.Errorf("got %v, want %v", bitmapToSlice(bm), want)
	}
}

func TestParseQuery_Grouping(t *testing.T) {
	bm, err := ParseQuery("(cat || dog) && machine", testDocCount, testPostings())
	if err != nil {
		t.Fatalf("ParseQuery failed: %v", err)
	}
	// "cat"/"dog" postings (doc 4) never intersect with "machine" (docs 0,1,3).
	want := []int{}
	if !slicesEqual(bitmapToSlice(bm), want) {
		t.Errorf("got %v, want %v", bitmapToSlice(bm), want)
	}
}

func TestParseQuery_Precedence(t *testing.T) {
	// machine && (deep || python) -> docs with machine AND (deep OR python)
	bm, err := ParseQuery("machine && (deep || python)", testDocCount, testPostings())
	if err != nil {
		t.Fatalf("ParseQuery failed: %v", err)
	}
	want := []int{1, 3}
	if !slicesEqual(bitmapToSlice(bm), want) {
		t.Errorf("got %v, want %v", bitmapToSlice(bm), want)
	}
}

func TestParseQuery_EmptyQueryIsEmptyResultNoError(t *testing.T) {
	bm, err := ParseQuery("", testDocCount, testPostings())
	if err != nil {
		t.Fatalf("expected no error for empty query, got %v", err)
	}
	if bm.GetCardinality() != 0 {
		t.Errorf("expected empty result for empty query, got cardinality %d", bm.GetCardinality())
	}
}

func TestParseQuery_UnknownTermIsEmptyNotError(t *testing.T) {
	bm, err := ParseQuery("quantum", testDocCount, testPostings())
	if err != nil {
		t.Fatalf("expected no error for unknown term, got %v", err)
	}
	if bm.GetCardinality() != 0 {
		t.Errorf("expected empty result for unknown term, got cardinality %d", bm.GetCardinality())
	}
}

func TestParseQuery_UnbalancedParenIsMalformed(t *testing.T) {
	_, err := ParseQuery("(machine && python", testDocCount, testPostings())
	if !errors.Is(err, ErrMalformedQuery) {
		t.Errorf("expected ErrMalformedQuery, got %v", err)
	}
}

// TestParseQuery_ImplicitAndSkipsParenGroup documents the preserved grammar
// quirk: implicit AND only continues on AND/TERM, not on a following LPAREN,
// so "cat (dog || bird)" parses "cat" alone at the term level and then fails
// at the top because the group is left unconsumed.
func TestParseQuery_ImplicitAndSkipsParenGroup(t *testing.T) {
	_, err := ParseQuery("cat (dog || bird)", testDocCount, testPostings())
	if !errors.Is(err, ErrMalformedQuery) {
		t.Errorf("expected ErrMalformedQuery for unconsumed paren group, got %v", err)
	}
}

func TestParseQuery_LowercasesTermsOnly(t *testing.T) {
	bmLower, err := ParseQuery("MACHINE", testDocCount, testPostings())
	if err != nil {
		t.Fatalf("ParseQuery failed: %v", err)
	}
	want := []int{0, 1, 3}
	if !slicesEqual(bitmapToSlice(bmLower), want) {
		t.Errorf("got %v, want %v", bitmapToSlice(bmLower), want)
	}
}
