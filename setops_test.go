package infopoisk

import (
	"testing"

	"github.com/RoaringBitmap/roaring"
)

func bm(ids ...uint32) *roaring.Bitmap {
	b := roaring.New()
	b.AddMany(ids)
	return b
}

func TestIntersect_Basic(t *testing.T) {
	got := Intersect(bm(1, 2, 3), bm(2, 3, 4))
	want := []int{2, 3}
	if !slicesEqual(bitmapToSlice(got), want) {
		t.Errorf("Intersect = %v, want %v", bitmapToSlice(got), want)
	}
}

func TestIntersect_NoSets(t *testing.T) {
	got := Intersect()
	if got.GetCardinality() != 0 {
		t.Errorf("expected empty bitmap for no sets, got cardinality %d", got.GetCardinality())
	}
}

func TestIntersect_DoesNotMutateInputs(t *testing.T) {
	a := bm(1, 2, 3)
	b := bm(2, 3)
	_ = Intersect(a, b)
	if !slicesEqual(bitmapToSlice(a), []int{1, 2, 3}) {
		t.Errorf("Intersect mutated its first input: %v", bitmapToSlice(a))
	}
}

func TestUnion_Basic(t *testing.T) {
	got := Union(bm(1, 2), bm(2, 3))
	want := []int{1, 2, 3}
	if !slicesEqual(bitmapToSlice(got), want) {
		t.Errorf("Union = %v, want %v", bitmapToSlice(got), want)
	}
}

func TestUnion_NoSets(t *testing.T) {
	got := Union()
	if got.GetCardinality() != 0 {
		t.Errorf("expected empty bitmap for no sets, got cardinality %d", got.GetCardinality())
	}
}

func TestComplement_Basic(t *testing.T) {
	got := Complement(bm(1, 3), 5)
	want := []int{0, 2, 4}
	if !slicesEqual(bitmapToSlice(got), want) {
		t.Errorf("Complement = %v, want %v", bitmapToSlice(got), want)
	}
}

func TestComplement_EmptySetIsUniverse(t *testing.T) {
	got := Complement(bm(), 3)
	want := []int{0, 1, 2}
	if !slicesEqual(bitmapToSlice(got), want) {
		t.Errorf("Complement of empty set = %v, want %v", bitmapToSlice(got), want)
	}
}

func bitmapToSlice(b *roaring.Bitmap) []int {
	if b == nil {
		return []int{}
	}
	out := make([]int, 0, b.GetCardinality())
	it := b.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}

func slicesEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
