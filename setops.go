package infopoisk

import "github.com/RoaringBitmap/roaring"

// ═══════════════════════════════════════════════════════════════════════════════
// SET ENGINE
// ═══════════════════════════════════════════════════════════════════════════════
// Thin wrapper over roaring.Bitmap set algebra. Every posting list in this
// engine is already a *roaring.Bitmap (see Builder), so intersection, union,
// and complement are just roaring.And/Or/AndNot — no hand-rolled two-pointer
// merge code is needed, unlike the original's intersect_sets/union_sets/
// complement_set, which operated on plain sorted vectors.
// ═══════════════════════════════════════════════════════════════════════════════

// Intersect returns the bitmap of doc-ids present in every operand.
func Intersect(sets ...*roaring.Bitmap) *roaring.Bitmap {
	if len(sets) == 0 {
		return roaring.New()
	}
	result := sets[0].Clone()
	for _, s := range sets[1:] {
		result.And(s)
	}
	return result
}

// Union returns the bitmap of doc-ids present in any operand.
func Union(sets ...*roaring.Bitmap) *roaring.Bitmap {
	if len(sets) == 0 {
		return roaring.New()
	}
	result := sets[0].Clone()
	for _, s := range sets[1:] {
		result.Or(s)
	}
	return result
}

// Complement returns every doc-id in [0, docCount) not present in set —
// the universe for negation is the full range of known doc-ids, matching
// the original's complement_set, which iterated all_documents rather than
// treating NOT as an open-ended predicate.
func Complement(set *roaring.Bitmap, docCount uint32) *roaring.Bitmap {
	universe := roaring.New()
	universe.AddRange(0, uint64(docCount))
	return roaring.AndNot(universe, set)
}
