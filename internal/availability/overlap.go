package availability

// RangesOverlap reports whether two half-open time intervals intersect.
// Both operands are normalized to HH:MM:SS before the lexicographic
// comparison, so a caller may mix HH:MM and HH:MM:SS forms freely.
//
// Intervals that merely touch at a boundary do not overlap: a 09:00-10:00
// appointment and a 10:00-11:00 appointment are back to back, not in
// conflict.
func RangesOverlap(start1, end1, start2, end2 string) bool {
	s1, e1 := NormalizeTime(start1), NormalizeTime(end1)
	s2, e2 := NormalizeTime(start2), NormalizeTime(end2)
	return s1 < e2 && e1 > s2
}
