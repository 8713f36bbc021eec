package core

import "slices"

// SortMap returns a copy of m ordered by NaturalCompare on keys.
func SortMap(m *Map) *Map {
	entries := m.Entries()
	slices.SortStableFunc(entries, compareEntries)
	return MapOf(entries...)
}

// SortList returns a copy of l ordered by NaturalCompare on keys.
// Entries with equal keys keep their relative order.
func SortList(l List) List {
	sorted := slices.Clone(l)
	slices.SortStableFunc(sorted, compareEntries)
	return sorted
}

// SortMapStrict is SortMap but fails with ErrNumericOverflow on oversized digit runs.
func SortMapStrict(m *Map) (*Map, error) {
	entries := m.Entries()
	if err := sortStrict(entries); err != nil {
		return nil, err
	}
	return MapOf(entries...), nil
}

// SortListStrict is SortList but fails with ErrNumericOverflow on oversized digit runs.
func SortListStrict(l List) (List, error) {
	sorted := slices.Clone(l)
	if err := sortStrict(sorted); err != nil {
		return nil, err
	}
	return sorted, nil
}

func compareEntries(a, b Entry) int {
	return NaturalCompare(a.Key, b.Key)
}

func sortStrict(entries []Entry) error {
	var failure error
	slices.SortStableFunc(entries, func(a, b Entry) int {
		c, err := NaturalCompareStrict(a.Key, b.Key)
		if err != nil && failure == nil {
			failure = err
		}
		return c
	})
	return failure
}
