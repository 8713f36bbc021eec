package core

// AddedMap returns the entries of b whose key is absent from a and not excluded, in b's order.
func AddedMap(a, b *Map, exclude ExcludeSet) []Entry {
	var added []Entry
	for _, e := range b.Entries() {
		if exclude.Contains(e.Key) || a.Has(e.Key) {
			continue
		}
		added = append(added, e)
	}
	return added
}

// ChangedMap returns the entries present in both maps whose value differs,
// reporting b's value.
func ChangedMap(a, b *Map, exclude ExcludeSet) []Entry {
	var changed []Entry
	for _, e := range b.Entries() {
		if exclude.Contains(e.Key) {
			continue
		}
		if old, ok := a.Get(e.Key); ok && old != e.Value {
			changed = append(changed, e)
		}
	}
	return changed
}

// FullDiffMap is AddedMap followed by ChangedMap.
func FullDiffMap(a, b *Map, exclude ExcludeSet) []Entry {
	return append(AddedMap(a, b, exclude), ChangedMap(a, b, exclude)...)
}

// DiffMap selects the diff set for mode.
func DiffMap(mode CompareMode, a, b *Map, exclude ExcludeSet) []Entry {
	switch mode {
	case CompareChanged:
		return ChangedMap(a, b, exclude)
	case CompareFullDiff:
		return FullDiffMap(a, b, exclude)
	default:
		return AddedMap(a, b, exclude)
	}
}

// AddedList returns the entries of b whose key never appears in a.
// Repeated keys in b are reported as often as they occur.
func AddedList(a, b List, exclude ExcludeSet) List {
	base := make(map[string]struct{}, len(a))
	for _, e := range a {
		base[e.Key] = struct{}{}
	}

	var added List
	for _, e := range b {
		if _, ok := base[e.Key]; ok || exclude.Contains(e.Key) {
			continue
		}
		added = append(added, e)
	}
	return added
}

// ChangedList returns the entries of b whose value differs from a's.
// Only the first occurrence of a key in b is considered; when a repeats a
// key, its last occurrence is the one compared against.
func ChangedList(a, b List, exclude ExcludeSet) List {
	base := make(map[string]string, len(a))
	for _, e := range a {
		base[e.Key] = e.Value
	}

	seen := make(map[string]struct{}, len(b))
	var changed List
	for _, e := range b {
		if exclude.Contains(e.Key) {
			continue
		}
		if _, dup := seen[e.Key]; dup {
			continue
		}
		seen[e.Key] = struct{}{}

		if old, ok := base[e.Key]; ok && old != e.Value {
			changed = append(changed, e)
		}
	}
	return changed
}

// FullDiffList is AddedList followed by ChangedList.
func FullDiffList(a, b List, exclude ExcludeSet) List {
	return append(AddedList(a, b, exclude), ChangedList(a, b, exclude)...)
}

// DiffList selects the diff set for mode.
func DiffList(mode CompareMode, a, b List, exclude ExcludeSet) List {
	switch mode {
	case CompareChanged:
		return ChangedList(a, b, exclude)
	case CompareFullDiff:
		return FullDiffList(a, b, exclude)
	default:
		return AddedList(a, b, exclude)
	}
}
