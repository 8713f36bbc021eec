package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestDiffMap(t *testing.T) {
	empty := NewMap(0)
	x1 := MapOf(Entry{Key: "x", Value: "1"})
	x2 := MapOf(Entry{Key: "x", Value: "2"})

	assert.Equal(t, []Entry{{Key: "x", Value: "1"}}, AddedMap(empty, x1, nil))
	assert.Equal(t, []Entry{{Key: "x", Value: "2"}}, ChangedMap(x1, x2, nil))
	assert.Empty(t, AddedMap(x1, x1, NewExcludeSet("x")))
	assert.Empty(t, ChangedMap(x1, x2, NewExcludeSet("x")))
	assert.Empty(t, ChangedMap(x1, x1, nil))
	assert.Empty(t, AddedMap(nil, nil, nil))

	t.Run("Full Diff Is Added Then Changed", func(t *testing.T) {
		a := MapOf(
			Entry{Key: "keep", Value: "same"},
			Entry{Key: "edit", Value: "before"},
			Entry{Key: "gone", Value: "removed later"},
		)
		b := MapOf(
			Entry{Key: "edit", Value: "after"},
			Entry{Key: "new1", Value: "n1"},
			Entry{Key: "keep", Value: "same"},
			Entry{Key: "new2", Value: "n2"},
			Entry{Key: "skip", Value: "s"},
		)
		exclude := NewExcludeSet("skip")

		added := AddedMap(a, b, exclude)
		changed := ChangedMap(a, b, exclude)
		full := FullDiffMap(a, b, exclude)

		want := []Entry{
			{Key: "new1", Value: "n1"},
			{Key: "new2", Value: "n2"},
			{Key: "edit", Value: "after"},
		}
		if diff := cmp.Diff(want, full); diff != "" {
			t.Errorf("full diff mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, append(added, changed...), full)

		for _, e := range added {
			assert.NotContains(t, changed, e, "added and changed overlap")
		}

		assert.Equal(t, added, DiffMap(CompareAdded, a, b, exclude))
		assert.Equal(t, changed, DiffMap(CompareChanged, a, b, exclude))
		assert.Equal(t, full, DiffMap(CompareFullDiff, a, b, exclude))
	})
}

func TestDiffList(t *testing.T) {
	a := List{
		{Key: "dup", Value: "first"},
		{Key: "same", Value: "v"},
		{Key: "dup", Value: "last"},
	}
	b := List{
		{Key: "new", Value: "1"},
		{Key: "dup", Value: "last"},
		{Key: "same", Value: "changed"},
		{Key: "dup", Value: "other"},
		{Key: "new", Value: "2"},
	}

	t.Run("Added Folds Keys Of A", func(t *testing.T) {
		want := List{{Key: "new", Value: "1"}, {Key: "new", Value: "2"}}
		assert.Equal(t, want, AddedList(a, b, nil))
		assert.Empty(t, AddedList(a, b, NewExcludeSet("new")))
	})

	t.Run("Changed Keeps First Occurrence In B", func(t *testing.T) {
		// b's first "dup" matches a's last "dup"; its second one is ignored.
		want := List{{Key: "same", Value: "changed"}}
		assert.Equal(t, want, ChangedList(a, b, nil))
	})

	t.Run("Full Diff", func(t *testing.T) {
		want := List{
			{Key: "new", Value: "1"},
			{Key: "new", Value: "2"},
			{Key: "same", Value: "changed"},
		}
		assert.Equal(t, want, FullDiffList(a, b, nil))
		assert.Equal(t, want, DiffList(CompareFullDiff, a, b, nil))
		assert.Equal(t, AddedList(a, b, nil), DiffList(CompareAdded, a, b, nil))
		assert.Equal(t, ChangedList(a, b, nil), DiffList(CompareChanged, a, b, nil))
	})
}
