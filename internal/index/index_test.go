package index

import (
	"math/rand"
	"slices"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertDense(t *testing.T, idx *PriorityIndex) {
	t.Helper()
	seen := make(map[string]bool)
	for rank, name := range idx.All() {
		assert.Equal(t, rank, idx.RankOf(name), name)
		got, ok := idx.NameAt(rank)
		assert.True(t, ok)
		assert.Equal(t, name, got)
		assert.False(t, seen[name], "duplicate %s", name)
		seen[name] = true
	}
	assert.Len(t, seen, idx.Len())
}

func TestPriorityIndex_IndexesNamesByRank(t *testing.T) {
	idx := New("a", "b", "c")

	assert.Equal(t, 3, idx.Len())
	assert.Equal(t, 1, idx.RankOf("a"))
	assert.Equal(t, 3, idx.RankOf("c"))
	assert.Equal(t, 0, idx.RankOf("z"))

	name, ok := idx.NameAt(2)
	assert.True(t, ok)
	assert.Equal(t, "b", name)

	_, ok = idx.NameAt(0)
	assert.False(t, ok)
	_, ok = idx.NameAt(4)
	assert.False(t, ok)
}

func TestPriorityIndex_NewDropsDuplicates(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, New("a", "b", "a").Names())
}

func TestPriorityIndex_Append(t *testing.T) {
	idx := New()
	rank, err := idx.Append("a")
	require.NoError(t, err)
	assert.Equal(t, 1, rank)
	rank, err = idx.Append("b")
	require.NoError(t, err)
	assert.Equal(t, 2, rank)
	assert.Equal(t, []string{"a", "b"}, idx.Names())
}

func TestPriorityIndex_RejectsNamesAlreadyPresent(t *testing.T) {
	idx := New("a", "b")

	_, err := idx.Append("a")
	assert.Error(t, err)
	_, err = idx.Insert("b", 1)
	assert.Error(t, err)

	assert.Equal(t, []string{"a", "b"}, idx.Names())
	assert.Equal(t, 1, idx.RankOf("a"))
	assert.Equal(t, 2, idx.RankOf("b"))
	assertDense(t, idx)
}

func TestPriorityIndex_Remove(t *testing.T) {
	tests := []struct {
		name   string
		remove string
		want   []string
	}{
		{"first", "a", []string{"b", "c", "d"}},
		{"middle", "b", []string{"a", "c", "d"}},
		{"last", "d", []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := New("a", "b", "c", "d")
			assert.True(t, idx.Remove(tt.remove))
			assert.Equal(t, tt.want, idx.Names())
			assert.Equal(t, 0, idx.RankOf(tt.remove))
			assertDense(t, idx)
		})
	}
}

func TestPriorityIndex_RemoveMissingNameReportsFalse(t *testing.T) {
	idx := New("a")
	assert.False(t, idx.Remove("z"))
	assert.Equal(t, []string{"a"}, idx.Names())
}

func TestPriorityIndex_AppendAfterRemove(t *testing.T) {
	idx := New("a", "b", "c")
	idx.Remove("b")
	rank, err := idx.Append("d")
	require.NoError(t, err)
	assert.Equal(t, 3, rank)
	assert.Equal(t, []string{"a", "c", "d"}, idx.Names())
}

func TestPriorityIndex_Insert(t *testing.T) {
	tests := []struct {
		name     string
		rank     int
		wantRank int
		want     []string
	}{
		{"at front", 1, 1, []string{"x", "a", "b", "c"}},
		{"in middle", 2, 2, []string{"a", "x", "b", "c"}},
		{"just after last", 4, 4, []string{"a", "b", "c", "x"}},
		{"clamped to first", -5, 1, []string{"x", "a", "b", "c"}},
		{"clamped to zero", 0, 1, []string{"x", "a", "b", "c"}},
		{"clamped to last", 99, 4, []string{"a", "b", "c", "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := New("a", "b", "c")
			rank, err := idx.Insert("x", tt.rank)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRank, rank)
			assert.Equal(t, tt.want, idx.Names())
			assertDense(t, idx)
		})
	}
}

func TestPriorityIndex_ChangeRank(t *testing.T) {
	tests := []struct {
		name string
		move string
		rank int
		want []string
	}{
		{"bottom to top", "e", 1, []string{"e", "a", "b", "c", "d"}},
		{"top to bottom", "a", 5, []string{"b", "c", "d", "e", "a"}},
		{"middle to top", "c", 1, []string{"c", "a", "b", "d", "e"}},
		{"middle to bottom", "c", 5, []string{"a", "b", "d", "e", "c"}},
		{"up in the middle", "d", 2, []string{"a", "d", "b", "c", "e"}},
		{"down in the middle", "b", 4, []string{"a", "c", "d", "b", "e"}},
		{"same rank", "c", 3, []string{"a", "b", "c", "d", "e"}},
		{"beyond the end", "a", 42, []string{"b", "c", "d", "e", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := New("a", "b", "c", "d", "e")
			rank, err := idx.ChangeRank(tt.move, tt.rank)
			require.NoError(t, err)
			assert.Equal(t, tt.want, idx.Names())
			assert.Equal(t, idx.RankOf(tt.move), rank)
			assertDense(t, idx)
		})
	}
}

func TestPriorityIndex_ChangeRankOfMissingNameFails(t *testing.T) {
	_, err := New("a").ChangeRank("z", 1)
	assert.Error(t, err)
}

func TestPriorityIndex_RenameKeepsRank(t *testing.T) {
	idx := New("a", "b", "c")

	require.NoError(t, idx.Rename("b", "bee"))

	assert.Equal(t, []string{"a", "bee", "c"}, idx.Names())
	assert.Equal(t, 2, idx.RankOf("bee"))
	assert.Equal(t, 0, idx.RankOf("b"))
}

func TestPriorityIndex_RenameFailures(t *testing.T) {
	idx := New("a", "b")
	assert.Error(t, idx.Rename("z", "y"))
	assert.Error(t, idx.Rename("a", "b"))
	assert.NoError(t, idx.Rename("a", "a"))
	assert.Equal(t, []string{"a", "b"}, idx.Names())
}

func TestPriorityIndex_NamesReturnsCopy(t *testing.T) {
	idx := New("a", "b")
	names := idx.Names()
	names[0] = "mutated"
	assert.Equal(t, []string{"a", "b"}, idx.Names())
}

func TestPriorityIndex_RanksStayDenseUnderRandomOperations(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	idx := New()
	var model []string

	for i := 0; i < 500; i++ {
		switch op := rng.Intn(4); {
		case op == 0 || len(model) == 0:
			name := "f" + strconv.Itoa(i)
			_, err := idx.Append(name)
			require.NoError(t, err)
			model = append(model, name)
		case op == 1:
			name := "f" + strconv.Itoa(i)
			rank := rng.Intn(len(model)+3) - 1
			got, err := idx.Insert(name, rank)
			require.NoError(t, err)
			model = slices.Insert(model, got-1, name)
		case op == 2:
			victim := model[rng.Intn(len(model))]
			idx.Remove(victim)
			model = slices.DeleteFunc(model, func(s string) bool { return s == victim })
		default:
			name := model[rng.Intn(len(model))]
			rank := rng.Intn(len(model)) + 1
			_, err := idx.ChangeRank(name, rank)
			require.NoError(t, err)
			model = slices.DeleteFunc(model, func(s string) bool { return s == name })
			model = slices.Insert(model, rank-1, name)
		}
		require.Equal(t, model, idx.Names())
		assertDense(t, idx)
	}
}
