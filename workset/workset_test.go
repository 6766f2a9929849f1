package workset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegasq/colq/heap"
)

func TestBuild_ColumnMapping(t *testing.T) {
	ws, err := Build([]string{"first", "second", "third"}, [][]string{{"a", "b", "c"}})
	require.NoError(t, err)

	for i, name := range []string{"first", "second", "third"} {
		idx, ok := ws.Column(name)
		require.True(t, ok, name)
		assert.Equal(t, i, idx)
	}
	assert.Equal(t, []string{"first", "second", "third"}, ws.Columns())
	assert.Equal(t, 3, ws.Width())
	assert.Equal(t, 1, ws.Len())
}

func TestBuild_TrimsHeaderAndCells(t *testing.T) {
	ws, err := Build([]string{" name ", " age ", " city "}, [][]string{{" Alice ", "25", "NYC "}})
	require.NoError(t, err)

	_, ok := ws.Column(" name ")
	assert.False(t, ok)

	idx, ok := ws.Column("name")
	require.True(t, ok)
	v, err := ws.Cell(0, idx)
	require.NoError(t, err)
	assert.Equal(t, "Alice", string(v))

	idx, _ = ws.Column("city")
	v, err = ws.Cell(0, idx)
	require.NoError(t, err)
	assert.Equal(t, "NYC", string(v))
}

func TestBuild_ValuesPreserved(t *testing.T) {
	ws, err := Build([]string{"name", "score"}, [][]string{
		{"Alice", "100"},
		{"Bob", "95"},
	})
	require.NoError(t, err)

	want := [][]string{{"Alice", "100"}, {"Bob", "95"}}
	for row := range want {
		for col := range want[row] {
			v, err := ws.Cell(row, col)
			require.NoError(t, err)
			assert.Equal(t, want[row][col], string(v))
		}
	}
}

func TestBuild_DuplicateHeaderOverwrites(t *testing.T) {
	ws, err := Build([]string{"a", "b", "a"}, [][]string{{"1", "2", "3"}})
	require.NoError(t, err)

	idx, ok := ws.Column("a")
	require.True(t, ok)
	assert.Equal(t, 2, idx)
	assert.Equal(t, 3, ws.Width())

	v, err := ws.Cell(0, idx)
	require.NoError(t, err)
	assert.Equal(t, "3", string(v))
}

func TestBuild_Errors(t *testing.T) {
	_, err := Build(nil, nil)
	assert.ErrorIs(t, err, ErrEmptyHeader)

	_, err = Build([]string{"a", "b"}, [][]string{{"1", "2"}, {"1"}})
	assert.ErrorIs(t, err, ErrRaggedRow)

	_, err = Build([]string{"a"}, [][]string{{strings.Repeat("x", heap.BlockDataSize+1)}})
	assert.ErrorIs(t, err, heap.ErrValueTooLarge)
}

func TestWorkingSet_ColumnIsolation(t *testing.T) {
	ws, err := Build([]string{"a", "b"}, [][]string{
		{"alpha", "bravo"},
		{"apple", "berry"},
	})
	require.NoError(t, err)

	for row := 0; row < ws.Len(); row++ {
		refA, err := ws.Ref(row, 0)
		require.NoError(t, err)
		refB, err := ws.Ref(row, 1)
		require.NoError(t, err)

		// Same positions in both pools.
		require.Equal(t, refA.Handle.Block(), refB.Handle.Block())
		require.Equal(t, refA.Handle.Start(), refB.Handle.Start())

		// A's handle read through B's pool never yields A's value.
		crossed, err := ws.Read(Ref{Column: 1, Handle: refA.Handle})
		require.NoError(t, err)
		valueA, err := ws.Read(refA)
		require.NoError(t, err)
		assert.NotEqual(t, string(valueA), string(crossed))
		assert.Equal(t, []string{"bravo", "berry"}[row], string(crossed))
	}
}

func TestWorkingSet_OutOfRange(t *testing.T) {
	ws, err := Build([]string{"a"}, [][]string{{"1"}})
	require.NoError(t, err)

	_, err = ws.Ref(1, 0)
	assert.ErrorIs(t, err, ErrRowOutOfRange)
	_, err = ws.Ref(0, 1)
	assert.ErrorIs(t, err, ErrColumnOutOfRange)
	_, err = ws.Read(Ref{Column: -1})
	assert.ErrorIs(t, err, ErrColumnOutOfRange)
	assert.Equal(t, "", ws.Name(5))
}

func TestWorkingSet_ForeignHandleIsNotFound(t *testing.T) {
	ws, err := Build([]string{"big", "small"}, nil)
	require.NoError(t, err)

	other := heap.NewPool()
	for i := 0; i < 3; i++ {
		_, err := other.Allocate(make([]byte, heap.BlockDataSize))
		require.NoError(t, err)
	}
	h, err := other.Allocate([]byte("x"))
	require.NoError(t, err)

	_, err = ws.Read(Ref{Column: 0, Handle: h})
	assert.ErrorIs(t, err, heap.ErrNotFound)
}

func TestBuilder_Incremental(t *testing.T) {
	b, err := NewBuilder([]string{"k", "v"})
	require.NoError(t, err)

	for i := 0; i < 1000; i++ {
		require.NoError(t, b.Append([]string{"key", strings.Repeat("v", 100)}))
	}
	assert.Equal(t, 1000, b.Len())

	ws := b.Finish()
	assert.Equal(t, 1000, ws.Len())

	stats := ws.Stats()
	require.Len(t, stats, 2)
	assert.Equal(t, "v", stats[1].Name)
	assert.Equal(t, 100*1000, stats[1].UsedBytes)
	assert.Greater(t, stats[1].Blocks, 1)

	v, err := ws.Cell(999, 1)
	require.NoError(t, err)
	assert.Len(t, v, 100)
}

func TestBuild_NoRows(t *testing.T) {
	ws, err := Build([]string{"name", "age"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, ws.Len())
	assert.Equal(t, 2, ws.Width())
}
