package Trees

import (
	"bytes"
	"slices"
	"testing"

	"github.com/fatih/color"
	"github.com/g-m-twostay/ostree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// freeSlots walks the free list, failing if a slot shows up twice.
func (u *base[T, S]) freeSlots(t *testing.T) int {
	t.Helper()
	seen := ostree.NewBitArray(len(u.ifs))
	for a := u.free; a != 0; a = u.ifs[a].l {
		require.False(t, seen.Mark(int(a)), "slot %d released twice", a)
	}
	return seen.Count()
}

func TestDispose(t *testing.T) {
	for _, n := range []int{0, 1, 2, 3, 10, 1000, 100000} {
		tree := New[int, uint32](0)
		for _, k := range rg.Perm(n) {
			tree.Insert(k)
		}
		released := tree.Dispose()
		require.EqualValues(t, n, released)
		require.Zero(t, tree.Size())
		require.Zero(t, tree.root)
		require.Equal(t, n, tree.freeSlots(t))
		for i, v := range tree.vs {
			require.Zero(t, v, "key left in slot %d", i+1)
		}
		require.NoError(t, tree.Verify())
	}
}

func TestDispose_Vine(t *testing.T) {
	// a left leaning chain is the tallest shape the loop can meet.
	const n = 1 << 16
	u := makeBase[int, uint32](n)
	for i := range n {
		u.alloc(n - i)
		if i > 0 {
			u.ifs[i].l = uint32(i + 1)
			u.ifs[i+1].p = uint32(i)
		}
	}
	u.root = 1
	require.EqualValues(t, n, u.Dispose())
	require.Equal(t, n, u.freeSlots(t))
}

func TestDispose_Allocs(t *testing.T) {
	tree := New[int, uint32](0)
	perm := rg.Perm(10000)
	for _, k := range perm {
		tree.Insert(k)
	}
	tree.Dispose()
	allocs := testing.AllocsPerRun(10, func() {
		for _, k := range perm {
			tree.Insert(k)
		}
		if tree.Dispose() != uint32(len(perm)) {
			t.Fail()
		}
	})
	require.Zero(t, allocs)
	require.Len(t, tree.vs, len(perm))
}

func TestDispose_Reuse(t *testing.T) {
	tree := New[int, uint16](0)
	for _, k := range rg.Perm(500) {
		tree.Insert(k)
	}
	tree.Dispose()
	content := make(map[int]struct{})
	for range 800 {
		k := rg.Intn(1000)
		tree.Insert(k)
		content[k] = struct{}{}
	}
	require.NoError(t, tree.Verify())
	require.EqualValues(t, len(content), tree.Size())
	require.Equal(t, max(500, len(content)), len(tree.vs))
	for k := range content {
		require.True(t, tree.Has(k))
	}
}

func TestClear(t *testing.T) {
	tree := New[int, uint32](0)
	for _, k := range rg.Perm(100) {
		tree.Insert(k + 1)
	}
	vs := tree.vs
	tree.Clear(true)
	assert.Zero(t, tree.Size())
	assert.Empty(t, tree.vs)
	for _, v := range vs {
		require.Zero(t, v)
	}
	assert.True(t, tree.Insert(7))
	assert.NoError(t, tree.Verify())
}

func TestInOrder(t *testing.T) {
	tree := New[int, uint32](1)
	content := make(map[int]struct{})
	for range tAddN {
		b := rg.Intn(tAddValRange)
		tree.Insert(b)
		content[b] = struct{}{}
	}
	ifs := slices.Clone(tree.ifs)
	for range 10 {
		var s []int
		tree.InOrder(func(v int) bool {
			s = append(s, v)
			return rg.Intn(int(tree.Size()/2)) != 0
		}, nil)
		require.Equal(t, ifs, tree.ifs, "threads left behind")
		for _, v := range s {
			if _, in := content[v]; !in {
				t.Errorf("sorted has non existent key %v", v)
			}
		}
		require.True(t, slices.IsSorted(s))
	}
	for _, st := range [][]uint32{nil, make([]uint32, 0)} {
		var s []int
		tree.InOrder(func(v int) bool {
			s = append(s, v)
			return true
		}, st)
		require.Len(t, s, len(content))
		require.True(t, slices.IsSorted(s))
		for _, v := range s {
			_, in := content[v]
			require.True(t, in)
		}
	}
	require.Equal(t, ifs, tree.ifs)
}

func TestFrom(t *testing.T) {
	for n := range 300 {
		vs := make([]int, n)
		for i := range vs {
			vs[i] = 3 * i
		}
		tree, err := From[int, uint16](slices.Clone(vs))
		require.NoError(t, err)
		require.NoError(t, tree.Verify(), "size %d", n)
		require.EqualValues(t, n, tree.Size())
		if n > 0 {
			require.Equal(t, vs, tree.keys())
		}
		k := rg.Intn(3*n + 1)
		_, in := slices.BinarySearch(vs, k)
		require.Equal(t, !in, tree.Insert(k))
		require.NoError(t, tree.Verify(), "size %d after inserting %d", n, k)
	}
}

func TestFrom_Unsorted(t *testing.T) {
	for _, vs := range [][]int{{1, 1}, {2, 1}, {1, 2, 3, 3}} {
		_, err := From[int, uint32](vs)
		require.ErrorIs(t, err, ErrUnsorted, "%v", vs)
	}
}

func TestCapacity(t *testing.T) {
	vs := make([]int, 256)
	for i := range vs {
		vs[i] = i
	}
	_, err := From[int, uint8](vs)
	require.ErrorIs(t, err, ErrCapacity)

	tree, err := From[int, uint8](vs[:255])
	require.NoError(t, err)
	require.NoError(t, tree.Verify())
	require.False(t, tree.Insert(3))
	require.Panics(t, func() { tree.Insert(1000) })
}

func TestFprint(t *testing.T) {
	color.NoColor = true
	tree := New[int, uint32](0)
	for _, k := range []int{10, 20, 30} {
		tree.Insert(k)
	}
	var buf bytes.Buffer
	require.NoError(t, tree.Dump(&buf))
	assert.Equal(t, `Node       2
Color:     BLACK
Key:       20
Size:      3
Left Child:
    Node       1
    Color:     RED
    Key:       10
    Size:      1
    Left Child:
        null
    Right Child:
        null
Right Child:
    Node       3
    Color:     RED
    Key:       30
    Size:      1
    Left Child:
        null
    Right Child:
        null
`, buf.String())

	buf.Reset()
	require.NoError(t, tree.Fprint(&buf, tree.ifs[tree.Root()].r, 2))
	assert.Equal(t, "  Node       3\n  Color:     RED\n  Key:       30\n  Size:      1\n  Left Child:\n      null\n  Right Child:\n      null\n", buf.String())

	buf.Reset()
	require.NoError(t, New[int, uint32](0).Dump(&buf))
	assert.Equal(t, "null\n", buf.String())
}
