package Trees

import (
	"fmt"

	"github.com/g-m-twostay/ostree"
)

// Verify walks the whole tree and returns a *CorruptError describing the first violated property, or nil. Checked are: keys in
// search tree order, a black root, no red node with a red child, the same number of black nodes on every path down to a missing
// child, subtree sizes, parent links, and that no slot is reachable twice. Recursive.
// Time: O(n); Space: O(n/64+log n)
func (u *RBTree[T, S]) Verify() error {
	if u.ifs[0] != (info[S]{}) {
		return &CorruptError{0, "nil slot was written to"}
	}
	if u.root == 0 {
		return nil
	}
	if u.ifs[u.root].p != 0 {
		return &CorruptError{uint64(u.root), "root has a parent"}
	}
	if u.ifs[u.root].c != BLACK {
		return &CorruptError{uint64(u.root), "root is red"}
	}
	_, err := u.verify(u.root, ostree.NewBitArray(len(u.ifs)), nil, nil)
	return err
}

// Corrupt returns whether Verify finds a problem.
func (u *RBTree[T, S]) Corrupt() bool {
	return u.Verify() != nil
}

// verify the subtree at curI whose keys must lie strictly between lo and hi (nil when unbounded). Returns its black height.
func (u *RBTree[T, S]) verify(curI S, seen ostree.BitArray, lo, hi *T) (int, error) {
	if curI == 0 {
		return 1, nil
	}
	if int(curI) >= len(u.ifs) {
		return 0, &CorruptError{uint64(curI), "index past the end of the arena"}
	}
	if seen.Mark(int(curI)) {
		return 0, &CorruptError{uint64(curI), "reachable twice"}
	}
	cur, v := u.ifs[curI], u.getV(curI)
	if (lo != nil && *v <= *lo) || (hi != nil && *v >= *hi) {
		return 0, &CorruptError{uint64(curI), fmt.Sprintf("key %d out of order", *v)}
	}
	for _, ci := range [2]S{cur.l, cur.r} {
		if ci == 0 {
			continue
		}
		if int(ci) < len(u.ifs) && u.ifs[ci].p != curI {
			return 0, &CorruptError{uint64(ci), fmt.Sprintf("parent is %d, want %d", u.ifs[ci].p, curI)}
		}
		if cur.c == RED && int(ci) < len(u.ifs) && u.ifs[ci].c == RED {
			return 0, &CorruptError{uint64(ci), "red node under a red parent"}
		}
	}
	lh, err := u.verify(cur.l, seen, lo, v)
	if err != nil {
		return 0, err
	}
	rh, err := u.verify(cur.r, seen, v, hi)
	if err != nil {
		return 0, err
	}
	if lh != rh {
		return 0, &CorruptError{uint64(curI), fmt.Sprintf("black height %d on the left, %d on the right", lh, rh)}
	}
	if want := u.ifs[cur.l].sz + u.ifs[cur.r].sz + 1; cur.sz != want {
		return 0, &CorruptError{uint64(curI), fmt.Sprintf("size %d, want %d", cur.sz, want)}
	}
	if cur.c == BLACK {
		lh++
	}
	return lh, nil
}
