package Trees

import (
	"iter"
	"math/bits"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

// RBTree is a red-black tree of unique integer keys where every node also
// records the size of its subtree, so that RankOf and Select run in O(log n)
// besides the usual Insert and Has.
// T is the type of the keys, S is the type used for slot indexes and subtree
// sizes; S must be wide enough to index every node plus the nil slot, Insert
// panics with ErrCapacity otherwise.
// Nodes live in an arena addressed by S, parent links are plain indexes and
// never own anything.
// The height of the tree never exceeds 2*log2(n+1).
// RBTree shouldn't be created directly using struct literal, use New or From.
// It isn't safe for concurrent use.
type RBTree[T constraints.Integer, S constraints.Unsigned] struct {
	base[T, S]
}

// New empty tree with room for hint keys before the arena grows.
func New[T constraints.Integer, S constraints.Unsigned](hint S) *RBTree[T, S] {
	return &RBTree[T, S]{makeBase[T, S](hint)}
}

// From a given strictly increasing key array, directly build a balanced tree in O(n). The array is handed to the tree and it
// mustn't be modified by the caller later. Returns ErrUnsorted if some key isn't greater than the one before it.
func From[T constraints.Integer, S constraints.Unsigned](vs []T) (*RBTree[T, S], error) {
	for i := 1; i < len(vs); i++ {
		if vs[i-1] >= vs[i] {
			return nil, errors.Wrapf(ErrUnsorted, "keys[%d]=%d is followed by %d", i-1, vs[i-1], vs[i])
		}
	}
	if uint64(len(vs)) > uint64(^S(0)) {
		return nil, errors.Wrapf(ErrCapacity, "%d keys don't fit in a %d bit index", len(vs), bits.Len64(uint64(^S(0))))
	}
	root, ifs := buildIfs(S(len(vs)), make([][4]S, 0, bits.Len(uint(len(vs)))+1))
	return &RBTree[T, S]{base[T, S]{root: root, ifs: ifs, vs: vs}}, nil
}

// Insert v to the tree. Returns false, without modifying anything, if v is already present.
// Time: O(log n)
func (u *RBTree[T, S]) Insert(v T) bool {
	var pi S
	for curI := u.root; curI != 0; {
		pi = curI
		if cv := *u.getV(curI); v < cv {
			curI = u.ifs[curI].l
		} else if v > cv {
			curI = u.ifs[curI].r
		} else {
			return false
		}
	}

	ni := u.alloc(v)
	u.ifs[ni].p = pi
	if pi == 0 {
		u.root = ni
	} else if v < *u.getV(pi) {
		u.ifs[pi].l = ni
	} else {
		u.ifs[pi].r = ni
	}
	// sizes are only bumped once the new node is in place.
	for ai := pi; ai != 0; ai = u.ifs[ai].p {
		u.ifs[ai].sz++
	}

	u.fixupFrom(ni)
	return true
}

// fixupFrom restores the red-black properties after ni was spliced in as a black node.
// A black node together with its red children is one node of a 2-3-4 tree; ni is being added to the 2-3-4 node its parent belongs to.
//
//	    G
//	   / \
//	  P   A
//	 / \
//	N   S
//
// ni is black whenever the loop starts: it is either new, or a grandparent that was black before its 4-node was split.
func (u *RBTree[T, S]) fixupFrom(ni S) {
	for {
		pi := u.ifs[ni].p
		if pi == 0 {
			return // the root stays black.
		}
		gi := u.ifs[pi].p

		switch u.ifs[pi].c {
		case BLACK:
			// P is a 2-node, or a 3-node whose red key is S. Either way N joins it as a red key.
			u.ifs[ni].c = RED
			return
		case RED:
			ai := u.siblingOf(pi)
			if u.ifs[ai].c == BLACK { // also when there's no aunt.
				// P is part of a 3-node rooted at G.
				if (u.ifs[pi].l == ni) != (u.ifs[gi].l == pi) {
					// zig-zag: N becomes the black middle of the 3 keys.
					u.rotateWithParent(ni)
					u.rotateWithParent(ni)
					u.ifs[gi].c = RED
				} else {
					// zig-zig: P becomes the black middle.
					u.rotateWithParent(pi)
					u.ifs[pi].c = BLACK
					u.ifs[ni].c = RED
					u.ifs[gi].c = RED
				}
				return
			}
			// P and A are the red keys of a 4-node rooted at G. Split it and push G up into the node above.
			u.ifs[pi].c, u.ifs[ai].c, u.ifs[ni].c = BLACK, BLACK, RED
			ni = gi
			continue
		default:
			panic(&InvariantError{Op: "fixup", Slot: uint64(pi), Reason: "unknown color " + u.ifs[pi].c.String()})
		}
	}
}

// Has element v.
// Time: O(log n); Space: O(1)
func (u *RBTree[T, S]) Has(v T) bool {
	for curI := u.root; curI != 0; {
		if cv := *u.getV(curI); v < cv {
			curI = u.ifs[curI].l
		} else if v > cv {
			curI = u.ifs[curI].r
		} else {
			return true
		}
	}
	return false
}

// RankOf v, starting from 0: the number of keys less than v. If v isn't found, returns the rank as if v is added to the tree.
// Returns ErrEmptyTree on an empty tree.
// Time: O(log n); Space: O(1)
func (u *RBTree[T, S]) RankOf(v T) (S, error) {
	if u.root == 0 {
		return 0, ErrEmptyTree
	}
	var ra S = 0
	for curI := u.root; curI != 0; {
		if cur := u.getIf(curI); v < *u.getV(curI) {
			curI = cur.l
		} else if v > *u.getV(curI) {
			ra += u.ifs[cur.l].sz + 1
			curI = cur.r
		} else {
			return ra + u.ifs[cur.l].sz, nil
		}
	}
	return ra, nil
}

// Select the key at rank k, starting from 0, so Select(0) is the minimum.
// Returns ErrEmptyTree on an empty tree and ErrRankOutOfRange when k >= Size().
// Time: O(log n); Space: O(1)
func (u *RBTree[T, S]) Select(k S) (T, error) {
	if u.root == 0 {
		return 0, ErrEmptyTree
	}
	if sz := u.Size(); k >= sz {
		return 0, errors.Wrapf(ErrRankOutOfRange, "rank %d in a tree of %d keys", k, sz)
	}
	for curI := u.root; curI != 0; {
		if li := u.ifs[curI].l; k < u.ifs[li].sz {
			curI = li
		} else if k > u.ifs[li].sz {
			k -= u.ifs[li].sz + 1
			curI = u.ifs[curI].r
		} else {
			return *u.getV(curI), nil
		}
	}
	panic(&InvariantError{Op: "select", Slot: uint64(u.root), Reason: "subtree sizes don't add up"})
}

// Minimum element of the tree.
// Time: O(log n); Space: O(1)
func (u *RBTree[T, S]) Minimum() (T, bool) {
	if curI := u.root; curI == 0 {
		return 0, false
	} else {
		for u.ifs[curI].l != 0 {
			curI = u.ifs[curI].l
		}
		return *u.getV(curI), true
	}
}

// Maximum element of the tree.
// Time: O(log n); Space: O(1)
func (u *RBTree[T, S]) Maximum() (T, bool) {
	if curI := u.root; curI == 0 {
		return 0, false
	} else {
		for u.ifs[curI].r != 0 {
			curI = u.ifs[curI].r
		}
		return *u.getV(curI), true
	}
}

// Predecessor of v. If strict is true, result<v if found; otherwise, result<=v.
func (u *RBTree[T, S]) Predecessor(v T, strict bool) (p T, found bool) {
	for curI := u.root; curI != 0; {
		if cv := *u.getV(curI); v < cv || (strict && v == cv) {
			curI = u.ifs[curI].l
		} else {
			p, found = cv, true
			curI = u.ifs[curI].r
		}
	}
	return
}

// Successor of v. If strict is true, result>v if found; otherwise, result>=v.
func (u *RBTree[T, S]) Successor(v T, strict bool) (p T, found bool) {
	for curI := u.root; curI != 0; {
		if cv := *u.getV(curI); v > cv || (strict && v == cv) {
			curI = u.ifs[curI].r
		} else {
			p, found = cv, true
			curI = u.ifs[curI].l
		}
	}
	return
}

// All keys in ascending order. Uses the stack based traversal, so the loop body may read the tree, but mustn't modify it.
func (u *RBTree[T, S]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		u.InOrder(yield, make([]S, 0, 2*bits.Len64(uint64(u.Size()))+1))
	}
}
