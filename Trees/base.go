package Trees

import (
	"math/bits"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

type base[T any, S constraints.Unsigned] struct {
	root, free S         // free is the beginning of the linked list that contains all the released indexes; info[S]::l represents next.
	ifs        []info[S] // ifs[0] is the nil slot. all indexes are based on ifs.
	vs         []T       // vs[i-1] corresponds to ifs[i]. len(vs)=len(ifs)-1
}

func makeBase[T any, S constraints.Unsigned](hint S) base[T, S] {
	return base[T, S]{ifs: make([]info[S], 1, int(hint)+1), vs: make([]T, 0, hint)}
}

func (u *base[T, S]) getIf(i S) *info[S] {
	return &u.ifs[i]
}

func (u *base[T, S]) getV(i S) *T {
	return &u.vs[i-1]
}

// addFree index once.
func (u *base[T, S]) addFree(a S) {
	u.ifs[a].l = u.free
	u.free = a
}

// popFree index once. Returns 0 when there's no free index(when u.free==0).
func (u *base[T, S]) popFree() S {
	b := u.free
	u.free = u.ifs[u.free].l
	return b
}

// alloc a detached black slot of size 1 holding v. Released slots are reused before the arrays grow.
// Pointers returned by getIf and getV before the call may be invalidated.
func (u *base[T, S]) alloc(v T) S {
	if i := u.popFree(); i != 0 {
		u.ifs[i] = info[S]{sz: 1}
		u.vs[i-1] = v
		return i
	}
	i := S(len(u.ifs))
	if int(i) != len(u.ifs) {
		panic(errors.Wrapf(ErrCapacity, "%d slots don't fit in a %d bit index", len(u.ifs), bits.Len64(uint64(^S(0)))))
	}
	u.ifs = append(u.ifs, info[S]{sz: 1})
	u.vs = append(u.vs, v)
	return i
}

// rotateWithParent promotes ni above its parent: a right rotation when ni is a left child, a left rotation otherwise.
// Sizes and parent links are repaired; colors are left alone.
// Time: O(1); Space: O(1)
func (u *base[T, S]) rotateWithParent(ni S) {
	n := &u.ifs[ni]
	pi := n.p
	if pi == 0 {
		panic(&InvariantError{Op: "rotate", Slot: uint64(ni), Reason: "node has no parent"})
	}
	p := &u.ifs[pi]

	// the middle child crosses over to the old parent.
	var mi S
	if p.l == ni {
		mi = n.r
		n.r = pi
		p.l = mi
	} else {
		mi = n.l
		n.l = pi
		p.r = mi
	}

	gi := p.p
	if gi == 0 {
		u.root = ni
	} else if g := &u.ifs[gi]; g.l == pi {
		g.l = ni
	} else {
		g.r = ni
	}

	if mi != 0 {
		u.ifs[mi].p = pi
	}
	n.p, p.p = gi, ni

	// n now roots everything p used to root. p must be recomputed from its new children afterwards, not before.
	n.sz = p.sz
	p.sz = u.ifs[p.l].sz + u.ifs[p.r].sz + 1
}

// siblingOf ni is the other child of its parent, or 0 if ni has no parent.
func (u *base[T, S]) siblingOf(ni S) S {
	pi := u.ifs[ni].p
	if pi == 0 {
		return 0
	}
	if p := &u.ifs[pi]; p.l == ni {
		return p.r
	} else {
		return p.l
	}
}

// Dispose releases every node of the tree and returns how many were released. The released slots are reused by later insertions.
// Dispose is iterative and uses O(1) memory however tall the tree is: while the root has a left child, the left child is rotated
// above it (without maintaining colors or sizes); once it has none, the root is released and its right child takes its place.
// Time: O(n); Space: O(1)
func (u *base[T, S]) Dispose() (released S) {
	for u.root != 0 {
		if root := &u.ifs[u.root]; root.l == 0 {
			next := root.r
			u.vs[u.root-1] = *new(T)
			u.addFree(u.root)
			u.root = next
			released++
		} else {
			li := root.l
			root.l = u.ifs[li].r
			u.ifs[li].r = u.root
			u.root = li
		}
	}
	return
}

// Clear the tree, also zeroes the memory of the underlying value array if reset is true. O(1) if reset==false. O(size) if reset==true.
// Doesn't allocate new arrays.
func (u *base[T, S]) Clear(reset bool) {
	if reset {
		clear(u.vs)
	}
	u.ifs, u.vs = u.ifs[:1], u.vs[:0]
	u.root, u.free = 0, 0
}

// Size of the tree.
// Time: O(1)
func (u *base[T, S]) Size() S {
	return u.ifs[u.root].sz
}

// InOrder traversal of the tree, calling f until it returns false. When st==nil, uses morris traversal; otherwise, uses normal
// stack based iterative traversal with st as the stack. The stack is returned for reuse.
// During a morris traversal some right links temporarily point back up the tree, so f mustn't access the tree.
// The links are restored before InOrder returns, even when f stops early.
func (u *base[T, S]) InOrder(f func(T) bool, st []S) []S {
	if curI := u.root; st == nil {
	iter1:
		for curI != 0 {
			if u.ifs[curI].l == 0 {
				if !f(u.vs[curI-1]) {
					break
				}
				curI = u.ifs[curI].r
			} else {
				for next := &u.ifs[u.ifs[curI].l]; ; next = &u.ifs[next.r] {
					if next.r == 0 {
						next.r = curI
						curI = u.ifs[curI].l
						break
					} else if next.r == curI {
						next.r = 0
						if !f(u.vs[curI-1]) {
							break iter1
						}
						curI = u.ifs[curI].r
						break
					}
				}
			}
		}
		for curI != 0 { //deplete the remaining traversal to remove the threads.
			if u.ifs[curI].l == 0 {
				curI = u.ifs[curI].r
			} else {
				for next := &u.ifs[u.ifs[curI].l]; ; next = &u.ifs[next.r] {
					if next.r == 0 {
						next.r = curI
						curI = u.ifs[curI].l
						break
					} else if next.r == curI {
						next.r = 0
						curI = u.ifs[curI].r
						break
					}
				}
			}
		}
	} else {
		for st = st[:0]; curI != 0; curI = u.ifs[curI].l {
			st = append(st, curI)
		}
		for len(st) > 0 {
			curI, st = st[len(st)-1], st[:len(st)-1]
			if !f(u.vs[curI-1]) {
				break
			}
			for curI = u.ifs[curI].r; curI != 0; curI = u.ifs[curI].l {
				st = append(st, curI)
			}
		}
	}
	return st
}

// Height is the number of nodes on the longest path from the root. Recursive.
func (u *base[T, S]) Height() int {
	return u.height(u.root)
}

func (u *base[T, S]) height(i S) int {
	if i == 0 {
		return 0
	}
	return max(u.height(u.ifs[i].l), u.height(u.ifs[i].r)) + 1
}

// BlackHeight counts the black nodes on the leftmost path from the root. On a tree that isn't corrupt, every path gives the same count.
func (u *base[T, S]) BlackHeight() (h int) {
	for curI := u.root; curI != 0; curI = u.ifs[curI].l {
		if u.ifs[curI].c == BLACK {
			h++
		}
	}
	return
}

// midpoint of [a, b] without overflow.
func midpoint[S constraints.Unsigned](a, b S) S {
	return a + (b-a)>>1
}

// buildIfs array of size vsLen+1 to represent a complete binary tree whose in-order is 1..vsLen, with parent links and red-black colors.
// Every level but the deepest is full. When the deepest level isn't full its nodes are red; all other nodes are black.
func buildIfs[S constraints.Unsigned](vsLen S, st [][4]S) (root S, ifs []info[S]) {
	ifs = make([]info[S], int(vsLen)+1)
	if vsLen == 0 {
		return
	}
	h := S(bits.Len64(uint64(vsLen)))
	full := bits.OnesCount64(uint64(vsLen)) == int(h)
	root = midpoint(1, vsLen)
	for st = append(st[:0], [4]S{1, vsLen, root, 1}); len(st) > 0; { //[left,right,mid,depth]
		top := st[len(st)-1]
		st = st[:len(st)-1]
		n := &ifs[top[2]]
		n.sz = top[1] - top[0] + 1
		if !full && top[3] == h {
			n.c = RED
		}
		if top[0] < top[2] {
			nr := top[2] - 1
			n.l = midpoint(top[0], nr)
			ifs[n.l].p = top[2]
			st = append(st, [4]S{top[0], nr, n.l, top[3] + 1})
		}
		if top[2] < top[1] {
			nl := top[2] + 1
			n.r = midpoint(nl, top[1])
			ifs[n.r].p = top[2]
			st = append(st, [4]S{nl, top[1], n.r, top[3] + 1})
		}
	}
	return
}
