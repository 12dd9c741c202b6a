// Package Trees implements an order statistic red-black tree whose nodes are kept in an index addressed arena.
package Trees

import (
	"io"

	"golang.org/x/exp/constraints"
)

// Tree of unique integer keys with order statistics.
// Methods that return a bool as a second value use it to tell whether the first value is defined.
// Errors are reserved for invalid arguments; insertion of a present key is not an error.
// Methods implemented recursively are noted, otherwise they are iterative.
type Tree[T constraints.Integer, S constraints.Unsigned] interface {
	//Insert v to the Tree. Returning true if successful, false if v was already present.
	Insert(v T) bool
	//Has element v.
	Has(v T) bool
	//RankOf v: the number of keys less than v, whether or not v is present.
	RankOf(v T) (S, error)
	//Select the key at rank k, 0<=k<Size().
	Select(k S) (T, error)
	//Minimum element of the tree.
	Minimum() (T, bool)
	//Maximum element of the tree.
	Maximum() (T, bool)
	//Predecessor returns the greatest element less than v, or less than or equal to v if strict is false.
	Predecessor(v T, strict bool) (T, bool)
	//Successor returns the smallest element greater than v, or greater than or equal to v if strict is false.
	Successor(v T, strict bool) (T, bool)
	//Size of the tree.
	Size() S
	//InOrder calls f with each key in ascending order until f returns false.
	InOrder(f func(T) bool, st []S) []S
	//Dispose releases all nodes, returning how many there were.
	Dispose() S
	//Verify returns an error describing how the tree is corrupt, or nil.
	Verify() error
	//Dump a debugging view of the tree to w.
	Dump(w io.Writer) error
}

var _ Tree[int, uint32] = (*RBTree[int, uint32])(nil)
