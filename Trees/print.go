package Trees

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes slot ni and its subtrees to w, every line indented by indent spaces and each level of children by 4 more.
// Missing children are written as null. Colors are highlighted unless color.NoColor is set. Recursive, read only.
func (u *RBTree[T, S]) Fprint(w io.Writer, ni S, indent int) error {
	pad := strings.Repeat(" ", indent)
	if ni == 0 {
		_, err := fmt.Fprintf(w, "%snull\n", pad)
		return err
	}
	if int(ni) >= len(u.ifs) {
		return &CorruptError{uint64(ni), "index past the end of the arena"}
	}
	n := u.ifs[ni]
	if _, err := fmt.Fprintf(w, "%sNode       %d\n%sColor:     %s\n%sKey:       %d\n%sSize:      %d\n%sLeft Child:\n",
		pad, ni, pad, n.c.colored(), pad, *u.getV(ni), pad, n.sz, pad); err != nil {
		return err
	}
	if err := u.Fprint(w, n.l, indent+4); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%sRight Child:\n", pad); err != nil {
		return err
	}
	return u.Fprint(w, n.r, indent+4)
}

// Dump the whole tree to w, see Fprint.
func (u *RBTree[T, S]) Dump(w io.Writer) error {
	return u.Fprint(w, u.root, 0)
}

// Root slot of the tree, 0 when empty. Only meaningful as an argument to Fprint.
func (u *RBTree[T, S]) Root() S {
	return u.root
}
