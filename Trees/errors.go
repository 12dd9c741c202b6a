package Trees

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrEmptyTree is returned by order statistic queries on a tree without nodes.
	ErrEmptyTree = errors.New("tree is empty")
	// ErrRankOutOfRange is returned by Select when the rank isn't in [0, Size()).
	ErrRankOutOfRange = errors.New("rank out of range")
	// ErrUnsorted is returned by From when the keys aren't strictly increasing.
	ErrUnsorted = errors.New("keys are not strictly increasing")
	// ErrCapacity means the index type S can't address another slot.
	ErrCapacity = errors.New("index type exhausted")
)

// InvariantError is the panic value used when the tree finds itself in a state that valid input can't produce,
// for example rotating the root. It always indicates a bug in this package.
type InvariantError struct {
	Op     string
	Slot   uint64
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("Trees: %s slot %d: %s", e.Op, e.Slot, e.Reason)
}

// CorruptError describes the first red-black or order statistic property that Verify found broken.
type CorruptError struct {
	Slot   uint64
	Reason string
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("corrupt tree at slot %d: %s", e.Slot, e.Reason)
}
