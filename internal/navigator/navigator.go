// Package navigator implements cyclic step navigation over a fixed sequence.
package navigator

import "errors"

// ErrEmpty is returned when a navigator is created over no items.
var ErrEmpty = errors.New("navigator: sequence is empty")

// Navigator holds a cursor into a non-empty sequence. The cursor is always in
// [0, Len()) and wraps in both directions. It is not safe for concurrent use.
type Navigator[T any] struct {
	items  []T
	cursor int
}

// New returns a navigator positioned at start, taken modulo len(items).
func New[T any](items []T, start int) (*Navigator[T], error) {
	if len(items) == 0 {
		return nil, ErrEmpty
	}
	n := &Navigator[T]{items: items}
	n.cursor = n.wrap(start)
	return n, nil
}

func (n *Navigator[T]) wrap(i int) int {
	total := len(n.items)
	return ((i % total) + total) % total
}

// Current returns the item at the cursor.
func (n *Navigator[T]) Current() T { return n.items[n.cursor] }

func (n *Navigator[T]) Cursor() int { return n.cursor }

func (n *Navigator[T]) Len() int { return len(n.items) }

// Advance moves to the next item, wrapping from the last to the first.
func (n *Navigator[T]) Advance() { n.cursor = (n.cursor + 1) % len(n.items) }

// Retreat moves to the previous item, wrapping from the first to the last.
func (n *Navigator[T]) Retreat() { n.cursor = (n.cursor - 1 + len(n.items)) % len(n.items) }

func (n *Navigator[T]) Reset() { n.cursor = 0 }
