// Package book implements the per-asset order book: two AVL-ordered price
// ladders (internal/avl), each price level an intrusive FIFO queue of
// resting orders, plus an order-id index for O(1) cancellation lookup.
package book

import (
	"bourse/internal/domain"

	"github.com/shopspring/decimal"
)

// QueueNode is the intrusive, doubly-linked FIFO entry wrapping one
// resting order. The order-id index holds these as non-owning handles:
// a handle must never outlive the queue node it points at.
type QueueNode struct {
	order      *domain.Order
	prev, next *QueueNode
}

// Order returns the resting order wrapped by this node.
func (n *QueueNode) Order() *domain.Order { return n.order }

// Next returns the next node toward the tail (newer order), or nil.
func (n *QueueNode) Next() *QueueNode { return n.next }

// PriceLevel holds every resting order at one price, oldest first.
// Comparison (and the AVL key) is by price alone.
type PriceLevel struct {
	price      decimal.Decimal
	head, tail *QueueNode
}

// NewPriceLevel allocates an empty level at price.
func NewPriceLevel(price decimal.Decimal) *PriceLevel {
	return &PriceLevel{price: price}
}

// Price implements avl.Keyed.
func (pl *PriceLevel) Price() decimal.Decimal { return pl.price }

// Head returns the oldest resting order's node, or nil if empty.
func (pl *PriceLevel) Head() *QueueNode { return pl.head }

// IsEmpty reports whether the level holds no resting orders.
func (pl *PriceLevel) IsEmpty() bool { return pl.head == nil }

// TotalQuantity sums the remaining quantity of every resting order.
func (pl *PriceLevel) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for n := pl.head; n != nil; n = n.next {
		total = total.Add(n.order.Remaining)
	}
	return total
}

// InsertOrder appends order at the tail in O(1) and returns its handle.
func (pl *PriceLevel) InsertOrder(order *domain.Order) *QueueNode {
	n := &QueueNode{order: order}
	if pl.tail != nil {
		n.prev = pl.tail
		pl.tail.next = n
	} else {
		pl.head = n
	}
	pl.tail = n
	return n
}

// Unlink removes n from the level in O(1) using its prev/next pointers.
// Safe to call at most once per node: n's own pointers are cleared after
// removal, so a stray second call is a no-op rather than list corruption.
func (pl *PriceLevel) Unlink(n *QueueNode) {
	if n.prev != nil {
		n.prev.next = n.next
	} else if pl.head == n {
		pl.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else if pl.tail == n {
		pl.tail = n.prev
	}
	n.prev, n.next = nil, nil
}
