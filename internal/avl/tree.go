// Package avl implements a self-balancing binary search tree keyed by
// decimal price, used as the two price ladders (bid side, ask side) of an
// order book. Delete always locates the in-order predecessor as the true
// rightmost node of the left subtree, so the deletion spine rebalances
// correctly regardless of the left subtree's shape.
package avl

import "github.com/shopspring/decimal"

// Keyed is satisfied by any payload ordered by price. PriceLevel
// implements this in package book.
type Keyed interface {
	Price() decimal.Decimal
}

// node wraps a payload value and carries subtree height for rebalancing.
// Height of an absent child is defined as -1, so a leaf has height 0.
type node[T Keyed] struct {
	value       T
	left, right *node[T]
	height      int
}

// Tree is a balanced BST keyed by Price(). Duplicate prices must not be
// inserted; callers search first and append to the existing payload.
type Tree[T Keyed] struct {
	root *node[T]
}

// New returns an empty tree.
func New[T Keyed]() *Tree[T] {
	return &Tree[T]{}
}

func height[T Keyed](n *node[T]) int {
	if n == nil {
		return -1
	}
	return n.height
}

func balanceFactor[T Keyed](n *node[T]) int {
	if n == nil {
		return -1
	}
	return height(n.left) - height(n.right)
}

func fixHeight[T Keyed](n *node[T]) {
	n.height = 1 + max(height(n.left), height(n.right))
}

func rotateLeft[T Keyed](n *node[T]) *node[T] {
	if n == nil || n.right == nil {
		return n
	}
	r := n.right
	n.right = r.left
	r.left = n
	fixHeight(n)
	fixHeight(r)
	return r
}

func rotateRight[T Keyed](n *node[T]) *node[T] {
	if n == nil || n.left == nil {
		return n
	}
	l := n.left
	n.left = l.right
	l.right = n
	fixHeight(n)
	fixHeight(l)
	return l
}

// rebalance restores the AVL property at n, assuming both children are
// already balanced. Returns the new subtree root.
func rebalance[T Keyed](n *node[T]) *node[T] {
	if n == nil {
		return n
	}
	bf := balanceFactor(n)
	if bf > 1 {
		if balanceFactor(n.left) < 0 {
			n.left = rotateLeft(n.left)
		}
		return rotateRight(n)
	}
	if bf < -1 {
		if balanceFactor(n.right) > 0 {
			n.right = rotateRight(n.right)
		}
		return rotateLeft(n)
	}
	return n
}

// Insert places value at its BST position by price and rebalances along
// the insertion path. Callers must ensure no existing node shares value's
// price.
func (t *Tree[T]) Insert(value T) {
	t.root = insert(t.root, value)
}

func insert[T Keyed](root *node[T], value T) *node[T] {
	if root == nil {
		return &node[T]{value: value, height: 0}
	}
	if value.Price().LessThanOrEqual(root.value.Price()) {
		root.left = insert(root.left, value)
	} else {
		root.right = insert(root.right, value)
	}
	fixHeight(root)
	return rebalance(root)
}

// Search looks up the payload with an exact price match.
func (t *Tree[T]) Search(price decimal.Decimal) (T, bool) {
	n := t.root
	for n != nil {
		switch {
		case price.Equal(n.value.Price()):
			return n.value, true
		case price.LessThan(n.value.Price()):
			n = n.left
		default:
			n = n.right
		}
	}
	var zero T
	return zero, false
}

// Delete removes the node with the given price, if present, and
// rebalances along the deletion spine. Reports whether a node was found.
func (t *Tree[T]) Delete(price decimal.Decimal) bool {
	var found bool
	t.root, found = deleteNode(t.root, price)
	return found
}

func deleteNode[T Keyed](root *node[T], price decimal.Decimal) (*node[T], bool) {
	if root == nil {
		return nil, false
	}

	var found bool
	switch {
	case price.LessThan(root.value.Price()):
		root.left, found = deleteNode(root.left, price)
	case price.GreaterThan(root.value.Price()):
		root.right, found = deleteNode(root.right, price)
	default:
		found = true
		if root.left == nil {
			return root.right, true
		}
		if root.right == nil {
			return root.left, true
		}
		// True in-order predecessor: rightmost node of the left subtree.
		pred := root.left
		for pred.right != nil {
			pred = pred.right
		}
		root.value = pred.value
		root.left, _ = deleteNode(root.left, pred.value.Price())
	}

	if root == nil {
		return nil, found
	}
	fixHeight(root)
	return rebalance(root), found
}

// Min returns the leftmost (lowest-price) payload.
func (t *Tree[T]) Min() (T, bool) {
	n := t.root
	if n == nil {
		var zero T
		return zero, false
	}
	for n.left != nil {
		n = n.left
	}
	return n.value, true
}

// Max returns the rightmost (highest-price) payload.
func (t *Tree[T]) Max() (T, bool) {
	n := t.root
	if n == nil {
		var zero T
		return zero, false
	}
	for n.right != nil {
		n = n.right
	}
	return n.value, true
}

// Empty reports whether the tree holds no nodes.
func (t *Tree[T]) Empty() bool {
	return t.root == nil
}

// Ascend visits payloads in ascending price order, stopping early if visit
// returns false.
func (t *Tree[T]) Ascend(visit func(T) bool) {
	ascend(t.root, visit)
}

func ascend[T Keyed](n *node[T], visit func(T) bool) bool {
	if n == nil {
		return true
	}
	if !ascend(n.left, visit) {
		return false
	}
	if !visit(n.value) {
		return false
	}
	return ascend(n.right, visit)
}

// Descend visits payloads in descending price order, stopping early if
// visit returns false.
func (t *Tree[T]) Descend(visit func(T) bool) {
	descend(t.root, visit)
}

func descend[T Keyed](n *node[T], visit func(T) bool) bool {
	if n == nil {
		return true
	}
	if !descend(n.right, visit) {
		return false
	}
	if !visit(n.value) {
		return false
	}
	return descend(n.left, visit)
}

// Balanced reports whether every node's balance factor is in {-1, 0, 1}.
// Exposed for property tests that check the AVL invariant after mutation.
func (t *Tree[T]) Balanced() bool {
	ok := true
	var walk func(*node[T]) int
	walk = func(n *node[T]) int {
		if n == nil {
			return -1
		}
		lh := walk(n.left)
		rh := walk(n.right)
		if lh-rh > 1 || lh-rh < -1 {
			ok = false
		}
		if 1+max(lh, rh) != n.height {
			ok = false
		}
		return 1 + max(lh, rh)
	}
	walk(t.root)
	return ok
}
