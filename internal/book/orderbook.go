package book

import (
	"bourse/internal/avl"
	"bourse/internal/domain"

	"github.com/shopspring/decimal"
)

// Book is a single asset's pair of price ladders plus an order-id index.
// It owns its ladders, price levels, and resting orders; the index holds
// only non-owning handles into them.
type Book struct {
	assetType string
	bids      *avl.Tree[*PriceLevel] // bid ladder: best = Max()
	asks      *avl.Tree[*PriceLevel] // ask ladder: best = Min()
	index     map[string]*QueueNode
}

// New allocates an empty book for one asset classification tag.
func New(assetType string) *Book {
	return &Book{
		assetType: assetType,
		bids:      avl.New[*PriceLevel](),
		asks:      avl.New[*PriceLevel](),
		index:     make(map[string]*QueueNode),
	}
}

// AssetType returns the classification tag this book accepts.
func (b *Book) AssetType() string { return b.assetType }

// Ladder returns the same-side ladder for side.
func (b *Book) Ladder(side domain.Side) *avl.Tree[*PriceLevel] {
	if side == domain.Buy {
		return b.bids
	}
	return b.asks
}

// Opposing returns the ladder an incoming order of side matches against.
func (b *Book) Opposing(side domain.Side) *avl.Tree[*PriceLevel] {
	if side == domain.Buy {
		return b.asks
	}
	return b.bids
}

// Insert routes order onto its side's ladder, creating the price level if
// necessary. Precondition: order.Asset.Type == book.AssetType().
func (b *Book) Insert(order *domain.Order) error {
	if order.Asset.Type != b.assetType {
		return ErrAssetMismatch
	}
	switch order.Side {
	case domain.Buy, domain.Sell:
		b.insertToTree(order, b.Ladder(order.Side))
		return nil
	default:
		return ErrUnsupportedSide
	}
}

// InsertResidual inserts an already-validated order directly, without
// re-checking the asset tag. Used by internal/matcher after a partial
// fill to rest the remainder on the same side.
func (b *Book) InsertResidual(order *domain.Order) {
	b.insertToTree(order, b.Ladder(order.Side))
}

func (b *Book) insertToTree(order *domain.Order, tree *avl.Tree[*PriceLevel]) {
	level, found := tree.Search(order.Offer)
	if !found {
		level = NewPriceLevel(order.Offer)
		tree.Insert(level)
	}
	node := level.InsertOrder(order)
	b.index[order.ID] = node
}

// Cancel removes a resting order by id. Returns false if the id is not
// resting (already filled, canceled, or unknown).
func (b *Book) Cancel(orderID string) bool {
	node, ok := b.index[orderID]
	if !ok {
		return false
	}
	if node.order.Status != domain.Waiting {
		// Already filled or canceled elsewhere (e.g. by the matcher); the
		// index entry is stale, not evidence of corruption.
		delete(b.index, orderID)
		return false
	}

	side := node.order.Side
	price := node.order.Offer
	tree := b.Ladder(side)

	level, found := tree.Search(price)
	if !found {
		panic(&InvariantViolationError{
			OrderID: orderID,
			Detail:  "order is indexed but its price level is missing from the ladder",
		})
	}

	node.order.Status = domain.Canceled
	level.Unlink(node)
	delete(b.index, orderID)

	if level.IsEmpty() {
		tree.Delete(price)
	}
	return true
}

// Release purges orderID from the index without touching the ladder. Used
// by internal/matcher once it has already unlinked a fully-filled maker
// from its price level, so the index stays in lockstep with the ladder.
func (b *Book) Release(orderID string) {
	delete(b.index, orderID)
}

// BestBid returns the highest-priced resting bid level, if any.
func (b *Book) BestBid() (*PriceLevel, bool) { return b.bids.Max() }

// BestAsk returns the lowest-priced resting ask level, if any.
func (b *Book) BestAsk() (*PriceLevel, bool) { return b.asks.Min() }

// GetOrder looks up a resting order by id.
func (b *Book) GetOrder(orderID string) (*domain.Order, bool) {
	node, ok := b.index[orderID]
	if !ok {
		return nil, false
	}
	return node.order, true
}

// DepthLevel is one row of a top-of-book depth snapshot.
type DepthLevel struct {
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

// TopBids returns up to n non-zero bid levels, best price first.
func (b *Book) TopBids(n int) []DepthLevel {
	return topLevels(b.bids, n, true)
}

// TopAsks returns up to n non-zero ask levels, best price first.
func (b *Book) TopAsks(n int) []DepthLevel {
	return topLevels(b.asks, n, false)
}

func topLevels(tree *avl.Tree[*PriceLevel], n int, descending bool) []DepthLevel {
	if n <= 0 {
		return nil
	}
	var out []DepthLevel
	visit := func(level *PriceLevel) bool {
		qty := level.TotalQuantity()
		if qty.GreaterThan(decimal.Zero) {
			out = append(out, DepthLevel{Price: level.Price(), Quantity: qty})
		}
		return len(out) < n
	}
	if descending {
		tree.Descend(visit)
	} else {
		tree.Ascend(visit)
	}
	return out
}
