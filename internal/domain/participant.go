package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Participant is the narrow interface the ledger settles trades against.
// Implementations are owned by collaborators (see internal/trader); the
// engine only ever reads Cash/Holdings for precondition checks and writes
// them during settlement.
type Participant interface {
	// AvailableCash returns cash on hand.
	AvailableCash() decimal.Decimal
	// AdjustCash moves cash by delta (negative to debit, positive to credit).
	AdjustCash(delta decimal.Decimal)
	// Held returns the quantity of assetID currently held.
	Held(assetID uuid.UUID) decimal.Decimal
	// AdjustHeld moves held quantity of assetID by delta; implementations
	// must remove the entry once it reaches zero.
	AdjustHeld(assetID uuid.UUID, delta decimal.Decimal)
}
