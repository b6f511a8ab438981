package entity

import "time"

const (
	WalletOwnerCustomer = "customer"
	WalletOwnerProvider = "provider"

	WalletStatusActive = "active"
	WalletStatusFrozen = "frozen"
)

const (
	TxnKindHold     = "hold"
	TxnKindRefund   = "refund"
	TxnKindEarning  = "earning"
	TxnKindRecharge = "recharge"

	TxnStatusHeld     = "held"
	TxnStatusReleased = "released"
	TxnStatusRefunded = "refunded"
	TxnStatusApproved = "approved"
)

// Wallet balances are whole minor currency units. The balance column is
// only ever touched by the ledger operations in the wallet repository,
// each of which also appends a WalletTransaction row.
type Wallet struct {
	ID               string    `db:"id"`
	OwnerID          string    `db:"owner_id"`
	OwnerKind        string    `db:"owner_kind"`
	Balance          int64     `db:"balance"`
	LifetimeRecharge int64     `db:"lifetime_recharge"`
	LifetimeDeposit  int64     `db:"lifetime_deposit"`
	Status           string    `db:"status"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

// WalletTransaction is the append-only audit row behind every balance
// mutation. Rows are immutable after insert except for the single
// held -> released / held -> refunded transition on hold rows, which is
// the serialization point for settlement.
type WalletTransaction struct {
	ID         string    `db:"id"`
	WalletID   string    `db:"wallet_id"`
	OwnerID    string    `db:"owner_id"`
	Kind       string    `db:"kind"`
	Amount     int64     `db:"amount"`
	Status     string    `db:"status"`
	Commission int64     `db:"commission"`
	Fee        int64     `db:"fee"`
	BookingID  *string   `db:"booking_id"`
	Reason     string    `db:"reason"`
	CreatedAt  time.Time `db:"created_at"`
}
