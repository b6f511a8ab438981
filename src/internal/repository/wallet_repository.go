package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"booking-service/src/internal/entity"
	"booking-service/src/pkg/databases/mysql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrWalletNotFound    = errors.New("wallet not found or inactive")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrHoldNotHeld       = errors.New("hold is not in held status")
)

const selectWalletByOwner = `
	SELECT id, owner_id, owner_kind, balance, lifetime_recharge, lifetime_deposit, status, created_at, updated_at
	FROM wallets
	WHERE owner_id = ?
`

// WalletRepository owns every statement that touches wallet balances or the
// transaction ledger. The *Tx methods take sqlx.ExtContext so booking
// settlements can run them inside the same database transaction as the
// booking row update.
type WalletRepository struct {
	DB mysql.DBInterface
}

func NewWalletRepository(db mysql.DBInterface) *WalletRepository {
	return &WalletRepository{
		DB: db,
	}
}

func (r *WalletRepository) FindByOwner(ctx context.Context, ownerID string) (*entity.Wallet, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var wallet entity.Wallet
	err = db.GetContext(ctx, &wallet, selectWalletByOwner, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}

	return &wallet, nil
}

func (r *WalletRepository) History(ctx context.Context, ownerID string, limit, offset int) ([]entity.WalletTransaction, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var txns []entity.WalletTransaction
	query := `
		SELECT id, wallet_id, owner_id, kind, amount, status, commission, fee, booking_id, reason, created_at
		FROM wallet_transactions
		WHERE owner_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`
	err = db.SelectContext(ctx, &txns, query, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}

	return txns, nil
}

// Recharge tops up the owner's balance in its own transaction and appends
// the recharge ledger row.
func (r *WalletRepository) Recharge(ctx context.Context, ownerID string, amount int64) (*entity.WalletTransaction, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var wallet entity.Wallet
	err = sqlx.GetContext(ctx, tx, &wallet, selectWalletByOwner, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx, `
		UPDATE wallets
		SET balance = balance + ?, lifetime_recharge = lifetime_recharge + ?, updated_at = ?
		WHERE id = ? AND status = ?
	`, amount, amount, now, wallet.ID, entity.WalletStatusActive)
	if err != nil {
		return nil, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrWalletNotFound
	}

	txn := &entity.WalletTransaction{
		ID:        uuid.NewString(),
		WalletID:  wallet.ID,
		OwnerID:   ownerID,
		Kind:      entity.TxnKindRecharge,
		Amount:    amount,
		Status:    entity.TxnStatusApproved,
		Reason:    "wallet recharge",
		CreatedAt: now,
	}
	if err := insertTransaction(ctx, tx, txn); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return txn, nil
}

// HoldTx debits the customer wallet and appends the held ledger row. The
// guarded update is the only funds check; concurrent holds against the same
// balance serialize on it, so the balance can never go negative.
func (r *WalletRepository) HoldTx(ctx context.Context, q sqlx.ExtContext, ownerID string, amount int64, bookingID, reason string) (*entity.WalletTransaction, error) {
	var wallet entity.Wallet
	err := sqlx.GetContext(ctx, q, &wallet, selectWalletByOwner, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}

	now := time.Now().UTC()
	res, err := q.ExecContext(ctx, `
		UPDATE wallets
		SET balance = balance - ?, updated_at = ?
		WHERE id = ? AND status = ? AND balance >= ?
	`, amount, now, wallet.ID, entity.WalletStatusActive, amount)
	if err != nil {
		return nil, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		if wallet.Status != entity.WalletStatusActive {
			return nil, ErrWalletNotFound
		}
		return nil, ErrInsufficientFunds
	}

	txn := &entity.WalletTransaction{
		ID:        uuid.NewString(),
		WalletID:  wallet.ID,
		OwnerID:   ownerID,
		Kind:      entity.TxnKindHold,
		Amount:    -amount,
		Status:    entity.TxnStatusHeld,
		BookingID: &bookingID,
		Reason:    reason,
		CreatedAt: now,
	}
	if err := insertTransaction(ctx, q, txn); err != nil {
		return nil, err
	}

	return txn, nil
}

// ReleaseTx consumes a held row and credits the provider with the gross
// amount minus commission. The status CAS on the hold row is the
// serialization point: whichever of release or refund flips it first wins,
// the loser gets ErrHoldNotHeld.
func (r *WalletRepository) ReleaseTx(ctx context.Context, q sqlx.ExtContext, holdTxnID, providerID string, amount, commissionRate int64, bookingID, reason string) (*entity.WalletTransaction, error) {
	if err := transitionHold(ctx, q, holdTxnID, entity.TxnStatusReleased); err != nil {
		return nil, err
	}

	commission := amount * commissionRate / 100
	net := amount - commission

	var wallet entity.Wallet
	err := sqlx.GetContext(ctx, q, &wallet, selectWalletByOwner, providerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}

	now := time.Now().UTC()
	_, err = q.ExecContext(ctx, `
		UPDATE wallets
		SET balance = balance + ?, lifetime_deposit = lifetime_deposit + ?, updated_at = ?
		WHERE id = ?
	`, net, net, now, wallet.ID)
	if err != nil {
		return nil, err
	}

	txn := &entity.WalletTransaction{
		ID:         uuid.NewString(),
		WalletID:   wallet.ID,
		OwnerID:    providerID,
		Kind:       entity.TxnKindEarning,
		Amount:     net,
		Status:     entity.TxnStatusApproved,
		Commission: commission,
		BookingID:  &bookingID,
		Reason:     reason,
		CreatedAt:  now,
	}
	if err := insertTransaction(ctx, q, txn); err != nil {
		return nil, err
	}

	return txn, nil
}

// RefundTx consumes a held row and returns the full amount to the customer.
// Refunds never carry commission.
func (r *WalletRepository) RefundTx(ctx context.Context, q sqlx.ExtContext, holdTxnID, ownerID string, amount int64, bookingID, reason string) (*entity.WalletTransaction, error) {
	if err := transitionHold(ctx, q, holdTxnID, entity.TxnStatusRefunded); err != nil {
		return nil, err
	}
	return creditRefund(ctx, q, ownerID, amount, bookingID, reason)
}

// RefundSurplusTx returns the unconsumed part of a call hold to the
// customer. The hold row was already flipped to released by ReleaseTx in
// the same transaction, so no status CAS happens here.
func (r *WalletRepository) RefundSurplusTx(ctx context.Context, q sqlx.ExtContext, ownerID string, amount int64, bookingID, reason string) (*entity.WalletTransaction, error) {
	return creditRefund(ctx, q, ownerID, amount, bookingID, reason)
}

func creditRefund(ctx context.Context, q sqlx.ExtContext, ownerID string, amount int64, bookingID, reason string) (*entity.WalletTransaction, error) {
	var wallet entity.Wallet
	err := sqlx.GetContext(ctx, q, &wallet, selectWalletByOwner, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}

	now := time.Now().UTC()
	_, err = q.ExecContext(ctx, `
		UPDATE wallets
		SET balance = balance + ?, updated_at = ?
		WHERE id = ?
	`, amount, now, wallet.ID)
	if err != nil {
		return nil, err
	}

	txn := &entity.WalletTransaction{
		ID:        uuid.NewString(),
		WalletID:  wallet.ID,
		OwnerID:   ownerID,
		Kind:      entity.TxnKindRefund,
		Amount:    amount,
		Status:    entity.TxnStatusApproved,
		BookingID: &bookingID,
		Reason:    reason,
		CreatedAt: now,
	}
	if err := insertTransaction(ctx, q, txn); err != nil {
		return nil, err
	}

	return txn, nil
}

func transitionHold(ctx context.Context, q sqlx.ExtContext, holdTxnID, to string) error {
	res, err := q.ExecContext(ctx, `
		UPDATE wallet_transactions
		SET status = ?
		WHERE id = ? AND status = ?
	`, to, holdTxnID, entity.TxnStatusHeld)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrHoldNotHeld
	}
	return nil
}

func insertTransaction(ctx context.Context, q sqlx.ExtContext, txn *entity.WalletTransaction) error {
	query := `
		INSERT INTO wallet_transactions
			(id, wallet_id, owner_id, kind, amount, status, commission, fee, booking_id, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := q.ExecContext(ctx, query,
		txn.ID, txn.WalletID, txn.OwnerID, txn.Kind, txn.Amount, txn.Status,
		txn.Commission, txn.Fee, txn.BookingID, txn.Reason, txn.CreatedAt)
	return err
}
