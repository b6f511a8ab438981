package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"booking-service/src/internal/entity"
	"booking-service/src/pkg/databases/mysql"

	"github.com/jmoiron/sqlx"
)

var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrStateConflict    = errors.New("booking is not in the expected status")
	ErrAlreadyCheckedIn = errors.New("party already checked in")
)

const bookingColumns = `
	id, customer_id, provider_id, service_id, type, price,
	start_time, end_time, status, payment_status,
	hold_transaction_id, release_transaction_id,
	location_lat, location_lng, location_address,
	customer_checkin_at, customer_checkin_lat, customer_checkin_lng,
	provider_checkin_at, provider_checkin_lat, provider_checkin_lng,
	completion_token, token_expires_at, auto_release_at,
	dispute_reason, disputed_at, cancel_reason,
	call_scheduled_at, call_room_id, call_started_at, call_ended_at,
	duration_minutes, per_minute_rate, hold_amount,
	created_at, updated_at
`

const insertBooking = `
	INSERT INTO bookings (
		id, customer_id, provider_id, service_id, type, price,
		start_time, end_time, status, payment_status,
		location_lat, location_lng, location_address,
		dispute_reason, cancel_reason,
		call_scheduled_at, call_room_id,
		duration_minutes, per_minute_rate, hold_amount,
		created_at, updated_at
	) VALUES (
		:id, :customer_id, :provider_id, :service_id, :type, :price,
		:start_time, :end_time, :status, :payment_status,
		:location_lat, :location_lng, :location_address,
		:dispute_reason, :cancel_reason,
		:call_scheduled_at, :call_room_id,
		:duration_minutes, :per_minute_rate, :hold_amount,
		:created_at, :updated_at
	)
`

// BookingRepository owns the bookings table. Settlement methods compose the
// wallet ledger primitives with the booking row CAS inside one transaction,
// so a booking can never report money the ledger does not hold.
type BookingRepository struct {
	DB     mysql.DBInterface
	Wallet *WalletRepository
}

func NewBookingRepository(db mysql.DBInterface, wallet *WalletRepository) *BookingRepository {
	return &BookingRepository{
		DB:     db,
		Wallet: wallet,
	}
}

func (r *BookingRepository) FindByID(ctx context.Context, id string) (*entity.Booking, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var booking entity.Booking
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	err = db.GetContext(ctx, &booking, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	return &booking, nil
}

func (r *BookingRepository) FindByToken(ctx context.Context, token string) (*entity.Booking, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var booking entity.Booking
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE completion_token = ?`
	err = db.GetContext(ctx, &booking, query, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	return &booking, nil
}

func (r *BookingRepository) ListByCustomer(ctx context.Context, customerID, status string, limit, offset int) ([]entity.Booking, error) {
	return r.list(ctx, "customer_id", customerID, status, limit, offset)
}

func (r *BookingRepository) ListByProvider(ctx context.Context, providerID, status string, limit, offset int) ([]entity.Booking, error) {
	return r.list(ctx, "provider_id", providerID, status, limit, offset)
}

func (r *BookingRepository) list(ctx context.Context, ownerColumn, ownerID, status string, limit, offset int) ([]entity.Booking, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE ` + ownerColumn + ` = ?`
	args := []interface{}{ownerID}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var bookings []entity.Booking
	err = db.SelectContext(ctx, &bookings, query, args...)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}

// FindDueAutoRelease pages through bookings whose confirmation window has
// lapsed, oldest deadline first.
func (r *BookingRepository) FindDueAutoRelease(ctx context.Context, now time.Time, limit int) ([]entity.Booking, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var bookings []entity.Booking
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = ? AND payment_status = ?
			AND auto_release_at IS NOT NULL AND auto_release_at <= ?
		ORDER BY auto_release_at ASC
		LIMIT ?
	`
	err = db.SelectContext(ctx, &bookings, query,
		entity.StatusAwaitingConfirmation, entity.PaymentPendingRelease, now, limit)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}

// CreateWithHold inserts the booking row and places the escrow hold in one
// transaction. On commit the booking exists with payment_status=held and a
// hold ledger row; on any failure neither exists.
func (r *BookingRepository) CreateWithHold(ctx context.Context, booking *entity.Booking, holdAmount int64, holdReason string) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := sqlx.NamedExecContext(ctx, tx, insertBooking, booking); err != nil {
		return err
	}

	hold, err := r.Wallet.HoldTx(ctx, tx, booking.CustomerID, holdAmount, booking.ID, holdReason)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `UPDATE bookings SET hold_transaction_id = ?, updated_at = ? WHERE id = ?`,
		hold.ID, time.Now().UTC(), booking.ID)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	booking.HoldTransactionID = &hold.ID
	return nil
}

// UpdateStatus is the plain CAS transition for moves that touch no money.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id, from, to string) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	res, err := db.ExecContext(ctx, `UPDATE bookings SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		to, time.Now().UTC(), id, from)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// CheckIn stamps one party's arrival exactly once and flips the booking to
// in_progress in the same transaction when both stamps are present. The
// returned flag reports whether this call performed the flip.
func (r *BookingRepository) CheckIn(ctx context.Context, id, party string, at time.Time, lat, lng float64) (bool, error) {
	if party != entity.PartyCustomer && party != entity.PartyProvider {
		return false, fmt.Errorf("unknown party %q", party)
	}

	db, err := r.DB.GetDB()
	if err != nil {
		return false, err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	stamp := fmt.Sprintf(`
		UPDATE bookings
		SET %[1]s_checkin_at = ?, %[1]s_checkin_lat = ?, %[1]s_checkin_lng = ?, updated_at = ?
		WHERE id = ? AND %[1]s_checkin_at IS NULL
	`, party)
	res, err := tx.ExecContext(ctx, stamp, at, lat, lng, at, id)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if rows == 0 {
		return false, ErrAlreadyCheckedIn
	}

	res, err = tx.ExecContext(ctx, `
		UPDATE bookings
		SET status = ?, updated_at = ?
		WHERE id = ? AND status = ?
			AND customer_checkin_at IS NOT NULL AND provider_checkin_at IS NOT NULL
	`, entity.StatusInProgress, at, id, entity.StatusConfirmed)
	if err != nil {
		return false, err
	}
	rows, err = res.RowsAffected()
	if err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}

	return rows > 0, nil
}

// MarkCompleted moves a date booking to awaiting_confirmation and stages the
// completion token and auto-release deadline. No money moves here.
func (r *BookingRepository) MarkCompleted(ctx context.Context, id, token string, tokenExpiresAt, autoReleaseAt time.Time) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	res, err := db.ExecContext(ctx, `
		UPDATE bookings
		SET status = ?, payment_status = ?, completion_token = ?, token_expires_at = ?, auto_release_at = ?, updated_at = ?
		WHERE id = ? AND status IN (?, ?) AND payment_status = ?
	`, entity.StatusAwaitingConfirmation, entity.PaymentPendingRelease,
		token, tokenExpiresAt, autoReleaseAt, time.Now().UTC(),
		id, entity.StatusConfirmed, entity.StatusInProgress, entity.PaymentHeld)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// MarkDisputed freezes the escrow by parking the booking in disputed. The
// hold row stays held, so neither release nor refund can race past it.
func (r *BookingRepository) MarkDisputed(ctx context.Context, id, reason string, at time.Time) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	res, err := db.ExecContext(ctx, `
		UPDATE bookings
		SET status = ?, dispute_reason = ?, disputed_at = ?, updated_at = ?
		WHERE id = ? AND status = ?
	`, entity.StatusDisputed, reason, at, at, id, entity.StatusAwaitingConfirmation)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// StartCall flips connecting to in_call and stamps the billing clock start.
func (r *BookingRepository) StartCall(ctx context.Context, id string, at time.Time) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	res, err := db.ExecContext(ctx, `
		UPDATE bookings
		SET status = ?, call_started_at = ?, updated_at = ?
		WHERE id = ? AND status = ?
	`, entity.StatusInCall, at, at, id, entity.StatusConnecting)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SettleRelease pays the provider and completes the booking in one
// transaction: hold CAS, earning insert, provider credit, booking CAS from
// awaiting_confirmation/pending_release. The passed booking is updated to
// the committed state.
func (r *BookingRepository) SettleRelease(ctx context.Context, booking *entity.Booking, commissionRate int64, reason string) (*entity.WalletTransaction, error) {
	if booking.HoldTransactionID == nil {
		return nil, ErrHoldNotHeld
	}

	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	earning, err := r.Wallet.ReleaseTx(ctx, tx, *booking.HoldTransactionID, booking.ProviderID,
		booking.Price, commissionRate, booking.ID, reason)
	if err != nil {
		return nil, err
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE bookings
		SET status = ?, payment_status = ?, release_transaction_id = ?,
			completion_token = NULL, token_expires_at = NULL, updated_at = ?
		WHERE id = ? AND status = ? AND payment_status = ?
	`, entity.StatusCompleted, entity.PaymentReleased, earning.ID, time.Now().UTC(),
		booking.ID, entity.StatusAwaitingConfirmation, entity.PaymentPendingRelease)
	if err != nil {
		return nil, err
	}
	if err := requireRow(res); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	booking.Status = entity.StatusCompleted
	booking.PaymentStatus = entity.PaymentReleased
	booking.ReleaseTransactionID = &earning.ID
	booking.CompletionToken = nil
	booking.TokenExpiresAt = nil
	return earning, nil
}

// SettleRefund returns the full hold to the customer and parks the booking
// in a terminal status, all in one transaction. from lists the statuses the
// transition may leave.
func (r *BookingRepository) SettleRefund(ctx context.Context, booking *entity.Booking, amount int64, from []string, to, reason string) (*entity.WalletTransaction, error) {
	if booking.HoldTransactionID == nil {
		return nil, ErrHoldNotHeld
	}

	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	refund, err := r.Wallet.RefundTx(ctx, tx, *booking.HoldTransactionID, booking.CustomerID,
		amount, booking.ID, reason)
	if err != nil {
		return nil, err
	}

	query, args, err := sqlx.In(`
		UPDATE bookings
		SET status = ?, payment_status = ?, cancel_reason = ?, updated_at = ?
		WHERE id = ? AND status IN (?) AND payment_status = ?
	`, to, entity.PaymentRefunded, reason, time.Now().UTC(), booking.ID, from, entity.PaymentHeld)
	if err != nil {
		return nil, err
	}

	res, err := tx.ExecContext(ctx, tx.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	if err := requireRow(res); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	booking.Status = to
	booking.PaymentStatus = entity.PaymentRefunded
	booking.CancelReason = reason
	return refund, nil
}

// SettleCall closes a metered call: the provider is paid the actual cost,
// any unused hold goes back to the customer, and the booking row records
// the final price and duration. All of it commits together.
func (r *BookingRepository) SettleCall(ctx context.Context, booking *entity.Booking, actualCost, refundAmount, durationMinutes, commissionRate int64, endedAt time.Time) (*entity.WalletTransaction, *entity.WalletTransaction, error) {
	if booking.HoldTransactionID == nil {
		return nil, nil, ErrHoldNotHeld
	}

	db, err := r.DB.GetDB()
	if err != nil {
		return nil, nil, err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	earning, err := r.Wallet.ReleaseTx(ctx, tx, *booking.HoldTransactionID, booking.ProviderID,
		actualCost, commissionRate, booking.ID, "call settlement")
	if err != nil {
		return nil, nil, err
	}

	var refund *entity.WalletTransaction
	if refundAmount > 0 {
		refund, err = r.Wallet.RefundSurplusTx(ctx, tx, booking.CustomerID, refundAmount,
			booking.ID, "unused call hold")
		if err != nil {
			return nil, nil, err
		}
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE bookings
		SET status = ?, payment_status = ?, price = ?, duration_minutes = ?,
			call_ended_at = ?, release_transaction_id = ?, updated_at = ?
		WHERE id = ? AND status = ? AND payment_status = ?
	`, entity.StatusCompleted, entity.PaymentReleased, actualCost, durationMinutes,
		endedAt, earning.ID, endedAt,
		booking.ID, entity.StatusInCall, entity.PaymentHeld)
	if err != nil {
		return nil, nil, err
	}
	if err := requireRow(res); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	booking.Status = entity.StatusCompleted
	booking.PaymentStatus = entity.PaymentReleased
	booking.Price = actualCost
	booking.DurationMinutes = durationMinutes
	booking.CallEndedAt = &endedAt
	booking.ReleaseTransactionID = &earning.ID
	return earning, refund, nil
}

// Delete removes a booking whose funds already reached a terminal state.
func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	res, err := db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ? AND payment_status IN (?, ?)`,
		id, entity.PaymentReleased, entity.PaymentRefunded)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrStateConflict
	}
	return nil
}
