package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"booking-service/src/internal/entity"
	"booking-service/src/internal/model"
	"booking-service/src/internal/repository"
	httpError "booking-service/src/pkg/http-error"

	"github.com/IBM/sarama"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStore implements the store interfaces against in-process maps with
// the same CAS semantics as the SQL repositories: one mutex plays the role
// of the database transaction, holds flip exactly once, and booking
// transitions fail with ErrStateConflict when the row is not in the
// expected state.
type memoryStore struct {
	mu       sync.Mutex
	bookings map[string]*entity.Booking
	wallets  map[string]*entity.Wallet
	txns     map[string]*entity.WalletTransaction
	txnOrder []string
	services map[string]*entity.ServiceOffering
	users    map[string]*entity.User
}

var (
	_ repository.BookingStore = (*memoryStore)(nil)
	_ repository.WalletStore  = (*memoryStore)(nil)
	_ repository.ServiceStore = (*memoryServiceStore)(nil)
	_ repository.UserStore    = (*memoryUserStore)(nil)
)

func newMemoryStore() *memoryStore {
	return &memoryStore{
		bookings: make(map[string]*entity.Booking),
		wallets:  make(map[string]*entity.Wallet),
		txns:     make(map[string]*entity.WalletTransaction),
		services: make(map[string]*entity.ServiceOffering),
		users:    make(map[string]*entity.User),
	}
}

func cloneBooking(b *entity.Booking) *entity.Booking {
	c := *b
	c.StartTime = cloneTime(b.StartTime)
	c.EndTime = cloneTime(b.EndTime)
	c.HoldTransactionID = cloneString(b.HoldTransactionID)
	c.ReleaseTransactionID = cloneString(b.ReleaseTransactionID)
	c.LocationLat = cloneFloat(b.LocationLat)
	c.LocationLng = cloneFloat(b.LocationLng)
	c.CustomerCheckinAt = cloneTime(b.CustomerCheckinAt)
	c.CustomerCheckinLat = cloneFloat(b.CustomerCheckinLat)
	c.CustomerCheckinLng = cloneFloat(b.CustomerCheckinLng)
	c.ProviderCheckinAt = cloneTime(b.ProviderCheckinAt)
	c.ProviderCheckinLat = cloneFloat(b.ProviderCheckinLat)
	c.ProviderCheckinLng = cloneFloat(b.ProviderCheckinLng)
	c.CompletionToken = cloneString(b.CompletionToken)
	c.TokenExpiresAt = cloneTime(b.TokenExpiresAt)
	c.AutoReleaseAt = cloneTime(b.AutoReleaseAt)
	c.DisputedAt = cloneTime(b.DisputedAt)
	c.CallScheduledAt = cloneTime(b.CallScheduledAt)
	c.CallRoomID = cloneString(b.CallRoomID)
	c.CallStartedAt = cloneTime(b.CallStartedAt)
	c.CallEndedAt = cloneTime(b.CallEndedAt)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	c := *f
	return &c
}

// seed helpers

func (s *memoryStore) seedWallet(ownerID, ownerKind string, balance int64) *entity.Wallet {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := &entity.Wallet{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		OwnerKind: ownerKind,
		Balance:   balance,
		Status:    entity.WalletStatusActive,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	s.wallets[ownerID] = w
	return w
}

func (s *memoryStore) freezeWallet(ownerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wallets[ownerID].Status = entity.WalletStatusFrozen
}

func (s *memoryStore) seedUser(id, name string, isProvider bool) *entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &entity.User{
		UserID:     id,
		FullName:   name,
		IsProvider: isProvider,
		CreatedAt:  time.Now().UTC(),
	}
	s.users[id] = u
	return u
}

func (s *memoryStore) seedService(svc *entity.ServiceOffering) *entity.ServiceOffering {
	s.mu.Lock()
	defer s.mu.Unlock()
	if svc.ID == "" {
		svc.ID = uuid.NewString()
	}
	s.services[svc.ID] = svc
	return svc
}

// assertion helpers

func (s *memoryStore) booking(id string) *entity.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil
	}
	return cloneBooking(b)
}

func (s *memoryStore) balance(ownerID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wallets[ownerID].Balance
}

func (s *memoryStore) transactionsFor(ownerID string) []entity.WalletTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.WalletTransaction
	for _, id := range s.txnOrder {
		if s.txns[id].OwnerID == ownerID {
			out = append(out, *s.txns[id])
		}
	}
	return out
}

func (s *memoryStore) holdStatus(holdID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	txn, ok := s.txns[holdID]
	if !ok {
		return ""
	}
	return txn.Status
}

// ledger primitives, mutex already held

func (s *memoryStore) insertTxn(txn *entity.WalletTransaction) {
	s.txns[txn.ID] = txn
	s.txnOrder = append(s.txnOrder, txn.ID)
}

func (s *memoryStore) holdLocked(ownerID string, amount int64, bookingID, reason string) (*entity.WalletTransaction, error) {
	wallet, ok := s.wallets[ownerID]
	if !ok {
		return nil, repository.ErrWalletNotFound
	}
	if wallet.Status != entity.WalletStatusActive {
		return nil, repository.ErrWalletNotFound
	}
	if wallet.Balance < amount {
		return nil, repository.ErrInsufficientFunds
	}
	wallet.Balance -= amount
	txn := &entity.WalletTransaction{
		ID:        uuid.NewString(),
		WalletID:  wallet.ID,
		OwnerID:   ownerID,
		Kind:      entity.TxnKindHold,
		Amount:    -amount,
		Status:    entity.TxnStatusHeld,
		BookingID: &bookingID,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}
	s.insertTxn(txn)
	return txn, nil
}

func (s *memoryStore) releaseLocked(holdID, providerID string, amount, commissionRate int64, bookingID, reason string) (*entity.WalletTransaction, error) {
	hold, ok := s.txns[holdID]
	if !ok || hold.Status != entity.TxnStatusHeld {
		return nil, repository.ErrHoldNotHeld
	}
	wallet, ok := s.wallets[providerID]
	if !ok {
		return nil, repository.ErrWalletNotFound
	}
	hold.Status = entity.TxnStatusReleased

	commission := amount * commissionRate / 100
	net := amount - commission
	wallet.Balance += net
	wallet.LifetimeDeposit += net

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
		CreatedAt:  time.Now().UTC(),
	}
	s.insertTxn(txn)
	return txn, nil
}

func (s *memoryStore) creditRefundLocked(ownerID string, amount int64, bookingID, reason string) (*entity.WalletTransaction, error) {
	wallet, ok := s.wallets[ownerID]
	if !ok {
		return nil, repository.ErrWalletNotFound
	}
	wallet.Balance += amount
	txn := &entity.WalletTransaction{
		ID:        uuid.NewString(),
		WalletID:  wallet.ID,
		OwnerID:   ownerID,
		Kind:      entity.TxnKindRefund,
		Amount:    amount,
		Status:    entity.TxnStatusApproved,
		BookingID: &bookingID,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}
	s.insertTxn(txn)
	return txn, nil
}

// BookingStore

func (s *memoryStore) CreateWithHold(ctx context.Context, booking *entity.Booking, holdAmount int64, holdReason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	hold, err := s.holdLocked(booking.CustomerID, holdAmount, booking.ID, holdReason)
	if err != nil {
		return err
	}
	booking.HoldTransactionID = &hold.ID
	s.bookings[booking.ID] = cloneBooking(booking)
	return nil
}

func (s *memoryStore) FindByID(ctx context.Context, id string) (*entity.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	return cloneBooking(b), nil
}

func (s *memoryStore) FindByToken(ctx context.Context, token string) (*entity.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.CompletionToken != nil && *b.CompletionToken == token {
			return cloneBooking(b), nil
		}
	}
	return nil, repository.ErrBookingNotFound
}

func (s *memoryStore) ListByCustomer(ctx context.Context, customerID, status string, limit, offset int) ([]entity.Booking, error) {
	return s.list(func(b *entity.Booking) bool { return b.CustomerID == customerID }, status, limit, offset)
}

func (s *memoryStore) ListByProvider(ctx context.Context, providerID, status string, limit, offset int) ([]entity.Booking, error) {
	return s.list(func(b *entity.Booking) bool { return b.ProviderID == providerID }, status, limit, offset)
}

func (s *memoryStore) list(owned func(*entity.Booking) bool, status string, limit, offset int) ([]entity.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []*entity.Booking
	for _, b := range s.bookings {
		if !owned(b) {
			continue
		}
		if status != "" && b.Status != status {
			continue
		}
		matched = append(matched, b)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	var out []entity.Booking
	for i := offset; i < len(matched) && len(out) < limit; i++ {
		out = append(out, *cloneBooking(matched[i]))
	}
	return out, nil
}

func (s *memoryStore) FindDueAutoRelease(ctx context.Context, now time.Time, limit int) ([]entity.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var due []*entity.Booking
	for _, b := range s.bookings {
		if b.Status != entity.StatusAwaitingConfirmation || b.PaymentStatus != entity.PaymentPendingRelease {
			continue
		}
		if b.AutoReleaseAt == nil || b.AutoReleaseAt.After(now) {
			continue
		}
		due = append(due, b)
	}
	sort.SliceStable(due, func(i, j int) bool {
		return due[i].AutoReleaseAt.Before(*due[j].AutoReleaseAt)
	})
	var out []entity.Booking
	for i := 0; i < len(due) && i < limit; i++ {
		out = append(out, *cloneBooking(due[i]))
	}
	return out, nil
}

func (s *memoryStore) UpdateStatus(ctx context.Context, id, from, to string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok || b.Status != from {
		return repository.ErrStateConflict
	}
	b.Status = to
	b.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *memoryStore) CheckIn(ctx context.Context, id, party string, at time.Time, lat, lng float64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return false, repository.ErrAlreadyCheckedIn
	}
	switch party {
	case entity.PartyCustomer:
		if b.CustomerCheckinAt != nil {
			return false, repository.ErrAlreadyCheckedIn
		}
		b.CustomerCheckinAt = &at
		b.CustomerCheckinLat = &lat
		b.CustomerCheckinLng = &lng
	case entity.PartyProvider:
		if b.ProviderCheckinAt != nil {
			return false, repository.ErrAlreadyCheckedIn
		}
		b.ProviderCheckinAt = &at
		b.ProviderCheckinLat = &lat
		b.ProviderCheckinLng = &lng
	default:
		return false, fmt.Errorf("unknown party %q", party)
	}
	b.UpdatedAt = at
	if b.Status == entity.StatusConfirmed && b.CustomerCheckinAt != nil && b.ProviderCheckinAt != nil {
		b.Status = entity.StatusInProgress
		return true, nil
	}
	return false, nil
}

func (s *memoryStore) MarkCompleted(ctx context.Context, id, token string, tokenExpiresAt, autoReleaseAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return repository.ErrStateConflict
	}
	if (b.Status != entity.StatusConfirmed && b.Status != entity.StatusInProgress) || b.PaymentStatus != entity.PaymentHeld {
		return repository.ErrStateConflict
	}
	b.Status = entity.StatusAwaitingConfirmation
	b.PaymentStatus = entity.PaymentPendingRelease
	b.CompletionToken = &token
	b.TokenExpiresAt = &tokenExpiresAt
	b.AutoReleaseAt = &autoReleaseAt
	b.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *memoryStore) MarkDisputed(ctx context.Context, id, reason string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok || b.Status != entity.StatusAwaitingConfirmation {
		return repository.ErrStateConflict
	}
	b.Status = entity.StatusDisputed
	b.DisputeReason = reason
	b.DisputedAt = &at
	b.UpdatedAt = at
	return nil
}

func (s *memoryStore) StartCall(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok || b.Status != entity.StatusConnecting {
		return repository.ErrStateConflict
	}
	b.Status = entity.StatusInCall
	b.CallStartedAt = &at
	b.UpdatedAt = at
	return nil
}

func (s *memoryStore) SettleRelease(ctx context.Context, booking *entity.Booking, commissionRate int64, reason string) (*entity.WalletTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if booking.HoldTransactionID == nil {
		return nil, repository.ErrHoldNotHeld
	}
	hold, ok := s.txns[*booking.HoldTransactionID]
	if !ok || hold.Status != entity.TxnStatusHeld {
		return nil, repository.ErrHoldNotHeld
	}
	stored, ok := s.bookings[booking.ID]
	if !ok || stored.Status != entity.StatusAwaitingConfirmation || stored.PaymentStatus != entity.PaymentPendingRelease {
		return nil, repository.ErrStateConflict
	}

	earning, err := s.releaseLocked(*booking.HoldTransactionID, booking.ProviderID,
		booking.Price, commissionRate, booking.ID, reason)
	if err != nil {
		return nil, err
	}

	stored.Status = entity.StatusCompleted
	stored.PaymentStatus = entity.PaymentReleased
	stored.ReleaseTransactionID = &earning.ID
	stored.CompletionToken = nil
	stored.TokenExpiresAt = nil
	stored.UpdatedAt = time.Now().UTC()

	booking.Status = entity.StatusCompleted
	booking.PaymentStatus = entity.PaymentReleased
	booking.ReleaseTransactionID = &earning.ID
	booking.CompletionToken = nil
	booking.TokenExpiresAt = nil
	return earning, nil
}

func (s *memoryStore) SettleRefund(ctx context.Context, booking *entity.Booking, amount int64, from []string, to, reason string) (*entity.WalletTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if booking.HoldTransactionID == nil {
		return nil, repository.ErrHoldNotHeld
	}
	hold, ok := s.txns[*booking.HoldTransactionID]
	if !ok || hold.Status != entity.TxnStatusHeld {
		return nil, repository.ErrHoldNotHeld
	}
	stored, ok := s.bookings[booking.ID]
	if !ok || stored.PaymentStatus != entity.PaymentHeld {
		return nil, repository.ErrStateConflict
	}
	allowed := false
	for _, f := range from {
		if stored.Status == f {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, repository.ErrStateConflict
	}

	hold.Status = entity.TxnStatusRefunded
	refund, err := s.creditRefundLocked(booking.CustomerID, amount, booking.ID, reason)
	if err != nil {
		return nil, err
	}

	stored.Status = to
	stored.PaymentStatus = entity.PaymentRefunded
	stored.CancelReason = reason
	stored.UpdatedAt = time.Now().UTC()

	booking.Status = to
	booking.PaymentStatus = entity.PaymentRefunded
	booking.CancelReason = reason
	return refund, nil
}

func (s *memoryStore) SettleCall(ctx context.Context, booking *entity.Booking, actualCost, refundAmount, durationMinutes, commissionRate int64, endedAt time.Time) (*entity.WalletTransaction, *entity.WalletTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if booking.HoldTransactionID == nil {
		return nil, nil, repository.ErrHoldNotHeld
	}
	hold, ok := s.txns[*booking.HoldTransactionID]
	if !ok || hold.Status != entity.TxnStatusHeld {
		return nil, nil, repository.ErrHoldNotHeld
	}
	stored, ok := s.bookings[booking.ID]
	if !ok || stored.Status != entity.StatusInCall || stored.PaymentStatus != entity.PaymentHeld {
		return nil, nil, repository.ErrStateConflict
	}

	earning, err := s.releaseLocked(*booking.HoldTransactionID, booking.ProviderID,
		actualCost, commissionRate, booking.ID, "call settlement")
	if err != nil {
		return nil, nil, err
	}
	var refund *entity.WalletTransaction
	if refundAmount > 0 {
		refund, err = s.creditRefundLocked(booking.CustomerID, refundAmount, booking.ID, "unused call hold")
		if err != nil {
			return nil, nil, err
		}
	}

	stored.Status = entity.StatusCompleted
	stored.PaymentStatus = entity.PaymentReleased
	stored.Price = actualCost
	stored.DurationMinutes = durationMinutes
	stored.CallEndedAt = &endedAt
	stored.ReleaseTransactionID = &earning.ID
	stored.UpdatedAt = endedAt

	booking.Status = entity.StatusCompleted
	booking.PaymentStatus = entity.PaymentReleased
	booking.Price = actualCost
	booking.DurationMinutes = durationMinutes
	booking.CallEndedAt = &endedAt
	booking.ReleaseTransactionID = &earning.ID
	return earning, refund, nil
}

func (s *memoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok || (b.PaymentStatus != entity.PaymentReleased && b.PaymentStatus != entity.PaymentRefunded) {
		return repository.ErrStateConflict
	}
	delete(s.bookings, id)
	return nil
}

// WalletStore

func (s *memoryStore) FindByOwner(ctx context.Context, ownerID string) (*entity.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[ownerID]
	if !ok {
		return nil, repository.ErrWalletNotFound
	}
	c := *w
	return &c, nil
}

func (s *memoryStore) History(ctx context.Context, ownerID string, limit, offset int) ([]entity.WalletTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.WalletTransaction
	skipped := 0
	for i := len(s.txnOrder) - 1; i >= 0 && len(out) < limit; i-- {
		txn := s.txns[s.txnOrder[i]]
		if txn.OwnerID != ownerID {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		out = append(out, *txn)
	}
	return out, nil
}

func (s *memoryStore) Recharge(ctx context.Context, ownerID string, amount int64) (*entity.WalletTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wallet, ok := s.wallets[ownerID]
	if !ok || wallet.Status != entity.WalletStatusActive {
		return nil, repository.ErrWalletNotFound
	}
	wallet.Balance += amount
	wallet.LifetimeRecharge += amount
	txn := &entity.WalletTransaction{
		ID:        uuid.NewString(),
		WalletID:  wallet.ID,
		OwnerID:   ownerID,
		Kind:      entity.TxnKindRecharge,
		Amount:    amount,
		Status:    entity.TxnStatusApproved,
		Reason:    "wallet recharge",
		CreatedAt: time.Now().UTC(),
	}
	s.insertTxn(txn)
	return txn, nil
}

// ServiceStore and UserStore views. FindByID returns a different entity per
// interface, so each gets a thin adapter over the shared maps.

type memoryServiceStore struct {
	store *memoryStore
}

func (s *memoryServiceStore) Create(ctx context.Context, service *entity.ServiceOffering) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	c := *service
	s.store.services[service.ID] = &c
	return nil
}

func (s *memoryServiceStore) FindByID(ctx context.Context, id string) (*entity.ServiceOffering, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	svc, ok := s.store.services[id]
	if !ok {
		return nil, repository.ErrServiceNotFound
	}
	c := *svc
	return &c, nil
}

func (s *memoryServiceStore) List(ctx context.Context, providerID, kind string, limit, offset int) ([]entity.ServiceOffering, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	var matched []*entity.ServiceOffering
	for _, svc := range s.store.services {
		if !svc.Active {
			continue
		}
		if providerID != "" && svc.ProviderID != providerID {
			continue
		}
		if kind != "" && svc.Kind != kind {
			continue
		}
		matched = append(matched, svc)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	var out []entity.ServiceOffering
	for i := offset; i < len(matched) && len(out) < limit; i++ {
		out = append(out, *matched[i])
	}
	return out, nil
}

type memoryUserStore struct {
	store *memoryStore
}

func (s *memoryUserStore) FindByID(ctx context.Context, id string) (*entity.User, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	u, ok := s.store.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

// fakeKafkaProducer captures published messages and optionally fails every
// publish, for the notification tolerance tests.
type fakeKafkaProducer struct {
	mu       sync.Mutex
	messages []*sarama.ProducerMessage
	fail     bool
}

func (p *fakeKafkaProducer) Publish(message *sarama.ProducerMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return fmt.Errorf("broker unavailable")
	}
	p.messages = append(p.messages, message)
	return nil
}

func (p *fakeKafkaProducer) Close() error { return nil }

func (p *fakeKafkaProducer) published() []*sarama.ProducerMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*sarama.ProducerMessage, len(p.messages))
	copy(out, p.messages)
	return out
}

func (p *fakeKafkaProducer) lastEvent(t *testing.T) *model.NotificationEvent {
	t.Helper()
	msgs := p.published()
	if len(msgs) == 0 {
		t.Fatal("no notification published")
	}
	return decodeEvent(t, msgs[len(msgs)-1])
}

func decodeEvent(t *testing.T, msg *sarama.ProducerMessage) *model.NotificationEvent {
	t.Helper()
	raw, err := msg.Value.Encode()
	if err != nil {
		t.Fatalf("encode message value: %v", err)
	}
	var event model.NotificationEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		t.Fatalf("unmarshal notification event: %v", err)
	}
	return &event
}

func testConfig() *viper.Viper {
	v := viper.New()
	v.Set("booking.checkin_radius_m", 50)
	v.Set("booking.checkin_open_before_min", 30)
	v.Set("booking.cancel_cutoff_hours", 2)
	v.Set("booking.confirm_window_hours", 24)
	v.Set("booking.call_hold_cap_min", 120)
	v.Set("booking.ring_timeout_sec", 60)
	v.Set("booking.commission_rate_pct", 20)
	v.Set("booking.sweep_batch_size", 100)
	return v
}

func newTestValidator() *validator.Validate {
	return validator.New()
}

func assertCommonError(t *testing.T, err error, status int, errorCode string) *httpError.CommonError {
	t.Helper()
	var commonErr *httpError.CommonError
	require.ErrorAs(t, err, &commonErr)
	assert.Equal(t, status, commonErr.Code)
	if errorCode != "" {
		assert.Equal(t, errorCode, commonErr.ErrorCode)
	}
	return commonErr
}
