package repositories

import (
	"context"
	"errors"
	"log"
	"sync/atomic"

	"acem-epargne/internal/adapters/persistence/models"
	"acem-epargne/internal/core/domain"
)

// FailoverStore serves from a primary record store and switches to a
// secondary (local-only) store once the primary proves unreachable. The
// switch is sticky for the life of the process: like a failed backend probe,
// it avoids hammering a dead server on every call.
type FailoverStore struct {
	primary   RecordStore
	secondary RecordStore
	down      atomic.Bool
}

// NewFailoverStore wraps a primary store with a local fallback
func NewFailoverStore(primary, secondary RecordStore) *FailoverStore {
	return &FailoverStore{primary: primary, secondary: secondary}
}

// PrimaryDown reports whether the store has switched to the fallback
func (s *FailoverStore) PrimaryDown() bool {
	return s.down.Load()
}

func (s *FailoverStore) active() RecordStore {
	if s.down.Load() {
		return s.secondary
	}
	return s.primary
}

func (s *FailoverStore) markDown(err error) {
	if s.down.CompareAndSwap(false, true) {
		log.Printf("⚠️ Primary record store unreachable, falling back to local store: %v", err)
	}
}

// call runs op against the active store, retrying once on the secondary
// when the primary reports ErrStoreUnavailable
func call[T any](s *FailoverStore, op func(RecordStore) (T, error)) (T, error) {
	result, err := op(s.active())
	if err != nil && !s.down.Load() && errors.Is(err, domain.ErrStoreUnavailable) {
		s.markDown(err)
		return op(s.secondary)
	}
	return result, err
}

func (s *FailoverStore) Members(ctx context.Context) ([]models.Member, error) {
	return call(s, func(r RecordStore) ([]models.Member, error) { return r.Members(ctx) })
}

func (s *FailoverStore) CreateMember(ctx context.Context, member *models.Member) error {
	_, err := call(s, func(r RecordStore) (struct{}, error) { return struct{}{}, r.CreateMember(ctx, member) })
	return err
}

func (s *FailoverStore) NextMemberCode(ctx context.Context) (string, error) {
	return call(s, func(r RecordStore) (string, error) { return r.NextMemberCode(ctx) })
}

func (s *FailoverStore) Deposits(ctx context.Context) ([]models.Deposit, error) {
	return call(s, func(r RecordStore) ([]models.Deposit, error) { return r.Deposits(ctx) })
}

func (s *FailoverStore) CreateDeposit(ctx context.Context, deposit *models.Deposit) error {
	_, err := call(s, func(r RecordStore) (struct{}, error) { return struct{}{}, r.CreateDeposit(ctx, deposit) })
	return err
}

func (s *FailoverStore) ReplaceDeposits(ctx context.Context, deposits []models.Deposit) error {
	_, err := call(s, func(r RecordStore) (struct{}, error) { return struct{}{}, r.ReplaceDeposits(ctx, deposits) })
	return err
}

func (s *FailoverStore) Payouts(ctx context.Context) ([]models.Payout, error) {
	return call(s, func(r RecordStore) ([]models.Payout, error) { return r.Payouts(ctx) })
}

func (s *FailoverStore) AppendPayouts(ctx context.Context, payouts []models.Payout) ([]models.Payout, error) {
	return call(s, func(r RecordStore) ([]models.Payout, error) { return r.AppendPayouts(ctx, payouts) })
}

func (s *FailoverStore) Notifications(ctx context.Context) ([]models.Notification, error) {
	return call(s, func(r RecordStore) ([]models.Notification, error) { return r.Notifications(ctx) })
}

func (s *FailoverStore) ReplaceNotifications(ctx context.Context, notifications []models.Notification) error {
	_, err := call(s, func(r RecordStore) (struct{}, error) {
		return struct{}{}, r.ReplaceNotifications(ctx, notifications)
	})
	return err
}

func (s *FailoverStore) Cursor(ctx context.Context, store models.StoreKind) (models.ScanCursor, error) {
	return call(s, func(r RecordStore) (models.ScanCursor, error) { return r.Cursor(ctx, store) })
}

func (s *FailoverStore) SaveCursor(ctx context.Context, cursor models.ScanCursor) error {
	_, err := call(s, func(r RecordStore) (struct{}, error) { return struct{}{}, r.SaveCursor(ctx, cursor) })
	return err
}

func (s *FailoverStore) Ping(ctx context.Context) error {
	_, err := call(s, func(r RecordStore) (struct{}, error) { return struct{}{}, r.Ping(ctx) })
	return err
}
