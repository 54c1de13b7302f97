package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"acem-epargne/internal/adapters/persistence/models"
	"acem-epargne/internal/adapters/persistence/repositories"
	"acem-epargne/internal/core/domain"
)

const (
	payoutNoteSingle = "Octroi épargne"
	payoutNoteBulk   = "Octroi en masse"
)

// PayoutService settles matured members: it marks qualifying deposits paid
// and records the matching payout. The payout is appended before the deposit
// write so that, under a crash between the two, the payout record remains
// the source of truth for reconciliation.
type PayoutService struct {
	store    repositories.RecordStore
	notifier NotificationPusher
	clock    func() time.Time

	// serializes every settlement: single-member and bulk settlement must
	// never mutate the deposit collection concurrently
	mu sync.Mutex
}

// NewPayoutService creates a new payout service
func NewPayoutService(store repositories.RecordStore, notifier NotificationPusher) *PayoutService {
	return &PayoutService{store: store, notifier: notifier, clock: time.Now}
}

// WithClock overrides the time source (tests)
func (s *PayoutService) WithClock(clock func() time.Time) *PayoutService {
	s.clock = clock
	return s
}

// List returns the payout history
func (s *PayoutService) List(ctx context.Context) ([]models.Payout, error) {
	return s.store.Payouts(ctx)
}

// SettleMember settles all unpaid deposits of one member.
// Fails with domain.ErrNotEligible while the maturity threshold is not
// reached and domain.ErrNothingToSettle when no unpaid deposit exists.
func (s *PayoutService) SettleMember(ctx context.Context, code string) (*models.Payout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deposits, err := s.store.Deposits(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	stats := MemberStats(deposits, now)
	var record *EligibilityRecord
	for i := range stats {
		if stats[i].Code == code {
			record = &stats[i]
			break
		}
	}
	if record == nil || record.RemainingDays == nil {
		return nil, fmt.Errorf("%w: %s has no settlement date", domain.ErrNotEligible, code)
	}
	if *record.RemainingDays > 0 {
		return nil, fmt.Errorf("%w: %s must wait %d more days", domain.ErrNotEligible, code, *record.RemainingDays)
	}

	today := dateOnly(now)
	payout, settled := settleInMemory(deposits, code, today, payoutNoteSingle)
	if settled == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrNothingToSettle, code)
	}

	appended, err := s.store.AppendPayouts(ctx, []models.Payout{payout})
	if err != nil {
		return nil, err
	}
	if err := s.store.ReplaceDeposits(ctx, deposits); err != nil {
		// payout recorded, deposits not yet marked paid: the payout record
		// drives the manual reconciliation pass
		return nil, err
	}

	s.pushPayoutEvent(appended[0])
	return &appended[0], nil
}

// SettleAll settles every currently eligible member against one shared
// deposit snapshot and issues a single pair of bulk writes, bounding
// partial-failure exposure to one payout write plus one deposit write.
func (s *PayoutService) SettleAll(ctx context.Context) ([]models.Payout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deposits, err := s.store.Deposits(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	today := dateOnly(now)
	eligible := make([]EligibilityRecord, 0)
	for _, r := range MemberStats(deposits, now) {
		if r.Eligible() {
			eligible = append(eligible, r)
		}
	}
	if len(eligible) == 0 {
		return []models.Payout{}, nil
	}

	payouts := make([]models.Payout, 0, len(eligible))
	for _, r := range eligible {
		payout, settled := settleInMemory(deposits, r.Code, today, payoutNoteBulk)
		if settled == 0 {
			continue
		}
		payouts = append(payouts, payout)
	}

	appended, err := s.store.AppendPayouts(ctx, payouts)
	if err != nil {
		return nil, err
	}
	if err := s.store.ReplaceDeposits(ctx, deposits); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Push(models.NotifTypePayoutBulk,
			fmt.Sprintf("Paiement en masse: %d membres", len(appended)),
			fmt.Sprintf("Date: %s", today.Format("2006-01-02")))
	}
	return appended, nil
}

// settleInMemory marks every unpaid deposit of code paid as of today and
// returns the matching payout record. The deposit slice is mutated in place.
func settleInMemory(deposits []models.Deposit, code string, today time.Time, note string) (models.Payout, int) {
	var total int64
	var count int
	for i := range deposits {
		if deposits[i].MemberCode != code || deposits[i].Paid {
			continue
		}
		deposits[i].Paid = true
		paidAt := today
		deposits[i].PaidAt = &paidAt
		total += deposits[i].Montant
		count++
	}
	return models.Payout{
		Code:   code,
		Amount: total,
		Count:  count,
		Date:   today,
		Note:   note,
	}, count
}

func (s *PayoutService) pushPayoutEvent(payout models.Payout) {
	if s.notifier == nil {
		return
	}
	s.notifier.Push(models.NotifTypePayout,
		fmt.Sprintf("Paiement: %d FC — %s", payout.Amount, payout.Code),
		fmt.Sprintf("%d dépôts", payout.Count))
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
