package services

import (
	"context"
	"math"
	"sort"
	"time"

	"acem-epargne/internal/adapters/persistence/models"
	"acem-epargne/internal/adapters/persistence/repositories"
)

// MaturityDays is the number of days the earliest unpaid deposit must age
// before its member becomes eligible for a payout.
const MaturityDays = 30

// MemberLedger aggregates the unpaid deposits of one member
type MemberLedger struct {
	Code            string    `json:"code"`
	Name            string    `json:"name"`
	Count           int       `json:"count"`
	Total           int64     `json:"total"`
	FirstUnpaidDate time.Time `json:"-"`
}

// EligibilityRecord is the derived view served to renderers. RemainingDays
// and DaysElapsed are nil when no unpaid deposit carries a usable date.
type EligibilityRecord struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	Count         int    `json:"count"`
	Total         int64  `json:"total"`
	DaysElapsed   *int   `json:"daysElapsed"`
	RemainingDays *int   `json:"remainingDays"`
	ProjectedDate string `json:"projectedDate,omitempty"`
}

// Eligible reports whether the member has matured past the threshold
func (r EligibilityRecord) Eligible() bool {
	return r.RemainingDays != nil && *r.RemainingDays <= 0 && r.Count > 0
}

// LedgerService computes per-member unpaid aggregates and payout eligibility
type LedgerService struct {
	store repositories.RecordStore
	clock func() time.Time
}

// NewLedgerService creates a new ledger service
func NewLedgerService(store repositories.RecordStore) *LedgerService {
	return &LedgerService{store: store, clock: time.Now}
}

// WithClock overrides the time source (tests)
func (s *LedgerService) WithClock(clock func() time.Time) *LedgerService {
	s.clock = clock
	return s
}

// AggregateUnpaid folds the deposit collection into one ledger per member,
// considering only unpaid deposits. Members with no unpaid deposit are
// absent. Order is first-encounter order of the deposit collection, which
// keeps the later eligibility sort stable against input order.
func AggregateUnpaid(deposits []models.Deposit) []MemberLedger {
	index := make(map[string]int)
	ledgers := make([]MemberLedger, 0)
	for _, d := range deposits {
		if d.Paid {
			continue
		}
		code := d.MemberCode
		if code == "" {
			code = "UNKNOWN"
		}
		i, ok := index[code]
		if !ok {
			i = len(ledgers)
			index[code] = i
			ledgers = append(ledgers, MemberLedger{Code: code, Name: d.MemberName})
		}
		ledgers[i].Count++
		ledgers[i].Total += d.Montant
		if ledgers[i].Name == "" {
			ledgers[i].Name = d.MemberName
		}
		date := d.EffectiveDate()
		if !date.IsZero() && (ledgers[i].FirstUnpaidDate.IsZero() || date.Before(ledgers[i].FirstUnpaidDate)) {
			ledgers[i].FirstUnpaidDate = date
		}
	}
	return ledgers
}

// MemberStats derives the eligibility view of every member holding unpaid
// deposits, relative to now.
func MemberStats(deposits []models.Deposit, now time.Time) []EligibilityRecord {
	ledgers := AggregateUnpaid(deposits)
	records := make([]EligibilityRecord, 0, len(ledgers))
	for _, l := range ledgers {
		record := EligibilityRecord{
			Code:  l.Code,
			Name:  l.Name,
			Count: l.Count,
			Total: l.Total,
		}
		if !l.FirstUnpaidDate.IsZero() {
			elapsed := int(math.Floor(now.Sub(l.FirstUnpaidDate).Hours() / 24))
			remaining := MaturityDays - elapsed
			if remaining < 0 {
				remaining = 0
			}
			record.DaysElapsed = &elapsed
			record.RemainingDays = &remaining
			record.ProjectedDate = l.FirstUnpaidDate.AddDate(0, 0, MaturityDays).Format("2006-01-02")
		}
		records = append(records, record)
	}
	return records
}

// ComputeEligibility returns the eligible members, longest-waiting first.
// Ties keep input order (stable sort).
func (s *LedgerService) ComputeEligibility(ctx context.Context) ([]EligibilityRecord, error) {
	deposits, err := s.store.Deposits(ctx)
	if err != nil {
		return nil, err
	}
	stats := MemberStats(deposits, s.clock())
	eligible := make([]EligibilityRecord, 0)
	for _, r := range stats {
		if r.Eligible() {
			eligible = append(eligible, r)
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return *eligible[i].DaysElapsed > *eligible[j].DaysElapsed
	})
	return eligible, nil
}

// ComputePending returns every member with at least one unpaid deposit,
// eligible or not.
func (s *LedgerService) ComputePending(ctx context.Context) ([]EligibilityRecord, error) {
	deposits, err := s.store.Deposits(ctx)
	if err != nil {
		return nil, err
	}
	stats := MemberStats(deposits, s.clock())
	pending := make([]EligibilityRecord, 0)
	for _, r := range stats {
		if r.Count > 0 {
			pending = append(pending, r)
		}
	}
	return pending, nil
}
