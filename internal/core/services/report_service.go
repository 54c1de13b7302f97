package services

import (
	"context"
	"fmt"
	"sort"

	"acem-epargne/internal/adapters/persistence/repositories"
	"acem-epargne/internal/core/domain"
)

// ============================================================
// Report DTOs
// ============================================================

// SummaryReport is the global caisse position
type SummaryReport struct {
	MemberCount    int   `json:"memberCount"`
	DepositCount   int   `json:"depositCount"`
	DepositTotal   int64 `json:"depositTotal"`
	UnpaidTotal    int64 `json:"unpaidTotal"`
	PayoutCount    int   `json:"payoutCount"`
	PayoutTotal    int64 `json:"payoutTotal"`
	NetPosition    int64 `json:"netPosition"`
	PendingMembers int   `json:"pendingMembers"`
}

// MemberBalance is one member's lifetime position
type MemberBalance struct {
	Code         string `json:"code"`
	Nom          string `json:"nom"`
	DepositTotal int64  `json:"depositTotal"`
	UnpaidTotal  int64  `json:"unpaidTotal"`
	PayoutTotal  int64  `json:"payoutTotal"`
	Balance      int64  `json:"balance"`
}

// MonthlyReport aggregates flows per calendar month
type MonthlyReport struct {
	Month        string `json:"month"` // "2026-01"
	DepositTotal int64  `json:"depositTotal"`
	DepositCount int    `json:"depositCount"`
	PayoutTotal  int64  `json:"payoutTotal"`
	PayoutCount  int    `json:"payoutCount"`
}

// ReportService computes caisse-level and member-level aggregates
type ReportService struct {
	store repositories.RecordStore
}

// NewReportService creates a new report service
func NewReportService(store repositories.RecordStore) *ReportService {
	return &ReportService{store: store}
}

// Summary returns the global position of the caisse
func (s *ReportService) Summary(ctx context.Context) (*SummaryReport, error) {
	members, err := s.store.Members(ctx)
	if err != nil {
		return nil, err
	}
	deposits, err := s.store.Deposits(ctx)
	if err != nil {
		return nil, err
	}
	payouts, err := s.store.Payouts(ctx)
	if err != nil {
		return nil, err
	}

	report := SummaryReport{
		MemberCount:  len(members),
		DepositCount: len(deposits),
		PayoutCount:  len(payouts),
	}
	pending := map[string]bool{}
	for _, d := range deposits {
		report.DepositTotal += d.Montant
		if !d.Paid {
			report.UnpaidTotal += d.Montant
			pending[d.MemberCode] = true
		}
	}
	for _, p := range payouts {
		report.PayoutTotal += p.Amount
	}
	report.NetPosition = report.DepositTotal - report.PayoutTotal
	report.PendingMembers = len(pending)
	return &report, nil
}

// MemberBalance returns one member's lifetime deposits, payouts and balance
func (s *ReportService) MemberBalance(ctx context.Context, code string) (*MemberBalance, error) {
	members, err := s.store.Members(ctx)
	if err != nil {
		return nil, err
	}
	balance := MemberBalance{Code: code}
	found := false
	for _, m := range members {
		if m.Code == code {
			balance.Nom = m.Nom
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", domain.ErrMemberNotFound, code)
	}

	deposits, err := s.store.Deposits(ctx)
	if err != nil {
		return nil, err
	}
	for _, d := range deposits {
		if d.MemberCode != code {
			continue
		}
		balance.DepositTotal += d.Montant
		if !d.Paid {
			balance.UnpaidTotal += d.Montant
		}
	}
	payouts, err := s.store.Payouts(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range payouts {
		if p.Code == code {
			balance.PayoutTotal += p.Amount
		}
	}
	balance.Balance = balance.DepositTotal - balance.PayoutTotal
	return &balance, nil
}

// Monthly returns per-month deposit and payout flows, oldest first
func (s *ReportService) Monthly(ctx context.Context) ([]MonthlyReport, error) {
	deposits, err := s.store.Deposits(ctx)
	if err != nil {
		return nil, err
	}
	payouts, err := s.store.Payouts(ctx)
	if err != nil {
		return nil, err
	}

	byMonth := map[string]*MonthlyReport{}
	bucket := func(month string) *MonthlyReport {
		if m, ok := byMonth[month]; ok {
			return m
		}
		m := &MonthlyReport{Month: month}
		byMonth[month] = m
		return m
	}
	for _, d := range deposits {
		m := bucket(d.EffectiveDate().Format("2006-01"))
		m.DepositTotal += d.Montant
		m.DepositCount++
	}
	for _, p := range payouts {
		m := bucket(p.Date.Format("2006-01"))
		m.PayoutTotal += p.Amount
		m.PayoutCount++
	}

	months := make([]MonthlyReport, 0, len(byMonth))
	for _, m := range byMonth {
		months = append(months, *m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month < months[j].Month })
	return months, nil
}
