package services

import (
	"context"
	"errors"
	"testing"

	"acem-epargne/internal/adapters/persistence/models"
	"acem-epargne/internal/core/domain"
)

// recordingPusher captures pushed notification events
type recordingPusher struct {
	events []string
}

func (p *recordingPusher) Push(eventType, title, detail string) {
	p.events = append(p.events, eventType)
}

func TestSettleMemberPaysOutAllUnpaid(t *testing.T) {
	store := newTestStore(t)
	seedDeposits(t, store, []models.Deposit{
		{MemberCode: "M-00001", MemberName: "Mwamba", Montant: 1000, Date: daysAgo(35)},
		{MemberCode: "M-00001", MemberName: "Mwamba", Montant: 500, Date: daysAgo(10)},
		{MemberCode: "M-00002", MemberName: "Ngalula", Montant: 2000, Date: daysAgo(5)},
	})

	pusher := &recordingPusher{}
	svc := NewPayoutService(store, pusher).WithClock(fixedClock(testNow))

	payout, err := svc.SettleMember(context.Background(), "M-00001")
	if err != nil {
		t.Fatalf("SettleMember failed: %v", err)
	}
	if payout.Amount != 1500 || payout.Count != 2 {
		t.Errorf("Expected amount=1500 count=2, got amount=%d count=%d", payout.Amount, payout.Count)
	}
	if payout.Note != "Octroi épargne" {
		t.Errorf("Unexpected note: %s", payout.Note)
	}

	// every deposit of the member flips paid, including the young one
	deposits, err := store.Deposits(context.Background())
	if err != nil {
		t.Fatalf("Deposits read failed: %v", err)
	}
	for _, d := range deposits {
		if d.MemberCode == "M-00001" {
			if !d.Paid {
				t.Errorf("Deposit of M-00001 left unpaid: %+v", d)
			}
			if d.PaidAt == nil || !d.PaidAt.Equal(payout.Date) {
				t.Errorf("Expected paidAt equal to the payout date %v, got %v", payout.Date, d.PaidAt)
			}
		}
		if d.MemberCode == "M-00002" && d.Paid {
			t.Errorf("Deposit of M-00002 must stay unpaid")
		}
	}

	if len(pusher.events) != 1 || pusher.events[0] != models.NotifTypePayout {
		t.Errorf("Expected one payout event, got %v", pusher.events)
	}
}

func TestSettleMemberRejectsImmature(t *testing.T) {
	store := newTestStore(t)
	seedDeposits(t, store, []models.Deposit{
		{MemberCode: "M-00002", MemberName: "Ngalula", Montant: 2000, Date: daysAgo(5)},
	})

	svc := NewPayoutService(store, nil).WithClock(fixedClock(testNow))
	_, err := svc.SettleMember(context.Background(), "M-00002")
	if !errors.Is(err, domain.ErrNotEligible) {
		t.Fatalf("Expected ErrNotEligible, got %v", err)
	}

	payouts, _ := store.Payouts(context.Background())
	if len(payouts) != 0 {
		t.Errorf("Rejected settlement must not record a payout, got %d", len(payouts))
	}
}

func TestSettleMemberUnknownCode(t *testing.T) {
	store := newTestStore(t)
	svc := NewPayoutService(store, nil).WithClock(fixedClock(testNow))

	_, err := svc.SettleMember(context.Background(), "M-09999")
	if !errors.Is(err, domain.ErrNotEligible) {
		t.Fatalf("Expected ErrNotEligible for unknown code, got %v", err)
	}
}

func TestSettleMemberIsNotRepeatable(t *testing.T) {
	store := newTestStore(t)
	seedDeposits(t, store, []models.Deposit{
		{MemberCode: "M-00001", MemberName: "Mwamba", Montant: 1000, Date: daysAgo(35)},
	})

	svc := NewPayoutService(store, nil).WithClock(fixedClock(testNow))
	ctx := context.Background()

	if _, err := svc.SettleMember(ctx, "M-00001"); err != nil {
		t.Fatalf("First settlement failed: %v", err)
	}

	// once paid the member drops out of the unpaid aggregation entirely
	_, err := svc.SettleMember(ctx, "M-00001")
	if !errors.Is(err, domain.ErrNotEligible) {
		t.Fatalf("Expected ErrNotEligible on resettle, got %v", err)
	}

	payouts, _ := store.Payouts(ctx)
	if len(payouts) != 1 {
		t.Errorf("Expected exactly one payout record, got %d", len(payouts))
	}
}

func TestSettleAllSettlesOnlyEligible(t *testing.T) {
	store := newTestStore(t)
	seedDeposits(t, store, []models.Deposit{
		{MemberCode: "M-00001", MemberName: "Mwamba", Montant: 1000, Date: daysAgo(45)},
		{MemberCode: "M-00001", MemberName: "Mwamba", Montant: 500, Date: daysAgo(33)},
		{MemberCode: "M-00002", MemberName: "Ngalula", Montant: 2000, Date: daysAgo(31)},
		{MemberCode: "M-00003", MemberName: "Ilunga", Montant: 700, Date: daysAgo(5)},
	})

	pusher := &recordingPusher{}
	svc := NewPayoutService(store, pusher).WithClock(fixedClock(testNow))

	payouts, err := svc.SettleAll(context.Background())
	if err != nil {
		t.Fatalf("SettleAll failed: %v", err)
	}
	if len(payouts) != 2 {
		t.Fatalf("Expected 2 payouts, got %d", len(payouts))
	}

	byCode := map[string]models.Payout{}
	for _, p := range payouts {
		byCode[p.Code] = p
	}
	if byCode["M-00001"].Amount != 1500 || byCode["M-00001"].Count != 2 {
		t.Errorf("M-00001: expected amount=1500 count=2, got %+v", byCode["M-00001"])
	}
	if byCode["M-00002"].Amount != 2000 {
		t.Errorf("M-00002: expected amount=2000, got %+v", byCode["M-00002"])
	}
	if _, ok := byCode["M-00003"]; ok {
		t.Error("M-00003 settled while still immature")
	}

	if len(pusher.events) != 1 || pusher.events[0] != models.NotifTypePayoutBulk {
		t.Errorf("Expected one bulk payout event, got %v", pusher.events)
	}
}

func TestSettleAllNoEligible(t *testing.T) {
	store := newTestStore(t)
	seedDeposits(t, store, []models.Deposit{
		{MemberCode: "M-00003", Montant: 700, Date: daysAgo(5)},
	})

	pusher := &recordingPusher{}
	svc := NewPayoutService(store, pusher).WithClock(fixedClock(testNow))

	payouts, err := svc.SettleAll(context.Background())
	if err != nil {
		t.Fatalf("SettleAll failed: %v", err)
	}
	if len(payouts) != 0 {
		t.Errorf("Expected no payouts, got %d", len(payouts))
	}
	if len(pusher.events) != 0 {
		t.Errorf("Expected no events, got %v", pusher.events)
	}
}
