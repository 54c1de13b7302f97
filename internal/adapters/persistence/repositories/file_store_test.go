package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"acem-epargne/internal/adapters/persistence/models"
	"acem-epargne/internal/core/domain"
)

func newFileStore(t *testing.T) RecordStore {
	t.Helper()
	store, err := NewFileRecordStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create file store: %v", err)
	}
	return store
}

func TestFileStoreEmptyReads(t *testing.T) {
	store := newFileStore(t)
	ctx := context.Background()

	members, err := store.Members(ctx)
	if err != nil {
		t.Fatalf("Members failed: %v", err)
	}
	if len(members) != 0 {
		t.Errorf("Expected empty member list, got %d", len(members))
	}

	deposits, err := store.Deposits(ctx)
	if err != nil {
		t.Fatalf("Deposits failed: %v", err)
	}
	if len(deposits) != 0 {
		t.Errorf("Expected empty deposit list, got %d", len(deposits))
	}
}

func TestFileStoreMemberRoundTrip(t *testing.T) {
	store := newFileStore(t)
	ctx := context.Background()

	member := models.Member{Code: "M-00001", Nom: "Mwamba", Telephone: "+243 970 000 001"}
	if err := store.CreateMember(ctx, &member); err != nil {
		t.Fatalf("CreateMember failed: %v", err)
	}

	members, err := store.Members(ctx)
	if err != nil {
		t.Fatalf("Members failed: %v", err)
	}
	if len(members) != 1 || members[0].Code != "M-00001" || members[0].Nom != "Mwamba" {
		t.Errorf("Unexpected member list: %+v", members)
	}
}

func TestFileStoreDuplicateMemberCode(t *testing.T) {
	store := newFileStore(t)
	ctx := context.Background()

	member := models.Member{Code: "M-00001", Nom: "Mwamba"}
	if err := store.CreateMember(ctx, &member); err != nil {
		t.Fatalf("CreateMember failed: %v", err)
	}

	dup := models.Member{Code: "M-00001", Nom: "Autre"}
	err := store.CreateMember(ctx, &dup)
	if !errors.Is(err, domain.ErrDuplicateEntry) {
		t.Fatalf("Expected ErrDuplicateEntry, got %v", err)
	}
}

func TestFileStoreNextMemberCodeIsSequential(t *testing.T) {
	store := newFileStore(t)
	ctx := context.Background()

	first, err := store.NextMemberCode(ctx)
	if err != nil {
		t.Fatalf("NextMemberCode failed: %v", err)
	}
	second, err := store.NextMemberCode(ctx)
	if err != nil {
		t.Fatalf("NextMemberCode failed: %v", err)
	}
	if first != "M-00001" || second != "M-00002" {
		t.Errorf("Expected M-00001 then M-00002, got %s then %s", first, second)
	}
}

func TestFileStoreDepositIDAssignment(t *testing.T) {
	store := newFileStore(t)
	ctx := context.Background()

	a := models.Deposit{MemberCode: "M-00001", Montant: 1000}
	b := models.Deposit{MemberCode: "M-00001", Montant: 500}
	if err := store.CreateDeposit(ctx, &a); err != nil {
		t.Fatalf("CreateDeposit failed: %v", err)
	}
	if err := store.CreateDeposit(ctx, &b); err != nil {
		t.Fatalf("CreateDeposit failed: %v", err)
	}
	if a.ID == 0 || b.ID == 0 || a.ID == b.ID {
		t.Errorf("Expected distinct non-zero ids, got %d and %d", a.ID, b.ID)
	}
}

func TestFileStoreReplaceDeposits(t *testing.T) {
	store := newFileStore(t)
	ctx := context.Background()

	d := models.Deposit{MemberCode: "M-00001", Montant: 1000}
	if err := store.CreateDeposit(ctx, &d); err != nil {
		t.Fatalf("CreateDeposit failed: %v", err)
	}

	paidAt := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	d.Paid = true
	d.PaidAt = &paidAt
	if err := store.ReplaceDeposits(ctx, []models.Deposit{d}); err != nil {
		t.Fatalf("ReplaceDeposits failed: %v", err)
	}

	deposits, _ := store.Deposits(ctx)
	if len(deposits) != 1 || !deposits[0].Paid || deposits[0].PaidAt == nil {
		t.Errorf("Replace did not persist paid flags: %+v", deposits)
	}
}

func TestFileStoreAppendPayoutsAssignsIDs(t *testing.T) {
	store := newFileStore(t)
	ctx := context.Background()

	appended, err := store.AppendPayouts(ctx, []models.Payout{
		{Code: "M-00001", Amount: 1500, Count: 2},
		{Code: "M-00002", Amount: 2000, Count: 1},
	})
	if err != nil {
		t.Fatalf("AppendPayouts failed: %v", err)
	}
	if appended[0].ID == 0 || appended[1].ID == 0 || appended[0].ID == appended[1].ID {
		t.Errorf("Expected distinct non-zero payout ids, got %+v", appended)
	}

	more, err := store.AppendPayouts(ctx, []models.Payout{{Code: "M-00003", Amount: 700, Count: 1}})
	if err != nil {
		t.Fatalf("AppendPayouts failed: %v", err)
	}
	if more[0].ID <= appended[1].ID {
		t.Errorf("Expected monotonically increasing ids, got %d after %d", more[0].ID, appended[1].ID)
	}
}

func TestFileStoreStampsCreatedAt(t *testing.T) {
	store := newFileStore(t)
	ctx := context.Background()
	before := time.Now().Add(-time.Second)

	member := models.Member{Code: "M-00001", Nom: "Mwamba"}
	if err := store.CreateMember(ctx, &member); err != nil {
		t.Fatalf("CreateMember failed: %v", err)
	}
	deposit := models.Deposit{MemberCode: "M-00001", Montant: 1000}
	if err := store.CreateDeposit(ctx, &deposit); err != nil {
		t.Fatalf("CreateDeposit failed: %v", err)
	}
	payouts, err := store.AppendPayouts(ctx, []models.Payout{{Code: "M-00001", Amount: 1500, Count: 2}})
	if err != nil {
		t.Fatalf("AppendPayouts failed: %v", err)
	}

	members, _ := store.Members(ctx)
	if members[0].CreatedAt.Before(before) {
		t.Errorf("Expected member creation instant stamped, got %v", members[0].CreatedAt)
	}
	deposits, _ := store.Deposits(ctx)
	if deposits[0].CreatedAt.Before(before) {
		t.Errorf("Expected deposit creation instant stamped, got %v", deposits[0].CreatedAt)
	}
	if payouts[0].CreatedAt.Before(before) {
		t.Errorf("Expected payout creation instant stamped, got %v", payouts[0].CreatedAt)
	}

	// a caller-provided instant is preserved
	stamped := time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC)
	seeded := models.Deposit{MemberCode: "M-00001", Montant: 500, CreatedAt: stamped}
	if err := store.CreateDeposit(ctx, &seeded); err != nil {
		t.Fatalf("CreateDeposit failed: %v", err)
	}
	deposits, _ = store.Deposits(ctx)
	if !deposits[1].CreatedAt.Equal(stamped) {
		t.Errorf("Expected caller instant preserved, got %v", deposits[1].CreatedAt)
	}
}

func TestFileStoreCursorRoundTrip(t *testing.T) {
	store := newFileStore(t)
	ctx := context.Background()

	cursor, err := store.Cursor(ctx, models.StoreMembers)
	if err != nil {
		t.Fatalf("Cursor failed: %v", err)
	}
	if cursor.Store != string(models.StoreMembers) || cursor.SeenIDs != "" {
		t.Errorf("Expected zero-valued cursor, got %+v", cursor)
	}

	cursor.LastMaxTS = 1234
	cursor.SetSeenIDs([]string{"M-00001", "M-00002"})
	if err := store.SaveCursor(ctx, cursor); err != nil {
		t.Fatalf("SaveCursor failed: %v", err)
	}

	loaded, err := store.Cursor(ctx, models.StoreMembers)
	if err != nil {
		t.Fatalf("Cursor reload failed: %v", err)
	}
	if loaded.LastMaxTS != 1234 {
		t.Errorf("Expected LastMaxTS 1234, got %d", loaded.LastMaxTS)
	}
	ids := loaded.SeenIDList()
	if len(ids) != 2 || ids[0] != "M-00001" {
		t.Errorf("Unexpected seen ids: %v", ids)
	}
}
