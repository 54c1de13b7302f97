package models

import (
	"testing"
	"time"
)

func TestIdentityOfMemberUsesCode(t *testing.T) {
	m := Member{Code: "M-00001", Nom: "Mwamba"}
	if got := IdentityOf(StoreMembers, m); got != "M-00001" {
		t.Errorf("Expected M-00001, got %s", got)
	}
}

func TestIdentityOfDepositPrefersID(t *testing.T) {
	d := Deposit{ID: 42, MemberCode: "M-00001"}
	if got := IdentityOf(StoreDeposits, d); got != "42" {
		t.Errorf("Expected 42, got %s", got)
	}
}

func TestIdentityOfDepositCompositeFallback(t *testing.T) {
	date := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	d := Deposit{MemberCode: "M-00001", Date: date}
	want := "M-00001::2026-02-01"
	if got := IdentityOf(StoreDeposits, d); got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestIdentityOfFingerprintIsStable(t *testing.T) {
	d := Deposit{Montant: 1000, MemberName: "Mwamba"}
	first := IdentityOf(StoreDeposits, d)
	second := IdentityOf(StoreDeposits, d)
	if first != second {
		t.Errorf("Fingerprint not deterministic: %s vs %s", first, second)
	}

	other := Deposit{Montant: 2000, MemberName: "Mwamba"}
	if first == IdentityOf(StoreDeposits, other) {
		t.Error("Different records must not share a fingerprint")
	}
}

func TestScanCursorSeenIDRoundTrip(t *testing.T) {
	var c ScanCursor
	if got := c.SeenIDList(); got != nil {
		t.Errorf("Expected nil for empty cursor, got %v", got)
	}

	c.SetSeenIDs([]string{"a", "b"})
	ids := c.SeenIDList()
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("Unexpected round trip: %v", ids)
	}

	c.SetSeenIDs([]string{})
	if c.SeenIDs != "[]" {
		t.Errorf("Empty set must persist as a marker, got %q", c.SeenIDs)
	}
	if got := c.SeenIDList(); len(got) != 0 {
		t.Errorf("Expected empty list, got %v", got)
	}
}

func TestFormatMemberCode(t *testing.T) {
	if got := FormatMemberCode(1); got != "M-00001" {
		t.Errorf("Expected M-00001, got %s", got)
	}
	if got := FormatMemberCode(12345); got != "M-12345" {
		t.Errorf("Expected M-12345, got %s", got)
	}
}

func TestDepositEffectiveDate(t *testing.T) {
	date := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	created := time.Date(2026, 2, 15, 10, 30, 0, 0, time.UTC)

	withDate := Deposit{Date: date, CreatedAt: created}
	if !withDate.EffectiveDate().Equal(date) {
		t.Error("Expected the calendar date when present")
	}

	withoutDate := Deposit{CreatedAt: created}
	if !withoutDate.EffectiveDate().Equal(created) {
		t.Error("Expected CreatedAt fallback")
	}
}
