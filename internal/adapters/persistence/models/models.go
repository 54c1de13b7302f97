package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Core Tables: Members, Deposits, Payouts
// ============================================================

// Member represents members table (membres)
// Codes are sequential ("M-00001") and never reused.
type Member struct {
	Code      string    `gorm:"primaryKey;size:20" json:"code"`
	Nom       string    `gorm:"size:100;not null" json:"nom"`
	Sexe      string    `gorm:"size:10" json:"sexe"`
	Telephone string    `gorm:"size:30" json:"telephone"`
	Montant   int64     `gorm:"not null;default:0" json:"montant"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Member) TableName() string {
	return "membres"
}

// MemberCounter holds the sequence used to assign member codes
type MemberCounter struct {
	ID    uint  `gorm:"primaryKey" json:"id"`
	Value int64 `gorm:"not null;default:0" json:"value"`
}

func (MemberCounter) TableName() string {
	return "membre_counter"
}

// FormatMemberCode formats a counter value as a member code ("M-00001")
func FormatMemberCode(n int64) string {
	return fmt.Sprintf("M-%05d", n)
}

// Deposit represents deposits table (depots)
// Paid transitions to true exactly once (settlement) and never reverts.
type Deposit struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	MemberCode string     `gorm:"size:20;not null;index" json:"memberCode"`
	MemberName string     `gorm:"size:100" json:"memberName"`
	Montant    int64      `gorm:"not null" json:"montant"`
	Date       time.Time  `gorm:"type:date" json:"date"`
	Paid       bool       `gorm:"not null;default:false;index" json:"paid"`
	PaidAt     *time.Time `gorm:"type:date" json:"paidAt"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"createdAt"`
}

func (Deposit) TableName() string {
	return "depots"
}

// EffectiveDate returns the contribution date, falling back to the
// creation instant when no calendar date was captured.
func (d *Deposit) EffectiveDate() time.Time {
	if !d.Date.IsZero() {
		return d.Date
	}
	return d.CreatedAt
}

// Payout represents payouts table. Append-only: never mutated or deleted.
type Payout struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"size:20;not null;index" json:"code"`
	Amount    int64     `gorm:"not null" json:"amount"`
	Count     int       `gorm:"not null" json:"count"`
	Date      time.Time `gorm:"type:date;not null" json:"date"`
	Note      string    `gorm:"size:200" json:"note"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Payout) TableName() string {
	return "payouts"
}

// ============================================================
// Notification Tables
// ============================================================

// Notification types. The *_added types come from the id-set diff path,
// the bare types from the timestamp path and direct producer pushes.
const (
	NotifTypeMemberAdded   = "member_added"
	NotifTypeMemberDeleted = "member_deleted"
	NotifTypeDepotAdded    = "depot_added"
	NotifTypePayoutAdded   = "payout_added"
	NotifTypeMember        = "member"
	NotifTypeDepot         = "depot"
	NotifTypePayout        = "payout"
	NotifTypePayoutBulk    = "payout_bulk"
)

// MaxNotifications caps the notification log; oldest entries are evicted
// ring-buffer style once the cap is exceeded.
const MaxNotifications = 500

// Notification represents notifications table. Seq is the append sequence:
// a scan batch shares one ts, so ordering by ts alone would shuffle it.
type Notification struct {
	ID     string    `gorm:"primaryKey;size:120" json:"id"`
	Type   string    `gorm:"size:30;not null;index" json:"type"`
	Title  string    `gorm:"size:200;not null" json:"title"`
	Detail string    `gorm:"size:400" json:"detail"`
	Ts     time.Time `gorm:"not null;index" json:"ts"`
	Seq    int64     `gorm:"not null;default:0;index" json:"seq"`
}

func (Notification) TableName() string {
	return "notifications"
}

// ScanCursor represents notif_cursors table: one bookmark per watched store
// (max creation instant + last-seen identifier set, JSON-encoded).
type ScanCursor struct {
	Store     string    `gorm:"primaryKey;size:20" json:"store"`
	LastMaxTS int64     `gorm:"not null;default:0" json:"last_max_ts"`
	SeenIDs   string    `gorm:"type:text" json:"seen_ids"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ScanCursor) TableName() string {
	return "notif_cursors"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Member{},
		&MemberCounter{},
		&Deposit{},
		&Payout{},
		&Notification{},
		&ScanCursor{},
	)
}
