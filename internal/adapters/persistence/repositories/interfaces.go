package repositories

import (
	"context"

	"acem-epargne/internal/adapters/persistence/models"
)

// RecordStore is the persistence capability the core depends on: read-all,
// append and bulk-replace per collection, plus the notification log and the
// per-store scan cursors. Reads fail with domain.ErrStoreUnavailable when the
// backing medium cannot be reached; writes fail with domain.ErrWriteFailed.
//
// Two implementations exist (MySQL via GORM, local JSON files) plus a
// failover wrapper that switches to the secondary when the primary is down.
type RecordStore interface {
	// Members
	Members(ctx context.Context) ([]models.Member, error)
	CreateMember(ctx context.Context, member *models.Member) error
	NextMemberCode(ctx context.Context) (string, error)

	// Deposits
	Deposits(ctx context.Context) ([]models.Deposit, error)
	CreateDeposit(ctx context.Context, deposit *models.Deposit) error
	ReplaceDeposits(ctx context.Context, deposits []models.Deposit) error

	// Payouts (append-only)
	Payouts(ctx context.Context) ([]models.Payout, error)
	AppendPayouts(ctx context.Context, payouts []models.Payout) ([]models.Payout, error)

	// Notification log
	Notifications(ctx context.Context) ([]models.Notification, error)
	ReplaceNotifications(ctx context.Context, notifications []models.Notification) error

	// Scan cursors
	Cursor(ctx context.Context, store models.StoreKind) (models.ScanCursor, error)
	SaveCursor(ctx context.Context, cursor models.ScanCursor) error

	// Ping checks that the backing medium is reachable
	Ping(ctx context.Context) error
}
