package repositories

import (
	"context"
	"errors"
	"fmt"

	"acem-epargne/internal/adapters/persistence/models"
	"acem-epargne/internal/core/domain"

	"gorm.io/gorm"
)

// gormRecordStore implements RecordStore on MySQL via GORM
type gormRecordStore struct {
	db *gorm.DB
}

// NewGormRecordStore creates the MySQL-backed record store
func NewGormRecordStore(db *gorm.DB) RecordStore {
	return &gormRecordStore{db: db}
}

func (s *gormRecordStore) Members(ctx context.Context) ([]models.Member, error) {
	var members []models.Member
	if err := s.db.WithContext(ctx).Order("code ASC").Find(&members).Error; err != nil {
		return nil, readErr("members", err)
	}
	return members, nil
}

func (s *gormRecordStore) CreateMember(ctx context.Context, member *models.Member) error {
	if err := s.db.WithContext(ctx).Create(member).Error; err != nil {
		return writeErr("members", err)
	}
	return nil
}

// NextMemberCode increments the member counter and formats the next
// sequential code ("M-00001"). Codes are never reused.
func (s *gormRecordStore) NextMemberCode(ctx context.Context) (string, error) {
	var next int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var counter models.MemberCounter
		if err := tx.First(&counter).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			counter = models.MemberCounter{ID: 1}
		}
		counter.Value++
		next = counter.Value
		return tx.Save(&counter).Error
	})
	if err != nil {
		return "", writeErr("membre_counter", err)
	}
	return models.FormatMemberCode(next), nil
}

func (s *gormRecordStore) Deposits(ctx context.Context) ([]models.Deposit, error) {
	var deposits []models.Deposit
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&deposits).Error; err != nil {
		return nil, readErr("depots", err)
	}
	return deposits, nil
}

func (s *gormRecordStore) CreateDeposit(ctx context.Context, deposit *models.Deposit) error {
	if err := s.db.WithContext(ctx).Create(deposit).Error; err != nil {
		return writeErr("depots", err)
	}
	return nil
}

// ReplaceDeposits bulk-replaces the deposit collection after in-place
// mutation (marking deposits paid). IDs are carried through unchanged.
func (s *gormRecordStore) ReplaceDeposits(ctx context.Context, deposits []models.Deposit) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Deposit{}).Error; err != nil {
			return err
		}
		if len(deposits) == 0 {
			return nil
		}
		return tx.CreateInBatches(deposits, 200).Error
	})
	if err != nil {
		return writeErr("depots", err)
	}
	return nil
}

func (s *gormRecordStore) Payouts(ctx context.Context) ([]models.Payout, error) {
	var payouts []models.Payout
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&payouts).Error; err != nil {
		return nil, readErr("payouts", err)
	}
	return payouts, nil
}

func (s *gormRecordStore) AppendPayouts(ctx context.Context, payouts []models.Payout) ([]models.Payout, error) {
	if len(payouts) == 0 {
		return payouts, nil
	}
	if err := s.db.WithContext(ctx).Create(&payouts).Error; err != nil {
		return nil, writeErr("payouts", err)
	}
	return payouts, nil
}

func (s *gormRecordStore) Notifications(ctx context.Context) ([]models.Notification, error) {
	var notifications []models.Notification
	if err := s.db.WithContext(ctx).Order("seq ASC").Find(&notifications).Error; err != nil {
		return nil, readErr("notifications", err)
	}
	return notifications, nil
}

func (s *gormRecordStore) ReplaceNotifications(ctx context.Context, notifications []models.Notification) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		if len(notifications) == 0 {
			return nil
		}
		return tx.CreateInBatches(notifications, 200).Error
	})
	if err != nil {
		return writeErr("notifications", err)
	}
	return nil
}

// Cursor returns the persisted cursor for a store. A cursor that was never
// saved comes back zero-valued, which the notifier treats as first run.
func (s *gormRecordStore) Cursor(ctx context.Context, store models.StoreKind) (models.ScanCursor, error) {
	var cursor models.ScanCursor
	err := s.db.WithContext(ctx).First(&cursor, "store = ?", string(store)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ScanCursor{Store: string(store)}, nil
	}
	if err != nil {
		return models.ScanCursor{}, readErr("notif_cursors", err)
	}
	return cursor, nil
}

func (s *gormRecordStore) SaveCursor(ctx context.Context, cursor models.ScanCursor) error {
	if err := s.db.WithContext(ctx).Save(&cursor).Error; err != nil {
		return writeErr("notif_cursors", err)
	}
	return nil
}

func (s *gormRecordStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func readErr(store string, err error) error {
	return fmt.Errorf("%w: read %s: %v", domain.ErrStoreUnavailable, store, err)
}

func writeErr(store string, err error) error {
	return fmt.Errorf("%w: write %s: %v", domain.ErrWriteFailed, store, err)
}
