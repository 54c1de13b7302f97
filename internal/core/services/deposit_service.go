package services

import (
	"context"
	"fmt"
	"time"

	"acem-epargne/internal/adapters/persistence/models"
	"acem-epargne/internal/adapters/persistence/repositories"
	"acem-epargne/internal/core/domain"
)

// DepositService records contributions against enrolled members
type DepositService struct {
	store    repositories.RecordStore
	members  *MemberService
	notifier NotificationPusher
	clock    func() time.Time
}

// NewDepositService creates a new deposit service
func NewDepositService(store repositories.RecordStore, members *MemberService, notifier NotificationPusher) *DepositService {
	return &DepositService{store: store, members: members, notifier: notifier, clock: time.Now}
}

// WithClock overrides the time source (tests)
func (s *DepositService) WithClock(clock func() time.Time) *DepositService {
	s.clock = clock
	return s
}

// List returns all deposits
func (s *DepositService) List(ctx context.Context) ([]models.Deposit, error) {
	return s.store.Deposits(ctx)
}

// ListByMember returns all deposits of one member
func (s *DepositService) ListByMember(ctx context.Context, code string) ([]models.Deposit, error) {
	deposits, err := s.store.Deposits(ctx)
	if err != nil {
		return nil, err
	}
	filtered := []models.Deposit{}
	for _, d := range deposits {
		if d.MemberCode == code {
			filtered = append(filtered, d)
		}
	}
	return filtered, nil
}

// Create records one contribution. The member must exist; the contribution
// date defaults to today and the amount must be positive.
func (s *DepositService) Create(ctx context.Context, input CreateDepositInput) (*models.Deposit, error) {
	if input.Montant <= 0 {
		return nil, fmt.Errorf("%w: montant doit être positif", domain.ErrInvalidInput)
	}
	member, err := s.members.GetByCode(ctx, input.MemberCode)
	if err != nil {
		return nil, err
	}

	date := dateOnly(s.clock())
	if input.Date != "" {
		parsed, err := time.Parse("2006-01-02", input.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: date invalide (attendu AAAA-MM-JJ)", domain.ErrInvalidInput)
		}
		date = parsed
	}

	deposit := models.Deposit{
		MemberCode: member.Code,
		MemberName: member.Nom,
		Montant:    input.Montant,
		Date:       date,
	}
	if err := s.store.CreateDeposit(ctx, &deposit); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Push(models.NotifTypeDepotAdded,
			fmt.Sprintf("Dépôt: %d FC — %s", deposit.Montant, deposit.MemberCode),
			"Membre: "+deposit.MemberName)
	}
	return &deposit, nil
}
