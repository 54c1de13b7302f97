package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"acem-epargne/internal/adapters/persistence/models"
	"acem-epargne/internal/adapters/persistence/repositories"
	"acem-epargne/internal/core/domain"
	"acem-epargne/internal/pkg/membercache"
)

var telephonePattern = regexp.MustCompile(`^\+?[0-9\s\-]{6,20}$`)

// MemberService handles member enrollment and lookup with a read-through
// snapshot cache in front of the record store.
type MemberService struct {
	store    repositories.RecordStore
	notifier NotificationPusher
	cache    *membercache.Cache
}

// NewMemberService creates a new member service
func NewMemberService(store repositories.RecordStore, notifier NotificationPusher) *MemberService {
	return &MemberService{
		store:    store,
		notifier: notifier,
		cache:    membercache.New(30 * time.Second),
	}
}

// List returns all members, served from the snapshot cache when warm
func (s *MemberService) List(ctx context.Context) ([]models.Member, error) {
	if cached := s.cache.Get(); cached != nil {
		return cached, nil
	}
	members, err := s.store.Members(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(members)
	return members, nil
}

// GetByCode returns one member by code
func (s *MemberService) GetByCode(ctx context.Context, code string) (*models.Member, error) {
	members, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range members {
		if members[i].Code == code {
			return &members[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrMemberNotFound, code)
}

// Search filters members by a case-insensitive substring of name or code
func (s *MemberService) Search(ctx context.Context, query string) ([]models.Member, error) {
	members, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return members, nil
	}
	matched := []models.Member{}
	for _, m := range members {
		if strings.Contains(strings.ToLower(m.Nom), query) ||
			strings.Contains(strings.ToLower(m.Code), query) {
			matched = append(matched, m)
		}
	}
	return matched, nil
}

// Create enrolls a new member: validates the payload, assigns the next
// sequential code and pushes the enrollment event.
func (s *MemberService) Create(ctx context.Context, input CreateMemberInput) (*models.Member, error) {
	if err := validateMemberInput(input); err != nil {
		return nil, err
	}

	code, err := s.store.NextMemberCode(ctx)
	if err != nil {
		return nil, err
	}
	member := models.Member{
		Code:      code,
		Nom:       strings.TrimSpace(input.Nom),
		Sexe:      strings.TrimSpace(input.Sexe),
		Telephone: strings.TrimSpace(input.Telephone),
		Montant:   input.Montant,
	}
	if err := s.store.CreateMember(ctx, &member); err != nil {
		return nil, err
	}
	s.cache.Invalidate()

	if s.notifier != nil {
		s.notifier.Push(models.NotifTypeMemberAdded,
			"Nouveau membre: "+member.Nom,
			"Code: "+member.Code)
	}
	return &member, nil
}

func validateMemberInput(input CreateMemberInput) error {
	if strings.TrimSpace(input.Nom) == "" {
		return fmt.Errorf("%w: nom requis", domain.ErrInvalidInput)
	}
	if input.Montant < 0 {
		return fmt.Errorf("%w: montant invalide", domain.ErrInvalidInput)
	}
	if tel := strings.TrimSpace(input.Telephone); tel != "" && !telephonePattern.MatchString(tel) {
		return fmt.Errorf("%w: téléphone invalide", domain.ErrInvalidInput)
	}
	return nil
}
