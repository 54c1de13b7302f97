package services

import (
	"context"
	"errors"
	"testing"

	"acem-epargne/internal/adapters/persistence/models"
	"acem-epargne/internal/core/domain"
)

func TestCreateMemberAssignsSequentialCodes(t *testing.T) {
	store := newTestStore(t)
	pusher := &recordingPusher{}
	svc := NewMemberService(store, pusher)
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateMemberInput{Nom: "Mwamba", Telephone: "+243 970 000 001"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	second, err := svc.Create(ctx, CreateMemberInput{Nom: "Ngalula"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if first.Code != "M-00001" || second.Code != "M-00002" {
		t.Errorf("Expected M-00001 then M-00002, got %s then %s", first.Code, second.Code)
	}
	if len(pusher.events) != 2 || pusher.events[0] != models.NotifTypeMemberAdded {
		t.Errorf("Expected member_added events, got %v", pusher.events)
	}
}

func TestCreateMemberValidation(t *testing.T) {
	store := newTestStore(t)
	svc := NewMemberService(store, nil)
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateMemberInput
	}{
		{"empty name", CreateMemberInput{Nom: "   "}},
		{"negative amount", CreateMemberInput{Nom: "Mwamba", Montant: -1}},
		{"bad telephone", CreateMemberInput{Nom: "Mwamba", Telephone: "pas-un-numero!"}},
		{"telephone too short", CreateMemberInput{Nom: "Mwamba", Telephone: "123"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tc.input); !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("Expected ErrInvalidInput, got %v", err)
			}
		})
	}

	members, _ := svc.List(ctx)
	if len(members) != 0 {
		t.Errorf("Rejected inputs must not create members, got %d", len(members))
	}
}

func TestListServesFromCacheAfterCreate(t *testing.T) {
	store := newTestStore(t)
	svc := NewMemberService(store, nil)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateMemberInput{Nom: "Mwamba"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// create invalidates the snapshot, so the new member is visible
	members, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(members) != 1 {
		t.Fatalf("Expected 1 member, got %d", len(members))
	}

	if _, err := svc.Create(ctx, CreateMemberInput{Nom: "Ngalula"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	members, _ = svc.List(ctx)
	if len(members) != 2 {
		t.Errorf("Expected 2 members after invalidation, got %d", len(members))
	}
}

func TestSearchMatchesNameAndCode(t *testing.T) {
	store := newTestStore(t)
	svc := NewMemberService(store, nil)
	ctx := context.Background()

	for _, nom := range []string{"Mwamba Kalenga", "Ngalula Tshiala", "Ilunga Kabongo"} {
		if _, err := svc.Create(ctx, CreateMemberInput{Nom: nom}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	byName, err := svc.Search(ctx, "ngalula")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(byName) != 1 || byName[0].Nom != "Ngalula Tshiala" {
		t.Errorf("Unexpected name search result: %+v", byName)
	}

	byCode, _ := svc.Search(ctx, "m-00003")
	if len(byCode) != 1 || byCode[0].Nom != "Ilunga Kabongo" {
		t.Errorf("Unexpected code search result: %+v", byCode)
	}

	all, _ := svc.Search(ctx, "  ")
	if len(all) != 3 {
		t.Errorf("Blank query must return everyone, got %d", len(all))
	}
}

func TestGetByCodeNotFound(t *testing.T) {
	store := newTestStore(t)
	svc := NewMemberService(store, nil)

	_, err := svc.GetByCode(context.Background(), "M-00042")
	if !errors.Is(err, domain.ErrMemberNotFound) {
		t.Fatalf("Expected ErrMemberNotFound, got %v", err)
	}
}
