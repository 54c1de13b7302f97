package config

import (
	"context"
	"log"
	"time"

	"acem-epargne/internal/adapters/persistence/models"
	"acem-epargne/internal/adapters/persistence/repositories"
)

// ============================================================
// Demo Seeder (SEED_DEMO=true)
// ============================================================

// SeedDemoData populates the store with a small demo caisse. Skipped when
// members already exist so reseeding never duplicates records.
func SeedDemoData(store repositories.RecordStore) error {
	ctx := context.Background()

	existing, err := store.Members(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Println("⏭️ Demo seed skipped: members already present")
		return nil
	}

	log.Println("🌱 Seeding demo data...")

	type demoMember struct {
		nom       string
		sexe      string
		telephone string
		// deposits as (days ago, amount FC)
		deposits [][2]int64
	}
	demo := []demoMember{
		{"Mwamba Kalenga", "M", "+243 970 000 001", [][2]int64{{40, 2000}, {33, 1500}, {12, 1000}}},
		{"Ngalula Tshiala", "F", "+243 970 000 002", [][2]int64{{35, 1000}, {10, 500}}},
		{"Ilunga Kabongo", "M", "+243 970 000 003", [][2]int64{{5, 3000}}},
		{"Mbuyi Kanku", "F", "+243 970 000 004", nil},
	}

	now := time.Now()
	for _, d := range demo {
		code, err := store.NextMemberCode(ctx)
		if err != nil {
			return err
		}
		member := models.Member{
			Code:      code,
			Nom:       d.nom,
			Sexe:      d.sexe,
			Telephone: d.telephone,
		}
		if err := store.CreateMember(ctx, &member); err != nil {
			return err
		}
		for _, dep := range d.deposits {
			deposit := models.Deposit{
				MemberCode: code,
				MemberName: d.nom,
				Montant:    dep[1],
				Date:       now.AddDate(0, 0, -int(dep[0])),
			}
			if err := store.CreateDeposit(ctx, &deposit); err != nil {
				return err
			}
		}
	}

	log.Printf("✅ Demo seed complete: %d members", len(demo))
	return nil
}
