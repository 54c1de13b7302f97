package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"acem-epargne/internal/adapters/persistence/models"
	"acem-epargne/internal/adapters/persistence/repositories"

	"github.com/google/uuid"
)

// scanRecord is the store-agnostic view of one record during a scan
type scanRecord struct {
	id     string
	ts     time.Time
	title  string
	detail string
}

// watchedStore describes one store the notifier diffs each cycle
type watchedStore struct {
	kind models.StoreKind
	// prefix keys the deterministic notification ids ("mem-added-<id>")
	prefix string
	// addedType / coarseType are the id-diff and timestamp-path event types
	addedType  string
	coarseType string
	// trackRemovals enables the removed-id diff (members only)
	trackRemovals bool
	snapshot      func(ctx context.Context) ([]scanRecord, error)
}

// NotifierService watches the record stores for externally caused changes
// and turns them into a chronological, deduplicated notification feed. It
// also accepts direct producer pushes (settlement, member and deposit entry)
// through the same capped log.
type NotifierService struct {
	store repositories.RecordStore
	clock func() time.Time

	// onChange is the re-render signal for external renderers
	onChange func()

	// scanning is the per-cycle in-flight flag: a scan triggered while one
	// is still running is skipped, not queued
	scanning atomic.Bool

	// logMu guards read-modify-write cycles on the notification log
	logMu sync.Mutex
}

// NewNotifierService creates a new change-detection notifier
func NewNotifierService(store repositories.RecordStore) *NotifierService {
	return &NotifierService{store: store, clock: time.Now}
}

// WithClock overrides the time source (tests)
func (s *NotifierService) WithClock(clock func() time.Time) *NotifierService {
	s.clock = clock
	return s
}

// OnChange registers the re-render signal fired after new notifications land
func (s *NotifierService) OnChange(fn func()) {
	s.onChange = fn
}

// Notifications returns the log, most recent first
func (s *NotifierService) Notifications(ctx context.Context) ([]models.Notification, error) {
	entries, err := s.store.Notifications(ctx)
	if err != nil {
		return nil, err
	}
	reversed := make([]models.Notification, len(entries))
	for i, n := range entries {
		reversed[len(entries)-1-i] = n
	}
	return reversed, nil
}

// Push is the producer-side injection point: an already-formatted event
// lands in the log without waiting for the next scan. Log persistence
// failures are logged and dropped; they never block the producer.
func (s *NotifierService) Push(eventType, title, detail string) {
	notification := models.Notification{
		ID:     fmt.Sprintf("%s-%s", eventType, uuid.NewString()),
		Type:   eventType,
		Title:  title,
		Detail: detail,
		Ts:     s.clock(),
	}
	if err := s.appendToLog(context.Background(), []models.Notification{notification}); err != nil {
		log.Printf("⚠️ Notification push dropped: %v", err)
		return
	}
	s.signal()
}

// Scan runs one change-detection cycle over every watched store. A cycle
// already in flight causes the trigger to be skipped. Per-store failures
// are logged and do not abort the remaining stores.
func (s *NotifierService) Scan(ctx context.Context) error {
	if !s.scanning.CompareAndSwap(false, true) {
		log.Println("⏭️ Notification scan already running, skipping trigger")
		return nil
	}
	defer s.scanning.Store(false)

	var pending []models.Notification
	for _, w := range s.watchedStores() {
		generated, err := s.scanStore(ctx, w)
		if err != nil {
			log.Printf("❌ Scan %s error: %v", w.kind, err)
			continue
		}
		pending = append(pending, generated...)
	}

	if len(pending) == 0 {
		return nil
	}
	if err := s.appendToLog(ctx, pending); err != nil {
		// non-fatal: the cursor already advanced, the events are dropped
		log.Printf("⚠️ Notification log persist failed, %d events dropped: %v", len(pending), err)
		return nil
	}
	s.signal()
	return nil
}

// scanStore applies the cursor state machine to one store: id-set diff for
// additions (and removals where tracked), then the independent
// max-timestamp pass. Both paths firing for the same new record is the
// historical behavior and is kept.
func (s *NotifierService) scanStore(ctx context.Context, w watchedStore) ([]models.Notification, error) {
	records, err := w.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	cursor, err := s.store.Cursor(ctx, w.kind)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	// first run: the cursor has never been saved; remember what exists
	// and emit nothing
	firstRun := cursor.SeenIDs == ""
	seen := cursor.SeenIDList()
	currentIDs := make([]string, 0, len(records))
	byID := make(map[string]scanRecord, len(records))
	for _, r := range records {
		currentIDs = append(currentIDs, r.id)
		byID[r.id] = r
	}

	var generated []models.Notification
	if !firstRun {
		seenSet := make(map[string]bool, len(seen))
		for _, id := range seen {
			seenSet[id] = true
		}
		currentSet := make(map[string]bool, len(currentIDs))
		for _, id := range currentIDs {
			currentSet[id] = true
		}

		for _, id := range currentIDs {
			if seenSet[id] {
				continue
			}
			r := byID[id]
			generated = append(generated, models.Notification{
				ID:     fmt.Sprintf("%s-added-%s", w.prefix, id),
				Type:   w.addedType,
				Title:  r.title,
				Detail: r.detail,
				Ts:     now,
			})
		}
		if w.trackRemovals {
			for _, id := range seen {
				if currentSet[id] {
					continue
				}
				generated = append(generated, models.Notification{
					ID:     fmt.Sprintf("%s-removed-%s", w.prefix, id),
					Type:   models.NotifTypeMemberDeleted,
					Title:  "Membre supprimé: " + id,
					Detail: "Code: " + id,
					Ts:     now,
				})
			}
		}
	}

	// timestamp pass: catches created-but-not-yet-seen records independent
	// of the id-set diff above
	maxTS := cursor.LastMaxTS
	for _, r := range records {
		ts := r.ts.UnixMilli()
		if ts <= 0 || ts <= cursor.LastMaxTS {
			continue
		}
		if ts > maxTS {
			maxTS = ts
		}
		if firstRun {
			continue
		}
		generated = append(generated, models.Notification{
			ID:     fmt.Sprintf("%s-%s-%d", w.prefix, r.id, ts),
			Type:   w.coarseType,
			Title:  r.title,
			Detail: r.detail,
			Ts:     r.ts,
		})
	}

	cursor.SetSeenIDs(currentIDs)
	cursor.LastMaxTS = maxTS
	if err := s.store.SaveCursor(ctx, cursor); err != nil {
		return nil, err
	}
	return generated, nil
}

func (s *NotifierService) watchedStores() []watchedStore {
	return []watchedStore{
		{
			kind:          models.StoreMembers,
			prefix:        "mem",
			addedType:     models.NotifTypeMemberAdded,
			coarseType:    models.NotifTypeMember,
			trackRemovals: true,
			snapshot:      s.memberSnapshot,
		},
		{
			kind:       models.StoreDeposits,
			prefix:     "dep",
			addedType:  models.NotifTypeDepotAdded,
			coarseType: models.NotifTypeDepot,
			snapshot:   s.depositSnapshot,
		},
		{
			kind:       models.StorePayouts,
			prefix:     "pay",
			addedType:  models.NotifTypePayoutAdded,
			coarseType: models.NotifTypePayout,
			snapshot:   s.payoutSnapshot,
		},
		{
			// withdrawals are disabled; the cursor is kept so re-enabling
			// the store later does not cause a notification storm
			kind:       models.StoreRetraits,
			prefix:     "ret",
			addedType:  "retrait_added",
			coarseType: "retrait",
			snapshot: func(ctx context.Context) ([]scanRecord, error) {
				return nil, nil
			},
		},
	}
}

func (s *NotifierService) memberSnapshot(ctx context.Context) ([]scanRecord, error) {
	members, err := s.store.Members(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]scanRecord, len(members))
	for i, m := range members {
		records[i] = scanRecord{
			id:     models.IdentityOf(models.StoreMembers, m),
			ts:     m.CreatedAt,
			title:  "Nouveau membre: " + m.Nom,
			detail: "Code: " + m.Code,
		}
	}
	return records, nil
}

func (s *NotifierService) depositSnapshot(ctx context.Context) ([]scanRecord, error) {
	deposits, err := s.store.Deposits(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]scanRecord, len(deposits))
	for i, d := range deposits {
		ts := d.CreatedAt
		if ts.IsZero() {
			ts = d.EffectiveDate()
		}
		records[i] = scanRecord{
			id:     models.IdentityOf(models.StoreDeposits, d),
			ts:     ts,
			title:  fmt.Sprintf("Dépôt: %d FC — %s", d.Montant, d.MemberCode),
			detail: "Membre: " + d.MemberName,
		}
	}
	return records, nil
}

func (s *NotifierService) payoutSnapshot(ctx context.Context) ([]scanRecord, error) {
	payouts, err := s.store.Payouts(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]scanRecord, len(payouts))
	for i, p := range payouts {
		ts := p.CreatedAt
		if ts.IsZero() {
			ts = p.Date
		}
		records[i] = scanRecord{
			id:     models.IdentityOf(models.StorePayouts, p),
			ts:     ts,
			title:  fmt.Sprintf("Paiement: %d FC — %s", p.Amount, p.Code),
			detail: fmt.Sprintf("%d dépôts", p.Count),
		}
	}
	return records, nil
}

// appendToLog appends entries to the capped notification log, evicting the
// oldest entries beyond the cap. Entries whose id is already present are
// skipped, keeping the feed deduplicated.
func (s *NotifierService) appendToLog(ctx context.Context, entries []models.Notification) error {
	s.logMu.Lock()
	defer s.logMu.Unlock()

	existing, err := s.store.Notifications(ctx)
	if err != nil {
		return err
	}
	present := make(map[string]bool, len(existing))
	var seq int64
	for _, n := range existing {
		present[n.ID] = true
		if n.Seq > seq {
			seq = n.Seq
		}
	}
	for _, n := range entries {
		// assumes identifiers are never reused (member codes are sequential
		// and never recycled): a record removed and later re-added under the
		// same id keeps its original log entry and is not re-announced
		if present[n.ID] {
			continue
		}
		present[n.ID] = true
		seq++
		n.Seq = seq
		existing = append(existing, n)
	}
	if len(existing) > models.MaxNotifications {
		existing = existing[len(existing)-models.MaxNotifications:]
	}
	return s.store.ReplaceNotifications(ctx, existing)
}

func (s *NotifierService) signal() {
	if s.onChange != nil {
		s.onChange()
	}
}
