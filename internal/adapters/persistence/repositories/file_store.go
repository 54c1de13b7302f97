package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"acem-epargne/internal/adapters/persistence/models"
	"acem-epargne/internal/core/domain"
)

// fileRecordStore implements RecordStore on plain JSON files in a data
// directory. It is the secondary (local-only) store the service falls back
// to when MySQL is unreachable, and the store used by the test suites.
type fileRecordStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileRecordStore creates the JSON-file record store rooted at dir
func NewFileRecordStore(dir string) (RecordStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data dir: %v", domain.ErrStoreUnavailable, err)
	}
	return &fileRecordStore{dir: dir}, nil
}

const (
	fileMembers       = "membres.json"
	fileDeposits      = "depots.json"
	filePayouts       = "payouts.json"
	fileNotifications = "notifications.json"
	fileCursors       = "notif_cursors.json"
	fileCounter       = "membre_counter.json"
)

func (s *fileRecordStore) Members(ctx context.Context) ([]models.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var members []models.Member
	if err := s.read(fileMembers, &members); err != nil {
		return nil, err
	}
	return members, nil
}

func (s *fileRecordStore) CreateMember(ctx context.Context, member *models.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var members []models.Member
	if err := s.read(fileMembers, &members); err != nil {
		return err
	}
	for _, m := range members {
		if m.Code == member.Code {
			return fmt.Errorf("%w: member %s", domain.ErrDuplicateEntry, member.Code)
		}
	}
	stampCreatedAt(&member.CreatedAt)
	members = append(members, *member)
	return s.write(fileMembers, members)
}

func (s *fileRecordStore) NextMemberCode(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var counter models.MemberCounter
	if err := s.read(fileCounter, &counter); err != nil {
		return "", err
	}
	counter.Value++
	if err := s.write(fileCounter, counter); err != nil {
		return "", err
	}
	return models.FormatMemberCode(counter.Value), nil
}

func (s *fileRecordStore) Deposits(ctx context.Context) ([]models.Deposit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var deposits []models.Deposit
	if err := s.read(fileDeposits, &deposits); err != nil {
		return nil, err
	}
	return deposits, nil
}

func (s *fileRecordStore) CreateDeposit(ctx context.Context, deposit *models.Deposit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var deposits []models.Deposit
	if err := s.read(fileDeposits, &deposits); err != nil {
		return err
	}
	if deposit.ID == 0 {
		deposit.ID = nextID(depositIDs(deposits))
	}
	stampCreatedAt(&deposit.CreatedAt)
	deposits = append(deposits, *deposit)
	return s.write(fileDeposits, deposits)
}

func (s *fileRecordStore) ReplaceDeposits(ctx context.Context, deposits []models.Deposit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(fileDeposits, deposits)
}

func (s *fileRecordStore) Payouts(ctx context.Context) ([]models.Payout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var payouts []models.Payout
	if err := s.read(filePayouts, &payouts); err != nil {
		return nil, err
	}
	return payouts, nil
}

func (s *fileRecordStore) AppendPayouts(ctx context.Context, payouts []models.Payout) ([]models.Payout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var existing []models.Payout
	if err := s.read(filePayouts, &existing); err != nil {
		return nil, err
	}
	next := nextID(payoutIDs(existing))
	for i := range payouts {
		if payouts[i].ID == 0 {
			payouts[i].ID = next
			next++
		}
		stampCreatedAt(&payouts[i].CreatedAt)
	}
	existing = append(existing, payouts...)
	if err := s.write(filePayouts, existing); err != nil {
		return nil, err
	}
	return payouts, nil
}

func (s *fileRecordStore) Notifications(ctx context.Context) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var notifications []models.Notification
	if err := s.read(fileNotifications, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (s *fileRecordStore) ReplaceNotifications(ctx context.Context, notifications []models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(fileNotifications, notifications)
}

func (s *fileRecordStore) Cursor(ctx context.Context, store models.StoreKind) (models.ScanCursor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cursors := map[string]models.ScanCursor{}
	if err := s.read(fileCursors, &cursors); err != nil {
		return models.ScanCursor{}, err
	}
	if cursor, ok := cursors[string(store)]; ok {
		return cursor, nil
	}
	return models.ScanCursor{Store: string(store)}, nil
}

func (s *fileRecordStore) SaveCursor(ctx context.Context, cursor models.ScanCursor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cursors := map[string]models.ScanCursor{}
	if err := s.read(fileCursors, &cursors); err != nil {
		return err
	}
	cursors[cursor.Store] = cursor
	return s.write(fileCursors, cursors)
}

func (s *fileRecordStore) Ping(ctx context.Context) error {
	if _, err := os.Stat(s.dir); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// read unmarshals a JSON file into out; a missing file leaves out untouched
func (s *fileRecordStore) read(name string, out interface{}) error {
	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", domain.ErrStoreUnavailable, name, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", domain.ErrStoreUnavailable, name, err)
	}
	return nil
}

// write marshals and writes via a temp file + rename so readers never see a
// half-written collection
func (s *fileRecordStore) write(name string, in interface{}) error {
	raw, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", domain.ErrWriteFailed, name, err)
	}
	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", domain.ErrWriteFailed, name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("%w: write %s: %v", domain.ErrWriteFailed, name, err)
	}
	return nil
}

// stampCreatedAt fills in the creation instant for records created through
// this store, matching what the database store does automatically. The
// change-detection timestamp pass depends on it.
func stampCreatedAt(t *time.Time) {
	if t.IsZero() {
		*t = time.Now()
	}
}

func depositIDs(deposits []models.Deposit) []uint {
	ids := make([]uint, len(deposits))
	for i, d := range deposits {
		ids[i] = d.ID
	}
	return ids
}

func payoutIDs(payouts []models.Payout) []uint {
	ids := make([]uint, len(payouts))
	for i, p := range payouts {
		ids[i] = p.ID
	}
	return ids
}

func nextID(ids []uint) uint {
	var max uint
	for _, id := range ids {
		if id > max {
			max = id
		}
	}
	return max + 1
}
