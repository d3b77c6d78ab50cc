package service_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gbgcf/crp-questionnaire/internal/models"
	"github.com/gbgcf/crp-questionnaire/internal/service"
)

// memoryStore is an in-memory tracking store with serialised transactions
type memoryStore struct {
	txMu    sync.Mutex
	mu      sync.Mutex
	records []models.PolicyTracking
	nextID  int64
	clock   time.Time
	saves   int
}

var (
	_ service.TrackingStore      = (*memoryStore)(nil)
	_ service.TrackingTransactor = (*memoryStore)(nil)
)

func newMemoryStore() *memoryStore {
	return &memoryStore{clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (s *memoryStore) RunInTx(ctx context.Context, fn func(ctx context.Context, store service.TrackingStore) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := append([]models.PolicyTracking(nil), s.records...)
	s.mu.Unlock()

	if err := fn(ctx, s); err != nil {
		s.mu.Lock()
		s.records = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *memoryStore) LockSubject(ctx context.Context, subject models.SubjectRef) error {
	return nil
}

func (s *memoryStore) FindActive(ctx context.Context, subject models.SubjectRef, statuses ...models.Status) (*models.PolicyTracking, error) {
	matches := s.filter(func(r models.PolicyTracking) bool {
		return sameSubject(r.Subject, subject) && hasStatus(r.Status, statuses)
	})
	if len(matches) == 0 {
		return nil, models.ErrNotFound
	}
	return &matches[0], nil
}

func (s *memoryStore) FindByJourney(ctx context.Context, subject models.SubjectRef, journeyType string) ([]models.PolicyTracking, error) {
	return s.filter(func(r models.PolicyTracking) bool {
		return sameSubject(r.Subject, subject) && r.JourneyType == journeyType
	}), nil
}

func (s *memoryStore) FindByJourneyWithContent(ctx context.Context, subject models.SubjectRef, journeyType string) ([]models.PolicyTracking, error) {
	return s.filter(func(r models.PolicyTracking) bool {
		return sameSubject(r.Subject, subject) && r.JourneyType == journeyType && r.HasContent()
	}), nil
}

func (s *memoryStore) FindLatestByStatuses(ctx context.Context, subject models.SubjectRef, statuses ...models.Status) ([]models.PolicyTracking, error) {
	return s.filter(func(r models.PolicyTracking) bool {
		return sameSubject(r.Subject, subject) && hasStatus(r.Status, statuses)
	}), nil
}

func (s *memoryStore) Save(ctx context.Context, record *models.PolicyTracking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++

	if record.ID == 0 {
		s.nextID++
		s.clock = s.clock.Add(time.Second)
		record.ID = s.nextID
		record.CreatedDate = s.clock
		s.records = append(s.records, *record)
		return nil
	}

	for i := range s.records {
		if s.records[i].ID == record.ID {
			updated := *record
			updated.Subject = s.records[i].Subject
			updated.CreatedDate = s.records[i].CreatedDate
			s.records[i] = updated
			return nil
		}
	}
	return models.ErrNotFound
}

// seed stores records as given, keeping their creation dates
func (s *memoryStore) seed(records ...models.PolicyTracking) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		s.nextID++
		r.ID = s.nextID
		s.records = append(s.records, r)
	}
}

func (s *memoryStore) all() []models.PolicyTracking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.PolicyTracking(nil), s.records...)
}

func (s *memoryStore) get(id int64) models.PolicyTracking {
	for _, r := range s.all() {
		if r.ID == id {
			return r
		}
	}
	return models.PolicyTracking{}
}

func (s *memoryStore) filter(match func(models.PolicyTracking) bool) []models.PolicyTracking {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.PolicyTracking{}
	for _, r := range s.records {
		if match(r) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedDate.Equal(out[j].CreatedDate) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedDate.After(out[j].CreatedDate)
	})
	return out
}

func sameSubject(a, b models.SubjectRef) bool {
	return a.Kind == b.Kind && a.Key == b.Key
}

func hasStatus(status models.Status, statuses []models.Status) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}
