package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/example/pitstop/internal/models"
	"github.com/example/pitstop/internal/ports/primary"
	"github.com/example/pitstop/internal/ports/secondary"
)

// SnapshotServiceImpl implements the SnapshotService interface: the aggregate
// view pipeline of recompute, cache and publish.
type SnapshotServiceImpl struct {
	requestRepo secondary.RequestRepository
	cache       secondary.SnapshotCache
	publisher   secondary.Publisher
	logger      *log.Logger
	location    *time.Location
	now         func() time.Time
	hydrator    hydrator
}

// NewSnapshotService creates a new SnapshotService with injected dependencies.
func NewSnapshotService(
	requestRepo secondary.RequestRepository,
	customerRepo secondary.CustomerRepository,
	cache secondary.SnapshotCache,
	publisher secondary.Publisher,
	logger *log.Logger,
	location *time.Location,
) *SnapshotServiceImpl {
	return &SnapshotServiceImpl{
		requestRepo: requestRepo,
		cache:       cache,
		publisher:   publisher,
		logger:      logger,
		location:    location,
		now:         time.Now,
		hydrator:    hydrator{requestRepo: requestRepo, customerRepo: customerRepo},
	}
}

// Refresh recomputes both aggregate views from the request store, then caches
// and publishes them. Recompute failures are returned; cache and publish are
// best-effort and only logged.
func (s *SnapshotServiceImpl) Refresh(ctx context.Context) (*primary.Snapshot, error) {
	pending, err := s.requestRepo.CountByStatus(ctx, models.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending requests: %w", err)
	}

	today, err := s.computeToday(ctx)
	if err != nil {
		return nil, err
	}

	snapshot := &primary.Snapshot{
		PendingCount: pending,
		Today:        today,
		RefreshedAt:  s.now(),
	}

	s.cache.Set(secondary.CacheKeyPendingCount, snapshot.PendingCount, secondary.SnapshotTTL)
	s.cache.Set(secondary.CacheKeyTodayAppointments, snapshot.Today, secondary.SnapshotTTL)

	s.publish(secondary.MessagePendingCount, snapshot.RefreshedAt, snapshot.PendingCount)
	s.publish(secondary.MessageTodayAppointments, snapshot.RefreshedAt, snapshot.Today)

	return snapshot, nil
}

// PendingCount serves the pending request count from cache when fresh,
// recomputing the snapshot on miss.
func (s *SnapshotServiceImpl) PendingCount(ctx context.Context) (int, error) {
	if value, ok := s.cache.Get(secondary.CacheKeyPendingCount); ok {
		if count, ok := value.(int); ok {
			return count, nil
		}
	}
	snapshot, err := s.Refresh(ctx)
	if err != nil {
		return 0, err
	}
	return snapshot.PendingCount, nil
}

// TodayBoard serves today's appointments from cache when fresh, recomputing
// the snapshot on miss.
func (s *SnapshotServiceImpl) TodayBoard(ctx context.Context) ([]*primary.Request, error) {
	if value, ok := s.cache.Get(secondary.CacheKeyTodayAppointments); ok {
		if board, ok := value.([]*primary.Request); ok {
			return board, nil
		}
	}
	snapshot, err := s.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.Today, nil
}

// computeToday loads today's requests ordered by appointment time with their
// payload attached. "Today" is decided in the shop timezone.
func (s *SnapshotServiceImpl) computeToday(ctx context.Context) ([]*primary.Request, error) {
	date := s.now().In(s.location).Format(models.DateFormat)
	recs, err := s.requestRepo.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load today's requests: %w", err)
	}
	return s.hydrator.requests(ctx, recs)
}

func (s *SnapshotServiceImpl) publish(msgType string, refreshedAt time.Time, payload any) {
	if s.publisher == nil {
		return
	}
	msg := secondary.Message{Type: msgType, RefreshedAt: refreshedAt, Payload: payload}
	if err := s.publisher.Publish(secondary.TopicAppointments, msg); err != nil {
		s.logger.Printf("snapshot publish failed (%s): %v", msgType, err)
	}
}

// Ensure SnapshotServiceImpl implements the interface
var _ primary.SnapshotService = (*SnapshotServiceImpl)(nil)
