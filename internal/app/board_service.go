package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/example/pitstop/internal/core/workflow"
	"github.com/example/pitstop/internal/models"
	"github.com/example/pitstop/internal/ports/primary"
	"github.com/example/pitstop/internal/ports/secondary"
)

// BoardServiceImpl implements the BoardService interface: the workflow state
// machine over the request store.
type BoardServiceImpl struct {
	requestRepo secondary.RequestRepository
	snapshots   primary.SnapshotService
	publisher   secondary.Publisher
	logger      *log.Logger
	now         func() time.Time
	hydrator    hydrator

	// columnLocks serialize renumbering per destination column so no two
	// requests end up on the same position.
	columnLocks map[string]*sync.Mutex
}

// NewBoardService creates a new BoardService with injected dependencies.
func NewBoardService(
	requestRepo secondary.RequestRepository,
	customerRepo secondary.CustomerRepository,
	snapshots primary.SnapshotService,
	publisher secondary.Publisher,
	logger *log.Logger,
) *BoardServiceImpl {
	locks := make(map[string]*sync.Mutex, len(models.Columns()))
	for _, column := range models.Columns() {
		locks[column] = &sync.Mutex{}
	}
	return &BoardServiceImpl{
		requestRepo: requestRepo,
		snapshots:   snapshots,
		publisher:   publisher,
		logger:      logger,
		now:         time.Now,
		hydrator:    hydrator{requestRepo: requestRepo, customerRepo: customerRepo},
		columnLocks: locks,
	}
}

// ProposeTransition moves a request to a new column. The commit is atomic:
// column, status and history change together, guarded on the column we read.
// The loser of a concurrent race gets models.ErrConcurrentModification.
func (s *BoardServiceImpl) ProposeTransition(ctx context.Context, requestID, newColumn string) (*primary.Request, error) {
	rec, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	lock := s.columnLocks[newColumn]
	if lock == nil {
		return nil, fmt.Errorf("%w: unknown column %q", models.ErrInvalidTransition, newColumn)
	}
	lock.Lock()
	defer lock.Unlock()

	// Land the request at the bottom of its new column, keeping positions
	// strictly increasing and gap-free.
	if err := s.commitColumnChange(ctx, rec, newColumn, -1); err != nil {
		return nil, err
	}

	s.publishBoardMove(requestID, rec.WorkflowColumn, newColumn)
	s.refreshSnapshots(ctx)

	updated, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	return s.hydrator.request(ctx, updated)
}

// Reposition reorders a request within (or into) a column. A same-column
// reposition never touches history; a cross-column one goes through the
// guarded transition path first.
func (s *BoardServiceImpl) Reposition(ctx context.Context, req primary.RepositionRequest) (*primary.Request, error) {
	rec, err := s.requestRepo.GetByID(ctx, req.RequestID)
	if err != nil {
		return nil, err
	}

	lock := s.columnLocks[req.TargetColumn]
	if lock == nil {
		return nil, fmt.Errorf("%w: unknown column %q", models.ErrInvalidTransition, req.TargetColumn)
	}
	lock.Lock()
	defer lock.Unlock()

	if rec.WorkflowColumn != req.TargetColumn {
		if err := s.commitColumnChange(ctx, rec, req.TargetColumn, req.TargetIndex); err != nil {
			return nil, err
		}
	} else if err := s.renumberWithRequest(ctx, req.TargetColumn, req.RequestID, req.TargetIndex); err != nil {
		return nil, err
	}

	s.publishBoardMove(req.RequestID, rec.WorkflowColumn, req.TargetColumn)
	s.refreshSnapshots(ctx)

	updated, err := s.requestRepo.GetByID(ctx, req.RequestID)
	if err != nil {
		return nil, err
	}
	return s.hydrator.request(ctx, updated)
}

// Board returns all columns in board order, each ordered by position with
// ties broken by ID.
func (s *BoardServiceImpl) Board(ctx context.Context) ([]primary.BoardColumn, error) {
	columns := make([]primary.BoardColumn, 0, len(models.Columns()))
	for _, name := range models.Columns() {
		recs, err := s.requestRepo.ListByColumn(ctx, name)
		if err != nil {
			return nil, err
		}
		requests, err := s.hydrator.requests(ctx, recs)
		if err != nil {
			return nil, err
		}
		columns = append(columns, primary.BoardColumn{Name: name, Requests: requests})
	}
	return columns, nil
}

// commitColumnChange runs the guard, appends exactly one history record, and
// commits column+status+history together with the destination renumbering in
// one repository transaction, with the request placed at index (-1 = bottom).
// Caller holds the destination column lock.
func (s *BoardServiceImpl) commitColumnChange(ctx context.Context, rec *secondary.RequestRecord, newColumn string, index int) error {
	if result := workflow.CanTransition(rec.WorkflowColumn, newColumn); !result.Allowed {
		return fmt.Errorf("request %s: %w", rec.ID, result.Error())
	}

	var history []models.TransitionRecord
	if rec.WorkflowHistory != "" {
		if err := json.Unmarshal([]byte(rec.WorkflowHistory), &history); err != nil {
			return fmt.Errorf("request %s has corrupt workflow history: %w", rec.ID, err)
		}
	}
	history = append(history, models.TransitionRecord{
		FromColumn: rec.WorkflowColumn,
		ToColumn:   newColumn,
		Timestamp:  s.now().UTC().Format(time.RFC3339),
	})
	raw, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to encode workflow history: %w", err)
	}

	status := workflow.StatusForColumn(newColumn)

	order, err := s.destinationOrder(ctx, newColumn, rec.ID, index)
	if err != nil {
		return err
	}

	ok, err := s.requestRepo.CommitTransition(ctx, rec.ID, rec.WorkflowColumn, newColumn, status, string(raw), order)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: request %s left column %s", models.ErrConcurrentModification, rec.ID, rec.WorkflowColumn)
	}
	return nil
}

// destinationOrder computes the gap-free order of a column with requestID
// placed at index (-1 = bottom). Caller holds the column lock.
func (s *BoardServiceImpl) destinationOrder(ctx context.Context, column, requestID string, index int) ([]string, error) {
	recs, err := s.requestRepo.ListByColumn(ctx, column)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec.ID)
	}
	if index < 0 {
		index = len(ids)
	}
	return workflow.InsertAt(ids, requestID, index), nil
}

// renumberWithRequest rewrites a column's order with requestID placed at
// index. Used for same-column repositions, where no transition commit is
// involved. Caller holds the column lock.
func (s *BoardServiceImpl) renumberWithRequest(ctx context.Context, column, requestID string, index int) error {
	order, err := s.destinationOrder(ctx, column, requestID, index)
	if err != nil {
		return err
	}
	return s.requestRepo.RenumberColumn(ctx, column, order)
}

// publishBoardMove pushes a board-structure notification to the workflow
// topic. Best-effort: failures are logged, never surfaced.
func (s *BoardServiceImpl) publishBoardMove(requestID, fromColumn, toColumn string) {
	if s.publisher == nil {
		return
	}
	msg := secondary.Message{
		Type:        secondary.MessageBoardMoved,
		RefreshedAt: s.now(),
		Payload: map[string]any{
			"request_id":  requestID,
			"from_column": fromColumn,
			"to_column":   toColumn,
		},
	}
	if err := s.publisher.Publish(secondary.TopicWorkflow, msg); err != nil {
		s.logger.Printf("workflow publish failed for %s: %v", requestID, err)
	}
}

// refreshSnapshots invokes the aggregate view pipeline after a committed
// mutation. The mutation already succeeded; a refresh failure is logged and
// swallowed.
func (s *BoardServiceImpl) refreshSnapshots(ctx context.Context) {
	if s.snapshots == nil {
		return
	}
	if _, err := s.snapshots.Refresh(ctx); err != nil {
		s.logger.Printf("snapshot refresh failed: %v", err)
	}
}

// Ensure BoardServiceImpl implements the interface
var _ primary.BoardService = (*BoardServiceImpl)(nil)
