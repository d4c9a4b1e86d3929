package app

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/example/pitstop/internal/core/workflow"
	"github.com/example/pitstop/internal/models"
	"github.com/example/pitstop/internal/ports/primary"
	"github.com/example/pitstop/internal/ports/secondary"
)

// RequestServiceImpl implements the RequestService interface: the booking,
// cancellation and deletion boundary.
type RequestServiceImpl struct {
	requestRepo  secondary.RequestRepository
	customerRepo secondary.CustomerRepository
	scheduler    primary.ScheduleService
	snapshots    primary.SnapshotService
	logger       *log.Logger
	hydrator     hydrator
}

// NewRequestService creates a new RequestService with injected dependencies.
func NewRequestService(
	requestRepo secondary.RequestRepository,
	customerRepo secondary.CustomerRepository,
	scheduler primary.ScheduleService,
	snapshots primary.SnapshotService,
	logger *log.Logger,
) *RequestServiceImpl {
	return &RequestServiceImpl{
		requestRepo:  requestRepo,
		customerRepo: customerRepo,
		scheduler:    scheduler,
		snapshots:    snapshots,
		logger:       logger,
		hydrator:     hydrator{requestRepo: requestRepo, customerRepo: customerRepo},
	}
}

// CreateRequest validates the slot and books the request. The slot check here
// is advisory; the database's unique slot index is the authority, so a race
// between two bookings resolves to exactly one winner.
func (s *RequestServiceImpl) CreateRequest(ctx context.Context, req primary.CreateRequestRequest) (*primary.CreateRequestResponse, error) {
	if len(req.Services) == 0 {
		return nil, fmt.Errorf("at least one service is required")
	}
	for _, item := range req.Services {
		if item.ServiceType == "" {
			return nil, fmt.Errorf("service type is required")
		}
		if item.Urgency != "" && !models.ValidUrgency(item.Urgency) {
			return nil, fmt.Errorf("invalid urgency %q: expected low, medium or high", item.Urgency)
		}
	}

	exists, err := s.customerRepo.CustomerExists(ctx, req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check customer: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("customer %s not found", req.CustomerID)
	}
	vehicle, err := s.customerRepo.GetVehicle(ctx, req.VehicleID)
	if err != nil {
		return nil, fmt.Errorf("vehicle %s not found", req.VehicleID)
	}
	if vehicle.CustomerID != req.CustomerID {
		return nil, fmt.Errorf("vehicle %s does not belong to customer %s", req.VehicleID, req.CustomerID)
	}

	if err := s.scheduler.ValidateSlot(ctx, req.AppointmentDate, req.AppointmentTime, req.AfterHoursDropoff); err != nil {
		return nil, err
	}

	id, err := s.requestRepo.GetNextID(ctx)
	if err != nil {
		return nil, err
	}

	// The estimates position is assigned inside the insert itself, so two
	// concurrent bookings cannot land on the same position.
	record := &secondary.RequestRecord{
		ID:                id,
		CustomerID:        req.CustomerID,
		VehicleID:         req.VehicleID,
		Status:            models.StatusPending,
		WorkflowColumn:    models.ColumnEstimates,
		WorkflowHistory:   "[]",
		AppointmentDate:   req.AppointmentDate,
		AppointmentTime:   req.AppointmentTime,
		AfterHoursDropoff: req.AfterHoursDropoff,
	}
	items := make([]*secondary.ServiceItemRecord, 0, len(req.Services))
	for _, item := range req.Services {
		urgency := item.Urgency
		if urgency == "" {
			urgency = models.UrgencyMedium
		}
		items = append(items, &secondary.ServiceItemRecord{
			ID:          uuid.NewString(),
			RequestID:   id,
			ServiceType: item.ServiceType,
			Description: item.Description,
			Urgency:     urgency,
		})
	}

	if err := s.requestRepo.Create(ctx, record, items); err != nil {
		return nil, err
	}

	s.refreshSnapshots(ctx)

	created, err := s.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	return &primary.CreateRequestResponse{RequestID: id, Request: created}, nil
}

// GetRequest retrieves one request with payload attached.
func (s *RequestServiceImpl) GetRequest(ctx context.Context, id string) (*primary.Request, error) {
	rec, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.hydrator.request(ctx, rec)
}

// ListRequests lists requests with optional filters, newest first.
func (s *RequestServiceImpl) ListRequests(ctx context.Context, filters primary.RequestFilters) ([]*primary.Request, error) {
	recs, err := s.requestRepo.List(ctx, secondary.RequestFilters{
		Status:          filters.Status,
		WorkflowColumn:  filters.WorkflowColumn,
		CustomerID:      filters.CustomerID,
		AppointmentDate: filters.AppointmentDate,
	})
	if err != nil {
		return nil, err
	}
	return s.hydrator.requests(ctx, recs)
}

// CancelRequest marks a request cancelled. The column and its position are
// untouched; cancelling only frees the appointment slot for rebooking.
func (s *RequestServiceImpl) CancelRequest(ctx context.Context, id string) (*primary.Request, error) {
	rec, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if result := workflow.CanCancel(rec.Status); !result.Allowed {
		return nil, fmt.Errorf("request %s: %w", id, result.Error())
	}
	if err := s.requestRepo.UpdateStatus(ctx, id, models.StatusCancelled); err != nil {
		return nil, err
	}

	s.refreshSnapshots(ctx)

	return s.GetRequest(ctx, id)
}

// DeleteRequest removes a request entirely, service items included. Deletion
// is destructive and requires force.
func (s *RequestServiceImpl) DeleteRequest(ctx context.Context, id string, force bool) error {
	if !force {
		return fmt.Errorf("deleting a request is permanent; pass force to confirm")
	}
	if _, err := s.requestRepo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.requestRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.refreshSnapshots(ctx)
	return nil
}

// refreshSnapshots invokes the aggregate view pipeline after a committed
// mutation. Refresh failures never surface to the mutation caller.
func (s *RequestServiceImpl) refreshSnapshots(ctx context.Context) {
	if s.snapshots == nil {
		return
	}
	if _, err := s.snapshots.Refresh(ctx); err != nil {
		s.logger.Printf("snapshot refresh failed: %v", err)
	}
}

// Ensure RequestServiceImpl implements the interface
var _ primary.RequestService = (*RequestServiceImpl)(nil)
