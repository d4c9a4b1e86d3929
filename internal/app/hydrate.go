// Package app implements the primary ports: the workflow state machine, the
// booking boundary, slot validation, and the aggregate snapshot pipeline.
package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/pitstop/internal/models"
	"github.com/example/pitstop/internal/ports/primary"
	"github.com/example/pitstop/internal/ports/secondary"
)

// hydrator converts repository records into primary DTOs with their
// customer, vehicle and service payload attached.
type hydrator struct {
	requestRepo  secondary.RequestRepository
	customerRepo secondary.CustomerRepository
}

// request converts one record, attaching payload. History is decoded into
// its own slice; the caller owns the result and nothing aliases the store.
func (h hydrator) request(ctx context.Context, rec *secondary.RequestRecord) (*primary.Request, error) {
	var history []models.TransitionRecord
	if rec.WorkflowHistory != "" {
		if err := json.Unmarshal([]byte(rec.WorkflowHistory), &history); err != nil {
			return nil, fmt.Errorf("request %s has corrupt workflow history: %w", rec.ID, err)
		}
	}

	req := &primary.Request{
		ID:                rec.ID,
		CustomerID:        rec.CustomerID,
		VehicleID:         rec.VehicleID,
		Status:            rec.Status,
		WorkflowColumn:    rec.WorkflowColumn,
		WorkflowPosition:  rec.WorkflowPosition,
		WorkflowHistory:   history,
		AppointmentDate:   rec.AppointmentDate,
		AppointmentTime:   rec.AppointmentTime,
		AfterHoursDropoff: rec.AfterHoursDropoff,
		CreatedAt:         rec.CreatedAt,
		UpdatedAt:         rec.UpdatedAt,
	}

	items, err := h.requestRepo.GetServices(ctx, rec.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load services for %s: %w", rec.ID, err)
	}
	for _, item := range items {
		req.Services = append(req.Services, primary.ServiceItem{
			ID:          item.ID,
			ServiceType: item.ServiceType,
			Description: item.Description,
			Urgency:     item.Urgency,
		})
	}

	if h.customerRepo != nil {
		if customer, err := h.customerRepo.GetCustomer(ctx, rec.CustomerID); err == nil {
			req.Customer = &primary.CustomerSummary{
				ID:    customer.ID,
				Name:  customer.Name,
				Phone: customer.Phone,
				Email: customer.Email,
			}
		}
		if vehicle, err := h.customerRepo.GetVehicle(ctx, rec.VehicleID); err == nil {
			req.Vehicle = &primary.VehicleSummary{
				ID:    vehicle.ID,
				Make:  vehicle.Make,
				Model: vehicle.Model,
				Year:  vehicle.Year,
				VIN:   vehicle.VIN,
			}
		}
	}

	return req, nil
}

// requests converts a slice of records in order.
func (h hydrator) requests(ctx context.Context, recs []*secondary.RequestRecord) ([]*primary.Request, error) {
	out := make([]*primary.Request, len(recs))
	for i, rec := range recs {
		req, err := h.request(ctx, rec)
		if err != nil {
			return nil, err
		}
		out[i] = req
	}
	return out, nil
}
