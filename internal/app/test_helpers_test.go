package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/example/pitstop/internal/models"
	"github.com/example/pitstop/internal/ports/primary"
	"github.com/example/pitstop/internal/ports/secondary"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func testLocation() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		panic(err)
	}
	return loc
}

// mockRequestRepository is an in-memory RequestRepository with knobs for
// forcing failures.
type mockRequestRepository struct {
	mu       sync.Mutex
	requests map[string]*secondary.RequestRecord
	services map[string][]*secondary.ServiceItemRecord

	// staleCommits forces the next n CommitTransition calls to lose the
	// guarded update, simulating a concurrent writer.
	staleCommits int

	// commitErr fails CommitTransition outright, before anything is
	// applied, simulating a storage failure rolling the transaction back.
	commitErr error

	createErr error
	listErr   error
	countErr  error
}

func newMockRequestRepository() *mockRequestRepository {
	return &mockRequestRepository{
		requests: make(map[string]*secondary.RequestRecord),
		services: make(map[string][]*secondary.ServiceItemRecord),
	}
}

func (m *mockRequestRepository) put(rec *secondary.RequestRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *rec
	if clone.WorkflowHistory == "" {
		clone.WorkflowHistory = "[]"
	}
	m.requests[rec.ID] = &clone
}

func (m *mockRequestRepository) Create(ctx context.Context, request *secondary.RequestRecord, services []*secondary.ServiceItemRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.requests {
		if existing.AppointmentDate == request.AppointmentDate &&
			existing.AppointmentTime == request.AppointmentTime &&
			existing.Status != models.StatusCancelled {
			return fmt.Errorf("%w: %s %s", models.ErrSlotAlreadyBooked, request.AppointmentDate, request.AppointmentTime)
		}
	}
	clone := *request
	if clone.WorkflowHistory == "" {
		clone.WorkflowHistory = "[]"
	}
	// The store assigns the column position, like the insert statement does.
	clone.WorkflowPosition = 0
	for _, existing := range m.requests {
		if existing.WorkflowColumn == clone.WorkflowColumn && existing.WorkflowPosition >= clone.WorkflowPosition {
			clone.WorkflowPosition = existing.WorkflowPosition + 1
		}
	}
	m.requests[request.ID] = &clone
	for _, item := range services {
		itemClone := *item
		m.services[request.ID] = append(m.services[request.ID], &itemClone)
	}
	return nil
}

func (m *mockRequestRepository) GetByID(ctx context.Context, id string) (*secondary.RequestRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.requests[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrRequestNotFound, id)
	}
	clone := *rec
	return &clone, nil
}

func (m *mockRequestRepository) List(ctx context.Context, filters secondary.RequestFilters) ([]*secondary.RequestRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*secondary.RequestRecord
	for _, rec := range m.requests {
		if filters.Status != "" && rec.Status != filters.Status {
			continue
		}
		if filters.WorkflowColumn != "" && rec.WorkflowColumn != filters.WorkflowColumn {
			continue
		}
		if filters.CustomerID != "" && rec.CustomerID != filters.CustomerID {
			continue
		}
		if filters.AppointmentDate != "" && rec.AppointmentDate != filters.AppointmentDate {
			continue
		}
		clone := *rec
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *mockRequestRepository) ListByColumn(ctx context.Context, column string) ([]*secondary.RequestRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*secondary.RequestRecord
	for _, rec := range m.requests {
		if rec.WorkflowColumn == column {
			clone := *rec
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WorkflowPosition != out[j].WorkflowPosition {
			return out[i].WorkflowPosition < out[j].WorkflowPosition
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *mockRequestRepository) ListByDate(ctx context.Context, date string) ([]*secondary.RequestRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*secondary.RequestRecord
	for _, rec := range m.requests {
		if rec.AppointmentDate == date {
			clone := *rec
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AppointmentTime != out[j].AppointmentTime {
			return out[i].AppointmentTime < out[j].AppointmentTime
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *mockRequestRepository) CommitTransition(ctx context.Context, id, fromColumn, toColumn, status, historyJSON string, destinationOrder []string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.commitErr != nil {
		return false, m.commitErr
	}
	if m.staleCommits > 0 {
		m.staleCommits--
		return false, nil
	}
	rec, ok := m.requests[id]
	if !ok || rec.WorkflowColumn != fromColumn {
		return false, nil
	}
	// Validate the whole renumbering before applying anything, mirroring the
	// transactional rollback.
	for _, memberID := range destinationOrder {
		member, ok := m.requests[memberID]
		if !ok || (memberID != id && member.WorkflowColumn != toColumn) {
			return false, fmt.Errorf("%w: %s is no longer in column %s", models.ErrConcurrentModification, memberID, toColumn)
		}
	}
	rec.WorkflowColumn = toColumn
	rec.Status = status
	rec.WorkflowHistory = historyJSON
	for position, memberID := range destinationOrder {
		m.requests[memberID].WorkflowPosition = position
	}
	return true, nil
}

func (m *mockRequestRepository) RenumberColumn(ctx context.Context, column string, orderedIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for position, id := range orderedIDs {
		rec, ok := m.requests[id]
		if !ok || rec.WorkflowColumn != column {
			return fmt.Errorf("%w: %s is no longer in column %s", models.ErrConcurrentModification, id, column)
		}
		rec.WorkflowPosition = position
	}
	return nil
}

func (m *mockRequestRepository) UpdateStatus(ctx context.Context, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.requests[id]
	if !ok {
		return fmt.Errorf("%w: %s", models.ErrRequestNotFound, id)
	}
	rec.Status = status
	return nil
}

func (m *mockRequestRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.requests[id]; !ok {
		return fmt.Errorf("%w: %s", models.ErrRequestNotFound, id)
	}
	delete(m.requests, id)
	delete(m.services, id)
	return nil
}

func (m *mockRequestRepository) CountByStatus(ctx context.Context, status string) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, rec := range m.requests {
		if rec.Status == status {
			count++
		}
	}
	return count, nil
}

func (m *mockRequestRepository) BookedTimes(ctx context.Context, date string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var times []string
	for _, rec := range m.requests {
		if rec.AppointmentDate == date && rec.Status != models.StatusCancelled {
			times = append(times, rec.AppointmentTime)
		}
	}
	sort.Strings(times)
	return times, nil
}

func (m *mockRequestRepository) SlotTaken(ctx context.Context, date, clock string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.requests {
		if rec.AppointmentDate == date && rec.AppointmentTime == clock && rec.Status != models.StatusCancelled {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRequestRepository) GetNextID(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	max := 0
	for id := range m.requests {
		var n int
		if _, err := fmt.Sscanf(id, "REQ-%d", &n); err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("REQ-%03d", max+1), nil
}

func (m *mockRequestRepository) GetServices(ctx context.Context, requestID string) ([]*secondary.ServiceItemRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := make([]*secondary.ServiceItemRecord, 0, len(m.services[requestID]))
	for _, item := range m.services[requestID] {
		clone := *item
		items = append(items, &clone)
	}
	return items, nil
}

var _ secondary.RequestRepository = (*mockRequestRepository)(nil)

// mockScheduleRepository is an in-memory ScheduleRepository.
type mockScheduleRepository struct {
	mu   sync.Mutex
	days map[int]*secondary.BusinessDayRecord
}

func newMockScheduleRepository() *mockScheduleRepository {
	return &mockScheduleRepository{days: make(map[int]*secondary.BusinessDayRecord)}
}

// openAllWeek configures Monday through Sunday 09:00-17:00 with no
// after-hours drop-off.
func (m *mockScheduleRepository) openAllWeek() {
	for day := 0; day < 7; day++ {
		m.days[day] = &secondary.BusinessDayRecord{
			DayOfWeek: day,
			IsOpen:    true,
			StartTime: "09:00",
			EndTime:   "17:00",
		}
	}
}

func (m *mockScheduleRepository) GetDay(ctx context.Context, dayOfWeek int) (*secondary.BusinessDayRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.days[dayOfWeek]
	if !ok {
		return nil, nil
	}
	clone := *rec
	return &clone, nil
}

func (m *mockScheduleRepository) ListDays(ctx context.Context) ([]*secondary.BusinessDayRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*secondary.BusinessDayRecord
	for _, rec := range m.days {
		clone := *rec
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DayOfWeek < out[j].DayOfWeek })
	return out, nil
}

func (m *mockScheduleRepository) UpsertDay(ctx context.Context, day *secondary.BusinessDayRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *day
	m.days[day.DayOfWeek] = &clone
	return nil
}

var _ secondary.ScheduleRepository = (*mockScheduleRepository)(nil)

// mockCustomerRepository is an in-memory CustomerRepository.
type mockCustomerRepository struct {
	mu        sync.Mutex
	customers map[string]*secondary.CustomerRecord
	vehicles  map[string]*secondary.VehicleRecord
}

func newMockCustomerRepository() *mockCustomerRepository {
	return &mockCustomerRepository{
		customers: make(map[string]*secondary.CustomerRecord),
		vehicles:  make(map[string]*secondary.VehicleRecord),
	}
}

func (m *mockCustomerRepository) CreateCustomer(ctx context.Context, customer *secondary.CustomerRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *customer
	m.customers[customer.ID] = &clone
	return nil
}

func (m *mockCustomerRepository) GetCustomer(ctx context.Context, id string) (*secondary.CustomerRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.customers[id]
	if !ok {
		return nil, fmt.Errorf("customer not found: %s", id)
	}
	clone := *rec
	return &clone, nil
}

func (m *mockCustomerRepository) ListCustomers(ctx context.Context) ([]*secondary.CustomerRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*secondary.CustomerRecord
	for _, rec := range m.customers {
		clone := *rec
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockCustomerRepository) CustomerExists(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.customers[id]
	return ok, nil
}

func (m *mockCustomerRepository) CreateVehicle(ctx context.Context, vehicle *secondary.VehicleRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.vehicles {
		if existing.VIN != "" && strings.EqualFold(existing.VIN, vehicle.VIN) {
			return fmt.Errorf("vehicle with VIN %s already exists", vehicle.VIN)
		}
	}
	clone := *vehicle
	m.vehicles[vehicle.ID] = &clone
	return nil
}

func (m *mockCustomerRepository) GetVehicle(ctx context.Context, id string) (*secondary.VehicleRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.vehicles[id]
	if !ok {
		return nil, fmt.Errorf("vehicle not found: %s", id)
	}
	clone := *rec
	return &clone, nil
}

func (m *mockCustomerRepository) ListVehicles(ctx context.Context, customerID string) ([]*secondary.VehicleRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*secondary.VehicleRecord
	for _, rec := range m.vehicles {
		if rec.CustomerID == customerID {
			clone := *rec
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockCustomerRepository) VehicleExists(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.vehicles[id]
	return ok, nil
}

var _ secondary.CustomerRepository = (*mockCustomerRepository)(nil)

// mockCache is an in-memory SnapshotCache without expiry; tests control
// freshness by deleting keys.
type mockCache struct {
	mu      sync.Mutex
	entries map[string]any
	sets    int
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string]any)}
}

func (m *mockCache) Set(key string, value any, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	m.sets++
}

func (m *mockCache) Get(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.entries[key]
	return value, ok
}

func (m *mockCache) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

var _ secondary.SnapshotCache = (*mockCache)(nil)

// mockPublisher records every published message.
type mockPublisher struct {
	mu         sync.Mutex
	published  []publishedMessage
	publishErr error
}

type publishedMessage struct {
	Topic   string
	Message secondary.Message
}

func (m *mockPublisher) Publish(topic string, msg secondary.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.publishErr != nil {
		return m.publishErr
	}
	m.published = append(m.published, publishedMessage{Topic: topic, Message: msg})
	return nil
}

func (m *mockPublisher) messages(topic string) []secondary.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []secondary.Message
	for _, p := range m.published {
		if p.Topic == topic {
			out = append(out, p.Message)
		}
	}
	return out
}

var _ secondary.Publisher = (*mockPublisher)(nil)

// mockSnapshotService counts refreshes triggered by the mutation paths.
type mockSnapshotService struct {
	mu         sync.Mutex
	refreshes  int
	refreshErr error
}

func (m *mockSnapshotService) Refresh(ctx context.Context) (*primary.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.refreshErr != nil {
		return nil, m.refreshErr
	}
	m.refreshes++
	return &primary.Snapshot{}, nil
}

func (m *mockSnapshotService) PendingCount(ctx context.Context) (int, error) {
	return 0, nil
}

func (m *mockSnapshotService) TodayBoard(ctx context.Context) ([]*primary.Request, error) {
	return nil, nil
}

func (m *mockSnapshotService) refreshCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refreshes
}

var _ primary.SnapshotService = (*mockSnapshotService)(nil)

// mockScheduleValidator is a ScheduleService stub for the booking boundary
// tests; slot validation has its own tests.
type mockScheduleValidator struct {
	mu          sync.Mutex
	validated   []string
	validateErr error
}

func (m *mockScheduleValidator) ValidateSlot(ctx context.Context, date, clock string, afterHours bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.validated = append(m.validated, date+" "+clock)
	return m.validateErr
}

func (m *mockScheduleValidator) ListAvailableSlots(ctx context.Context, date string) ([]string, error) {
	return nil, nil
}

func (m *mockScheduleValidator) ListBusinessHours(ctx context.Context) ([]models.BusinessDaySchedule, error) {
	return nil, nil
}

func (m *mockScheduleValidator) SetBusinessHours(ctx context.Context, day models.BusinessDaySchedule) error {
	return nil
}

func (m *mockScheduleValidator) ImportBusinessHours(ctx context.Context, yamlSrc []byte) (int, error) {
	return 0, nil
}

var _ primary.ScheduleService = (*mockScheduleValidator)(nil)
