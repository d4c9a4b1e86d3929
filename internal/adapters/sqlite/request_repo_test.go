package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/example/pitstop/internal/adapters/sqlite"
	"github.com/example/pitstop/internal/models"
	"github.com/example/pitstop/internal/ports/secondary"
)

// setupRequestTestDB creates the test database with required seed data.
func setupRequestTestDB(t *testing.T) *sql.DB {
	t.Helper()
	testDB := setupTestDB(t)
	seedCustomer(t, testDB, "CUST-001", "Pat Doe")
	seedVehicle(t, testDB, "VEH-001", "CUST-001")
	return testDB
}

func newRequestRecord(id, date, clock string) *secondary.RequestRecord {
	return &secondary.RequestRecord{
		ID:               id,
		CustomerID:       "CUST-001",
		VehicleID:        "VEH-001",
		Status:           models.StatusPending,
		WorkflowColumn:   models.ColumnEstimates,
		WorkflowPosition: 0,
		AppointmentDate:  date,
		AppointmentTime:  clock,
	}
}

func TestRequestRepository_CreateAndGet(t *testing.T) {
	db := setupRequestTestDB(t)
	repo := sqlite.NewRequestRepository(db)
	ctx := context.Background()

	record := newRequestRecord("REQ-001", "2026-08-24", "10:00")
	services := []*secondary.ServiceItemRecord{
		{ID: "itm-1", RequestID: "REQ-001", ServiceType: "oil_change", Description: "synthetic", Urgency: models.UrgencyLow},
		{ID: "itm-2", RequestID: "REQ-001", ServiceType: "brakes", Urgency: models.UrgencyHigh},
	}

	if err := repo.Create(ctx, record, services); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.GetByID(ctx, "REQ-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.WorkflowColumn != models.ColumnEstimates {
		t.Errorf("column = %q, want estimates", got.WorkflowColumn)
	}
	if got.Status != models.StatusPending {
		t.Errorf("status = %q, want pending", got.Status)
	}
	if got.WorkflowHistory != "[]" {
		t.Errorf("history = %q, want empty array", got.WorkflowHistory)
	}

	items, err := repo.GetServices(ctx, "REQ-001")
	if err != nil {
		t.Fatalf("GetServices failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d service items, want 2", len(items))
	}
	if items[0].Description != "synthetic" {
		t.Errorf("description = %q", items[0].Description)
	}
}

func TestRequestRepository_GetByIDNotFound(t *testing.T) {
	db := setupRequestTestDB(t)
	repo := sqlite.NewRequestRepository(db)

	_, err := repo.GetByID(context.Background(), "REQ-404")
	if !errors.Is(err, models.ErrRequestNotFound) {
		t.Errorf("err = %v, want ErrRequestNotFound", err)
	}
}

func TestRequestRepository_SlotConflict(t *testing.T) {
	db := setupRequestTestDB(t)
	repo := sqlite.NewRequestRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, newRequestRecord("REQ-001", "2026-08-24", "10:00"), nil); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	err := repo.Create(ctx, newRequestRecord("REQ-002", "2026-08-24", "10:00"), nil)
	if !errors.Is(err, models.ErrSlotAlreadyBooked) {
		t.Fatalf("err = %v, want ErrSlotAlreadyBooked", err)
	}

	// A cancelled request frees the slot for rebooking.
	if err := repo.UpdateStatus(ctx, "REQ-001", models.StatusCancelled); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if err := repo.Create(ctx, newRequestRecord("REQ-003", "2026-08-24", "10:00"), nil); err != nil {
		t.Fatalf("rebooking a cancelled slot failed: %v", err)
	}

	// Different time on the same day is fine.
	if err := repo.Create(ctx, newRequestRecord("REQ-004", "2026-08-24", "10:10"), nil); err != nil {
		t.Fatalf("Create at free slot failed: %v", err)
	}
}

func TestRequestRepository_ConcurrentCreateSameSlot(t *testing.T) {
	db := setupRequestTestDB(t)
	repo := sqlite.NewRequestRepository(db)
	ctx := context.Background()

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := "REQ-10" + string(rune('0'+i))
			errs[i] = repo.Create(ctx, newRequestRecord(id, "2026-08-25", "09:30"), nil)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, models.ErrSlotAlreadyBooked) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("%d concurrent bookings succeeded for the same slot, want exactly 1", succeeded)
	}
}

func TestRequestRepository_CommitTransition(t *testing.T) {
	db := setupRequestTestDB(t)
	repo := sqlite.NewRequestRepository(db)
	ctx := context.Background()

	seedRequest(t, db, "REQ-001", models.ColumnEstimates, 0, "2026-08-24", "10:00")

	history := `[{"from_column":"estimates","to_column":"in_progress","timestamp":"2026-08-24T10:00:00Z"}]`
	ok, err := repo.CommitTransition(ctx, "REQ-001", models.ColumnEstimates, models.ColumnInProgress, models.StatusInProgress, history, []string{"REQ-001"})
	if err != nil {
		t.Fatalf("CommitTransition failed: %v", err)
	}
	if !ok {
		t.Fatal("CommitTransition returned false, want true")
	}

	got, err := repo.GetByID(ctx, "REQ-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.WorkflowColumn != models.ColumnInProgress {
		t.Errorf("column = %q, want in_progress", got.WorkflowColumn)
	}
	if got.Status != models.StatusInProgress {
		t.Errorf("status = %q, want in_progress", got.Status)
	}
	if got.WorkflowHistory != history {
		t.Errorf("history = %q, want %q", got.WorkflowHistory, history)
	}
	if got.WorkflowPosition != 0 {
		t.Errorf("position = %d, want 0", got.WorkflowPosition)
	}

	// A second commit guarded on the stale column loses.
	ok, err = repo.CommitTransition(ctx, "REQ-001", models.ColumnEstimates, models.ColumnWaitingParts, models.StatusInProgress, history, []string{"REQ-001"})
	if err != nil {
		t.Fatalf("CommitTransition failed: %v", err)
	}
	if ok {
		t.Fatal("stale CommitTransition returned true, want false")
	}
}

func TestRequestRepository_CommitTransitionRenumberFailureRollsBack(t *testing.T) {
	db := setupRequestTestDB(t)
	repo := sqlite.NewRequestRepository(db)
	ctx := context.Background()

	seedRequest(t, db, "REQ-001", models.ColumnEstimates, 0, "2026-08-24", "09:00")
	seedRequest(t, db, "REQ-002", models.ColumnInProgress, 0, "2026-08-24", "09:10")
	seedRequest(t, db, "REQ-003", models.ColumnEstimates, 1, "2026-08-24", "09:20")

	// REQ-003 is not in the destination; renumbering fails and must take the
	// column change, status and history down with it.
	history := `[{"from_column":"estimates","to_column":"in_progress","timestamp":"2026-08-24T10:00:00Z"}]`
	ok, err := repo.CommitTransition(ctx, "REQ-001", models.ColumnEstimates, models.ColumnInProgress, models.StatusInProgress, history,
		[]string{"REQ-002", "REQ-003", "REQ-001"})
	if !errors.Is(err, models.ErrConcurrentModification) {
		t.Fatalf("err = %v, want ErrConcurrentModification", err)
	}
	if ok {
		t.Fatal("failed CommitTransition returned true, want false")
	}

	got, err := repo.GetByID(ctx, "REQ-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.WorkflowColumn != models.ColumnEstimates {
		t.Errorf("rollback failed: column = %q, want estimates", got.WorkflowColumn)
	}
	if got.Status != models.StatusPending {
		t.Errorf("rollback failed: status = %q, want pending", got.Status)
	}
	if got.WorkflowHistory != "[]" {
		t.Errorf("rollback failed: history = %q, want empty array", got.WorkflowHistory)
	}
}

func TestRequestRepository_RenumberColumn(t *testing.T) {
	db := setupRequestTestDB(t)
	repo := sqlite.NewRequestRepository(db)
	ctx := context.Background()

	// Positions with gaps and out of order on purpose.
	seedRequest(t, db, "REQ-001", models.ColumnEstimates, 3, "2026-08-24", "09:00")
	seedRequest(t, db, "REQ-002", models.ColumnEstimates, 7, "2026-08-24", "09:10")
	seedRequest(t, db, "REQ-003", models.ColumnEstimates, 9, "2026-08-24", "09:20")

	if err := repo.RenumberColumn(ctx, models.ColumnEstimates, []string{"REQ-003", "REQ-001", "REQ-002"}); err != nil {
		t.Fatalf("RenumberColumn failed: %v", err)
	}

	records, err := repo.ListByColumn(ctx, models.ColumnEstimates)
	if err != nil {
		t.Fatalf("ListByColumn failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}

	wantOrder := []string{"REQ-003", "REQ-001", "REQ-002"}
	for i, rec := range records {
		if rec.ID != wantOrder[i] {
			t.Errorf("position %d = %s, want %s", i, rec.ID, wantOrder[i])
		}
		if rec.WorkflowPosition != i {
			t.Errorf("%s position = %d, want %d (gap-free)", rec.ID, rec.WorkflowPosition, i)
		}
	}
}

func TestRequestRepository_RenumberColumnStaleMember(t *testing.T) {
	db := setupRequestTestDB(t)
	repo := sqlite.NewRequestRepository(db)
	ctx := context.Background()

	seedRequest(t, db, "REQ-001", models.ColumnEstimates, 0, "2026-08-24", "09:00")
	seedRequest(t, db, "REQ-002", models.ColumnInProgress, 0, "2026-08-24", "09:10")

	// REQ-002 is not in estimates; the whole renumbering must roll back.
	err := repo.RenumberColumn(ctx, models.ColumnEstimates, []string{"REQ-002", "REQ-001"})
	if !errors.Is(err, models.ErrConcurrentModification) {
		t.Fatalf("err = %v, want ErrConcurrentModification", err)
	}

	got, err := repo.GetByID(ctx, "REQ-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.WorkflowPosition != 0 {
		t.Errorf("rollback failed: position = %d, want 0", got.WorkflowPosition)
	}
}

func TestRequestRepository_ListFilters(t *testing.T) {
	db := setupRequestTestDB(t)
	repo := sqlite.NewRequestRepository(db)
	ctx := context.Background()

	seedRequest(t, db, "REQ-001", models.ColumnEstimates, 0, "2026-08-24", "09:00")
	seedRequest(t, db, "REQ-002", models.ColumnInProgress, 0, "2026-08-24", "09:10")
	seedRequest(t, db, "REQ-003", models.ColumnEstimates, 1, "2026-08-25", "09:00")

	byColumn, err := repo.List(ctx, secondary.RequestFilters{WorkflowColumn: models.ColumnEstimates})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(byColumn) != 2 {
		t.Errorf("got %d by column, want 2", len(byColumn))
	}

	byDate, err := repo.List(ctx, secondary.RequestFilters{AppointmentDate: "2026-08-24"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(byDate) != 2 {
		t.Errorf("got %d by date, want 2", len(byDate))
	}

	byStatus, err := repo.List(ctx, secondary.RequestFilters{Status: models.StatusPending})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(byStatus) != 3 {
		t.Errorf("got %d by status, want 3", len(byStatus))
	}
}

func TestRequestRepository_ListByDateOrder(t *testing.T) {
	db := setupRequestTestDB(t)
	repo := sqlite.NewRequestRepository(db)
	ctx := context.Background()

	seedRequest(t, db, "REQ-001", models.ColumnEstimates, 0, "2026-08-24", "14:00")
	seedRequest(t, db, "REQ-002", models.ColumnEstimates, 1, "2026-08-24", "09:00")
	seedRequest(t, db, "REQ-003", models.ColumnEstimates, 2, "2026-08-24", "11:30")

	records, err := repo.ListByDate(ctx, "2026-08-24")
	if err != nil {
		t.Fatalf("ListByDate failed: %v", err)
	}
	want := []string{"REQ-002", "REQ-003", "REQ-001"}
	for i, rec := range records {
		if rec.ID != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, rec.ID, want[i])
		}
	}
}

func TestRequestRepository_BookedTimesExcludesCancelled(t *testing.T) {
	db := setupRequestTestDB(t)
	repo := sqlite.NewRequestRepository(db)
	ctx := context.Background()

	seedRequest(t, db, "REQ-001", models.ColumnEstimates, 0, "2026-08-24", "09:00")
	seedRequest(t, db, "REQ-002", models.ColumnEstimates, 1, "2026-08-24", "10:00")
	if err := repo.UpdateStatus(ctx, "REQ-002", models.StatusCancelled); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}

	times, err := repo.BookedTimes(ctx, "2026-08-24")
	if err != nil {
		t.Fatalf("BookedTimes failed: %v", err)
	}
	if len(times) != 1 || times[0] != "09:00" {
		t.Errorf("BookedTimes = %v, want [09:00]", times)
	}

	taken, err := repo.SlotTaken(ctx, "2026-08-24", "10:00")
	if err != nil {
		t.Fatalf("SlotTaken failed: %v", err)
	}
	if taken {
		t.Error("cancelled slot still reported as taken")
	}
}

func TestRequestRepository_GetNextID(t *testing.T) {
	db := setupRequestTestDB(t)
	repo := sqlite.NewRequestRepository(db)
	ctx := context.Background()

	id, err := repo.GetNextID(ctx)
	if err != nil {
		t.Fatalf("GetNextID failed: %v", err)
	}
	if id != "REQ-001" {
		t.Errorf("GetNextID = %s, want REQ-001", id)
	}

	seedRequest(t, db, "REQ-001", models.ColumnEstimates, 0, "2026-08-24", "09:00")

	id, err = repo.GetNextID(ctx)
	if err != nil {
		t.Fatalf("GetNextID failed: %v", err)
	}
	if id != "REQ-002" {
		t.Errorf("GetNextID = %s, want REQ-002", id)
	}
}

func TestRequestRepository_GetNextIDPastThreeDigits(t *testing.T) {
	db := setupRequestTestDB(t)
	repo := sqlite.NewRequestRepository(db)
	ctx := context.Background()

	// REQ-999 beats REQ-1000 under string comparison; the numeric MAX must
	// not hand out an ID that is already taken.
	seedRequest(t, db, "REQ-999", models.ColumnEstimates, 0, "2026-08-24", "09:00")
	seedRequest(t, db, "REQ-1000", models.ColumnEstimates, 1, "2026-08-24", "09:10")

	id, err := repo.GetNextID(ctx)
	if err != nil {
		t.Fatalf("GetNextID failed: %v", err)
	}
	if id != "REQ-1001" {
		t.Errorf("GetNextID = %s, want REQ-1001", id)
	}
}

func TestRequestRepository_CreateAssignsColumnPosition(t *testing.T) {
	db := setupRequestTestDB(t)
	repo := sqlite.NewRequestRepository(db)
	ctx := context.Background()

	// Both records arrive claiming position 0; the insert itself decides.
	if err := repo.Create(ctx, newRequestRecord("REQ-001", "2026-08-24", "10:00"), nil); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := repo.Create(ctx, newRequestRecord("REQ-002", "2026-08-24", "10:10"), nil); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	records, err := repo.ListByColumn(ctx, models.ColumnEstimates)
	if err != nil {
		t.Fatalf("ListByColumn failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	for i, rec := range records {
		if rec.WorkflowPosition != i {
			t.Errorf("%s position = %d, want %d", rec.ID, rec.WorkflowPosition, i)
		}
	}
}

func TestRequestRepository_ConcurrentCreatesGetDistinctPositions(t *testing.T) {
	db := setupRequestTestDB(t)
	repo := sqlite.NewRequestRepository(db)
	ctx := context.Background()

	const attempts = 6
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := "REQ-10" + string(rune('0'+i))
			clock := fmt.Sprintf("09:%d0", i)
			if err := repo.Create(ctx, newRequestRecord(id, "2026-08-25", clock), nil); err != nil {
				t.Errorf("Create %s failed: %v", id, err)
			}
		}(i)
	}
	wg.Wait()

	records, err := repo.ListByColumn(ctx, models.ColumnEstimates)
	if err != nil {
		t.Fatalf("ListByColumn failed: %v", err)
	}
	if len(records) != attempts {
		t.Fatalf("got %d records, want %d", len(records), attempts)
	}
	for i, rec := range records {
		if rec.WorkflowPosition != i {
			t.Errorf("position %d held by %s with position %d, want distinct gap-free positions", i, rec.ID, rec.WorkflowPosition)
		}
	}
}

func TestRequestRepository_DeleteCascadesServiceItems(t *testing.T) {
	db := setupRequestTestDB(t)
	repo := sqlite.NewRequestRepository(db)
	ctx := context.Background()

	record := newRequestRecord("REQ-001", "2026-08-24", "10:00")
	services := []*secondary.ServiceItemRecord{
		{ID: "itm-1", RequestID: "REQ-001", ServiceType: "inspection", Urgency: models.UrgencyMedium},
	}
	if err := repo.Create(ctx, record, services); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := repo.Delete(ctx, "REQ-001"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM service_items").Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("%d service items survived the cascade, want 0", count)
	}

	if err := repo.Delete(ctx, "REQ-001"); !errors.Is(err, models.ErrRequestNotFound) {
		t.Errorf("double delete err = %v, want ErrRequestNotFound", err)
	}
}
