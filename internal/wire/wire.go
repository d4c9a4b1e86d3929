// Package wire provides dependency injection for the Pitstop application.
// It creates singleton services with lazy initialization.
package wire

import (
	"log"
	"os"
	"sync"
	"time"

	"github.com/example/pitstop/internal/adapters/fanout"
	"github.com/example/pitstop/internal/adapters/memory"
	"github.com/example/pitstop/internal/adapters/sqlite"
	"github.com/example/pitstop/internal/app"
	"github.com/example/pitstop/internal/config"
	"github.com/example/pitstop/internal/db"
	"github.com/example/pitstop/internal/ports/primary"
)

var (
	requestService  primary.RequestService
	boardService    primary.BoardService
	scheduleService primary.ScheduleService
	snapshotService primary.SnapshotService
	customerService primary.CustomerService
	hub             *fanout.Hub
	location        *time.Location
	once            sync.Once
)

// RequestService returns the singleton RequestService instance.
func RequestService() primary.RequestService {
	once.Do(initServices)
	return requestService
}

// BoardService returns the singleton BoardService instance.
func BoardService() primary.BoardService {
	once.Do(initServices)
	return boardService
}

// ScheduleService returns the singleton ScheduleService instance.
func ScheduleService() primary.ScheduleService {
	once.Do(initServices)
	return scheduleService
}

// SnapshotService returns the singleton SnapshotService instance.
func SnapshotService() primary.SnapshotService {
	once.Do(initServices)
	return snapshotService
}

// CustomerService returns the singleton CustomerService instance.
func CustomerService() primary.CustomerService {
	once.Do(initServices)
	return customerService
}

// Hub returns the singleton in-process fanout hub. Subscribers attach here;
// the services publish through the same instance.
func Hub() *fanout.Hub {
	once.Do(initServices)
	return hub
}

// Location returns the configured shop timezone.
func Location() *time.Location {
	once.Do(initServices)
	return location
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	logger := log.New(os.Stderr, "pitstop: ", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	location, err = cfg.Location()
	if err != nil {
		log.Fatalf("failed to resolve shop timezone: %v", err)
	}

	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Secondary adapters
	requestRepo := sqlite.NewRequestRepository(database)
	scheduleRepo := sqlite.NewScheduleRepository(database)
	customerRepo := sqlite.NewCustomerRepository(database)
	cache := memory.NewCache()
	hub = fanout.NewHub()

	// Primary port implementations
	snapshotService = app.NewSnapshotService(requestRepo, customerRepo, cache, hub, logger, location)
	scheduleService = app.NewScheduleService(requestRepo, scheduleRepo, logger, location)
	requestService = app.NewRequestService(requestRepo, customerRepo, scheduleService, snapshotService, logger)
	boardService = app.NewBoardService(requestRepo, customerRepo, snapshotService, hub, logger)
	customerService = app.NewCustomerService(customerRepo)
}
