package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v2"

	"opsdesk/internal/api"
	"opsdesk/internal/config"
	"opsdesk/internal/events"
	"opsdesk/internal/metrics"
	"opsdesk/internal/models"
	"opsdesk/internal/repository"
	"opsdesk/internal/sync"
	"opsdesk/internal/view"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("Config file does not exist: %s", configPath)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Room directory lives in its own file so the property can edit floors
	// without touching agent settings
	roomsPath := cfg.RoomsPath
	if roomsPath == "" {
		roomsPath = "configs/rooms.yaml"
	}
	directory, err := loadRoomDirectory(roomsPath)
	if err != nil {
		log.Fatalf("Error loading room directory %s: %v", roomsPath, err)
	}

	viewer := models.Viewer{
		StaffID:      cfg.Session.StaffID,
		Role:         models.Role(cfg.Session.Role),
		IsSuperAdmin: cfg.Session.SuperAdmin,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := api.NewClient(cfg.API.BaseURL, cfg.API.Token, cfg.API.Timeout())

	// Redis is optional; without it the last-known snapshot only survives in
	// memory and a restart waits for the first poll cycle
	var store repository.SnapshotStore = repository.NewMemorySnapshotStore()
	var redisClient *redis.Client
	if cfg.Redis.Address != "" {
		redisClient = repository.NewRedisClient(cfg.Redis)
		if err := repository.Ping(ctx, redisClient); err != nil {
			log.Printf("Redis unavailable, falling back to in-memory snapshot store: %v", err)
			redisClient = nil
		} else {
			store = repository.NewRedisSnapshotStore(redisClient)
		}
	}
	defer repository.Close(redisClient)

	metrics.Register()

	bus := events.NewEventBus()
	subscribeSnapshotEvents(bus)

	for _, scope := range []string{sync.ScopeFrontDesk, sync.ScopeHousekeeping} {
		if cached, err := store.Load(ctx, scope); err != nil {
			log.Printf("Warning: could not load cached %s snapshot: %v", scope, err)
		} else if cached != nil {
			log.Printf("Rendering %s from cached snapshot (%s) until first refresh", scope, cached.FetchedAt.Format("15:04:05"))
		}
	}

	frontDesk := sync.NewScheduler(
		sync.ScopeFrontDesk,
		cfg.Refresh.FrontDeskInterval(),
		timedFetch(sync.ScopeFrontDesk, sync.NewFrontDeskFetch(client)),
		applyFunc(ctx, store, bus, logFrontDesk),
		log.Default(),
	)

	housekeeping := sync.NewScheduler(
		sync.ScopeHousekeeping,
		cfg.Refresh.HousekeepingInterval(),
		timedFetch(sync.ScopeHousekeeping, sync.NewHousekeepingFetch(client)),
		applyFunc(ctx, store, bus, func(snap *sync.Snapshot) { logHousekeeping(snap, viewer, directory) }),
		log.Default(),
	)

	frontDesk.Start(ctx)
	housekeeping.Start(ctx)

	admin := newAdminServer(cfg, client, bus, viewer, frontDesk, housekeeping)
	go admin.serve(ctx)

	log.Printf("opsdesk agent started (front desk every %s, housekeeping every %s)",
		cfg.Refresh.FrontDeskInterval(), cfg.Refresh.HousekeepingInterval())

	<-ctx.Done()
	log.Println("Shutdown signal received...")

	frontDesk.Stop()
	housekeeping.Stop()
	log.Println("opsdesk agent stopped")
}

func loadRoomDirectory(path string) ([]models.Floor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var dir struct {
		Floors []models.Floor `yaml:"floors"`
	}
	if err := yaml.Unmarshal(data, &dir); err != nil {
		return nil, err
	}
	return dir.Floors, nil
}

// timedFetch wraps a fetch with a duration observation per cycle.
func timedFetch(scope string, fetch sync.FetchFunc) sync.FetchFunc {
	return func(ctx context.Context) *sync.Snapshot {
		start := time.Now()
		snap := fetch(ctx)
		metrics.ObserveRefreshDuration(scope, time.Since(start).Seconds())
		return snap
	}
}

// applyFunc persists each coherent snapshot, publishes it on the bus and lets
// the scope-specific logger summarize it.
func applyFunc(ctx context.Context, store repository.SnapshotStore, bus *events.EventBus, summarize func(*sync.Snapshot)) func(*sync.Snapshot) {
	return func(snap *sync.Snapshot) {
		if err := store.Save(ctx, snap); err != nil {
			log.Printf("Warning: could not persist %s snapshot: %v", snap.Scope, err)
		}
		bus.Publish(events.EventSnapshotApplied, events.SnapshotAppliedPayload{
			Scope:      snap.Scope,
			Generation: snap.Generation,
			Failures:   len(snap.Errors),
		})
		if summarize != nil {
			summarize(snap)
		}
	}
}

func subscribeSnapshotEvents(bus *events.EventBus) {
	bus.Subscribe(events.EventSnapshotApplied, func(ev events.Event) error {
		payload, err := events.DecodeSnapshotApplied(ev)
		if err != nil {
			log.Printf("event bus: decode payload for %s: %v", ev.Type, err)
			return nil
		}
		outcome := "success"
		if payload.Failures > 0 {
			outcome = "partial"
		}
		metrics.IncRefresh(payload.Scope, outcome)
		metrics.SetSnapshotTimestamp(payload.Scope, float64(ev.At.Unix()))
		return nil
	})

	bus.Subscribe(events.EventTransitionCompleted, func(ev events.Event) error {
		payload, err := events.DecodeTransitionCompleted(ev)
		if err != nil {
			log.Printf("event bus: decode payload for %s: %v", ev.Type, err)
			return nil
		}
		metrics.IncTransition(payload.Action, payload.Outcome)
		return nil
	})
}

func logFrontDesk(snap *sync.Snapshot) {
	arrivals := view.ProjectFrontDesk(snap, view.TabArrivals)
	inHouse := view.ProjectFrontDesk(snap, view.TabInHouse)
	departures := view.ProjectFrontDesk(snap, view.TabDepartures)
	log.Printf("front desk @ %s: %d arrivals, %d in-house, %d departures",
		arrivals.FetchedAt, len(arrivals.Rows), len(inHouse.Rows), len(departures.Rows))
}

func logHousekeeping(snap *sync.Snapshot, viewer models.Viewer, directory []models.Floor) {
	board := view.ProjectTasks(snap, viewer)
	floors := view.ProjectRooms(snap, directory)
	total := 0
	for _, g := range board.All {
		total += len(g.Tasks)
	}
	log.Printf("housekeeping: %d tasks across %d floors", total, len(floors))
}
