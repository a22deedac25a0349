package sync

import (
	"context"
	stdsync "sync"
	"time"

	"opsdesk/internal/api"
)

// FetchFunc assembles one snapshot for a scope. Fetch errors are recorded per
// resource inside the snapshot rather than returned, so one failing call never
// takes the whole cycle down with it.
type FetchFunc func(ctx context.Context) *Snapshot

// NewFrontDeskFetch builds the front-desk fetch: today's arrivals and
// departures, everyone currently in house, and the availability summary, all
// requested in parallel.
func NewFrontDeskFetch(c *api.Client) FetchFunc {
	return func(ctx context.Context) *Snapshot {
		snap := &Snapshot{Scope: ScopeFrontDesk, FetchedAt: time.Now()}

		day := time.Now().Truncate(24 * time.Hour)
		window := api.Filters{From: day, To: day.AddDate(0, 0, 1)}

		var wg stdsync.WaitGroup
		var mu stdsync.Mutex
		fail := func(resource string, err error) {
			mu.Lock()
			snap.setError(resource, err)
			mu.Unlock()
		}

		wg.Add(4)
		go func() {
			defer wg.Done()
			if out, err := c.Arrivals(ctx, window); err != nil {
				fail(ResArrivals, err)
			} else {
				snap.Arrivals = out
			}
		}()
		go func() {
			defer wg.Done()
			if out, err := c.Departures(ctx, window); err != nil {
				fail(ResDepartures, err)
			} else {
				snap.Departures = out
			}
		}()
		go func() {
			defer wg.Done()
			if out, err := c.InHouse(ctx, api.Filters{}); err != nil {
				fail(ResInHouse, err)
			} else {
				snap.InHouse = out
			}
		}()
		go func() {
			defer wg.Done()
			if out, err := c.RoomAvailability(ctx); err != nil {
				fail(ResAvailability, err)
			} else {
				snap.Summary = out
			}
		}()
		wg.Wait()

		return snap
	}
}

// NewHousekeepingFetch builds the housekeeping fetch: the task list (all
// assignees; the projector splits mine-vs-all) and every room's status.
func NewHousekeepingFetch(c *api.Client) FetchFunc {
	return func(ctx context.Context) *Snapshot {
		snap := &Snapshot{Scope: ScopeHousekeeping, FetchedAt: time.Now()}

		var wg stdsync.WaitGroup
		var mu stdsync.Mutex
		fail := func(resource string, err error) {
			mu.Lock()
			snap.setError(resource, err)
			mu.Unlock()
		}

		wg.Add(2)
		go func() {
			defer wg.Done()
			if out, err := c.Tasks(ctx, api.Filters{}); err != nil {
				fail(ResTasks, err)
			} else {
				snap.Tasks = out
			}
		}()
		go func() {
			defer wg.Done()
			if out, err := c.RoomStatuses(ctx); err != nil {
				fail(ResRooms, err)
			} else {
				snap.Rooms = out
			}
		}()
		wg.Wait()

		return snap
	}
}
