package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// TaskError accumulates the per-item failures of a bulk ingestion run.
type TaskError struct {
	Errors []error
}

func (e *TaskError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d errors:", len(e.Errors))
	for _, err := range e.Errors {
		b.WriteString(" " + err.Error() + ";")
	}
	return b.String()
}

func (e *TaskError) append(err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e *TaskError) Unwrap() []error {
	return e.Errors
}

func (e *TaskError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// BulkIngestor seeds large campus datasets using worker pools.
type BulkIngestor struct {
	service *CampusService
	workers int
}

// NewBulkIngestor creates a new BulkIngestor instance with the provided concurrency.
func NewBulkIngestor(service *CampusService, workers int) *BulkIngestor {
	if workers <= 0 {
		workers = 4
	}
	return &BulkIngestor{
		service: service,
		workers: workers,
	}
}

// IngestLocations creates the locations concurrently and then applies their
// connections one location at a time. Connection lists refer to the input
// IDs, so inputs that are connected must carry explicit IDs. A link listed on
// either side ends up on both.
func (bi *BulkIngestor) IngestLocations(ctx context.Context, locations []LocationInput) error {
	err := bi.run(ctx, len(locations), func(idx int) error {
		in := locations[idx]
		in.ConnectedTo = nil
		if _, err := bi.service.CreateLocation(ctx, in); err != nil {
			return fmt.Errorf("location %d (%s): %w", in.ID, in.Name, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	adjacency := symmetricConnections(locations)
	var taskErr TaskError
	for _, id := range sortedIDs(adjacency) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := bi.service.nav.ReplaceConnections(ctx, id, adjacency[id]); err != nil {
			taskErr.append(fmt.Errorf("connections of %d: %w", id, err))
		}
	}
	return taskErr.asError()
}

// IngestPOIs processes point of interest inputs concurrently.
func (bi *BulkIngestor) IngestPOIs(ctx context.Context, pois []POIInput) error {
	return bi.run(ctx, len(pois), func(idx int) error {
		_, err := bi.service.CreatePOI(ctx, pois[idx])
		return err
	})
}

// IngestEmergencyServices processes emergency marker inputs concurrently.
func (bi *BulkIngestor) IngestEmergencyServices(ctx context.Context, services []EmergencyServiceInput) error {
	return bi.run(ctx, len(services), func(idx int) error {
		_, err := bi.service.CreateEmergencyService(ctx, services[idx])
		return err
	})
}

func symmetricConnections(locations []LocationInput) map[int64][]int64 {
	sets := make(map[int64]map[int64]struct{})
	link := func(a, b int64) {
		if sets[a] == nil {
			sets[a] = make(map[int64]struct{})
		}
		sets[a][b] = struct{}{}
	}
	for _, loc := range locations {
		for _, target := range loc.ConnectedTo {
			if target == loc.ID || loc.ID == 0 {
				continue
			}
			link(loc.ID, target)
			link(target, loc.ID)
		}
	}

	out := make(map[int64][]int64, len(sets))
	for id, set := range sets {
		targets := make([]int64, 0, len(set))
		for target := range set {
			targets = append(targets, target)
		}
		slices.Sort(targets)
		out[id] = targets
	}
	return out
}

func sortedIDs(m map[int64][]int64) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (bi *BulkIngestor) run(ctx context.Context, total int, workerFn func(idx int) error) error {
	if total == 0 {
		return nil
	}
	indexCh := make(chan int)
	errCh := make(chan error, total)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for idx := range indexCh {
			if err := workerFn(idx); err != nil {
				select {
				case errCh <- err:
				case <-ctx.Done():
					return
				}
			}
		}
	}

	for i := 0; i < bi.workers; i++ {
		wg.Add(1)
		go worker()
	}

Loop:
	for i := 0; i < total; i++ {
		select {
		case indexCh <- i:
		case <-ctx.Done():
			break Loop
		}
	}
	close(indexCh)
	wg.Wait()
	close(errCh)

	var taskErr TaskError
	for err := range errCh {
		if err == nil {
			continue
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		taskErr.append(err)
	}
	return taskErr.asError()
}
