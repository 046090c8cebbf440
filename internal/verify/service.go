package verify

import (
	"context"
	"log"
	"sync"

	"go-dashboard-verification/internal/models"
)

// Recorder persists or publishes a finished run.
type Recorder interface {
	Name() string
	Record(ctx context.Context, run *models.Run) error
}

// Service runs verifications one at a time and hands each finished run to
// its recorders. Recorder failures never change a run's outcome.
type Service struct {
	runner    *Runner
	recorders []Recorder
	mu        sync.Mutex
}

func NewService(runner *Runner, recorders ...Recorder) *Service {
	return &Service{
		runner:    runner,
		recorders: recorders,
	}
}

// Execute returns ErrRunInProgress without running when another run is active.
func (s *Service) Execute(ctx context.Context) (*models.Run, error) {
	if !s.mu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer s.mu.Unlock()

	run, err := s.runner.Run(ctx)
	if err != nil {
		log.Printf("❌ Verification %s failed: %v", run.ID, err)
	} else {
		log.Printf("🏁 Verification %s finished in %v with %d screenshots", run.ID, run.Duration(), len(run.Screenshots))
	}

	// recorders still get the run when the caller's ctx has already expired
	recordCtx := context.WithoutCancel(ctx)
	for _, rec := range s.recorders {
		if rerr := rec.Record(recordCtx, run); rerr != nil {
			log.Printf("⚠️ Failed to record run to %s: %v", rec.Name(), rerr)
		}
	}
	return run, err
}
