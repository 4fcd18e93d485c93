// Package scheduler runs periodic background jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/avelichka/bookshelf/internal/config"
	"github.com/avelichka/bookshelf/internal/entities"
)

// MissingMetadataLister finds catalog entries still awaiting enrichment.
type MissingMetadataLister interface {
	MissingMetadata(limit int) ([]entities.Book, error)
}

// EnrichmentQueuer hands individual books to the task queue.
type EnrichmentQueuer interface {
	EnqueueEnrichment(bookID uint) error
}

// EnrichmentScheduler periodically sweeps the catalog for books that were
// created without OpenLibrary data and queues an enrichment task for each.
// Imports done while the metadata service was unavailable get their second
// chance here.
type EnrichmentScheduler struct {
	catalog MissingMetadataLister
	queuer  EnrichmentQueuer
	config  config.Enrichment

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewEnrichmentScheduler creates a scheduler instance.
func NewEnrichmentScheduler(catalog MissingMetadataLister, queuer EnrichmentQueuer, cfg config.Enrichment) *EnrichmentScheduler {
	return &EnrichmentScheduler{
		catalog: catalog,
		queuer:  queuer,
		config:  cfg,
		cron:    cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if enrichment is enabled.
func (s *EnrichmentScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.config.Enabled {
		log.Printf("Enrichment scheduler: disabled")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.config.Schedule, func() {
		s.runSweep()
	})
	if err != nil {
		return fmt.Errorf("invalid enrichment schedule %q: %w", s.config.Schedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Enrichment scheduler: started with schedule %q", s.config.Schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running sweep to
// finish.
func (s *EnrichmentScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Enrichment scheduler: stopped")
}

// RunNow triggers a sweep outside the schedule.
func (s *EnrichmentScheduler) RunNow() (int, error) {
	return s.sweep()
}

func (s *EnrichmentScheduler) runSweep() {
	queued, err := s.sweep()
	if err != nil {
		log.Printf("Enrichment sweep failed: %v", err)
		return
	}
	if queued > 0 {
		log.Printf("Enrichment sweep queued %d books", queued)
	}
}

func (s *EnrichmentScheduler) sweep() (int, error) {
	books, err := s.catalog.MissingMetadata(s.config.Batch)
	if err != nil {
		return 0, fmt.Errorf("list books missing metadata: %w", err)
	}

	queued := 0
	for _, book := range books {
		if err := s.queuer.EnqueueEnrichment(book.ID); err != nil {
			log.Printf("Failed to queue enrichment for book %d: %v", book.ID, err)
			continue
		}
		queued++
	}
	return queued, nil
}
