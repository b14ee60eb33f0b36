// Package quiz implements the assessment pipeline: answer validation, score
// aggregation, candidate ranking, submission and outcome confirmation.
package quiz

import (
	"context"
	"fmt"

	"github.com/Veraticus/majorfit/internal/catalog"
	"github.com/Veraticus/majorfit/internal/common"
	"github.com/Veraticus/majorfit/internal/service"
	"github.com/Veraticus/majorfit/internal/txqueue"
)

// Service runs submissions and confirmations against the store. Every write
// path goes through the queue and a single store transaction.
type Service struct {
	store      service.Storage
	queue      *txqueue.Queue
	items      *catalog.Items
	candidates *catalog.Candidates
}

// NewService wires a Service. A nil queue gets a fresh one.
func NewService(store service.Storage, queue *txqueue.Queue, items *catalog.Items, candidates *catalog.Candidates) *Service {
	if queue == nil {
		queue = txqueue.New()
	}
	return &Service{
		store:      store,
		queue:      queue,
		items:      items,
		candidates: candidates,
	}
}

// Items returns the item catalog the service validates against.
func (s *Service) Items() *catalog.Items {
	return s.items
}

// Candidates returns the candidate catalog the service ranks.
func (s *Service) Candidates() *catalog.Candidates {
	return s.candidates
}

// inTx waits for the queue, then runs fn inside one store transaction. Any
// error from fn rolls the whole unit back.
func (s *Service) inTx(ctx context.Context, op string, fn func(tx service.Transaction) error) error {
	return s.queue.Do(ctx, func(ctx context.Context) error {
		tx, err := s.store.BeginTx(ctx)
		if err != nil {
			return err
		}

		if err := fn(tx); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				common.LogError(rbErr, "Failed to roll back", common.Fields{"operation": op})
			}
			if !IsExpected(err) {
				common.LogError(err, "Transaction failed", common.Fields{"operation": op})
			}
			return err
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit %s: %w", op, err)
		}
		return nil
	})
}
