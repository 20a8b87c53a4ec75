package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"autobid/internal/auction"
	"autobid/internal/repository"
)

// LifecycleService applies time-driven auction transitions in bulk.
type LifecycleService interface {
	// AdvanceDue opens auctions whose start passed and ends auctions whose end
	// passed, returning how many changed. Running it again, or from several
	// processes at once, is harmless.
	AdvanceDue(ctx context.Context, now time.Time) (int, error)
}

type lifecycleService struct {
	auctions repository.AuctionRepository
}

// NewLifecycleService creates a new lifecycle service.
func NewLifecycleService(auctions repository.AuctionRepository) LifecycleService {
	return &lifecycleService{auctions: auctions}
}

func (s *lifecycleService) AdvanceDue(ctx context.Context, now time.Time) (int, error) {
	ids, err := s.auctions.ListDueIDs(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("list due auctions: %w", err)
	}

	changed := 0
	var errs []error
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		ok, err := s.advanceOne(ctx, id, now)
		if err != nil {
			log.WithFields(log.Fields{"auction_id": id, "error": err.Error()}).Error("advance auction failed")
			errs = append(errs, fmt.Errorf("auction %s: %w", id, err))
			continue
		}
		if ok {
			changed++
		}
	}
	return changed, errors.Join(errs...)
}

func (s *lifecycleService) advanceOne(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	mutex := auctionLocks.get(id)
	mutex.Lock()
	defer mutex.Unlock()

	changed := false
	err := s.auctions.WithTransaction(ctx, func(ctx context.Context, repo repository.AuctionRepository) error {
		current, err := repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		// Another runner may have advanced it since the list was read.
		if current.Status.IsTerminal() {
			return nil
		}
		bids, err := repo.ListBids(ctx, id)
		if err != nil {
			return fmt.Errorf("list bids: %w", err)
		}
		next := auction.Advance(*current, bids, now)
		changed = auction.Changed(*current, next)
		return persistTransition(ctx, repo, *current, next)
	})
	return changed, err
}

// RunLifecycle calls AdvanceDue immediately and then every interval until ctx
// is done. Failures are logged and retried on the next tick.
func RunLifecycle(ctx context.Context, svc LifecycleService, interval time.Duration) {
	tick := func() {
		changed, err := svc.AdvanceDue(ctx, time.Now().UTC())
		if err != nil && ctx.Err() == nil {
			log.WithFields(log.Fields{"changed": changed, "error": err.Error()}).Error("lifecycle pass failed")
			return
		}
		if changed > 0 {
			log.WithFields(log.Fields{"changed": changed}).Info("lifecycle pass")
		}
	}

	tick()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			tick()
		case <-ctx.Done():
			return
		}
	}
}
