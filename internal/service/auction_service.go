package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"autobid/internal/auction"
	"autobid/internal/cache"
	apperrors "autobid/internal/errors"
	"autobid/internal/model"
	"autobid/internal/repository"
)

const defaultAuctionCacheTTL = 30 * time.Second

// Actor is the authenticated caller of an administrative operation.
type Actor struct {
	UserID uuid.UUID
	Admin  bool
}

// AuctionService handles bidding and auction read/admin operations.
type AuctionService interface {
	PlaceBid(ctx context.Context, auctionID, bidderID uuid.UUID, amount decimal.Decimal) (*model.Bid, error)
	GetAuction(ctx context.Context, id uuid.UUID) (*model.Auction, error)
	ListAuctions(ctx context.Context, status model.AuctionStatus, limit, offset int) ([]model.AuctionSummary, error)
	MinimumBid(ctx context.Context, id uuid.UUID) (decimal.Decimal, error)
	CloseAuction(ctx context.Context, id uuid.UUID, actor Actor) (*model.Auction, error)
	CancelAuction(ctx context.Context, id uuid.UUID, actor Actor) (*model.Auction, error)
}

type auctionService struct {
	auctions repository.AuctionRepository
	profiles repository.ProfileRepository
	catalog  repository.CatalogRepository
	cache    *cache.Client
	cacheTTL time.Duration
	now      func() time.Time
}

// NewAuctionService creates a new auction service. A zero cacheTTL uses 30s.
func NewAuctionService(
	auctions repository.AuctionRepository,
	profiles repository.ProfileRepository,
	catalog repository.CatalogRepository,
	cache *cache.Client,
	cacheTTL time.Duration,
) AuctionService {
	if cacheTTL <= 0 {
		cacheTTL = defaultAuctionCacheTTL
	}
	return &auctionService{
		auctions: auctions,
		profiles: profiles,
		catalog:  catalog,
		cache:    cache,
		cacheTTL: cacheTTL,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *auctionService) cacheKey(id uuid.UUID) string {
	return "auction:" + id.String()
}

// PlaceBid validates and records a bid. Bids on one auction are serialized by
// an in-process mutex and by the auction's row lock, so two bids can never
// both clear the same floor. A due lifecycle transition is persisted even
// when the bid itself is then rejected.
func (s *auctionService) PlaceBid(ctx context.Context, auctionID, bidderID uuid.UUID, amount decimal.Decimal) (*model.Bid, error) {
	if err := auction.ValidateAmount(amount); err != nil {
		return nil, err
	}
	if _, err := s.profiles.Ensure(ctx, bidderID); err != nil {
		return nil, fmt.Errorf("ensure bidder profile: %w", err)
	}

	mutex := auctionLocks.get(auctionID)
	mutex.Lock()
	defer mutex.Unlock()

	var placed *model.Bid
	var rejection error
	err := s.auctions.WithTransaction(ctx, func(ctx context.Context, repo repository.AuctionRepository) error {
		current, err := repo.FindByIDForUpdate(ctx, auctionID)
		if err != nil {
			return err
		}
		bids, err := repo.ListBids(ctx, auctionID)
		if err != nil {
			return fmt.Errorf("list bids: %w", err)
		}

		now := s.now()
		advanced := auction.Advance(*current, bids, now)
		if err := persistTransition(ctx, repo, *current, advanced); err != nil {
			return err
		}

		if err := auction.ValidateBid(&advanced, bids, amount); err != nil {
			rejection = err
			return nil
		}

		bid := &model.Bid{
			ID:        uuid.New(),
			AuctionID: auctionID,
			BidderID:  bidderID,
			Amount:    amount,
			CreatedAt: now,
		}
		if err := repo.CreateBid(ctx, bid); err != nil {
			return fmt.Errorf("create bid: %w", err)
		}
		placed = bid
		return nil
	})
	if err != nil {
		return nil, err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(auctionID))

	if rejection != nil {
		log.WithFields(log.Fields{
			"auction_id": auctionID,
			"bidder_id":  bidderID,
			"amount":     amount.StringFixed(2),
			"reason":     rejection.Error(),
		}).Info("bid rejected")
		return nil, rejection
	}

	log.WithFields(log.Fields{
		"auction_id": auctionID,
		"bidder_id":  bidderID,
		"amount":     amount.StringFixed(2),
	}).Info("bid placed")
	return placed, nil
}

// GetAuction returns the auction with vehicle, images and bids. The status is
// projected onto the current time for display; persisting it is left to the
// lifecycle runner and the next bid.
func (s *auctionService) GetAuction(ctx context.Context, id uuid.UUID) (*model.Auction, error) {
	var detail model.Auction
	if !s.cache.GetJSON(ctx, s.cacheKey(id), &detail) {
		loaded, err := s.auctions.FindDetail(ctx, id)
		if err != nil {
			return nil, err
		}
		detail = *loaded
		_ = s.cache.SetJSON(ctx, s.cacheKey(id), detail, s.cacheTTL)
	}

	view := auction.Advance(detail, detail.Bids, s.now())
	return &view, nil
}

// ListAuctions returns summaries ordered by end date. Active auctions whose
// end date already passed are left out.
func (s *auctionService) ListAuctions(ctx context.Context, status model.AuctionStatus, limit, offset int) ([]model.AuctionSummary, error) {
	if status == "" {
		status = model.AuctionStatusActive
	}
	list, err := s.catalog.ListAuctions(ctx, status, limit, offset)
	if err != nil {
		return nil, err
	}
	if status != model.AuctionStatusActive {
		return list, nil
	}

	now := s.now()
	open := list[:0]
	for _, a := range list {
		if now.Before(a.EndDate) {
			open = append(open, a)
		}
	}
	return open, nil
}

func (s *auctionService) MinimumBid(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
	a, err := s.auctions.FindByID(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	bids, err := s.auctions.ListBids(ctx, id)
	if err != nil {
		return decimal.Zero, fmt.Errorf("list bids: %w", err)
	}
	return auction.MinimumBid(a, bids), nil
}

// CloseAuction ends an auction ahead of schedule. Administrators only.
func (s *auctionService) CloseAuction(ctx context.Context, id uuid.UUID, actor Actor) (*model.Auction, error) {
	if !actor.Admin {
		return nil, apperrors.ErrForbidden
	}
	return s.transition(ctx, id, func(ctx context.Context, repo repository.AuctionRepository, a model.Auction, bids []model.Bid) (model.Auction, error) {
		return auction.Close(a, bids)
	})
}

// CancelAuction withdraws an auction. The seller may do so until the first
// bid; administrators at any time before it ends.
func (s *auctionService) CancelAuction(ctx context.Context, id uuid.UUID, actor Actor) (*model.Auction, error) {
	return s.transition(ctx, id, func(ctx context.Context, repo repository.AuctionRepository, a model.Auction, bids []model.Bid) (model.Auction, error) {
		if !actor.Admin {
			sellerID, err := repo.SellerOf(ctx, a.ID)
			if err != nil {
				return a, err
			}
			if sellerID != actor.UserID {
				return a, apperrors.ErrForbidden
			}
		}
		return auction.Cancel(a, int64(len(bids)), actor.Admin)
	})
}

type transitionFunc func(ctx context.Context, repo repository.AuctionRepository, a model.Auction, bids []model.Bid) (model.Auction, error)

// transition runs fn on the locked, lazily advanced auction and persists the result.
func (s *auctionService) transition(ctx context.Context, id uuid.UUID, fn transitionFunc) (*model.Auction, error) {
	mutex := auctionLocks.get(id)
	mutex.Lock()
	defer mutex.Unlock()

	var result model.Auction
	var rejection error
	err := s.auctions.WithTransaction(ctx, func(ctx context.Context, repo repository.AuctionRepository) error {
		current, err := repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		bids, err := repo.ListBids(ctx, id)
		if err != nil {
			return fmt.Errorf("list bids: %w", err)
		}

		advanced := auction.Advance(*current, bids, s.now())
		next, err := fn(ctx, repo, advanced, bids)
		if err != nil {
			// Keep the due transition even though the requested one failed.
			rejection = err
			next = advanced
		}
		if err := persistTransition(ctx, repo, *current, next); err != nil {
			return err
		}
		result = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	if rejection != nil {
		return nil, rejection
	}
	return &result, nil
}
