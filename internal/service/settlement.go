package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"autobid/internal/model"
	"autobid/internal/repository"
)

// keyedMutex hands out one mutex per key.
type keyedMutex struct {
	locks sync.Map
}

// auctionLocks serializes every write that depends on an auction's bids,
// across all services in the process.
var auctionLocks keyedMutex

func (k *keyedMutex) get(key uuid.UUID) *sync.Mutex {
	value, _ := k.locks.LoadOrStore(key, &sync.Mutex{})
	return value.(*sync.Mutex)
}

// persistTransition writes after if it differs from before. An auction that
// ended with a winner also gets its pending sale transaction.
func persistTransition(ctx context.Context, repo repository.AuctionRepository, before, after model.Auction) error {
	if before.Status == after.Status {
		return nil
	}
	if err := repo.UpdateState(ctx, &after); err != nil {
		return fmt.Errorf("update auction state: %w", err)
	}

	fields := log.Fields{"auction_id": after.ID, "from": before.Status, "to": after.Status}
	if after.WinnerID != nil {
		fields["winner_id"] = *after.WinnerID
		fields["final_price"] = after.FinalPrice.StringFixed(2)
	}
	log.WithFields(fields).Info("auction transitioned")

	if after.Status != model.AuctionStatusEnded || after.WinnerID == nil {
		return nil
	}
	sellerID, err := repo.SellerOf(ctx, after.ID)
	if err != nil {
		return fmt.Errorf("load seller: %w", err)
	}
	sale := &model.Transaction{
		AuctionID: after.ID,
		BuyerID:   *after.WinnerID,
		SellerID:  sellerID,
		Amount:    *after.FinalPrice,
		Status:    model.TransactionStatusPending,
	}
	if err := repo.CreateTransaction(ctx, sale); err != nil {
		return fmt.Errorf("create sale transaction: %w", err)
	}
	return nil
}
