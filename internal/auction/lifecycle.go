package auction

import (
	"time"

	apperrors "autobid/internal/errors"
	"autobid/internal/model"
)

// Advance projects the auction onto now. Pending auctions open at StartDate,
// active auctions end at EndDate (selecting a winner). Terminal auctions are
// returned unchanged so redundant runs are harmless.
func Advance(a model.Auction, bids []model.Bid, now time.Time) model.Auction {
	if a.Status == model.AuctionStatusPending && !now.Before(a.StartDate) {
		a.Status = model.AuctionStatusActive
	}
	if a.Status == model.AuctionStatusActive && !now.Before(a.EndDate) {
		a = settle(a, bids)
	}
	return a
}

// Close ends an auction on administrative request, ahead of its EndDate if
// necessary. Closing an ended auction is a no-op.
func Close(a model.Auction, bids []model.Bid) (model.Auction, error) {
	switch a.Status {
	case model.AuctionStatusEnded:
		return a, nil
	case model.AuctionStatusCancelled:
		return a, apperrors.ErrInvalidTransition
	}
	return settle(a, bids), nil
}

// Cancel withdraws an auction. Sellers may only withdraw while no bid exists;
// administrators may cancel any open auction.
func Cancel(a model.Auction, bidCount int64, byAdmin bool) (model.Auction, error) {
	switch a.Status {
	case model.AuctionStatusCancelled:
		return a, nil
	case model.AuctionStatusEnded:
		return a, apperrors.ErrInvalidTransition
	}
	if !byAdmin && bidCount > 0 {
		return a, apperrors.ErrAuctionHasBids
	}

	a.Status = model.AuctionStatusCancelled
	a.WinnerID = nil
	a.FinalPrice = nil
	return a, nil
}

// Changed reports whether Advance/Close/Cancel produced a different state.
func Changed(before, after model.Auction) bool {
	return before.Status != after.Status
}

func settle(a model.Auction, bids []model.Bid) model.Auction {
	a.Status = model.AuctionStatusEnded
	a.WinnerID = nil
	a.FinalPrice = nil

	winning, ok := WinningBid(bids)
	if !ok {
		return a
	}
	// Below reserve: the auction ends without a sale.
	if a.ReservePrice != nil && winning.Amount.LessThan(*a.ReservePrice) {
		return a
	}

	winnerID := winning.BidderID
	price := winning.Amount
	a.WinnerID = &winnerID
	a.FinalPrice = &price
	return a
}
