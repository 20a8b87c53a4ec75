package auction

import (
	"github.com/shopspring/decimal"

	apperrors "autobid/internal/errors"
	"autobid/internal/model"
)

// MinimumBid returns the lowest amount the next bid may have: the highest
// existing bid plus the auction's increment, or the start price when no bid exists.
func MinimumBid(a *model.Auction, bids []model.Bid) decimal.Decimal {
	highest, ok := WinningBid(bids)
	if !ok {
		return a.StartPrice
	}
	return highest.Amount.Add(a.MinBidIncrement)
}

// ValidateBid checks a proposed amount against the auction state and its bids.
// It does not persist anything; callers must hold the per-auction lock while
// validating and inserting.
func ValidateBid(a *model.Auction, bids []model.Bid, amount decimal.Decimal) error {
	if a.Status != model.AuctionStatusActive {
		return apperrors.ErrAuctionNotActive
	}
	if err := ValidateAmount(amount); err != nil {
		return err
	}

	floor := MinimumBid(a, bids)
	if amount.LessThan(floor) {
		return &apperrors.BidTooLowError{Floor: floor}
	}
	return nil
}

// ValidateAmount checks that amount is positive and fits a cent-precision column.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperrors.ErrInvalidAmount
	}
	if !amount.Equal(amount.Truncate(2)) {
		return apperrors.ErrAmountPrecision
	}
	return nil
}

// WinningBid returns the highest bid. Equal amounts go to the earliest bid.
func WinningBid(bids []model.Bid) (*model.Bid, bool) {
	if len(bids) == 0 {
		return nil, false
	}

	winning := &bids[0]
	for i := 1; i < len(bids); i++ {
		b := &bids[i]
		if b.Amount.GreaterThan(winning.Amount) ||
			(b.Amount.Equal(winning.Amount) && b.CreatedAt.Before(winning.CreatedAt)) {
			winning = b
		}
	}
	return winning, true
}
