package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"

	"autobid/internal/model"
)

// CatalogRepository serves read-only browse queries with hand-written SQL.
type CatalogRepository interface {
	ListAuctions(ctx context.Context, status model.AuctionStatus, limit, offset int) ([]model.AuctionSummary, error)
}

type catalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository wraps the connection pool already owned by gormDB.
func NewCatalogRepository(gormDB *gorm.DB) (CatalogRepository, error) {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("catalog: underlying db: %w", err)
	}
	driver := gormDB.Dialector.Name()
	if driver == "sqlite" {
		driver = "sqlite3"
	}
	return &catalogRepository{db: sqlx.NewDb(sqlDB, driver)}, nil
}

const listAuctionsQuery = `
	SELECT
		a.id, a.vehicle_id, a.status, a.start_price, a.min_bid_increment, a.end_date,
		v.make, v.model, v.year, v.mileage,
		COALESCE((
			SELECT i.url FROM vehicle_images i
			WHERE i.vehicle_id = v.id
			ORDER BY i.is_primary DESC, i.created_at ASC
			LIMIT 1
		), '') AS primary_image,
		(SELECT MAX(b.amount) FROM bids b WHERE b.auction_id = a.id) AS highest_bid,
		(SELECT COUNT(*) FROM bids b WHERE b.auction_id = a.id) AS bid_count
	FROM auctions a
	JOIN vehicles v ON v.id = a.vehicle_id
	WHERE a.status = ?
	ORDER BY a.end_date ASC
	LIMIT ? OFFSET ?`

func (r *catalogRepository) ListAuctions(ctx context.Context, status model.AuctionStatus, limit, offset int) ([]model.AuctionSummary, error) {
	list := []model.AuctionSummary{}
	err := r.db.SelectContext(ctx, &list, r.db.Rebind(listAuctionsQuery), string(status), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list auctions: %w", err)
	}
	return list, nil
}
