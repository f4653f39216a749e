package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/streamlot/streamlot/auctionhouse/database/models"
)

// Directory is the bun-backed implementation used when products and
// streams live in the same database as the engine.
type Directory struct {
	db *bun.DB
}

func NewDirectory(db *bun.DB) *Directory {
	return &Directory{db: db}
}

func (d *Directory) Product(ctx context.Context, id int64) (ProductInfo, error) {
	product := new(models.Product)
	err := d.db.NewSelect().
		Model(product).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ProductInfo{}, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return ProductInfo{}, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return ProductInfo{ID: product.ID, OwnerID: product.OwnerID, IsActive: product.IsActive}, nil
}

func (d *Directory) Stream(ctx context.Context, id int64) (StreamInfo, error) {
	stream := new(models.Stream)
	err := d.db.NewSelect().
		Model(stream).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return StreamInfo{}, fmt.Errorf("stream %d: %w", id, ErrNotFound)
		}
		return StreamInfo{}, fmt.Errorf("failed to get stream %d: %w", id, err)
	}
	return StreamInfo{ID: stream.ID, OwnerID: stream.OwnerID, Status: stream.Status}, nil
}
