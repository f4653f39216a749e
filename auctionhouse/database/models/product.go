package models

import (
	"time"

	"github.com/uptrace/bun"
)

type StreamStatus string

const (
	StreamStatusScheduled StreamStatus = "scheduled"
	StreamStatusLive      StreamStatus = "live"
	StreamStatusEnded     StreamStatus = "ended"
)

// Product carries only what the engine needs for eligibility checks:
// ownership and whether it can still be auctioned. The full product
// catalog (title, images, categories) is owned by another service.
type Product struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	ID       int64  `bun:"id,pk,autoincrement" json:"id"`
	OwnerID  int64  `bun:"owner_id,notnull" json:"owner_id"`
	Title    string `bun:"title,notnull" json:"title"`
	IsActive bool   `bun:"is_active,notnull,default:true" json:"is_active"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

type Stream struct {
	bun.BaseModel `bun:"table:streams,alias:s"`

	ID      int64        `bun:"id,pk,autoincrement" json:"id"`
	OwnerID int64        `bun:"owner_id,notnull" json:"owner_id"`
	Title   string       `bun:"title" json:"title"`
	Status  StreamStatus `bun:"status,notnull" json:"status"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}
