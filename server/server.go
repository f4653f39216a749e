// Package server exposes the auction engine over HTTP.
package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	lru "github.com/hashicorp/golang-lru"

	"github.com/streamlot/streamlot/auctionhouse/auction"
	"github.com/streamlot/streamlot/auctionhouse/database/repositories"
)

const terminalCacheSize = 1024

type Config struct {
	Addr       string
	RateLimit  int
	RateWindow time.Duration
}

type Server struct {
	app     *fiber.App
	manager *auction.Manager
	repo    *repositories.AuctionRepository
	cache   *lru.Cache
	cfg     Config
}

func New(cfg Config, manager *auction.Manager, repo *repositories.AuctionRepository) *Server {
	cache, _ := lru.New(terminalCacheSize)

	s := &Server{
		app: fiber.New(fiber.Config{
			AppName:      "streamlot",
			ServerHeader: "streamlot",
		}),
		manager: manager,
		repo:    repo,
		cache:   cache,
		cfg:     cfg,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Use(recover.New())
	s.app.Use(LoggingMiddleware())
	if s.cfg.RateLimit > 0 {
		s.app.Use(RateLimit(s.cfg.RateLimit, s.cfg.RateWindow))
	}

	api := s.app.Group("/api")

	auctions := api.Group("/auctions")
	auctions.Get("/", s.handleListAuctions)
	auctions.Get("/:id", s.handleGetAuction)
	auctions.Get("/:id/bids", s.handleAuctionBids)

	auctions.Post("/", RequireUser(), s.handleCreateAuction)
	auctions.Post("/:id/activate", RequireUser(), s.handleActivateAuction)
	auctions.Post("/:id/bids", RequireUser(), s.handlePlaceBid)
	auctions.Post("/:id/cancel", RequireUser(), s.handleCancelAuction)

	api.Get("/users/me/bids", RequireUser(), s.handleMyBids)
}

// Listen blocks serving HTTP until Shutdown.
func (s *Server) Listen() error {
	return s.app.Listen(s.cfg.Addr)
}

func (s *Server) Shutdown() error {
	return s.app.ShutdownWithTimeout(10 * time.Second)
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}
