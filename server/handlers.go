package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/streamlot/streamlot/auctionhouse/auction"
	"github.com/streamlot/streamlot/auctionhouse/database/models"
	"github.com/streamlot/streamlot/auctionhouse/database/repositories"
)

type createAuctionRequest struct {
	ProductID       int64   `json:"product_id"`
	StreamID        *int64  `json:"stream_id"`
	StartingPrice   string  `json:"starting_price"`
	ReservePrice    *string `json:"reserve_price"`
	DurationSeconds int     `json:"duration_seconds"`
}

type placeBidRequest struct {
	Amount string `json:"amount"`
}

type auctionDetail struct {
	Auction *models.Auction `json:"auction"`
	Bids    []*models.Bid   `json:"bids"`
}

func (s *Server) handleCreateAuction(c *fiber.Ctx) error {
	var req createAuctionRequest
	if err := c.BodyParser(&req); err != nil {
		return SendError(c, http.StatusBadRequest, "INVALID_INPUT", "malformed request body")
	}

	startingPrice, err := decimal.NewFromString(req.StartingPrice)
	if err != nil {
		return SendError(c, http.StatusBadRequest, "INVALID_INPUT", "starting_price must be a decimal string")
	}

	var reserve decimal.NullDecimal
	if req.ReservePrice != nil {
		d, err := decimal.NewFromString(*req.ReservePrice)
		if err != nil {
			return SendError(c, http.StatusBadRequest, "INVALID_INPUT", "reserve_price must be a decimal string")
		}
		reserve = decimal.NullDecimal{Decimal: d, Valid: true}
	}

	a, err := s.manager.Create(c.Context(), auction.CreateParams{
		ProductID:     req.ProductID,
		SellerID:      requestUserID(c),
		StreamID:      req.StreamID,
		StartingPrice: startingPrice,
		ReservePrice:  reserve,
		Duration:      time.Duration(req.DurationSeconds) * time.Second,
	})
	if err != nil {
		return SendEngineError(c, err)
	}
	return SendCreated(c, a)
}

func (s *Server) handleActivateAuction(c *fiber.Ctx) error {
	auctionID, err := pathID(c)
	if err != nil {
		return SendError(c, http.StatusBadRequest, "INVALID_INPUT", "invalid auction id")
	}

	a, err := s.manager.Activate(c.Context(), auctionID, requestUserID(c))
	if err != nil {
		return SendEngineError(c, err)
	}
	return SendSuccess(c, a)
}

func (s *Server) handlePlaceBid(c *fiber.Ctx) error {
	auctionID, err := pathID(c)
	if err != nil {
		return SendError(c, http.StatusBadRequest, "INVALID_INPUT", "invalid auction id")
	}

	var req placeBidRequest
	if err := c.BodyParser(&req); err != nil {
		return SendError(c, http.StatusBadRequest, "INVALID_INPUT", "malformed request body")
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return SendError(c, http.StatusBadRequest, "INVALID_INPUT", "amount must be a decimal string")
	}

	bid, err := s.manager.PlaceBid(c.Context(), auctionID, requestUserID(c), amount)
	if err != nil {
		return SendEngineError(c, err)
	}
	return SendCreated(c, bid)
}

func (s *Server) handleCancelAuction(c *fiber.Ctx) error {
	auctionID, err := pathID(c)
	if err != nil {
		return SendError(c, http.StatusBadRequest, "INVALID_INPUT", "invalid auction id")
	}

	a, err := s.manager.Cancel(c.Context(), auctionID, requestUserID(c))
	if err != nil {
		return SendEngineError(c, err)
	}
	return SendSuccess(c, a)
}

// handleGetAuction serves the auction with its bid history. Terminal
// auctions never change, so their responses are cached.
func (s *Server) handleGetAuction(c *fiber.Ctx) error {
	auctionID, err := pathID(c)
	if err != nil {
		return SendError(c, http.StatusBadRequest, "INVALID_INPUT", "invalid auction id")
	}

	if cached, ok := s.cache.Get(auctionID); ok {
		return SendSuccess(c, cached)
	}

	a, err := s.manager.Get(c.Context(), auctionID)
	if err != nil {
		return SendEngineError(c, err)
	}
	bids, err := s.repo.AuctionBids(c.Context(), auctionID)
	if err != nil {
		return SendEngineError(c, err)
	}

	detail := &auctionDetail{Auction: a, Bids: bids}
	if a.Status.Terminal() {
		s.cache.Add(auctionID, detail)
	}
	return SendSuccess(c, detail)
}

func (s *Server) handleListAuctions(c *fiber.Ctx) error {
	filter := repositories.AuctionFilter{
		Status: models.AuctionStatus(c.Query("status")),
		Limit:  c.QueryInt("limit"),
		Offset: c.QueryInt("offset"),
	}
	if raw := c.Query("product_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return SendError(c, http.StatusBadRequest, "INVALID_INPUT", "invalid product_id")
		}
		filter.ProductID = id
	}
	if raw := c.Query("stream_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return SendError(c, http.StatusBadRequest, "INVALID_INPUT", "invalid stream_id")
		}
		filter.StreamID = id
	}

	auctions, err := s.repo.ListAuctions(c.Context(), filter)
	if err != nil {
		slog.Error("Failed to list auctions", slog.String("error", err.Error()))
		return SendEngineError(c, err)
	}
	return SendSuccess(c, auctions)
}

func (s *Server) handleAuctionBids(c *fiber.Ctx) error {
	auctionID, err := pathID(c)
	if err != nil {
		return SendError(c, http.StatusBadRequest, "INVALID_INPUT", "invalid auction id")
	}

	// 404 for unknown auctions rather than an empty list.
	if _, err := s.manager.Get(c.Context(), auctionID); err != nil {
		return SendEngineError(c, err)
	}

	bids, err := s.repo.AuctionBids(c.Context(), auctionID)
	if err != nil {
		return SendEngineError(c, err)
	}
	return SendSuccess(c, bids)
}

func (s *Server) handleMyBids(c *fiber.Ctx) error {
	bids, err := s.repo.BidderBids(c.Context(), requestUserID(c))
	if err != nil {
		return SendEngineError(c, err)
	}
	return SendSuccess(c, bids)
}

func pathID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}
