package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/voltbid/voltbid/internal/chainservice"
	"github.com/voltbid/voltbid/internal/models"
	"github.com/voltbid/voltbid/internal/store"
)

// Service coordinates cost codes, bid pricing, and bid persistence.
// Created bids are contextualized into the provenance chain through
// the chain service.
type Service struct {
	db      *store.DB
	chains  *chainservice.Service
	pricing PricingConfig
}

// NewService creates a catalog service.
func NewService(db *store.DB, chains *chainservice.Service, pricing PricingConfig) *Service {
	return &Service{db: db, chains: chains, pricing: pricing}
}

// CostCode returns a single catalog entry.
func (s *Service) CostCode(_ context.Context, code string) (*models.CostCode, error) {
	return s.db.GetCostCode(strings.ToUpper(code))
}

// ListCostCodes returns catalog entries with an optional category
// filter.
func (s *Service) ListCostCodes(_ context.Context, category string, activeOnly bool) ([]models.CostCode, error) {
	return s.db.ListCostCodes(category, activeOnly)
}

// CreateCostCode adds a custom catalog entry.
func (s *Service) CreateCostCode(_ context.Context, cc models.CostCode) (*models.CostCode, error) {
	cc.Code = strings.ToUpper(cc.Code)
	cc.IsActive = true
	cc.CreatedAt = time.Now().UTC()
	if err := s.db.UpsertCostCode(cc); err != nil {
		return nil, err
	}
	return s.db.GetCostCode(cc.Code)
}

// CreateBid prices a project spec, persists the resulting bid, and
// registers its provenance chain node.
func (s *Service) CreateBid(ctx context.Context, spec models.ProjectSpec) (*models.Bid, error) {
	calc, err := s.CalculateBid(spec)
	if err != nil {
		return nil, err
	}
	items, err := s.GenerateBOM(spec)
	if err != nil {
		return nil, err
	}

	bid := models.Bid{
		BidNumber:    newBidNumber(),
		ProjectName:  spec.ProjectName,
		ChargingType: spec.ChargingType,
		NumPorts:     spec.NumPorts,
		Status:       models.BidStatusDraft,
		LineItems:    items,
		Calculation:  *calc,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.db.InsertBid(bid); err != nil {
		return nil, err
	}

	if _, err := s.chains.ContextualizeBid(ctx, &bid); err != nil {
		return nil, fmt.Errorf("bid %s persisted but chain registration failed: %w", bid.BidNumber, err)
	}
	return &bid, nil
}

// Bid returns a persisted bid by number.
func (s *Service) Bid(_ context.Context, bidNumber string) (*models.Bid, error) {
	return s.db.GetBid(bidNumber)
}

// ListBids returns persisted bids, newest first.
func (s *Service) ListBids(_ context.Context, status string, limit, offset int) ([]models.Bid, int, error) {
	return s.db.ListBids(status, limit, offset)
}

// newBidNumber returns a BID-YYYYMMDDHHMMSS-XXXXXXXX identifier. The
// uuid suffix keeps numbers unique when bids are created within the
// same second.
func newBidNumber() string {
	return fmt.Sprintf("BID-%s-%s",
		time.Now().UTC().Format("20060102150405"),
		strings.ToUpper(uuid.NewString()[:8]))
}
