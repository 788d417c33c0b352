package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/voltbid/voltbid/internal/catalog"
	"github.com/voltbid/voltbid/internal/chainservice"
	"github.com/voltbid/voltbid/internal/sse"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// broker, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(chains *chainservice.Service, cat *catalog.Service, authEnabled bool, token string, broker *sse.Broker) chi.Router {
	h := NewHandler(chains, cat, broker)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Contextual chains.
	r.Post("/chains/nodes", h.CreateNode)
	r.Get("/chains/nodes/{nodeID}/lineage", h.GetLineage)
	r.Get("/chains/nodes/{nodeID}/analysis", h.AnalyzeNode)
	r.Get("/chains/nodes/{nodeID}/cycle-check", h.CycleCheck)
	r.Get("/chains/snapshots/{nodeID}", h.GetSnapshot)
	r.Post("/chains/bids/{bidNumber}/contextualize", h.ContextualizeBid)

	// Cost catalog.
	r.Get("/cost-codes", h.ListCostCodes)
	r.Post("/cost-codes", h.CreateCostCode)
	r.Get("/cost-codes/{code}", h.GetCostCode)

	// Bids, BOM, ROI.
	r.Get("/bids", h.ListBids)
	r.Post("/bids", h.CreateBid)
	r.Get("/bids/{bidNumber}", h.GetBid)
	r.Post("/bom", h.GenerateBOM)
	r.Post("/roi", h.CalculateROI)

	// Competitor benchmarks.
	r.Post("/benchmarks/compare", h.CompareBenchmarks)
	r.Get("/benchmarks/industry-averages", h.IndustryAverages)

	// SSE endpoint (protected by the same auth middleware).
	if broker != nil {
		r.Get("/events", broker.ServeHTTP)
	}

	return r
}
