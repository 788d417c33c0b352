package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/voltbid/voltbid/internal/catalog"
	"github.com/voltbid/voltbid/internal/chainservice"
	"github.com/voltbid/voltbid/internal/sse"
)

// Handler holds API route handlers.
type Handler struct {
	chains  *chainservice.Service
	catalog *catalog.Service
	broker  *sse.Broker
}

// NewHandler creates a new Handler. broker may be nil in tests.
func NewHandler(chains *chainservice.Service, cat *catalog.Service, broker *sse.Broker) *Handler {
	return &Handler{chains: chains, catalog: cat, broker: broker}
}

func (h *Handler) publish(kind, nodeID string) {
	if h.broker != nil {
		h.broker.PublishChainEvent(kind, nodeID)
	}
}

// CreateNode handles POST /chains/nodes.
func (h *Handler) CreateNode(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req CreateNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	node, err := h.chains.CreateNode(r.Context(), req.NodeID, req.NodeType, req.ParentNodes, req.Metadata)
	if err != nil {
		writeError(w, "create node", err)
		return
	}
	h.publish("registered", node.NodeID)
	writeJSON(w, http.StatusCreated, node)
}

// GetLineage handles GET /chains/nodes/{nodeID}/lineage.
func (h *Handler) GetLineage(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")
	lineage, err := h.chains.Lineage(r.Context(), nodeID)
	if err != nil {
		writeError(w, "get lineage", err)
		return
	}
	writeJSON(w, http.StatusOK, LineageResponse{NodeID: nodeID, HeritageLineage: lineage})
}

// AnalyzeNode handles GET /chains/nodes/{nodeID}/analysis.
func (h *Handler) AnalyzeNode(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")
	analysis, err := h.chains.Analyze(r.Context(), nodeID)
	if err != nil {
		writeError(w, "analyze node", err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

// CycleCheck handles GET /chains/nodes/{nodeID}/cycle-check.
func (h *Handler) CycleCheck(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")
	detected, err := h.chains.DetectCycle(r.Context(), nodeID)
	if err != nil {
		writeError(w, "cycle check", err)
		return
	}
	writeJSON(w, http.StatusOK, CycleCheckResponse{NodeID: nodeID, CycleDetected: detected})
}

// GetSnapshot handles GET /chains/snapshots/{nodeID}.
func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")
	includeMetrics := r.URL.Query().Get("include_metrics") != "false"

	snapshot, err := h.chains.Snapshot(r.Context(), nodeID, includeMetrics)
	if err != nil {
		writeError(w, "chain snapshot", err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// ContextualizeBid handles POST /chains/bids/{bidNumber}/contextualize.
func (h *Handler) ContextualizeBid(w http.ResponseWriter, r *http.Request) {
	bidNumber := chi.URLParam(r, "bidNumber")
	bid, err := h.catalog.Bid(r.Context(), bidNumber)
	if err != nil {
		writeError(w, "contextualize bid", err)
		return
	}
	node, err := h.chains.ContextualizeBid(r.Context(), bid)
	if err != nil {
		writeError(w, "contextualize bid", err)
		return
	}
	h.publish("registered", node.NodeID)
	writeJSON(w, http.StatusCreated, node)
}
