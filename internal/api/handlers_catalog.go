package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/voltbid/voltbid/internal/models"
)

// ListCostCodes handles GET /cost-codes.
func (h *Handler) ListCostCodes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	activeOnly := q.Get("include_inactive") != "true"

	codes, err := h.catalog.ListCostCodes(r.Context(), q.Get("category"), activeOnly)
	if err != nil {
		writeError(w, "list cost codes", err)
		return
	}
	if codes == nil {
		codes = []models.CostCode{}
	}
	writeJSON(w, http.StatusOK, CostCodeListResponse{CostCodes: codes, Total: len(codes)})
}

// GetCostCode handles GET /cost-codes/{code}.
func (h *Handler) GetCostCode(w http.ResponseWriter, r *http.Request) {
	cc, err := h.catalog.CostCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, "get cost code", err)
		return
	}
	writeJSON(w, http.StatusOK, cc)
}

// CreateCostCode handles POST /cost-codes.
func (h *Handler) CreateCostCode(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req CreateCostCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	cc, err := h.catalog.CreateCostCode(r.Context(), models.CostCode{
		Code:         req.Code,
		Description:  req.Description,
		Category:     req.Category,
		Unit:         req.Unit,
		UnitCost:     req.UnitCost,
		MaterialCost: req.MaterialCost,
		LaborCost:    req.LaborCost,
	})
	if err != nil {
		writeError(w, "create cost code", err)
		return
	}
	writeJSON(w, http.StatusCreated, cc)
}

// GenerateBOM handles POST /bom.
func (h *Handler) GenerateBOM(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeProjectSpec(w, r)
	if !ok {
		return
	}
	items, err := h.catalog.GenerateBOM(req.Spec())
	if err != nil {
		writeError(w, "generate bom", err)
		return
	}
	var subtotal float64
	for _, item := range items {
		subtotal += item.Subtotal
	}
	writeJSON(w, http.StatusOK, BOMResponse{Items: items, Subtotal: subtotal})
}

// CalculateROI handles POST /roi.
func (h *Handler) CalculateROI(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeProjectSpec(w, r)
	if !ok {
		return
	}
	calc, err := h.catalog.CalculateBid(req.Spec())
	if err != nil {
		writeError(w, "calculate roi", err)
		return
	}
	roi := h.catalog.CalculateROI(calc, req.RevenuePerPort, req.OperatingCostPerPort)
	writeJSON(w, http.StatusOK, roi)
}

// CompareBenchmarks handles POST /benchmarks/compare.
func (h *Handler) CompareBenchmarks(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeProjectSpec(w, r)
	if !ok {
		return
	}
	cmp, err := h.catalog.CompareBenchmarks(req.Spec())
	if err != nil {
		writeError(w, "compare benchmarks", err)
		return
	}
	writeJSON(w, http.StatusOK, cmp)
}

// IndustryAverages handles GET /benchmarks/industry-averages.
func (h *Handler) IndustryAverages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.IndustryAverages())
}

// CreateBid handles POST /bids.
func (h *Handler) CreateBid(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeProjectSpec(w, r)
	if !ok {
		return
	}
	bid, err := h.catalog.CreateBid(r.Context(), req.Spec())
	if err != nil {
		writeError(w, "create bid", err)
		return
	}
	h.publish("bid", "bid-"+bid.BidNumber)
	writeJSON(w, http.StatusCreated, bid)
}

// GetBid handles GET /bids/{bidNumber}.
func (h *Handler) GetBid(w http.ResponseWriter, r *http.Request) {
	bid, err := h.catalog.Bid(r.Context(), chi.URLParam(r, "bidNumber"))
	if err != nil {
		writeError(w, "get bid", err)
		return
	}
	writeJSON(w, http.StatusOK, bid)
}

// ListBids handles GET /bids.
func (h *Handler) ListBids(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	bids, total, err := h.catalog.ListBids(r.Context(), q.Get("status"), limit, offset)
	if err != nil {
		writeError(w, "list bids", err)
		return
	}
	if bids == nil {
		bids = []models.Bid{}
	}
	writeJSON(w, http.StatusOK, BidListResponse{Bids: bids, Total: total})
}

func decodeProjectSpec(w http.ResponseWriter, r *http.Request) (ProjectSpecRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req ProjectSpecRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return req, false
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return req, false
	}
	return req, true
}
