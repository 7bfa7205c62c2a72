package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"pcb-stockroom/internal/app"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) stock(w http.ResponseWriter, r *http.Request) {
	var req app.StockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	res, err := h.svc.Stock(r.Context(), req)
	if err != nil {
		writeCoreError(w, r, err)
		return
	}
	writeJSON(w, res.Result)
}

func (h *Handler) pick(w http.ResponseWriter, r *http.Request) {
	var req app.PickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	res, err := h.svc.Pick(r.Context(), req)
	if err != nil {
		writeCoreError(w, r, err)
		return
	}
	writeJSON(w, res.Result)
}

func (h *Handler) listInventory(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ListInventory(r.Context())
	if err != nil {
		writeCoreError(w, r, err)
		return
	}
	writeJSON(w, res.Records)
}

func (h *Handler) getInventoryRecord(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "record id must be numeric", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	res, err := h.svc.GetInventoryRecord(r.Context(), id)
	if err != nil {
		writeCoreError(w, r, err)
		return
	}
	writeJSON(w, res.Record)
}

func (h *Handler) updateInventoryRecord(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "record id must be numeric", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	var req app.UpdateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	req.ID = id

	res, err := h.svc.UpdateRecord(r.Context(), req)
	if err != nil {
		writeCoreError(w, r, err)
		return
	}
	writeJSON(w, res.Record)
}
