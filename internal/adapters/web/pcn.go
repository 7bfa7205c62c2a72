package web

import (
	"encoding/json"
	"net/http"

	"pcb-stockroom/internal/app"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) lookupPCN(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.LookupPCN(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		writeCoreError(w, r, err)
		return
	}
	writeJSON(w, res.Record)
}

func (h *Handler) generatePCN(w http.ResponseWriter, r *http.Request) {
	var req app.GeneratePCNRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	res, err := h.svc.GeneratePCN(r.Context(), req)
	if err != nil {
		writeCoreError(w, r, err)
		return
	}
	writeJSON(w, res.Record)
}

func (h *Handler) decodeBarcode(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Raw string `json:"raw"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	// Decode is total: any input yields a (possibly partial) payload.
	writeJSON(w, h.svc.DecodeLabel(body.Raw).Payload)
}

func (h *Handler) transactionLog(w http.ResponseWriter, r *http.Request) {
	q := app.LogQuery{
		PCN:  r.URL.Query().Get("pcn"),
		Job:  r.URL.Query().Get("job"),
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}

	res, err := h.svc.GetTransactionLog(r.Context(), q)
	if err != nil {
		writeCoreError(w, r, err)
		return
	}
	writeJSON(w, res.Entries)
}
