package web

import (
	"net/http"

	"pcb-stockroom/internal/app"

	"github.com/go-chi/chi/v5"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc    app.ApplicationService
	router chi.Router
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins string) http.Handler {
	h := &Handler{svc: svc}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))
	r.Use(RequestBodyLimit(1 << 20))

	r.Get("/api/health", h.health)

	// Ledger operations
	r.Post("/api/stock", h.stock)
	r.Post("/api/pick", h.pick)
	r.Get("/api/inventory", h.listInventory)
	r.Get("/api/inventory/{id}", h.getInventoryRecord)
	r.Put("/api/inventory/{id}", h.updateInventoryRecord)

	// PCN registry
	r.Get("/api/pcn/{number}", h.lookupPCN)
	r.Post("/api/pcn/generate", h.generatePCN)

	// Barcode codec
	r.Post("/api/barcode/decode", h.decodeBarcode)

	// Audit trail (read-only by construction; no mutating routes exist)
	r.Get("/api/log", h.transactionLog)

	h.router = r
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}
