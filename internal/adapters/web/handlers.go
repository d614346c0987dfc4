package web

import (
	"net/http"

	"quote-engine/internal/app"

	"github.com/go-chi/chi/v5"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc app.ApplicationService
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins string) http.Handler {
	h := &Handler{svc: svc}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))
	r.Use(RequestBodyLimit(1 << 20)) // 1 MB

	r.Get("/api/health", h.health)
	r.Get("/api/company", h.company)

	r.Get("/api/catalog/templates", h.listTemplates)
	r.Get("/api/catalog/materials", h.listMaterials)

	r.Post("/api/pricing/calculate", h.calculate)
	r.Get("/api/pricing/schema", h.pricingSchema)
	r.Post("/api/pricing/accessories", h.accessories)
	r.Post("/api/pricing/labor", h.labor)

	r.Post("/api/quotes", h.createQuote)
	r.Get("/api/quotes", h.listQuotes)
	r.Get("/api/quotes/{number}", h.getQuote)
	r.Post("/api/quotes/{number}/status", h.updateQuoteStatus)

	r.Post("/api/assist/interpret", h.interpret)

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (h *Handler) company(w http.ResponseWriter, r *http.Request) {
	company, err := h.svc.LoadDefaultCompany(r.Context())
	if err != nil {
		writeError(w, r, err.Error(), "COMPANY_NOT_FOUND", http.StatusNotFound)
		return
	}
	writeJSON(w, company)
}

// companyCode resolves the tenant for a request: the ?company= query
// parameter when present, the default company otherwise.
func (h *Handler) companyCode(r *http.Request) (string, error) {
	if code := r.URL.Query().Get("company"); code != "" {
		return code, nil
	}
	company, err := h.svc.LoadDefaultCompany(r.Context())
	if err != nil {
		return "", err
	}
	return company.CompanyCode, nil
}

func (h *Handler) listTemplates(w http.ResponseWriter, r *http.Request) {
	companyCode, err := h.companyCode(r)
	if err != nil {
		writeError(w, r, err.Error(), "COMPANY_NOT_FOUND", http.StatusNotFound)
		return
	}
	result, err := h.svc.ListTemplates(r.Context(), companyCode)
	if err != nil {
		writeError(w, r, err.Error(), "CATALOG_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) listMaterials(w http.ResponseWriter, r *http.Request) {
	companyCode, err := h.companyCode(r)
	if err != nil {
		writeError(w, r, err.Error(), "COMPANY_NOT_FOUND", http.StatusNotFound)
		return
	}
	result, err := h.svc.ListMaterials(r.Context(), companyCode)
	if err != nil {
		writeError(w, r, err.Error(), "CATALOG_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, result)
}
