package web

import (
	"net/http"
	"strings"

	"quote-engine/internal/app"
	"quote-engine/internal/core"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) createQuote(w http.ResponseWriter, r *http.Request) {
	var req app.CreateQuoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.CompanyCode == "" {
		code, err := h.companyCode(r)
		if err != nil {
			writeError(w, r, err.Error(), "COMPANY_NOT_FOUND", http.StatusNotFound)
			return
		}
		req.CompanyCode = code
	}
	if len(req.Lines) == 0 {
		writeError(w, r, "a quote needs at least one line", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	result, err := h.svc.CreateQuote(r.Context(), req)
	if err != nil {
		writePricingError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, result)
}

func (h *Handler) listQuotes(w http.ResponseWriter, r *http.Request) {
	companyCode, err := h.companyCode(r)
	if err != nil {
		writeError(w, r, err.Error(), "COMPANY_NOT_FOUND", http.StatusNotFound)
		return
	}
	result, err := h.svc.ListQuotes(r.Context(), companyCode)
	if err != nil {
		writeError(w, r, err.Error(), "QUOTE_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) getQuote(w http.ResponseWriter, r *http.Request) {
	companyCode, err := h.companyCode(r)
	if err != nil {
		writeError(w, r, err.Error(), "COMPANY_NOT_FOUND", http.StatusNotFound)
		return
	}
	number := chi.URLParam(r, "number")

	result, err := h.svc.GetQuote(r.Context(), companyCode, number)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			writeError(w, r, err.Error(), "QUOTE_NOT_FOUND", http.StatusNotFound)
			return
		}
		writeError(w, r, err.Error(), "QUOTE_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) updateQuoteStatus(w http.ResponseWriter, r *http.Request) {
	companyCode, err := h.companyCode(r)
	if err != nil {
		writeError(w, r, err.Error(), "COMPANY_NOT_FOUND", http.StatusNotFound)
		return
	}
	number := chi.URLParam(r, "number")

	var body struct {
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	status := core.QuoteStatus(strings.ToUpper(body.Status))
	if err := h.svc.UpdateQuoteStatus(r.Context(), companyCode, number, status); err != nil {
		if strings.Contains(err.Error(), "not found") {
			writeError(w, r, err.Error(), "QUOTE_NOT_FOUND", http.StatusNotFound)
			return
		}
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]string{"quote_number": number, "status": string(status)})
}
