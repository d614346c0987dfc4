package web

import (
	"encoding/json"
	"net/http"

	"quote-engine/internal/app"

	"github.com/invopop/jsonschema"
)

func (h *Handler) calculate(w http.ResponseWriter, r *http.Request) {
	var req app.PriceTreatmentRequest
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

	result, err := h.svc.PriceTreatment(r.Context(), req)
	if err != nil {
		writePricingError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// pricingSchema serves the JSON schema of the pricing request, so the
// quote-form frontend can build and validate its inputs against the same
// shape the API accepts.
func (h *Handler) pricingSchema(w http.ResponseWriter, r *http.Request) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schema := reflector.Reflect(app.PriceTreatmentRequest{})

	out, err := json.Marshal(schema)
	if err != nil {
		writeError(w, r, "failed to build schema", "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(out)
}

func (h *Handler) accessories(w http.ResponseWriter, r *http.Request) {
	var req app.AccessoriesRequest
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

	result, err := h.svc.ResolveAccessories(r.Context(), req)
	if err != nil {
		writePricingError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) labor(w http.ResponseWriter, r *http.Request) {
	var req app.LaborRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.EstimateLabor(r.Context(), req)
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeJSON(w, result)
}
