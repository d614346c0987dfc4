package web

import "net/http"

// interpret runs free-form job notes through the AI intake agent and returns
// either a structured quote draft or a clarification question.
func (h *Handler) interpret(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text        string `json:"text"`
		CompanyCode string `json:"company_code,omitempty"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.Text == "" {
		writeError(w, r, "text is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if body.CompanyCode == "" {
		code, err := h.companyCode(r)
		if err != nil {
			writeError(w, r, err.Error(), "COMPANY_NOT_FOUND", http.StatusNotFound)
			return
		}
		body.CompanyCode = code
	}

	result, err := h.svc.InterpretJobNotes(r.Context(), body.Text, body.CompanyCode)
	if err != nil {
		writeError(w, r, err.Error(), "AI_ERROR", http.StatusBadGateway)
		return
	}
	writeJSON(w, result)
}
