package core

// Company is one tenant. Every catalog and quote row is scoped to a company;
// services resolve the company_code to its id before touching anything else.
type Company struct {
	ID          int    `json:"id"`
	CompanyCode string `json:"company_code"`
	Name        string `json:"name"`
	Currency    string `json:"currency"`
}

// QuoteDraftItem is one window the AI extracted from free-form job notes.
// Dimensions are centimeters; anything the notes did not state stays zero or
// empty and the form pre-fills defaults instead.
type QuoteDraftItem struct {
	Room               string  `json:"room" jsonschema_description:"The room or location this window belongs to (e.g. 'master bedroom'). Empty if not mentioned."`
	TemplateCode       string  `json:"template_code" jsonschema_description:"The exact code of the product template from the provided catalog that best matches the described treatment."`
	MaterialCode       string  `json:"material_code" jsonschema_description:"The exact code of the fabric/material from the provided catalog, if the notes name one. Empty otherwise."`
	RailWidthCm        float64 `json:"rail_width_cm" jsonschema_description:"Rail or track width in centimeters. Convert from other units if needed. 0 if not stated."`
	DropCm             float64 `json:"drop_cm" jsonschema_description:"Finished drop in centimeters. 0 if not stated."`
	PanelConfiguration string  `json:"panel_configuration" jsonschema_description:"'single' or 'pair' when the notes say so, empty to use the template default."`
	LiningType         string  `json:"lining_type" jsonschema_description:"Requested lining type (e.g. 'blockout', 'thermal'). Empty if none mentioned."`
	Notes              string  `json:"notes" jsonschema_description:"Any remaining detail about this window worth keeping on the quote line."`
}

// QuoteDraft is the AI-generated starting point for a quote: customer details
// plus one item per window found in the notes. Prices are never drafted by the
// AI; the pricing engine computes them after the user confirms the draft.
type QuoteDraft struct {
	CustomerName string           `json:"customer_name" jsonschema_description:"The customer's name if the notes mention one, empty otherwise."`
	Summary      string           `json:"summary" jsonschema_description:"One-sentence summary of the job."`
	Confidence   float64          `json:"confidence" jsonschema_description:"Confidence score between 0.0 and 1.0 that the extraction is faithful to the notes."`
	Items        []QuoteDraftItem `json:"items" jsonschema_description:"One entry per window or wall described in the notes."`
}

// ClarificationRequest is returned by the AI when the job notes are too
// ambiguous to draft from.
type ClarificationRequest struct {
	Message string `json:"message" jsonschema_description:"A message asking the user for the missing details (e.g. 'Which room is the 240cm window in, and is it curtains or a roller blind?')."`
}

// IntakeResponse wraps the AI output to handle branching between a usable
// draft and a clarification request. The AI must return exactly one of them.
type IntakeResponse struct {
	IsClarificationRequest bool                  `json:"is_clarification_request" jsonschema_description:"Set to true ONLY if the notes lack enough information to draft even a partial quote."`
	Clarification          *ClarificationRequest `json:"clarification,omitempty" jsonschema_description:"Required if is_clarification_request is true."`
	Draft                  *QuoteDraft           `json:"draft,omitempty" jsonschema_description:"Required if is_clarification_request is false."`
}
