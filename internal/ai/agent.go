package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"quote-engine/internal/core"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
)

// CatalogEntry is one template or material the agent may reference by code.
type CatalogEntry struct {
	Code     string
	Name     string
	Category string
}

// CatalogContext is the company catalog handed to the agent so drafted codes
// always resolve against real records.
type CatalogContext struct {
	Templates []CatalogEntry
	Materials []CatalogEntry
}

type AgentService interface {
	InterpretJobNotes(ctx context.Context, notes string, catalog CatalogContext) (*core.IntakeResponse, error)
}

type Agent struct {
	client *openai.Client
}

func NewAgent(apiKey string) *Agent {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Agent{client: &client}
}

// InterpretJobNotes turns free-form measure-visit notes into a structured
// quote draft, or a clarification request when the notes are too thin.
func (a *Agent) InterpretJobNotes(ctx context.Context, notes string, catalog CatalogContext) (*core.IntakeResponse, error) {
	prompt := fmt.Sprintf(`You are an expert window-furnishing estimator.
Your goal is to read a salesperson's free-form job notes and extract one structured quote line per window or wall described.
You MUST use the provided catalog.
Rules:
1. template_code and material_code must be EXACT codes from the catalog below, or empty if the notes don't determine one.
2. Convert every dimension to centimeters (e.g. "2.4m wide" -> 240).
3. Never invent dimensions: leave them 0 if the notes don't state them.
4. Never propose prices; pricing happens after the draft is confirmed.
5. Provide a confidence score (0.0-1.0).
6. If the notes are too ambiguous to draft from at all, return a clarification request instead.

Templates:
%s

Materials:
%s

Job notes: %s`, formatCatalog(catalog.Templates), formatCatalog(catalog.Materials), notes)

	// Dynamically generate the JSON schema from the Go struct
	schemaStruct := generateSchema()
	schemaJSON, err := json.Marshal(schemaStruct)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(shared.ChatModelGPT4o),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(prompt),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "quote_intake_draft",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("A structured quote draft extracted from free-form job notes"),
				},
			},
		},
	}

	resp, err := a.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai responses error: %w", err)
	}

	content := resp.OutputText()
	if content == "" {
		return nil, fmt.Errorf("empty response content")
	}

	var intake core.IntakeResponse
	if err := json.Unmarshal([]byte(content), &intake); err != nil {
		return nil, fmt.Errorf("failed to parse completion: %w", err)
	}

	if err := validateIntake(&intake, catalog); err != nil {
		return nil, fmt.Errorf("draft validation failed: %w", err)
	}

	return &intake, nil
}

// validateIntake enforces the branching contract and that drafted codes exist
// in the catalog. Unknown codes are blanked rather than rejected: a draft
// with an empty code is still usable, the form just asks the user to pick.
func validateIntake(intake *core.IntakeResponse, catalog CatalogContext) error {
	if intake.IsClarificationRequest {
		if intake.Clarification == nil || intake.Clarification.Message == "" {
			return fmt.Errorf("clarification requested without a message")
		}
		return nil
	}
	if intake.Draft == nil {
		return fmt.Errorf("neither draft nor clarification returned")
	}
	if len(intake.Draft.Items) == 0 {
		return fmt.Errorf("draft contains no items")
	}

	templates := codeSet(catalog.Templates)
	materials := codeSet(catalog.Materials)
	for i := range intake.Draft.Items {
		item := &intake.Draft.Items[i]
		if item.TemplateCode != "" && !templates[item.TemplateCode] {
			item.TemplateCode = ""
		}
		if item.MaterialCode != "" && !materials[item.MaterialCode] {
			item.MaterialCode = ""
		}
	}
	return nil
}

func codeSet(entries []CatalogEntry) map[string]bool {
	set := make(map[string]bool, len(entries))
	for _, e := range entries {
		set[e.Code] = true
	}
	return set
}

func formatCatalog(entries []CatalogEntry) string {
	if len(entries) == 0 {
		return "(none)"
	}
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "- %s: %s (%s)\n", e.Code, e.Name, e.Category)
	}
	return b.String()
}

func generateSchema() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v core.IntakeResponse
	return reflector.Reflect(v)
}
