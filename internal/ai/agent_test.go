package ai

import (
	"testing"

	"quote-engine/internal/core"
)

func testCatalog() CatalogContext {
	return CatalogContext{
		Templates: []CatalogEntry{{Code: "CURT-PENCIL", Name: "Pencil pleat curtain", Category: "Curtains"}},
		Materials: []CatalogEntry{{Code: "FAB-LINEN", Name: "Natural linen", Category: "fabric"}},
	}
}

func TestValidateIntake(t *testing.T) {
	t.Run("BlanksUnknownCodes", func(t *testing.T) {
		intake := &core.IntakeResponse{
			Draft: &core.QuoteDraft{
				Items: []core.QuoteDraftItem{
					{TemplateCode: "CURT-PENCIL", MaterialCode: "FAB-INVENTED", RailWidthCm: 240},
				},
			},
		}
		if err := validateIntake(intake, testCatalog()); err != nil {
			t.Fatalf("validateIntake: %v", err)
		}
		if intake.Draft.Items[0].TemplateCode != "CURT-PENCIL" {
			t.Error("known template code must survive")
		}
		if intake.Draft.Items[0].MaterialCode != "" {
			t.Error("invented material code must be blanked, not rejected")
		}
	})

	t.Run("EmptyDraftRejected", func(t *testing.T) {
		intake := &core.IntakeResponse{Draft: &core.QuoteDraft{}}
		if err := validateIntake(intake, testCatalog()); err == nil {
			t.Error("expected error for a draft with no items")
		}
	})

	t.Run("ClarificationNeedsMessage", func(t *testing.T) {
		intake := &core.IntakeResponse{IsClarificationRequest: true}
		if err := validateIntake(intake, testCatalog()); err == nil {
			t.Error("expected error for clarification without a message")
		}

		intake.Clarification = &core.ClarificationRequest{Message: "Which room?"}
		if err := validateIntake(intake, testCatalog()); err != nil {
			t.Errorf("validateIntake: %v", err)
		}
	})

	t.Run("NeitherBranchRejected", func(t *testing.T) {
		if err := validateIntake(&core.IntakeResponse{}, testCatalog()); err == nil {
			t.Error("expected error when neither draft nor clarification present")
		}
	})
}
