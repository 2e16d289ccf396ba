package engine

import (
	"testing"

	"caseflow/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestPromptVariantsSelectInstructions(t *testing.T) {
	analyses := []domain.DocumentAnalysis{
		{FileName: "nda.pdf", DetectedType: "nda", Summary: "mutual nda", KeyFindings: "broad definition", RiskLevel: "low"},
		{FileName: "sow.pdf", DetectedType: "sow", Summary: "fixed fee sow", RiskLevel: "medium"},
	}

	p := synthesisPrompt("risk_matrix", analyses)
	assert.Contains(t, p, "risk matrix")
	assert.Contains(t, p, "Analyzed documents (2)")
	assert.Contains(t, p, "nda.pdf")
	assert.Contains(t, p, "broad definition")

	p = generationPrompt("due_diligence_report", analyses)
	assert.Contains(t, p, "due diligence report")

	// Unknown variants fall back to the generic instruction.
	p = synthesisPrompt("nonsense", analyses)
	assert.Contains(t, p, "concise briefing")
}

func TestResearchPromptWithoutDocuments(t *testing.T) {
	p := researchPrompt("adverse possession", nil)
	assert.Contains(t, p, `"adverse possession"`)
	assert.Contains(t, p, "No document analyses are available")

	p = researchPrompt("", nil)
	assert.Contains(t, p, "Run legal research.")
}
