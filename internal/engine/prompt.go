package engine

import (
	"fmt"
	"strings"

	"caseflow/internal/domain"
)

var synthesisInstructions = map[string]string{
	"risk_matrix":       "Build a risk matrix across the documents below. Group findings by severity and flag anything that needs immediate attention.",
	"executive_summary": "Write an executive summary of the documents below for a reader who has not seen them.",
	"comparison":        "Compare the documents below, highlighting conflicting terms and overlapping obligations.",
}

var generationInstructions = map[string]string{
	"due_diligence_report": "Draft a due diligence report covering the documents below: scope reviewed, material findings, open risks, and recommended next steps.",
	"contract_review_memo": "Draft a contract review memorandum for the documents below, clause-level where the findings support it.",
	"demand_letter":        "Draft a demand letter grounded in the facts established by the documents below.",
}

func synthesisPrompt(variant string, analyses []domain.DocumentAnalysis) string {
	instruction, ok := synthesisInstructions[variant]
	if !ok {
		instruction = "Synthesize the document analyses below into a concise briefing."
	}
	return instruction + "\n\n" + analysisContext(analyses)
}

func generationPrompt(variant string, analyses []domain.DocumentAnalysis) string {
	instruction, ok := generationInstructions[variant]
	if !ok {
		instruction = "Produce a detailed report based on the document analyses below."
	}
	return instruction + "\n\n" + analysisContext(analyses)
}

func researchPrompt(topic string, analyses []domain.DocumentAnalysis) string {
	var b strings.Builder
	b.WriteString("Run legal research")
	if topic != "" {
		fmt.Fprintf(&b, " on %q", topic)
	}
	b.WriteString(". Identify the legal questions raised, the controlling authorities, and how they apply.\n\n")
	b.WriteString(analysisContext(analyses))
	return b.String()
}

// analysisContext renders the per-document section shared by every prompt.
// An empty analysis set renders an explicit no-context note so research can
// still run against the instruction alone.
func analysisContext(analyses []domain.DocumentAnalysis) string {
	if len(analyses) == 0 {
		return "No document analyses are available. Work from the instruction alone."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Analyzed documents (%d):\n", len(analyses))
	for i, a := range analyses {
		fmt.Fprintf(&b, "\n%d. %s (%s)\n", i+1, a.FileName, a.DetectedType)
		fmt.Fprintf(&b, "Risk level: %s\n", a.RiskLevel)
		fmt.Fprintf(&b, "Summary: %s\n", a.Summary)
		if a.KeyFindings != "" {
			fmt.Fprintf(&b, "Key findings: %s\n", a.KeyFindings)
		}
	}
	return b.String()
}
