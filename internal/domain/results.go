package domain

// StepResult is the closed set of typed step outputs. Exactly one variant is
// marshalled into a StepExecution's OutputData when it leaves RUNNING.
type StepResult interface {
	stepResult()
}

// DisplayResult carries the previously computed analyses for the bound
// documents, plus optional related items. Read-only; nothing is generated.
type DisplayResult struct {
	Documents   []DocumentAnalysis `json:"documents"`
	ActionItems []ActionItem       `json:"action_items,omitempty"`
	Timeline    []TimelineEvent    `json:"timeline,omitempty"`
}

// SynthesisResult references the draft artifact persisted by the handler.
type SynthesisResult struct {
	ArtifactID string `json:"artifact_id"`
	Content    string `json:"content"`
}

// GenerationResult holds deep-thinking output for a later step to persist.
type GenerationResult struct {
	Content string `json:"content"`
}

// IntegrationResult references the artifact the chosen sub-type persisted.
type IntegrationResult struct {
	Kind       string `json:"kind"` // "draft" or "research"
	ArtifactID string `json:"artifact_id"`
	Content    string `json:"content"`
}

// ActionResult is the waiting marker written when an ACTION step parks the
// execution in WAITING_USER.
type ActionResult struct {
	ActionType        string `json:"action_type"`
	Message           string `json:"message"`
	NotificationsSent int    `json:"notifications_sent,omitempty"`
}

func (DisplayResult) stepResult()     {}
func (SynthesisResult) stepResult()   {}
func (GenerationResult) stepResult()  {}
func (IntegrationResult) stepResult() {}
func (ActionResult) stepResult()      {}
