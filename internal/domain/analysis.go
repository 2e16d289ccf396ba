package domain

import (
	"time"

	"github.com/google/uuid"
)

// DocumentAnalysis is the previously computed per-document record consumed
// by step handlers. Produced and owned outside this engine.
type DocumentAnalysis struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OrgID      uuid.UUID `gorm:"type:uuid;index;not null" json:"-"`
	DocumentID uuid.UUID `gorm:"type:uuid;index;not null" json:"document_id"`

	FileName     string `gorm:"type:varchar(512)" json:"file_name"`
	DetectedType string `gorm:"type:varchar(100)" json:"detected_type"`
	Summary      string `gorm:"type:text" json:"summary"`
	KeyFindings  string `gorm:"type:text" json:"key_findings"`
	RiskLevel    string `gorm:"type:varchar(20)" json:"risk_level"`
	FullText     string `gorm:"type:text" json:"-"`

	CreatedAt time.Time `json:"-"`
}

type ActionItem struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	OrgID       uuid.UUID  `gorm:"type:uuid;index;not null" json:"-"`
	AnalysisID  uuid.UUID  `gorm:"type:uuid;index;not null" json:"analysis_id"`
	Description string     `gorm:"type:text" json:"description"`
	Priority    string     `gorm:"type:varchar(20)" json:"priority"`
	Status      string     `gorm:"type:varchar(20)" json:"status"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Category    string     `gorm:"type:varchar(100)" json:"category"`
}

type TimelineEvent struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OrgID       uuid.UUID `gorm:"type:uuid;index;not null" json:"-"`
	AnalysisID  uuid.UUID `gorm:"type:uuid;index;not null" json:"analysis_id"`
	Title       string    `gorm:"type:varchar(255)" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	EventType   string    `gorm:"type:varchar(100)" json:"event_type"`
	EventDate   time.Time `json:"event_date"`
}
