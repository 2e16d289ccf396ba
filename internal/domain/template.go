package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// WorkflowTemplate is an ordered, immutable definition of step kinds and
// their configuration. The engine only ever reads it once, at start().
type WorkflowTemplate struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	OrgID       uuid.UUID `gorm:"type:uuid;index;not null"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`

	Steps []StepDefinition `gorm:"foreignKey:TemplateID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type StepDefinition struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key"`
	TemplateID uuid.UUID      `gorm:"type:uuid;index;not null"`
	Position   int            `gorm:"not null"` // 1-based ordering within the template
	Name       string         `gorm:"type:varchar(255);not null"`
	StepType   StepType       `gorm:"type:varchar(20);not null"`
	Config     datatypes.JSON `gorm:"type:jsonb"`
}
