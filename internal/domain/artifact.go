package domain

import (
	"time"

	"github.com/google/uuid"
)

// DraftSession is the durable, user-visible artifact a SYNTHESIS step (or an
// INTEGRATION step in draft mode) leaves behind. It is consumed outside this
// engine and is deliberately not rolled back when a later step fails.
type DraftSession struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key"`
	OrgID       uuid.UUID  `gorm:"type:uuid;index;not null"`
	OwnerID     uuid.UUID  `gorm:"type:uuid;index;not null"`
	CaseID      *uuid.UUID `gorm:"type:uuid;index"`
	ExecutionID uuid.UUID  `gorm:"type:uuid;index;not null"`
	Name        string     `gorm:"type:varchar(255);not null"`
	Content     string     `gorm:"type:text"`
	CreatedAt   time.Time
}

// ResearchSession is the artifact of INTEGRATION's research sub-type.
type ResearchSession struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key"`
	OrgID         uuid.UUID  `gorm:"type:uuid;index;not null"`
	OwnerID       uuid.UUID  `gorm:"type:uuid;index;not null"`
	CaseID        *uuid.UUID `gorm:"type:uuid;index"`
	ExecutionID   uuid.UUID  `gorm:"type:uuid;index;not null"`
	Name          string     `gorm:"type:varchar(255);not null"`
	Content       string     `gorm:"type:text"`
	DocumentCount int        `gorm:"default:0"`
	CreatedAt     time.Time
}

// CaseAssignee maps a user onto a case's team. Read-only to the engine;
// notify_team fans out over these rows.
type CaseAssignee struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key"`
	OrgID  uuid.UUID `gorm:"type:uuid;index;not null"`
	CaseID uuid.UUID `gorm:"type:uuid;index;not null"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null"`
}
