package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// RecommendationRecord is the persisted form of a Recommendation, kept for
// audit only. Money columns are numeric to avoid float drift.
type RecommendationRecord struct {
	ID             uint64          `gorm:"primaryKey;autoIncrement"`
	Action         string          `gorm:"type:varchar(10);not null;index"`
	SKU            string          `gorm:"type:varchar(100);not null;index"`
	Marketplace    string          `gorm:"type:varchar(50);not null;index"`
	Confidence     float64         `gorm:"not null"`
	ExpectedProfit decimal.Decimal `gorm:"type:numeric(30,10);not null"`
	Reasoning      string          `gorm:"type:text"`
	RiskAssessment string          `gorm:"type:text"`
	CreatedAt      time.Time       `gorm:"type:timestamptz;autoCreateTime;index"`
}

func (RecommendationRecord) TableName() string {
	return "recommendations"
}

// PlanSnapshot stores one built trade plan as a whole.
type PlanSnapshot struct {
	ID               uint64          `gorm:"primaryKey;autoIncrement"`
	Entries          datatypes.JSON  `gorm:"type:jsonb;not null"`
	EntryCount       int             `gorm:"not null"`
	CapitalAllocated decimal.Decimal `gorm:"type:numeric(30,10);not null"`
	CreatedAt        time.Time       `gorm:"type:timestamptz;autoCreateTime;index"`
}

func (PlanSnapshot) TableName() string {
	return "plan_snapshots"
}
