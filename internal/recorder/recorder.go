package recorder

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"ramarb/internal/models"
)

// Open connects to postgres and migrates the audit tables.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	if err := db.AutoMigrate(&models.RecommendationRecord{}, &models.PlanSnapshot{}); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return db, nil
}

// Recorder writes cycle output to postgres for later audit. Writes are best
// effort; callers log and move on when they fail.
type Recorder struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

func (r *Recorder) SaveRecommendations(ctx context.Context, recs []models.Recommendation) error {
	if r == nil || r.DB == nil || len(recs) == 0 {
		return nil
	}
	rows := make([]models.RecommendationRecord, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, models.RecommendationRecord{
			Action:         string(rec.Action),
			SKU:            rec.SKU,
			Marketplace:    rec.Marketplace,
			Confidence:     rec.Confidence,
			ExpectedProfit: rec.ExpectedProfit,
			Reasoning:      rec.Reasoning,
			RiskAssessment: rec.RiskAssessment,
			CreatedAt:      rec.CreatedAt,
		})
	}
	return r.DB.WithContext(ctx).Create(&rows).Error
}

func (r *Recorder) SavePlan(ctx context.Context, plan models.TradePlan) error {
	if r == nil || r.DB == nil {
		return nil
	}
	entries, err := json.Marshal(plan.Entries)
	if err != nil {
		return err
	}
	row := models.PlanSnapshot{
		Entries:          entries,
		EntryCount:       plan.Count(),
		CapitalAllocated: plan.CapitalAllocated,
	}
	return r.DB.WithContext(ctx).Create(&row).Error
}
