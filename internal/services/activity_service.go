package services

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"pennyplan/internal/amqp"
	"pennyplan/internal/logger"
	"pennyplan/internal/models"
	"pennyplan/internal/pagination"
)

// ActivityModule is the module name budget activity is filed under.
const ActivityModule = "Budget"

// ActivityPublisher forwards activity to another process.
type ActivityPublisher interface {
	PublishActivity(ctx context.Context, msg *amqp.ActivityMessage) error
}

// activityService records activity locally and optionally fans it out.
type activityService struct {
	db        *gorm.DB
	publisher ActivityPublisher
}

// NewActivityService creates a new ActivityServicer. publisher may be nil.
func NewActivityService(db *gorm.DB, publisher ActivityPublisher) ActivityServicer {
	return &activityService{db: db, publisher: publisher}
}

// Record stores an activity entry. Errors are logged but never propagate
// to avoid disrupting the main operation.
func (s *activityService) Record(ctx context.Context, a Activity) {
	if a.Module == "" {
		a.Module = ActivityModule
	}

	var metadata string
	if a.Metadata != nil {
		data, err := json.Marshal(a.Metadata)
		if err != nil {
			logger.Get().Errorw("failed to marshal activity metadata", "error", err, "action", a.Action)
			metadata = "{}"
		} else {
			metadata = string(data)
		}
	}

	entry := &models.ActivityLog{
		BudgetID:    a.BudgetID,
		Module:      a.Module,
		Action:      a.Action,
		Title:       a.Title,
		Description: a.Description,
		Metadata:    metadata,
	}

	// The entry outlives a cancelled request.
	ctx = context.WithoutCancel(ctx)

	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		logger.Get().Errorw("failed to create activity log entry",
			"error", err,
			"budget_id", a.BudgetID,
			"action", a.Action,
		)
	}

	if s.publisher == nil {
		return
	}

	msg := &amqp.ActivityMessage{
		ID:          entry.ID,
		BudgetID:    entry.BudgetID,
		Module:      entry.Module,
		Action:      entry.Action,
		Title:       entry.Title,
		Description: entry.Description,
		Metadata:    a.Metadata,
		Timestamp:   entry.CreatedAt,
	}
	if err := s.publisher.PublishActivity(ctx, msg); err != nil {
		logger.Get().Warnw("failed to publish activity",
			"error", err,
			"budget_id", a.BudgetID,
			"action", a.Action,
		)
	}
}

// List returns a budget's activity, newest first by default.
func (s *activityService) List(ctx context.Context, budgetID string, page pagination.PageRequest) (*pagination.PageResponse[models.ActivityLog], error) {
	query := s.db.WithContext(ctx).Model(&models.ActivityLog{}).Where("budget_id = ?", budgetID)
	result, err := pagination.Fetch[models.ActivityLog](query, page, "created_at")
	if err != nil {
		return nil, storeError(err, nil)
	}
	return result, nil
}
