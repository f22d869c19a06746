package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	apperrors "pennyplan/internal/errors"
	"pennyplan/internal/events"
	"pennyplan/internal/models"
)

// sectionService manages display sections within a period.
type sectionService struct {
	db       *gorm.DB
	gate     *WriterGate
	bus      *events.Bus
	activity ActivityServicer
}

// NewSectionService creates a new SectionServicer.
func NewSectionService(db *gorm.DB, gate *WriterGate, bus *events.Bus, activity ActivityServicer) SectionServicer {
	return &sectionService{db: db, gate: gate, bus: bus, activity: activity}
}

func (s *sectionService) publish(action events.Action, period *models.Period, recordID string) {
	s.bus.Publish(events.Event{Collection: events.Sections, Action: action, BudgetID: period.BudgetID, PeriodID: period.ID, RecordID: recordID})
}

func (s *sectionService) record(ctx context.Context, period *models.Period, action, title string, metadata map[string]any) {
	metadata["period_id"] = period.ID
	s.activity.Record(ctx, Activity{BudgetID: period.BudgetID, Action: action, Title: title, Metadata: metadata})
}

// CreateSection appends a section after the period's last one.
func (s *sectionService) CreateSection(ctx context.Context, periodID, name string) (*models.Section, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Validation("name", "is required")
	}
	period, err := findPeriod(ctx, s.db, periodID)
	if err != nil {
		return nil, err
	}

	var section *models.Section
	err = s.gate.Do(ctx, period.BudgetID, func() error {
		var createErr error
		section, createErr = appendSection(s.db.WithContext(ctx), periodID, name)
		return createErr
	})
	if err != nil {
		return nil, gateError(err)
	}

	s.publish(events.ActionCreated, period, section.ID)
	s.record(ctx, period, "section.created", "Created section "+section.Name, map[string]any{"section_id": section.ID})
	return section, nil
}

func appendSection(db *gorm.DB, periodID, name string) (*models.Section, error) {
	var next int
	if err := db.Model(&models.Section{}).Where("period_id = ?", periodID).
		Select("COALESCE(MAX(display_order), -1) + 1").Scan(&next).Error; err != nil {
		return nil, apperrors.Store(err)
	}
	section := &models.Section{PeriodID: periodID, Name: name, DisplayOrder: next}
	if err := db.Create(section).Error; err != nil {
		return nil, apperrors.Store(err)
	}
	return section, nil
}

// GetSection returns a section of the period with its mappings in order.
func (s *sectionService) GetSection(ctx context.Context, periodID, sectionID string) (*models.Section, error) {
	var section models.Section
	err := s.db.WithContext(ctx).
		Preload("Mappings", orderedMappings).
		Preload("Mappings.Category").
		Where("id = ? AND period_id = ?", sectionID, periodID).
		First(&section).Error
	if err != nil {
		return nil, storeError(err, apperrors.ErrSectionNotFound)
	}
	return &section, nil
}

func orderedMappings(db *gorm.DB) *gorm.DB {
	return db.Order("display_order ASC")
}

// RenameSection changes a section's name.
func (s *sectionService) RenameSection(ctx context.Context, periodID, sectionID, name string) (*models.Section, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Validation("name", "is required")
	}
	period, err := findPeriod(ctx, s.db, periodID)
	if err != nil {
		return nil, err
	}

	var section models.Section
	err = s.gate.Do(ctx, period.BudgetID, func() error {
		if err := s.db.WithContext(ctx).Where("id = ? AND period_id = ?", sectionID, periodID).First(&section).Error; err != nil {
			return storeError(err, apperrors.ErrSectionNotFound)
		}
		if err := s.db.WithContext(ctx).Model(&section).Update("name", name).Error; err != nil {
			return apperrors.Store(err)
		}
		return nil
	})
	if err != nil {
		return nil, gateError(err)
	}

	s.publish(events.ActionUpdated, period, section.ID)
	s.record(ctx, period, "section.renamed", "Renamed section to "+name, map[string]any{"section_id": section.ID})
	return &section, nil
}

// DeleteSection removes a section and its mappings in one unit of work and
// closes the gap in the period's section order.
func (s *sectionService) DeleteSection(ctx context.Context, periodID, sectionID string) error {
	period, err := findPeriod(ctx, s.db, periodID)
	if err != nil {
		return err
	}

	err = s.gate.Do(ctx, period.BudgetID, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var section models.Section
			if err := tx.Where("id = ? AND period_id = ?", sectionID, periodID).First(&section).Error; err != nil {
				return storeError(err, apperrors.ErrSectionNotFound)
			}
			if err := tx.Where("section_id = ?", section.ID).Delete(&models.CategoryMapping{}).Error; err != nil {
				return apperrors.Store(err)
			}
			if err := tx.Delete(&section).Error; err != nil {
				return apperrors.Store(err)
			}
			return renumberSections(tx, periodID)
		})
	})
	if err != nil {
		return gateError(err)
	}

	s.publish(events.ActionDeleted, period, sectionID)
	s.record(ctx, period, "section.deleted", "Deleted section", map[string]any{"section_id": sectionID})
	return nil
}

// ReorderSections moves the section at index from to index to.
func (s *sectionService) ReorderSections(ctx context.Context, periodID string, from, to int) ([]models.Section, error) {
	period, err := findPeriod(ctx, s.db, periodID)
	if err != nil {
		return nil, err
	}

	err = s.gate.Do(ctx, period.BudgetID, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var sections []models.Section
			if err := tx.Where("period_id = ?", periodID).Order("display_order ASC, id ASC").Find(&sections).Error; err != nil {
				return apperrors.Store(err)
			}
			if err := checkMove(len(sections), from, to); err != nil {
				return err
			}
			moved := moveItem(sections, from, to)
			for i := range moved {
				if moved[i].DisplayOrder == i {
					continue
				}
				if err := tx.Model(&moved[i]).Update("display_order", i).Error; err != nil {
					return apperrors.Store(err)
				}
			}
			return nil
		})
	})
	if err != nil {
		return nil, gateError(err)
	}

	s.publish(events.ActionUpdated, period, "")
	s.record(ctx, period, "section.reordered", "Reordered sections", map[string]any{"from": from, "to": to})
	return s.ListSections(ctx, periodID)
}

// ListSections returns the period's sections in display order with their
// mappings and categories preloaded.
func (s *sectionService) ListSections(ctx context.Context, periodID string) ([]models.Section, error) {
	if _, err := findPeriod(ctx, s.db, periodID); err != nil {
		return nil, err
	}

	var sections []models.Section
	err := s.db.WithContext(ctx).
		Preload("Mappings", orderedMappings).
		Preload("Mappings.Category").
		Where("period_id = ?", periodID).
		Order("display_order ASC").
		Find(&sections).Error
	if err != nil {
		return nil, apperrors.Store(err)
	}
	return sections, nil
}

// renumberSections rewrites section orders as 0..n-1.
func renumberSections(tx *gorm.DB, periodID string) error {
	var sections []models.Section
	if err := tx.Where("period_id = ?", periodID).Order("display_order ASC, id ASC").Find(&sections).Error; err != nil {
		return apperrors.Store(err)
	}
	for i := range sections {
		if sections[i].DisplayOrder == i {
			continue
		}
		if err := tx.Model(&sections[i]).Update("display_order", i).Error; err != nil {
			return apperrors.Store(err)
		}
	}
	return nil
}

func checkMove(n, from, to int) error {
	if from < 0 || from >= n {
		return apperrors.Validation("from", "is out of range")
	}
	if to < 0 || to >= n {
		return apperrors.Validation("to", "is out of range")
	}
	return nil
}

// moveItem returns items with the element at from relocated to to.
func moveItem[T any](items []T, from, to int) []T {
	out := make([]T, 0, len(items))
	item := items[from]
	for i := range items {
		if i != from {
			out = append(out, items[i])
		}
	}
	out = append(out[:to], append([]T{item}, out[to:]...)...)
	return out
}
