package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	apperrors "pennyplan/internal/errors"
	"pennyplan/internal/events"
	"pennyplan/internal/models"
)

// assignmentService keeps each category in at most one section per period.
type assignmentService struct {
	db       *gorm.DB
	gate     *WriterGate
	bus      *events.Bus
	activity ActivityServicer
}

// NewAssignmentService creates a new AssignmentServicer.
func NewAssignmentService(db *gorm.DB, gate *WriterGate, bus *events.Bus, activity ActivityServicer) AssignmentServicer {
	return &assignmentService{db: db, gate: gate, bus: bus, activity: activity}
}

// sectionScope loads a section with its period and checks that the category
// belongs to the same budget.
func (s *assignmentService) sectionScope(ctx context.Context, sectionID, categoryID string) (*models.Section, *models.Period, error) {
	section, err := findSection(ctx, s.db, sectionID)
	if err != nil {
		return nil, nil, err
	}
	period, err := findPeriod(ctx, s.db, section.PeriodID)
	if err != nil {
		return nil, nil, err
	}
	if categoryID != "" {
		if _, err := findCategory(ctx, s.db, period.BudgetID, categoryID); err != nil {
			return nil, nil, err
		}
	}
	return section, period, nil
}

func (s *assignmentService) publish(period *models.Period, action events.Action, recordID string) {
	s.bus.Publish(events.Event{Collection: events.Sections, Action: action, BudgetID: period.BudgetID, PeriodID: period.ID, RecordID: recordID})
}

func (s *assignmentService) record(ctx context.Context, period *models.Period, action, title string, metadata map[string]any) {
	metadata["period_id"] = period.ID
	s.activity.Record(ctx, Activity{BudgetID: period.BudgetID, Action: action, Title: title, Metadata: metadata})
}

// Assign places a category in a section, removing it from any other section
// of the same period. Assigning to the section that already holds it is a
// no-op. A nil position appends.
func (s *assignmentService) Assign(ctx context.Context, categoryID, sectionID string, position *int) (*models.CategoryMapping, error) {
	if err := requireID("category_id", categoryID); err != nil {
		return nil, err
	}
	if position != nil && *position < 0 {
		return nil, apperrors.Validation("position", "must not be negative")
	}
	section, period, err := s.sectionScope(ctx, sectionID, categoryID)
	if err != nil {
		return nil, err
	}

	var mapping *models.CategoryMapping
	err = s.gate.Do(ctx, period.BudgetID, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var assignErr error
			mapping, assignErr = assignCategory(tx, section, categoryID, position)
			return assignErr
		})
	})
	if err != nil {
		return nil, gateError(err)
	}

	s.publish(period, events.ActionUpdated, mapping.ID)
	s.record(ctx, period, "section.category_assigned", "Assigned category to section "+section.Name,
		map[string]any{"section_id": section.ID, "category_id": categoryID})
	return mapping, nil
}

// Move takes a category out of one section and inserts it into another of
// the same period at position in a single unit of work.
func (s *assignmentService) Move(ctx context.Context, categoryID, fromSectionID, toSectionID string, position *int) (*models.CategoryMapping, error) {
	if err := requireID("category_id", categoryID); err != nil {
		return nil, err
	}
	if position != nil && *position < 0 {
		return nil, apperrors.Validation("position", "must not be negative")
	}
	from, period, err := s.sectionScope(ctx, fromSectionID, categoryID)
	if err != nil {
		return nil, err
	}
	to, err := findSection(ctx, s.db, toSectionID)
	if err != nil {
		return nil, err
	}
	if to.PeriodID != from.PeriodID {
		return nil, apperrors.Validation("to_section_id", "must be in the same period")
	}

	var mapping *models.CategoryMapping
	err = s.gate.Do(ctx, period.BudgetID, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var current models.CategoryMapping
			if err := tx.Where("section_id = ? AND category_id = ?", from.ID, categoryID).First(&current).Error; err != nil {
				return storeError(err, apperrors.ErrMappingNotFound)
			}
			if err := deleteMapping(tx, &current); err != nil {
				return err
			}

			var insertErr error
			mapping, insertErr = insertMapping(tx, to, categoryID, position)
			if insertErr != nil {
				return insertErr
			}

			var count int64
			if err := tx.Model(&models.CategoryMapping{}).
				Where("period_id = ? AND category_id = ?", period.ID, categoryID).
				Count(&count).Error; err != nil {
				return apperrors.Store(err)
			}
			if count != 1 {
				return apperrors.Store(fmt.Errorf("category %s has %d mappings in period %s after move", categoryID, count, period.ID))
			}
			return nil
		})
	})
	if err != nil {
		return nil, gateError(err)
	}

	s.publish(period, events.ActionUpdated, mapping.ID)
	s.record(ctx, period, "section.category_moved", "Moved category to section "+to.Name,
		map[string]any{"from_section_id": from.ID, "to_section_id": to.ID, "category_id": categoryID})
	return mapping, nil
}

// Reorder moves the mapping at index from to index to within a section.
func (s *assignmentService) Reorder(ctx context.Context, sectionID string, from, to int) ([]models.CategoryMapping, error) {
	section, period, err := s.sectionScope(ctx, sectionID, "")
	if err != nil {
		return nil, err
	}

	var ordered []models.CategoryMapping
	err = s.gate.Do(ctx, period.BudgetID, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var mappings []models.CategoryMapping
			if err := tx.Where("section_id = ?", section.ID).Order("display_order ASC, id ASC").Find(&mappings).Error; err != nil {
				return apperrors.Store(err)
			}
			if err := checkMove(len(mappings), from, to); err != nil {
				return err
			}
			ordered = moveItem(mappings, from, to)
			for i := range ordered {
				if ordered[i].DisplayOrder == i {
					continue
				}
				if err := tx.Model(&ordered[i]).Update("display_order", i).Error; err != nil {
					return apperrors.Store(err)
				}
			}
			return nil
		})
	})
	if err != nil {
		return nil, gateError(err)
	}

	s.publish(period, events.ActionUpdated, "")
	s.record(ctx, period, "section.categories_reordered", "Reordered categories in section "+section.Name,
		map[string]any{"section_id": section.ID, "from": from, "to": to})
	return ordered, nil
}

// Unassign removes a category from a section and closes the gap.
func (s *assignmentService) Unassign(ctx context.Context, categoryID, sectionID string) error {
	section, period, err := s.sectionScope(ctx, sectionID, "")
	if err != nil {
		return err
	}

	var removedID string
	err = s.gate.Do(ctx, period.BudgetID, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var mapping models.CategoryMapping
			if err := tx.Where("section_id = ? AND category_id = ?", section.ID, categoryID).First(&mapping).Error; err != nil {
				return storeError(err, apperrors.ErrMappingNotFound)
			}
			removedID = mapping.ID
			return deleteMapping(tx, &mapping)
		})
	})
	if err != nil {
		return gateError(err)
	}

	s.publish(period, events.ActionDeleted, removedID)
	s.record(ctx, period, "section.category_unassigned", "Removed category from section "+section.Name,
		map[string]any{"section_id": section.ID, "category_id": categoryID})
	return nil
}

// assignCategory must run inside a transaction. It drops the category's
// mappings in other sections of the period, then keeps or inserts the
// mapping in section.
func assignCategory(tx *gorm.DB, section *models.Section, categoryID string, position *int) (*models.CategoryMapping, error) {
	var existing []models.CategoryMapping
	if err := tx.Where("period_id = ? AND category_id = ?", section.PeriodID, categoryID).Find(&existing).Error; err != nil {
		return nil, apperrors.Store(err)
	}

	var kept *models.CategoryMapping
	for i := range existing {
		if existing[i].SectionID == section.ID {
			kept = &existing[i]
			continue
		}
		if err := deleteMapping(tx, &existing[i]); err != nil {
			return nil, err
		}
	}
	if kept != nil {
		return kept, nil
	}
	return insertMapping(tx, section, categoryID, position)
}

// insertMapping adds categoryID to section at position, shifting later
// mappings down. Positions past the end append.
func insertMapping(tx *gorm.DB, section *models.Section, categoryID string, position *int) (*models.CategoryMapping, error) {
	var count int64
	if err := tx.Model(&models.CategoryMapping{}).Where("section_id = ?", section.ID).Count(&count).Error; err != nil {
		return nil, apperrors.Store(err)
	}

	order := int(count)
	if position != nil && *position < order {
		order = *position
		if err := tx.Model(&models.CategoryMapping{}).
			Where("section_id = ? AND display_order >= ?", section.ID, order).
			Update("display_order", gorm.Expr("display_order + 1")).Error; err != nil {
			return nil, apperrors.Store(err)
		}
	}

	mapping := &models.CategoryMapping{
		SectionID:    section.ID,
		PeriodID:     section.PeriodID,
		CategoryID:   categoryID,
		DisplayOrder: order,
	}
	if err := tx.Create(mapping).Error; err != nil {
		return nil, apperrors.Store(err)
	}
	return mapping, nil
}

// deleteMapping removes m and renumbers what is left of its section.
func deleteMapping(tx *gorm.DB, m *models.CategoryMapping) error {
	if err := tx.Delete(m).Error; err != nil {
		return apperrors.Store(err)
	}
	return renumberMappings(tx, m.SectionID)
}

// renumberMappings rewrites a section's mapping orders as 0..n-1.
func renumberMappings(tx *gorm.DB, sectionID string) error {
	var mappings []models.CategoryMapping
	if err := tx.Where("section_id = ?", sectionID).Order("display_order ASC, id ASC").Find(&mappings).Error; err != nil {
		return apperrors.Store(err)
	}
	for i := range mappings {
		if mappings[i].DisplayOrder == i {
			continue
		}
		if err := tx.Model(&mappings[i]).Update("display_order", i).Error; err != nil {
			return apperrors.Store(err)
		}
	}
	return nil
}
