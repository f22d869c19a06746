package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "pennyplan/internal/errors"
	"pennyplan/internal/models"
)

type seedHead struct {
	name       string
	preferType models.EntryType
	categories []string
}

// systemCatalogue is created with every new budget.
var systemCatalogue = []seedHead{
	{name: "Income", preferType: models.EntryTypeIncome, categories: []string{"Salary", "Other Income"}},
	{name: "Housing", preferType: models.EntryTypeExpense, categories: []string{"Rent", "Utilities"}},
	{name: "Living", preferType: models.EntryTypeExpense, categories: []string{"Groceries", "Transport"}},
	{name: "Lifestyle", preferType: models.EntryTypeExpense, categories: []string{"Dining Out", "Entertainment"}},
}

// categoryService handles the category catalogue.
type categoryService struct {
	db       *gorm.DB
	gate     *WriterGate
	activity ActivityServicer
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB, gate *WriterGate, activity ActivityServicer) CategoryServicer {
	return &categoryService{db: db, gate: gate, activity: activity}
}

// SeedSystemCategories creates the system catalogue unless the budget
// already has head categories.
func (s *categoryService) SeedSystemCategories(ctx context.Context, budgetID string) error {
	if _, err := findBudget(ctx, s.db, budgetID); err != nil {
		return err
	}
	return gateError(s.gate.Do(ctx, budgetID, func() error {
		return seedCatalogue(s.db.WithContext(ctx), budgetID)
	}))
}

func seedCatalogue(db *gorm.DB, budgetID string) error {
	var existing int64
	if err := db.Model(&models.HeadCategory{}).Where("budget_id = ?", budgetID).Count(&existing).Error; err != nil {
		return apperrors.Store(err)
	}
	if existing > 0 {
		return nil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for i, h := range systemCatalogue {
			head := &models.HeadCategory{
				BudgetID:     budgetID,
				Name:         h.name,
				PreferType:   h.preferType,
				DisplayOrder: i,
				IsSystem:     true,
			}
			if err := tx.Create(head).Error; err != nil {
				return err
			}
			for j, name := range h.categories {
				cat := &models.Category{HeadCategoryID: head.ID, Name: name, DisplayOrder: j}
				if err := tx.Create(cat).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return apperrors.Store(err)
	}
	return nil
}

// CreateHeadCategory appends a head category to the budget.
func (s *categoryService) CreateHeadCategory(ctx context.Context, budgetID, name string, preferType models.EntryType) (*models.HeadCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Validation("name", "is required")
	}
	if !preferType.Valid() {
		return nil, apperrors.Validation("prefer_type", "must be INCOME or EXPENSE")
	}
	if _, err := findBudget(ctx, s.db, budgetID); err != nil {
		return nil, err
	}

	var head *models.HeadCategory
	err := s.gate.Do(ctx, budgetID, func() error {
		db := s.db.WithContext(ctx)
		var next int
		if err := db.Model(&models.HeadCategory{}).Where("budget_id = ?", budgetID).
			Select("COALESCE(MAX(display_order), -1) + 1").Scan(&next).Error; err != nil {
			return apperrors.Store(err)
		}
		head = &models.HeadCategory{BudgetID: budgetID, Name: name, PreferType: preferType, DisplayOrder: next}
		if err := db.Create(head).Error; err != nil {
			return apperrors.Store(err)
		}
		return nil
	})
	if err != nil {
		return nil, gateError(err)
	}
	return head, nil
}

// ListHeadCategories returns head categories in display order with their
// categories preloaded.
func (s *categoryService) ListHeadCategories(ctx context.Context, budgetID string, includeArchived bool) ([]models.HeadCategory, error) {
	var heads []models.HeadCategory
	err := s.db.WithContext(ctx).
		Preload("Categories", func(db *gorm.DB) *gorm.DB {
			if !includeArchived {
				db = db.Where("is_archived = ?", false)
			}
			return db.Order("display_order ASC, name ASC")
		}).
		Where("budget_id = ?", budgetID).
		Order("display_order ASC, name ASC").
		Find(&heads).Error
	if err != nil {
		return nil, apperrors.Store(err)
	}
	return heads, nil
}

func (s *categoryService) findHead(ctx context.Context, budgetID, headID string) (*models.HeadCategory, error) {
	var head models.HeadCategory
	if err := s.db.WithContext(ctx).Where("id = ? AND budget_id = ?", headID, budgetID).First(&head).Error; err != nil {
		return nil, storeError(err, apperrors.ErrHeadCategoryNotFound)
	}
	return &head, nil
}

// RenameHeadCategory changes a head category's name.
func (s *categoryService) RenameHeadCategory(ctx context.Context, budgetID, headID, name string) (*models.HeadCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Validation("name", "is required")
	}
	head, err := s.findHead(ctx, budgetID, headID)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(head).Update("name", name).Error; err != nil {
		return nil, apperrors.Store(err)
	}
	return head, nil
}

// DeleteHeadCategory soft-deletes a user head category and its categories.
// System head categories and heads whose categories carry transactions stay.
func (s *categoryService) DeleteHeadCategory(ctx context.Context, budgetID, headID string) error {
	head, err := s.findHead(ctx, budgetID, headID)
	if err != nil {
		return err
	}
	if head.IsSystem {
		return apperrors.WithMessage(apperrors.ErrInvalidState, "System head categories cannot be deleted")
	}

	err = s.gate.Do(ctx, budgetID, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var ids []string
			if err := tx.Model(&models.Category{}).Where("head_category_id = ?", head.ID).Pluck("id", &ids).Error; err != nil {
				return apperrors.Store(err)
			}
			for _, id := range ids {
				if err := removeCategory(tx, id); err != nil {
					return err
				}
			}
			if err := tx.Delete(head).Error; err != nil {
				return apperrors.Store(err)
			}
			return nil
		})
	})
	return gateError(err)
}

// CreateCategory adds a category under a head category of the budget.
func (s *categoryService) CreateCategory(ctx context.Context, budgetID string, in CategoryInput) (*models.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, apperrors.Validation("name", "is required")
	}
	if err := requireID("head_category_id", in.HeadCategoryID); err != nil {
		return nil, err
	}
	head, err := s.findHead(ctx, budgetID, in.HeadCategoryID)
	if err != nil {
		return nil, err
	}

	var category *models.Category
	err = s.gate.Do(ctx, budgetID, func() error {
		db := s.db.WithContext(ctx)
		var next int
		if err := db.Model(&models.Category{}).Where("head_category_id = ?", head.ID).
			Select("COALESCE(MAX(display_order), -1) + 1").Scan(&next).Error; err != nil {
			return apperrors.Store(err)
		}
		category = &models.Category{
			HeadCategoryID: head.ID,
			Name:           in.Name,
			Icon:           in.Icon,
			Color:          in.Color,
			DisplayOrder:   next,
		}
		if err := db.Create(category).Error; err != nil {
			return apperrors.Store(err)
		}
		return nil
	})
	if err != nil {
		return nil, gateError(err)
	}
	return category, nil
}

// GetCategory returns a category with its head category.
func (s *categoryService) GetCategory(ctx context.Context, budgetID, categoryID string) (*models.Category, error) {
	category, err := findCategory(ctx, s.db, budgetID, categoryID)
	if err != nil {
		return nil, err
	}
	var head models.HeadCategory
	if err := s.db.WithContext(ctx).Where("id = ?", category.HeadCategoryID).First(&head).Error; err != nil {
		return nil, storeError(err, apperrors.ErrHeadCategoryNotFound)
	}
	category.HeadCategory = &head
	return category, nil
}

// UpdateCategory updates the non-empty fields of in. A new head category
// must belong to the same budget.
func (s *categoryService) UpdateCategory(ctx context.Context, budgetID, categoryID string, in CategoryInput) (*models.Category, error) {
	category, err := findCategory(ctx, s.db, budgetID, categoryID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name := strings.TrimSpace(in.Name); name != "" {
		updates["name"] = name
	}
	if in.Icon != "" {
		updates["icon"] = in.Icon
	}
	if in.Color != "" {
		updates["color"] = in.Color
	}
	if in.HeadCategoryID != "" && in.HeadCategoryID != category.HeadCategoryID {
		if _, err := s.findHead(ctx, budgetID, in.HeadCategoryID); err != nil {
			return nil, err
		}
		updates["head_category_id"] = in.HeadCategoryID
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(category).Updates(updates).Error; err != nil {
			return nil, apperrors.Store(err)
		}
	}
	return category, nil
}

// SetArchived archives or restores a category. Archiving keeps history.
func (s *categoryService) SetArchived(ctx context.Context, budgetID, categoryID string, archived bool) (*models.Category, error) {
	category, err := findCategory(ctx, s.db, budgetID, categoryID)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(category).Update("is_archived", archived).Error; err != nil {
		return nil, apperrors.Store(err)
	}
	return category, nil
}

// DeleteCategory soft-deletes a category that no transaction references,
// dropping its section mappings and plans. Referenced categories must be
// archived instead.
func (s *categoryService) DeleteCategory(ctx context.Context, budgetID, categoryID string) error {
	category, err := findCategory(ctx, s.db, budgetID, categoryID)
	if err != nil {
		return err
	}

	err = s.gate.Do(ctx, budgetID, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return removeCategory(tx, category.ID)
		})
	})
	if err != nil {
		return gateError(err)
	}

	s.activity.Record(ctx, Activity{
		BudgetID: budgetID,
		Action:   "category.deleted",
		Title:    "Deleted category " + category.Name,
	})
	return nil
}

// removeCategory must run inside a transaction.
func removeCategory(tx *gorm.DB, categoryID string) error {
	var used int64
	if err := tx.Model(&models.Transaction{}).Where("category_id = ?", categoryID).Count(&used).Error; err != nil {
		return apperrors.Store(err)
	}
	if used > 0 {
		return apperrors.ErrCategoryInUse
	}

	var mappings []models.CategoryMapping
	if err := tx.Where("category_id = ?", categoryID).Find(&mappings).Error; err != nil {
		return apperrors.Store(err)
	}
	for i := range mappings {
		if err := deleteMapping(tx, &mappings[i]); err != nil {
			return err
		}
	}
	if err := tx.Where("category_id = ?", categoryID).Delete(&models.Plan{}).Error; err != nil {
		return apperrors.Store(err)
	}
	if err := tx.Where("id = ?", categoryID).Delete(&models.Category{}).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCategoryNotFound
		}
		return apperrors.Store(err)
	}
	return nil
}
