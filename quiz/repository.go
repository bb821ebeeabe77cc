package quiz

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"ramsblog/common"
	"ramsblog/models"
)

var (
	// ErrNotFound is returned for unknown slugs and question ids.
	ErrNotFound = errors.New("quiz: not found")
	// ErrEndOfQuestions signals that no question is left to deliver.
	ErrEndOfQuestions = errors.New("quiz: no more questions")
)

// Kind names the entity a sequential quiz is grouped by.
type Kind string

const (
	ByCategory    Kind = "category"
	BySubCategory Kind = "sub_category"
	ByPurpose     Kind = "purpose"
)

func (k Kind) column() string {
	return string(k) + "_id"
}

// Group is a resolved grouping entity owning an ordered question list.
type Group struct {
	Kind Kind
	ID   uint
	Name string
	Slug string
}

// Scope restricts question queries to one group. The zero Scope covers
// every question.
type Scope struct {
	Column string
	ID     uint
}

func (g *Group) Scope() Scope {
	return Scope{Column: g.Kind.column(), ID: g.ID}
}

// Repository is the persistence the quiz service needs.
type Repository interface {
	FindGroup(kind Kind, slug string) (*Group, error)
	CountQuestions(scope Scope) (int64, error)
	QuestionAt(scope Scope, offset int) (*models.Question, error)
	QuestionByUID(uid string) (*models.Question, error)
	QuestionIDsExcept(id uint) ([]uint, error)
	QuestionsByIDs(ids []uint) ([]models.Question, error)
	Purposes(page, perPage int) (*common.Page[models.Purpose], error)
	CategoriesWithSubCategories() ([]models.Category, error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) FindGroup(kind Kind, slug string) (*Group, error) {
	var err error
	group := &Group{Kind: kind, Slug: slug}

	switch kind {
	case ByCategory:
		var c models.Category
		err = r.db.Where("slug = ?", slug).First(&c).Error
		group.ID, group.Name = c.ID, c.Name
	case BySubCategory:
		var s models.SubCategory
		err = r.db.Where("slug = ?", slug).First(&s).Error
		group.ID, group.Name = s.ID, s.Name
	case ByPurpose:
		var p models.Purpose
		err = r.db.Where("slug = ?", slug).First(&p).Error
		group.ID, group.Name = p.ID, p.Title
	default:
		return nil, fmt.Errorf("unknown group kind %q: %w", kind, ErrNotFound)
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s %q: %w", kind, slug, ErrNotFound)
		}
		return nil, fmt.Errorf("loading %s %q: %w", kind, slug, err)
	}
	return group, nil
}

func (r *gormRepository) scoped(scope Scope) *gorm.DB {
	q := r.db.Model(&models.Question{})
	if scope.Column != "" {
		q = q.Where(scope.Column+" = ?", scope.ID)
	}
	return q
}

func (r *gormRepository) CountQuestions(scope Scope) (int64, error) {
	var count int64
	if err := r.scoped(scope).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting questions: %w", err)
	}
	return count, nil
}

// QuestionAt returns the question at offset in id order.
func (r *gormRepository) QuestionAt(scope Scope, offset int) (*models.Question, error) {
	var q models.Question
	err := r.scoped(scope).
		Preload("Category").
		Order("id ASC").
		Offset(offset).
		Limit(1).
		Take(&q).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEndOfQuestions
		}
		return nil, fmt.Errorf("loading question at %d: %w", offset, err)
	}
	return &q, nil
}

func (r *gormRepository) QuestionByUID(uid string) (*models.Question, error) {
	var q models.Question
	if err := r.db.Preload("Category").Where("uid = ?", uid).First(&q).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("question %s: %w", uid, ErrNotFound)
		}
		return nil, fmt.Errorf("loading question %s: %w", uid, err)
	}
	return &q, nil
}

func (r *gormRepository) QuestionIDsExcept(id uint) ([]uint, error) {
	var ids []uint
	if err := r.db.Model(&models.Question{}).Where("id <> ?", id).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("listing question ids: %w", err)
	}
	return ids, nil
}

// QuestionsByIDs loads questions keeping the order of ids.
func (r *gormRepository) QuestionsByIDs(ids []uint) ([]models.Question, error) {
	if len(ids) == 0 {
		return []models.Question{}, nil
	}

	var found []models.Question
	if err := r.db.Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, fmt.Errorf("loading questions: %w", err)
	}

	byID := make(map[uint]models.Question, len(found))
	for _, q := range found {
		byID[q.ID] = q
	}
	ordered := make([]models.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := byID[id]; ok {
			ordered = append(ordered, q)
		}
	}
	return ordered, nil
}

func (r *gormRepository) Purposes(page, perPage int) (*common.Page[models.Purpose], error) {
	return common.Paginate[models.Purpose](r.db.Model(&models.Purpose{}).Order("id"), page, perPage)
}

func (r *gormRepository) CategoriesWithSubCategories() ([]models.Category, error) {
	var categories []models.Category
	err := r.db.Preload("SubCategories", func(db *gorm.DB) *gorm.DB {
		return db.Order("name")
	}).Order("name").Find(&categories).Error
	return categories, err
}
