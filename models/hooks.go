package models

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"ramsblog/common"
)

var validate = validator.New()

// Validate checks field constraints declared in `validate` tags.
func Validate(v interface{}) error {
	return validate.Struct(v)
}

// deriveSlug fills an empty slug from source, suffixing it until it is
// unique in table. A supplied slug is kept as is and left to the unique
// constraint.
func deriveSlug(tx *gorm.DB, table string, id uint, slug *string, source string) error {
	if *slug != "" {
		return nil
	}
	base := common.Slugify(source)
	var scope func(*gorm.DB) *gorm.DB
	if id != 0 {
		scope = func(q *gorm.DB) *gorm.DB { return q.Where("id <> ?", id) }
	}
	unique, err := common.UniqueSlug(tx, table, "slug", base, scope)
	if err != nil {
		return err
	}
	*slug = unique
	return nil
}

func ensureUID(uid *string) {
	if *uid == "" {
		*uid = uuid.NewString()
	}
}

func (c *Category) BeforeSave(tx *gorm.DB) error {
	if err := Validate(c); err != nil {
		return err
	}
	return deriveSlug(tx, "categories", c.ID, &c.Slug, c.Name)
}

func (s *SubCategory) BeforeSave(tx *gorm.DB) error {
	if err := Validate(s); err != nil {
		return err
	}
	return deriveSlug(tx, "sub_categories", s.ID, &s.Slug, s.Name)
}

func (p *Purpose) BeforeSave(tx *gorm.DB) error {
	if err := Validate(p); err != nil {
		return err
	}
	return deriveSlug(tx, "purposes", p.ID, &p.Slug, p.Title)
}

func (l *Language) BeforeSave(tx *gorm.DB) error {
	if l.Name == "" {
		l.Name = LanguageEnglish
	}
	ensureUID(&l.UID)
	return Validate(l)
}

func (l Language) String() string {
	return l.Name
}

func (b *Blog) BeforeSave(tx *gorm.DB) error {
	if b.Status == "" {
		b.Status = StatusDraft
	}
	if err := Validate(b); err != nil {
		return err
	}
	return deriveSlug(tx, "blogs", b.ID, &b.Slug, b.Title)
}

func (q *Question) BeforeSave(tx *gorm.DB) error {
	ensureUID(&q.UID)
	if q.CorrectOption == 0 {
		q.CorrectOption = Option1
	}
	if q.Difficulty == "" {
		q.Difficulty = DifficultyMedium
	}
	if err := Validate(q); err != nil {
		return err
	}
	return deriveSlug(tx, "questions", q.ID, &q.Slug, q.Question)
}

func (q Question) String() string {
	if q.Category != nil {
		return fmt.Sprintf("%s | %s", q.Question, q.Category.Name)
	}
	return q.Question
}

func (c *ContactRequest) BeforeSave(tx *gorm.DB) error {
	ensureUID(&c.UID)
	if c.Status == "" {
		c.Status = ContactNew
	}
	if c.Slug == "" {
		c.Slug = common.Slugify(c.Name)
	}
	return Validate(c)
}

func (c ContactRequest) String() string {
	return fmt.Sprintf("%s | %s | %s", c.UID, c.Name, c.Subject)
}

// ApplyDefaults sets unanswered ratings to DefaultRating.
func (f *Feedback) ApplyDefaults() {
	for _, r := range []*string{&f.OverallExperience, &f.ContentQuality, &f.DesignUsability, &f.EncounteredAnyIssues} {
		if *r == "" {
			*r = DefaultRating
		}
	}
}

func (f *Feedback) BeforeSave(tx *gorm.DB) error {
	ensureUID(&f.UID)
	f.ApplyDefaults()
	if f.Slug == "" && f.DescriptionOfIssue != "" {
		f.Slug = common.Slugify(f.DescriptionOfIssue)
	}
	return Validate(f)
}

func (f Feedback) String() string {
	return fmt.Sprintf("%s | %s | %s | %s", f.UID, f.OverallExperience, f.ContentQuality, f.EncounteredAnyIssues)
}
