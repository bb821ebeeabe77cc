package models

import (
	"time"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"

	ContactNew        = "new"
	ContactInProgress = "in_progress"
	ContactResolved   = "resolved"

	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"

	LanguageEnglish = "English"
	LanguageHindi   = "Hindi"

	DefaultRating = "5"
)

var Languages = []string{LanguageEnglish, LanguageHindi}

type User struct {
	ID           int       `gorm:"primary_key;autoIncrement" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username" validate:"required,max=150"`
	Email        string    `gorm:"unique;not null" json:"email" validate:"required,email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsStaff      bool      `gorm:"default:false" json:"is_staff"`
	CreatedAt    time.Time `json:"created_at"`
}

type Category struct {
	ID            uint          `gorm:"primary_key" json:"id"`
	Name          string        `gorm:"unique;not null" json:"name" validate:"required,max=100"`
	Slug          string        `gorm:"unique;not null" json:"slug"`
	SubCategories []SubCategory `gorm:"foreignKey:CategoryID" json:"sub_categories,omitempty"`
}

type SubCategory struct {
	ID         uint      `gorm:"primary_key" json:"id"`
	Name       string    `gorm:"unique;not null" json:"name" validate:"required,max=100"`
	Slug       string    `gorm:"unique;not null" json:"slug"`
	CategoryID *uint     `gorm:"index" json:"category_id"`
	Category   *Category `json:"category,omitempty"`
}

type Language struct {
	ID   uint   `gorm:"primary_key" json:"id"`
	UID  string `gorm:"type:varchar(36);uniqueIndex" json:"uid"`
	Name string `gorm:"unique;not null;default:English" json:"name" validate:"required,oneof=English Hindi"`
}

type Purpose struct {
	ID          uint   `gorm:"primary_key" json:"id"`
	Title       string `gorm:"unique;not null" json:"title" validate:"required,max=200"`
	Description string `gorm:"type:text" json:"description"`
	Slug        string `gorm:"unique;not null" json:"slug"`
}

type Blog struct {
	ID          uint      `gorm:"primary_key" json:"id"`
	Title       string    `gorm:"not null" json:"title" validate:"required,max=255"`
	Slug        string    `gorm:"unique;not null" json:"slug"`
	CategoryID  *uint     `gorm:"index" json:"category_id"`
	Category    *Category `json:"category,omitempty"`
	LanguageID  *uint     `gorm:"index" json:"language_id"`
	Language    *Language `json:"language,omitempty"`
	AuthorID    *int      `gorm:"index" json:"author_id"`
	Author      *User     `json:"author,omitempty"`
	Body        string    `gorm:"type:text" json:"body"`
	ListImage   string    `json:"list_image"`
	DetailImage string    `json:"detail_image"`
	PDFFile     string    `json:"pdf_file"`
	Status      string    `gorm:"not null;default:draft;index" json:"status" validate:"oneof=draft published"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Question struct {
	ID            uint         `gorm:"primary_key" json:"id"`
	UID           string       `gorm:"type:varchar(36);uniqueIndex" json:"uid"`
	Question      string       `gorm:"type:text;not null" json:"question" validate:"required"`
	Slug          string       `gorm:"unique;not null" json:"slug"`
	CategoryID    *uint        `gorm:"index" json:"category_id"`
	Category      *Category    `json:"category,omitempty"`
	SubCategoryID *uint        `gorm:"index" json:"sub_category_id"`
	SubCategory   *SubCategory `json:"sub_category,omitempty"`
	PurposeID     *uint        `gorm:"index" json:"purpose_id"`
	Purpose       *Purpose     `json:"purpose,omitempty"`
	LanguageID    *uint        `gorm:"index" json:"language_id"`
	Language      *Language    `json:"language,omitempty"`
	Option1       string       `gorm:"not null" json:"option1" validate:"required"`
	Option2       string       `gorm:"not null" json:"option2" validate:"required"`
	Option3       string       `gorm:"not null" json:"option3" validate:"required"`
	Option4       string       `gorm:"not null" json:"option4" validate:"required"`
	CorrectOption OptionSlot   `gorm:"not null;default:1" json:"correct_option" validate:"min=1,max=4"`
	Explanation   string       `gorm:"type:text" json:"explanation"`
	Difficulty    string       `gorm:"not null;default:medium" json:"difficulty" validate:"oneof=easy medium hard"`
	CreatedAt     time.Time    `json:"created_at"`
}

type ContactRequest struct {
	ID        uint      `gorm:"primary_key" json:"id"`
	UID       string    `gorm:"type:varchar(36);uniqueIndex" json:"uid"`
	Name      string    `gorm:"not null" json:"name" validate:"required,max=100"`
	Phone     string    `gorm:"unique;not null" json:"phone" validate:"required,max=20"`
	Email     string    `gorm:"unique;not null" json:"email" validate:"required,email"`
	Subject   string    `gorm:"not null" json:"subject" validate:"required,max=200"`
	Message   string    `gorm:"type:text" json:"message" validate:"required"`
	Status    string    `gorm:"not null;default:new;index" json:"status" validate:"oneof=new in_progress resolved"`
	Slug      string    `gorm:"index" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

type Feedback struct {
	ID                   uint      `gorm:"primary_key" json:"id"`
	UID                  string    `gorm:"type:varchar(36);uniqueIndex" json:"uid"`
	OverallExperience    string    `gorm:"not null;default:5" json:"overall_experience" validate:"oneof=1 2 3 4 5"`
	ContentQuality       string    `gorm:"not null;default:5" json:"content_quality" validate:"oneof=1 2 3 4 5"`
	DesignUsability      string    `gorm:"not null;default:5" json:"design_usability" validate:"oneof=1 2 3 4 5"`
	EncounteredAnyIssues string    `gorm:"not null;default:5" json:"encountered_any_issues" validate:"oneof=1 2 3 4 5"`
	MostEnjoyableThing   string    `gorm:"type:text" json:"most_enjoyable_thing"`
	Suggestions          string    `gorm:"type:text" json:"suggestions"`
	DescriptionOfIssue   string    `gorm:"type:text" json:"description_of_issue"`
	AdditionalComment    string    `gorm:"type:text" json:"additional_comment"`
	Slug                 string    `gorm:"index" json:"slug"`
	CreatedAt            time.Time `json:"created_at"`
}

func (Feedback) TableName() string {
	return "feedback"
}
