package admin

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ramsblog/common"
	"ramsblog/models"
)

type questionFilters struct {
	Search     string
	CategoryID string
	PurposeID  string
	Difficulty string
}

func (a *AdminModule) listQuestions(c *gin.Context) {
	filters := questionFilters{
		Search:     strings.TrimSpace(c.Query("q")),
		CategoryID: c.Query("category"),
		PurposeID:  c.Query("purpose"),
		Difficulty: c.Query("difficulty"),
	}

	query := a.db.Model(&models.Question{}).Preload("Category").Preload("Purpose").Order("id DESC")
	if filters.Search != "" {
		query = query.Where("LOWER(question) LIKE ?", "%"+strings.ToLower(filters.Search)+"%")
	}
	if id := parseOptionalID(filters.CategoryID); id != nil {
		query = query.Where("category_id = ?", *id)
	}
	if id := parseOptionalID(filters.PurposeID); id != nil {
		query = query.Where("purpose_id = ?", *id)
	}
	if filters.Difficulty != "" {
		query = query.Where("difficulty = ?", filters.Difficulty)
	}

	page, err := common.Paginate[models.Question](query, common.ParsePage(c.Query("page")), listPerPage)
	if err != nil {
		log.Printf("Error loading questions: %v", err)
		a.renderError(c, http.StatusInternalServerError, "Error loading questions")
		return
	}

	var purposes []models.Purpose
	a.db.Order("title").Find(&purposes)

	c.HTML(http.StatusOK, "admin_questions.html", gin.H{
		"user":         currentUser(c),
		"questions":    page,
		"filters":      filters,
		"categories":   models.MenuCategories(a.db),
		"purposes":     purposes,
		"difficulties": []string{models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard},
	})
}

func (a *AdminModule) questionFormData(c *gin.Context, question models.Question) gin.H {
	var subCategories []models.SubCategory
	a.db.Order("name").Find(&subCategories)
	var purposes []models.Purpose
	a.db.Order("title").Find(&purposes)
	var languages []models.Language
	a.db.Order("name").Find(&languages)

	return gin.H{
		"user":          currentUser(c),
		"question":      question,
		"categories":    models.MenuCategories(a.db),
		"subCategories": subCategories,
		"purposes":      purposes,
		"languages":     languages,
		"slots":         models.OptionSlots,
		"difficulties":  []string{models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard},
	}
}

func (a *AdminModule) questionForm(c *gin.Context) {
	var question models.Question
	if !a.loadRecord(c, &question) {
		return
	}

	c.HTML(http.StatusOK, "admin_question_form.html", a.questionFormData(c, question))
}

func (a *AdminModule) saveQuestion(c *gin.Context) {
	var question models.Question
	if !a.loadRecord(c, &question) {
		return
	}

	question.Question = strings.TrimSpace(c.PostForm("question"))
	question.Slug = strings.TrimSpace(c.PostForm("slug"))
	question.CategoryID = parseOptionalID(c.PostForm("category_id"))
	question.SubCategoryID = parseOptionalID(c.PostForm("sub_category_id"))
	question.PurposeID = parseOptionalID(c.PostForm("purpose_id"))
	question.LanguageID = parseOptionalID(c.PostForm("language_id"))
	question.Option1 = strings.TrimSpace(c.PostForm("option1"))
	question.Option2 = strings.TrimSpace(c.PostForm("option2"))
	question.Option3 = strings.TrimSpace(c.PostForm("option3"))
	question.Option4 = strings.TrimSpace(c.PostForm("option4"))
	question.Explanation = c.PostForm("explanation")
	question.Difficulty = c.PostForm("difficulty")

	slot, err := models.ParseOptionSlot(c.DefaultPostForm("correct_option", "option1"))
	if err != nil {
		data := a.questionFormData(c, question)
		data["error"] = err.Error()
		c.HTML(http.StatusBadRequest, "admin_question_form.html", data)
		return
	}
	question.CorrectOption = slot

	if err := a.db.Save(&question).Error; err != nil {
		data := a.questionFormData(c, question)
		data["error"] = "Error saving question: " + err.Error()
		c.HTML(http.StatusBadRequest, "admin_question_form.html", data)
		return
	}

	c.Redirect(http.StatusFound, "/admin/questions")
}
