package quiz

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ramsblog/common"
	"ramsblog/models"
)

const resultsPath = "/endpractice/"

type QuizModule struct {
	db      *gorm.DB
	service *Service
}

func NewQuizModule(db *gorm.DB) *QuizModule {
	return &QuizModule{db: db, service: NewService(NewRepository(db), nil)}
}

// NewQuizModuleWithRand is NewQuizModule with a fixed source of randomness.
func NewQuizModuleWithRand(db *gorm.DB, rnd Randomizer) *QuizModule {
	return &QuizModule{db: db, service: NewService(NewRepository(db), rnd)}
}

func (q *QuizModule) RegisterRoutes(router *gin.Engine) {
	for path, kind := range map[string]Kind{
		"/category-wise-question/:slug/":     ByCategory,
		"/sub-category-wise-question/:slug/": BySubCategory,
		"/purpose-wise-question/:slug/":      ByPurpose,
	} {
		router.GET(path, q.sequential(kind))
		router.POST(path, q.sequential(kind))
	}

	router.GET("/question/:uid/", q.question)
	router.Any("/update-session-results/", q.updateResults)
	router.GET(resultsPath, q.endPractice)
	router.GET("/all-test-series/", q.testSeries)
	router.GET("/all-sub-category-test/", q.subCategoryTests)
}

// fail maps service errors onto responses.
func (q *QuizModule) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrEndOfQuestions):
		c.Redirect(http.StatusFound, resultsPath)
	case errors.Is(err, ErrNotFound):
		c.HTML(http.StatusNotFound, "error.html", gin.H{
			"error":      "Page not found",
			"categories": models.MenuCategories(q.db),
		})
	default:
		log.Printf("Quiz error on %s: %v", c.Request.URL.Path, err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{
			"error": "Something went wrong",
		})
	}
}

func (q *QuizModule) sequential(kind Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		offset := ParseOffset(c.Query("current_question"))

		view, err := q.service.Sequential(kind, c.Param("slug"), offset)
		if err != nil {
			q.fail(c, err)
			return
		}

		tracker := NewTracker(sessions.Default(c))
		tracker.SetCurrent(offset)

		if c.Request.Method == http.MethodPost {
			if selected, ok := c.GetPostForm("mcq_option"); ok {
				tracker.RecordAnswer(offset, selected, view.Question.IsCorrect(selected))
			}
		}
		if err := tracker.Save(); err != nil {
			log.Printf("Error saving quiz session: %v", err)
		}

		var selected interface{}
		var isCorrect interface{}
		answer, answered := tracker.AnswerFor(offset)
		if answered {
			selected, isCorrect = answer.Selected, answer.Correct
		}

		c.HTML(http.StatusOK, "quiz_question.html", gin.H{
			"group":             view.Group,
			"question":          view.Question,
			"options":           view.Options,
			"current_question":  view.Offset,
			"next_question_id":  view.NextQuestionID,
			"selected_answer":   selected,
			"is_answer_correct": isCorrect,
			"answered":          answered,
			"explanation":       common.RenderMarkdown(view.Question.Explanation),
			"difficulty":        view.Question.Difficulty,
			"categories":        models.MenuCategories(q.db),
		})
	}
}

func (q *QuizModule) question(c *gin.Context) {
	view, err := q.service.Random(c.Param("uid"))
	if err != nil {
		q.fail(c, err)
		return
	}

	tracker := NewTracker(sessions.Default(c))
	if tracker.Begin() {
		if err := tracker.Save(); err != nil {
			log.Printf("Error saving quiz session: %v", err)
		}
	}

	c.HTML(http.StatusOK, "quiz_random.html", gin.H{
		"question":                view.Question,
		"options":                 view.Options,
		"correct_answer_position": view.CorrectAnswerPosition,
		"correct_answer":          view.Question.CorrectAnswer(),
		"next_question":           view.NextQuestion,
		"related":                 view.Related,
		"explanation":             common.RenderMarkdown(view.Question.Explanation),
		"progress":                tracker.Progress(),
		"categories":              models.MenuCategories(q.db),
	})
}

type answerPayload struct {
	SelectedAnswer string `json:"selected_answer"`
	CorrectAnswer  string `json:"correct_answer"`
}

func (q *QuizModule) updateResults(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error"})
		return
	}

	var payload answerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error"})
		return
	}

	progress, err := NewTracker(sessions.Default(c)).Record(payload.SelectedAnswer, payload.CorrectAnswer)
	if err != nil {
		log.Printf("Error saving quiz progress: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"attempted": progress.Attempted,
		"correct":   progress.Correct,
		"incorrect": progress.Incorrect,
	})
}

func (q *QuizModule) endPractice(c *gin.Context) {
	tracker := NewTracker(sessions.Default(c))

	view, err := q.service.Results(tracker.Progress())
	if _, finishErr := tracker.Finish(); finishErr != nil {
		log.Printf("Error clearing quiz session: %v", finishErr)
	}
	if err != nil {
		q.fail(c, err)
		return
	}

	c.HTML(http.StatusOK, "quiz_results.html", gin.H{
		"attempted_questions": view.Progress.Attempted,
		"correct_answers":     view.Progress.Correct,
		"incorrect_answers":   view.Progress.Incorrect,
		"percentage":          view.Percentage,
		"next_question":       view.NextQuestion,
		"categories":          models.MenuCategories(q.db),
	})
}

func (q *QuizModule) testSeries(c *gin.Context) {
	page, err := q.service.TestSeries(common.ParsePage(c.Query("page")))
	if err != nil {
		q.fail(c, err)
		return
	}

	total, err := q.service.TotalQuestions()
	if err != nil {
		q.fail(c, err)
		return
	}

	next, err := q.service.AnyQuestion()
	if err != nil {
		q.fail(c, err)
		return
	}

	c.HTML(http.StatusOK, "quiz_test_series.html", gin.H{
		"purposes":        page,
		"total_questions": total,
		"next_question":   next,
		"categories":      models.MenuCategories(q.db),
	})
}

func (q *QuizModule) subCategoryTests(c *gin.Context) {
	tree, err := q.service.SubCategoryTree()
	if err != nil {
		q.fail(c, err)
		return
	}

	total, err := q.service.TotalQuestions()
	if err != nil {
		q.fail(c, err)
		return
	}

	next, err := q.service.AnyQuestion()
	if err != nil {
		q.fail(c, err)
		return
	}

	c.HTML(http.StatusOK, "quiz_sub_categories.html", gin.H{
		"tree":            tree,
		"total_questions": total,
		"next_question":   next,
		"categories":      models.MenuCategories(q.db),
	})
}
