package quiz

import (
	"encoding/json"
	"html/template"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"ramsblog/models"
)

const testTemplates = `
{{define "quiz_question.html"}}q={{.question.Question}}|next={{.next_question_id}}|answered={{.answered}}|correct={{.is_answer_correct}}|selected={{.selected_answer}}|options={{range .options}}{{.}};{{end}}{{end}}
{{define "quiz_random.html"}}q={{.question.UID}}|pos={{.correct_answer_position}}|next={{.next_question.UID}}|related={{range .related}}{{.UID}};{{end}}{{end}}
{{define "quiz_results.html"}}attempted={{.attempted_questions}}|correct={{.correct_answers}}|incorrect={{.incorrect_answers}}|pct={{printf "%.1f" .percentage}}|next={{if .next_question}}yes{{else}}none{{end}}{{end}}
{{define "quiz_test_series.html"}}total={{.total_questions}}|purposes={{range .purposes.Items}}{{.Slug}};{{end}}{{end}}
{{define "quiz_sub_categories.html"}}total={{.total_questions}}|tree={{range .tree}}{{.Slug}}({{range .SubCategories}}{{.Slug}};{{end}}){{end}}{{end}}
{{define "error.html"}}error={{.error}}{{end}}
`

// client replays the session cookie across requests like a browser.
type client struct {
	router  *gin.Engine
	cookies []*http.Cookie
}

func (cl *client) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range cl.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	cl.router.ServeHTTP(w, req)
	if got := w.Result().Cookies(); len(got) > 0 {
		cl.cookies = got
	}
	return w
}

func (cl *client) get(path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", path, nil)
	return cl.do(req)
}

func (cl *client) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return cl.do(req)
}

func (cl *client) postJSON(path, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return cl.do(req)
}

func setupTestClient(t *testing.T) (*client, *gorm.DB) {
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)

	router := gin.New()
	router.Use(sessions.Sessions("test-session", cookie.NewStore([]byte("test-secret"))))
	router.SetHTMLTemplate(template.Must(template.New("").Parse(testTemplates)))

	NewQuizModuleWithRand(db, rand.New(rand.NewPCG(9, 9))).RegisterRoutes(router)
	return &client{router: router}, db
}

func TestSequential_DeliversInOrderThenRedirects(t *testing.T) {
	cl, db := setupTestClient(t)
	cat := createCategory(t, db, "Geography")
	createQuestion(t, db, "Rivers", &cat.ID)
	createQuestion(t, db, "Mountains", &cat.ID)

	w := cl.get("/category-wise-question/geography/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "q=Rivers|next=1")

	w = cl.get("/category-wise-question/geography/?current_question=1")
	assert.Contains(t, w.Body.String(), "q=Mountains|next=2")

	w = cl.get("/category-wise-question/geography/?current_question=2")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/endpractice/", w.Header().Get("Location"))
}

func TestSequential_BadOffsetIsZero(t *testing.T) {
	cl, db := setupTestClient(t)
	cat := createCategory(t, db, "Geography")
	createQuestion(t, db, "Rivers", &cat.ID)

	for _, raw := range []string{"abc", "-4", ""} {
		w := cl.get("/category-wise-question/geography/?current_question=" + raw)
		assert.Contains(t, w.Body.String(), "q=Rivers|next=1", raw)
	}
}

func TestSequential_AllGroupings(t *testing.T) {
	cl, db := setupTestClient(t)
	cat := createCategory(t, db, "Science")
	sub := createSubCategory(t, db, "Optics", cat.ID)
	purpose := createPurpose(t, db, "Board Exams")

	q := createQuestion(t, db, "Light", &cat.ID)
	require.NoError(t, db.Model(q).Updates(map[string]interface{}{
		"sub_category_id": sub.ID,
		"purpose_id":      purpose.ID,
	}).Error)

	assert.Contains(t, cl.get("/sub-category-wise-question/optics/").Body.String(), "q=Light")
	assert.Contains(t, cl.get("/purpose-wise-question/board-exams/").Body.String(), "q=Light")
}

func TestSequential_UnknownSlug(t *testing.T) {
	cl, _ := setupTestClient(t)

	w := cl.get("/purpose-wise-question/nothing/")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "error=")
}

func TestSequential_AnswerIsRecordedForOffset(t *testing.T) {
	cl, db := setupTestClient(t)
	cat := createCategory(t, db, "Geography")
	createQuestion(t, db, "Rivers", &cat.ID)
	createQuestion(t, db, "Mountains", &cat.ID)

	w := cl.get("/category-wise-question/geography/")
	assert.Contains(t, w.Body.String(), "answered=false")

	w = cl.postForm("/category-wise-question/geography/?current_question=0", url.Values{"mcq_option": {"Rivers B"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "answered=true|correct=true|selected=Rivers B")

	w = cl.postForm("/category-wise-question/geography/?current_question=1", url.Values{"mcq_option": {"Mountains A"}})
	assert.Contains(t, w.Body.String(), "answered=true|correct=false|selected=Mountains A")

	w = cl.get("/category-wise-question/geography/?current_question=0")
	assert.Contains(t, w.Body.String(), "answered=false")
}

func TestSequential_AnswersDoNotChangeCounters(t *testing.T) {
	cl, db := setupTestClient(t)
	cat := createCategory(t, db, "Geography")
	createQuestion(t, db, "Rivers", &cat.ID)

	cl.postForm("/category-wise-question/geography/", url.Values{"mcq_option": {"Rivers B"}})
	cl.postForm("/category-wise-question/geography/", url.Values{"mcq_option": {"Rivers C"}})

	w := cl.get("/endpractice/")
	assert.Contains(t, w.Body.String(), "attempted=0|correct=0|incorrect=0|pct=0.0")
}

func TestRandomQuestion(t *testing.T) {
	cl, db := setupTestClient(t)
	var uids []string
	for _, text := range []string{"One", "Two", "Three", "Four", "Five", "Six", "Seven"} {
		uids = append(uids, createQuestion(t, db, text, nil).UID)
	}

	w := cl.get("/question/" + uids[0] + "/")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "q="+uids[0])

	related := body[strings.Index(body, "related=")+len("related="):]
	parts := strings.Split(strings.TrimSuffix(related, ";"), ";")
	assert.Len(t, parts, 5)
	for _, uid := range parts {
		assert.NotEqual(t, uids[0], uid)
		assert.Contains(t, uids, uid)
	}

	next := body[strings.Index(body, "next=")+len("next=") : strings.Index(body, "|related=")]
	assert.NotEqual(t, uids[0], next)
	assert.Contains(t, uids, next)
}

func TestRandomQuestion_InitializesCounters(t *testing.T) {
	cl, db := setupTestClient(t)
	q := createQuestion(t, db, "One", nil)
	createQuestion(t, db, "Two", nil)

	w := cl.get("/question/" + q.UID + "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, cl.cookies)

	w = cl.get("/endpractice/")
	assert.Contains(t, w.Body.String(), "attempted=0|correct=0|incorrect=0")
}

func TestRandomQuestion_SoleQuestionRedirects(t *testing.T) {
	cl, db := setupTestClient(t)
	q := createQuestion(t, db, "Only", nil)

	w := cl.get("/question/" + q.UID + "/")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/endpractice/", w.Header().Get("Location"))
}

func TestRandomQuestion_NotFound(t *testing.T) {
	cl, db := setupTestClient(t)
	createQuestion(t, db, "One", nil)

	assert.Equal(t, http.StatusNotFound, cl.get("/question/not-a-uuid/").Code)
	assert.Equal(t, http.StatusNotFound, cl.get("/question/"+testUID+"/").Code)
}

func TestUpdateResults_CountsAndResults(t *testing.T) {
	cl, db := setupTestClient(t)
	createQuestion(t, db, "One", nil)

	submissions := []string{
		`{"selected_answer":"A","correct_answer":"A"}`,
		`{"selected_answer":"B","correct_answer":"A"}`,
		`{"selected_answer":"C","correct_answer":"C"}`,
	}
	var resp map[string]interface{}
	for _, body := range submissions {
		w := cl.postJSON("/update-session-results/", body)
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "success", resp["status"])
	}
	assert.Equal(t, float64(3), resp["attempted"])
	assert.Equal(t, float64(2), resp["correct"])
	assert.Equal(t, float64(1), resp["incorrect"])

	w := cl.get("/endpractice/")
	assert.Contains(t, w.Body.String(), "attempted=3|correct=2|incorrect=1|pct=66.7|next=yes")

	w = cl.get("/endpractice/")
	assert.Contains(t, w.Body.String(), "attempted=0|correct=0|incorrect=0|pct=0.0")
}

func TestUpdateResults_BadRequests(t *testing.T) {
	cl, _ := setupTestClient(t)

	w := cl.get("/update-session-results/")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"status":"error"}`, w.Body.String())

	w = cl.postJSON("/update-session-results/", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"status":"error"}`, w.Body.String())

	w = cl.get("/endpractice/")
	assert.Contains(t, w.Body.String(), "attempted=0")
}

func TestEndPractice_ClearsSessionWhenLookupFails(t *testing.T) {
	cl, db := setupTestClient(t)
	createQuestion(t, db, "One", nil)

	w := cl.postJSON("/update-session-results/", `{"selected_answer":"A","correct_answer":"A"}`)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, db.Migrator().DropTable(&models.Question{}))
	w = cl.get("/endpractice/")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]interface{}
	w = cl.postJSON("/update-session-results/", `{"selected_answer":"A","correct_answer":"B"}`)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(1), resp["attempted"])
	assert.Equal(t, float64(0), resp["correct"])
	assert.Equal(t, float64(1), resp["incorrect"])
}

func TestEndPractice_NoQuestions(t *testing.T) {
	cl, _ := setupTestClient(t)

	w := cl.get("/endpractice/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pct=0.0|next=none")
}

func TestListings(t *testing.T) {
	cl, db := setupTestClient(t)
	cat := createCategory(t, db, "Science")
	createSubCategory(t, db, "Optics", cat.ID)
	createPurpose(t, db, "Board Exams")
	createQuestion(t, db, "One", nil)

	w := cl.get("/all-test-series/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "total=1|purposes=board-exams;")

	w = cl.get("/all-sub-category-test/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tree=science(optics;)")
}
