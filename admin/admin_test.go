package admin

import (
	"bytes"
	"fmt"
	"html/template"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"ramsblog/analytics"
	"ramsblog/cache"
	"ramsblog/database"
	"ramsblog/models"
)

const testTemplates = `
{{define "admin_login.html"}}login|error={{.error}}{{end}}
{{define "admin_error.html"}}admin_error={{.error}}{{end}}
{{define "admin_dashboard.html"}}dashboard|user={{.user.Username}}|counts={{range .counts}}{{.Label}}:{{.Count}};{{end}}|analytics={{.analyticsEnabled}}|top={{range .topPosts}}{{.BlogTitle}}:{{.Count}};{{end}}{{end}}
{{define "admin_categories.html"}}categories={{range .categories}}{{.Name}}:{{.Slug}};{{end}}{{end}}
{{define "admin_category_form.html"}}category_form={{.category.Name}}|error={{.error}}{{end}}
{{define "admin_subcategories.html"}}subcategories={{range .subCategories}}{{.Name}}:{{with .Category}}{{.Name}}{{end}};{{end}}{{end}}
{{define "admin_subcategory_form.html"}}subcategory_form|error={{.error}}{{end}}
{{define "admin_purposes.html"}}purposes={{range .purposes}}{{.Title}}:{{.Slug}};{{end}}{{end}}
{{define "admin_purpose_form.html"}}purpose_form|error={{.error}}{{end}}
{{define "admin_languages.html"}}languages={{range .languages}}{{.Name}};{{end}}{{end}}
{{define "admin_language_form.html"}}language_form|error={{.error}}{{end}}
{{define "admin_blogs.html"}}blogs={{range .blogs.Items}}{{.Title}}:{{.Status}};{{end}}{{end}}
{{define "admin_blog_form.html"}}blog_form={{.blog.Title}}|error={{.error}}{{end}}
{{define "admin_questions.html"}}questions={{range .questions.Items}}{{.Question}};{{end}}{{end}}
{{define "admin_question_form.html"}}question_form={{.question.Question}}|error={{.error}}{{end}}
{{define "admin_contacts.html"}}contacts={{range .contacts.Items}}{{.Name}}:{{.Status}};{{end}}{{end}}
{{define "admin_feedback.html"}}feedback={{range .feedback.Items}}{{.OverallExperience}};{{end}}{{end}}
`

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

func (cl *client) delete(path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("DELETE", path, nil)
	return cl.do(req)
}

func (cl *client) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return cl.do(req)
}

func (cl *client) login(t *testing.T, username string) {
	w := cl.postForm("/login", url.Values{"username": {username}, "password": {"password123"}})
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/admin", w.Header().Get("Location"))
}

func setupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))
	return db
}

func setupTestClient(t *testing.T) (*client, *gorm.DB) {
	passwordCost = bcrypt.MinCost
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)

	router := gin.New()
	router.Use(sessions.Sessions("test-session", cookie.NewStore([]byte("secret"))))
	router.SetHTMLTemplate(template.Must(template.New("").Parse(testTemplates)))
	NewAdminModule(db, analytics.NewAnalyticsModule(db), t.TempDir()).RegisterRoutes(router)
	return &client{router: router}, db
}

func setupLoggedIn(t *testing.T) (*client, *gorm.DB, *models.User) {
	cl, db := setupTestClient(t)
	user := createTestUser(t, db, "editor", true)
	cl.login(t, "editor")
	return cl, db, user
}

func createTestUser(t *testing.T, db *gorm.DB, username string, staff bool) *models.User {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		IsStaff:      staff,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestDashboard(t *testing.T) {
	cl, db, _ := setupLoggedIn(t)

	blog := &models.Blog{Title: "Popular", Status: models.StatusPublished}
	require.NoError(t, db.Create(blog).Error)
	require.NoError(t, db.Create(&analytics.BlogVisit{BlogID: blog.ID, CookieID: "a", IP: "1.1.1.1", CreatedAt: time.Now()}).Error)
	require.NoError(t, db.Create(&models.ContactRequest{Name: "A", Phone: "1", Email: "a@example.com", Subject: "s", Message: "m"}).Error)

	w := cl.get("/admin")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Blogs:1;")
	assert.Contains(t, body, "Contact requests:1;")
	assert.Contains(t, body, "Questions:0;")
	assert.Contains(t, body, "analytics=true")
	assert.Contains(t, body, "top=Popular:1;")
}

func TestCategoryCRUD(t *testing.T) {
	cl, db, _ := setupLoggedIn(t)

	w := cl.postForm("/admin/categories", url.Values{"name": {"Modern History"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/categories", w.Header().Get("Location"))

	var category models.Category
	require.NoError(t, db.Where("name = ?", "Modern History").First(&category).Error)
	assert.Equal(t, "modern-history", category.Slug)

	w = cl.get(fmt.Sprintf("/admin/categories/%d", category.ID))
	assert.Contains(t, w.Body.String(), "category_form=Modern History")

	w = cl.postForm(fmt.Sprintf("/admin/categories/%d", category.ID), url.Values{"name": {"Medieval History"}, "slug": {"medieval"}})
	assert.Equal(t, http.StatusFound, w.Code)

	w = cl.get("/admin/categories")
	assert.Contains(t, w.Body.String(), "categories=Medieval History:medieval;")

	w = cl.postForm("/admin/categories", url.Values{"name": {"Medieval History"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "error=Error saving category")

	w = cl.delete(fmt.Sprintf("/admin/categories/%d", category.ID))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusNotFound, cl.delete(fmt.Sprintf("/admin/categories/%d", category.ID)).Code)
	assert.Equal(t, http.StatusBadRequest, cl.delete("/admin/categories/abc").Code)

	assert.Equal(t, http.StatusNotFound, cl.get("/admin/categories/999").Code)
}

func TestSubCategoryPurposeLanguage(t *testing.T) {
	cl, db, _ := setupLoggedIn(t)

	category := &models.Category{Name: "Science"}
	require.NoError(t, db.Create(category).Error)

	w := cl.postForm("/admin/subcategories", url.Values{"name": {"Physics"}, "category_id": {fmt.Sprint(category.ID)}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, cl.get("/admin/subcategories").Body.String(), "subcategories=Physics:Science;")

	w = cl.postForm("/admin/purposes", url.Values{"title": {"Bank PO"}, "description": {"Banking exams"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, cl.get("/admin/purposes").Body.String(), "purposes=Bank PO:bank-po;")

	w = cl.postForm("/admin/languages", url.Values{"name": {"French"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, cl.get("/admin/languages").Body.String(), "languages=English;Hindi;")
}

func TestBlogCreateWithUploadAndCacheClear(t *testing.T) {
	cache.Dir = t.TempDir()
	defer func() { cache.Dir = "cache" }()

	cl, db, user := setupLoggedIn(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("title", "Exam Tips")
	mw.WriteField("body", "Read **daily**.")
	mw.WriteField("status", models.StatusPublished)
	part, err := mw.CreateFormFile("list_image", "cover.PNG")
	require.NoError(t, err)
	part.Write([]byte("png-bytes"))
	require.NoError(t, mw.Close())

	req, _ := http.NewRequest("POST", "/admin/blogs", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := cl.do(req)
	require.Equal(t, http.StatusFound, w.Code)

	var blog models.Blog
	require.NoError(t, db.Where("title = ?", "Exam Tips").First(&blog).Error)
	assert.Equal(t, "exam-tips", blog.Slug)
	assert.Equal(t, models.StatusPublished, blog.Status)
	require.NotNil(t, blog.AuthorID)
	assert.Equal(t, user.ID, *blog.AuthorID)
	assert.True(t, strings.HasSuffix(blog.ListImage, ".png"))
	_, err = os.Stat(filepath.FromSlash(blog.ListImage))
	assert.NoError(t, err)

	require.NoError(t, cache.WriteCache(blog.Slug, "<html>old</html>"))
	w = cl.postForm(fmt.Sprintf("/admin/blogs/%d", blog.ID), url.Values{
		"title":  {"Exam Tips"},
		"slug":   {blog.Slug},
		"body":   {"Updated"},
		"status": {models.StatusPublished},
	})
	require.Equal(t, http.StatusFound, w.Code)
	_, found := cache.ReadCache(blog.Slug, time.Hour)
	assert.False(t, found)

	require.NoError(t, db.First(&blog, blog.ID).Error)
	assert.Equal(t, "Updated", blog.Body)
	assert.NotEmpty(t, blog.ListImage)

	assert.Contains(t, cl.get("/admin/blogs").Body.String(), "blogs=Exam Tips:published;")
	assert.Equal(t, http.StatusOK, cl.delete(fmt.Sprintf("/admin/blogs/%d", blog.ID)).Code)
	assert.Equal(t, http.StatusNotFound, cl.delete(fmt.Sprintf("/admin/blogs/%d", blog.ID)).Code)
}

func TestBlogRejectsBadUploadAndStatus(t *testing.T) {
	cl, _, _ := setupLoggedIn(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("title", "Bad Upload")
	part, _ := mw.CreateFormFile("pdf_file", "script.sh")
	part.Write([]byte("#!/bin/sh"))
	mw.Close()

	req, _ := http.NewRequest("POST", "/admin/blogs", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := cl.do(req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "not allowed")

	w = cl.postForm("/admin/blogs", url.Values{"title": {"Odd"}, "status": {"archived"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "blog_form=Odd|error=Error saving blog")
}

func TestQuestionCRUDAndFilters(t *testing.T) {
	cl, db, _ := setupLoggedIn(t)

	category := &models.Category{Name: "Polity"}
	require.NoError(t, db.Create(category).Error)

	w := cl.postForm("/admin/questions", url.Values{
		"question":       {"Who appoints the Governor?"},
		"category_id":    {fmt.Sprint(category.ID)},
		"option1":        {"Prime Minister"},
		"option2":        {"President"},
		"option3":        {"Chief Justice"},
		"option4":        {"Parliament"},
		"correct_option": {"option2"},
		"difficulty":     {models.DifficultyEasy},
	})
	require.Equal(t, http.StatusFound, w.Code)

	var q models.Question
	require.NoError(t, db.First(&q).Error)
	assert.Equal(t, models.Option2, q.CorrectOption)
	assert.Equal(t, "President", q.CorrectAnswer())
	assert.NotEmpty(t, q.UID)

	require.NoError(t, db.Create(&models.Question{Question: "Speed of light?", Option1: "a", Option2: "b", Option3: "c", Option4: "d", Difficulty: models.DifficultyHard}).Error)

	assert.Contains(t, cl.get("/admin/questions?q=governor").Body.String(), "questions=Who appoints the Governor?;")
	assert.Equal(t, "questions=Speed of light?;", cl.get("/admin/questions?difficulty=hard").Body.String())
	assert.Equal(t, "questions=Who appoints the Governor?;", cl.get(fmt.Sprintf("/admin/questions?category=%d", category.ID)).Body.String())

	w = cl.postForm("/admin/questions", url.Values{
		"question": {"Incomplete"}, "option1": {"a"}, "option2": {"b"}, "option3": {"c"}, "option4": {"d"},
		"correct_option": {"option9"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "question_form=Incomplete|error=")

	w = cl.postForm("/admin/questions", url.Values{"question": {"No options"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, http.StatusOK, cl.delete(fmt.Sprintf("/admin/questions/%d", q.ID)).Code)
}

func TestContactsAndFeedback(t *testing.T) {
	cl, db, _ := setupLoggedIn(t)

	req := &models.ContactRequest{Name: "Meera", Phone: "12345", Email: "meera@example.com", Subject: "Hi", Message: "Hello"}
	require.NoError(t, db.Create(req).Error)
	require.NoError(t, db.Create(&models.Feedback{ContentQuality: "4"}).Error)

	assert.Contains(t, cl.get("/admin/contacts").Body.String(), "contacts=Meera:new;")

	w := cl.postForm(fmt.Sprintf("/admin/contacts/%d/status", req.ID), url.Values{"status": {models.ContactResolved}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, cl.get("/admin/contacts?status=resolved").Body.String(), "contacts=Meera:resolved;")
	assert.Equal(t, "contacts=", cl.get("/admin/contacts?status=new").Body.String())

	w = cl.postForm(fmt.Sprintf("/admin/contacts/%d/status", req.ID), url.Values{"status": {"closed"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, "feedback=5;", cl.get("/admin/feedback").Body.String())
}

func TestClearCache(t *testing.T) {
	cache.Dir = t.TempDir()
	defer func() { cache.Dir = "cache" }()

	cl, _, _ := setupLoggedIn(t)
	require.NoError(t, cache.WriteCache("some-post", "<html></html>"))

	req, _ := http.NewRequest("POST", "/admin/cache/clear", nil)
	w := cl.do(req)
	assert.Equal(t, http.StatusOK, w.Code)

	_, found := cache.ReadCache("some-post", time.Hour)
	assert.False(t, found)
}
