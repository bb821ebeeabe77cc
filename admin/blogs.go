package admin

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"ramsblog/cache"
	"ramsblog/common"
	"ramsblog/models"
)

var (
	imageExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}
	pdfExtensions   = map[string]bool{".pdf": true}
)

func (a *AdminModule) listBlogs(c *gin.Context) {
	query := a.db.Model(&models.Blog{}).Preload("Category").Preload("Author").Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	page, err := common.Paginate[models.Blog](query, common.ParsePage(c.Query("page")), listPerPage)
	if err != nil {
		log.Printf("Error loading blogs: %v", err)
		a.renderError(c, http.StatusInternalServerError, "Error loading blogs")
		return
	}

	c.HTML(http.StatusOK, "admin_blogs.html", gin.H{
		"user":   currentUser(c),
		"blogs":  page,
		"status": c.Query("status"),
	})
}

func (a *AdminModule) blogFormData(c *gin.Context, blog models.Blog) gin.H {
	var languages []models.Language
	a.db.Order("name").Find(&languages)

	return gin.H{
		"user":       currentUser(c),
		"blog":       blog,
		"categories": models.MenuCategories(a.db),
		"languages":  languages,
		"statuses":   []string{models.StatusDraft, models.StatusPublished},
	}
}

func (a *AdminModule) blogForm(c *gin.Context) {
	var blog models.Blog
	if !a.loadRecord(c, &blog) {
		return
	}

	c.HTML(http.StatusOK, "admin_blog_form.html", a.blogFormData(c, blog))
}

func (a *AdminModule) saveBlog(c *gin.Context) {
	var blog models.Blog
	if !a.loadRecord(c, &blog) {
		return
	}
	oldSlug := blog.Slug

	blog.Title = strings.TrimSpace(c.PostForm("title"))
	blog.Slug = strings.TrimSpace(c.PostForm("slug"))
	blog.Body = c.PostForm("body")
	blog.Status = c.PostForm("status")
	blog.CategoryID = parseOptionalID(c.PostForm("category_id"))
	blog.LanguageID = parseOptionalID(c.PostForm("language_id"))
	if blog.AuthorID == nil {
		if user := currentUser(c); user != nil {
			blog.AuthorID = &user.ID
		}
	}

	uploads := []struct {
		field   string
		allowed map[string]bool
		target  *string
	}{
		{"list_image", imageExtensions, &blog.ListImage},
		{"detail_image", imageExtensions, &blog.DetailImage},
		{"pdf_file", pdfExtensions, &blog.PDFFile},
	}
	for _, u := range uploads {
		path, err := a.saveUpload(c, u.field, u.allowed)
		if err != nil {
			data := a.blogFormData(c, blog)
			data["error"] = err.Error()
			c.HTML(http.StatusBadRequest, "admin_blog_form.html", data)
			return
		}
		if path != "" {
			*u.target = path
		}
	}

	if err := a.db.Save(&blog).Error; err != nil {
		data := a.blogFormData(c, blog)
		data["error"] = "Error saving blog: " + err.Error()
		c.HTML(http.StatusBadRequest, "admin_blog_form.html", data)
		return
	}

	if err := cache.ClearCache(oldSlug, blog.Slug); err != nil {
		log.Printf("Error clearing cache for %s: %v", blog.Slug, err)
	}

	c.Redirect(http.StatusFound, "/admin/blogs")
}

// saveUpload stores the file of a multipart field under the upload
// directory and returns its path. A missing field yields "".
func (a *AdminModule) saveUpload(c *gin.Context, field string, allowed map[string]bool) (string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", fmt.Errorf("reading %s: %w", field, err)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowed[ext] {
		return "", fmt.Errorf("%s: file type %q is not allowed", field, ext)
	}

	path := filepath.ToSlash(filepath.Join(a.uploadDir, uuid.NewString()+ext))
	if err := c.SaveUploadedFile(file, path); err != nil {
		return "", fmt.Errorf("saving %s: %w", field, err)
	}
	return path, nil
}

func (a *AdminModule) deleteBlog(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	var blog models.Blog
	if err := a.db.First(&blog, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Blog not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading blog"})
		return
	}

	if err := a.db.Delete(&blog).Error; err != nil {
		log.Printf("Error deleting blog %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting blog"})
		return
	}

	if err := cache.ClearCache(blog.Slug); err != nil {
		log.Printf("Error clearing cache for %s: %v", blog.Slug, err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deleted successfully"})
}
