package admin

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"ramsblog/common"
	"ramsblog/models"
)

var contactStatuses = []string{models.ContactNew, models.ContactInProgress, models.ContactResolved}

func (a *AdminModule) listContacts(c *gin.Context) {
	query := a.db.Model(&models.ContactRequest{}).Order("created_at DESC")
	status := c.Query("status")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	page, err := common.Paginate[models.ContactRequest](query, common.ParsePage(c.Query("page")), listPerPage)
	if err != nil {
		log.Printf("Error loading contact requests: %v", err)
		a.renderError(c, http.StatusInternalServerError, "Error loading contact requests")
		return
	}

	c.HTML(http.StatusOK, "admin_contacts.html", gin.H{
		"user":     currentUser(c),
		"contacts": page,
		"status":   status,
		"statuses": contactStatuses,
	})
}

func (a *AdminModule) updateContactStatus(c *gin.Context) {
	var req models.ContactRequest
	if !a.loadRecord(c, &req) {
		return
	}

	req.Status = c.PostForm("status")
	if req.Status == "" {
		a.renderError(c, http.StatusBadRequest, "Invalid status")
		return
	}
	if err := a.db.Save(&req).Error; err != nil {
		a.renderError(c, http.StatusBadRequest, "Invalid status")
		return
	}

	c.Redirect(http.StatusFound, "/admin/contacts")
}

func (a *AdminModule) listFeedback(c *gin.Context) {
	page, err := common.Paginate[models.Feedback](
		a.db.Model(&models.Feedback{}).Order("created_at DESC"),
		common.ParsePage(c.Query("page")), listPerPage)
	if err != nil {
		log.Printf("Error loading feedback: %v", err)
		a.renderError(c, http.StatusInternalServerError, "Error loading feedback")
		return
	}

	c.HTML(http.StatusOK, "admin_feedback.html", gin.H{
		"user":     currentUser(c),
		"feedback": page,
	})
}
