package controller

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	apperrors "github.com/UjjawalSah/MailScheduler/internal/errors"
	"github.com/UjjawalSah/MailScheduler/internal/model"
	"github.com/UjjawalSah/MailScheduler/internal/service"
)

const maxUploadBytes = 32 << 20

// CampaignController exposes the campaign submission endpoint.
type CampaignController struct {
	CampaignService *service.CampaignService
	UploadDir       string
	Log             *logrus.Logger
}

// SubmitForm handles POST /api/submit-form: a multipart form carrying the
// campaign fields plus optional file attachments. On success it responds
// with the generated form id and the delivery job id.
func (c *CampaignController) SubmitForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		c.writeError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	accountName := strings.TrimSpace(r.FormValue("accountName"))
	accountEmail := strings.TrimSpace(r.FormValue("accountEmail"))
	if header := strings.TrimSpace(r.Header.Get("X-Account-Email")); header != "" {
		accountEmail = header
	}
	if accountName == "" || accountEmail == "" {
		c.writeError(w, http.StatusUnauthorized, "User not logged in. Missing account details.")
		return
	}

	recipients := r.Form["recipientEmails[]"]
	if len(recipients) == 0 {
		recipients = r.Form["recipientEmails"]
	}
	for _, rcpt := range recipients {
		if strings.TrimSpace(rcpt) == "" {
			recipients = nil
			break
		}
	}
	if len(recipients) == 0 {
		c.writeError(w, http.StatusBadRequest, "Recipient emails are missing or invalid.")
		return
	}

	attachments, err := c.saveAttachments(r)
	if err != nil {
		c.Log.WithError(err).Error("failed to store attachments")
		c.writeError(w, http.StatusInternalServerError, "Failed to store attachments")
		return
	}

	campaign := &model.Campaign{
		AccountEmail:      accountEmail,
		SenderEmail:       strings.TrimSpace(r.FormValue("senderEmail")),
		RecipientEmails:   recipients,
		Title:             r.FormValue("title"),
		Content:           r.FormValue("content"),
		ScheduledDateTime: r.FormValue("scheduledDateTime"),
		Attachments:       attachments,
	}

	formID, jobID, err := c.CampaignService.SubmitCampaign(campaign, accountEmail)
	if err != nil {
		c.Log.WithField("form_id", formID).WithError(err).Error("campaign submission failed")
		c.writeError(w, statusFor(err), err.Error())
		return
	}

	c.writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":           "Form submitted successfully",
		"formId":            formID,
		"schedulerResponse": jobID,
	})
}

// saveAttachments copies each uploaded file into the upload directory under
// a uuid-prefixed name so uploads never collide or escape the directory.
func (c *CampaignController) saveAttachments(r *http.Request) ([]string, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	var saved []string
	for _, header := range r.MultipartForm.File["files"] {
		src, err := header.Open()
		if err != nil {
			return nil, err
		}

		name := uuid.New().String() + "_" + filepath.Base(header.Filename)
		dest := filepath.Join(c.UploadDir, name)
		dst, err := os.Create(dest)
		if err != nil {
			src.Close()
			return nil, err
		}

		_, err = io.Copy(dst, src)
		src.Close()
		dst.Close()
		if err != nil {
			return nil, err
		}
		saved = append(saved, dest)
	}
	return saved, nil
}

func statusFor(err error) int {
	switch {
	case apperrors.IsValidation(err):
		return http.StatusBadRequest
	case apperrors.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (c *CampaignController) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		c.Log.WithError(err).Error("failed to encode response")
	}
}

func (c *CampaignController) writeError(w http.ResponseWriter, status int, msg string) {
	c.writeJSON(w, status, map[string]string{"error": msg})
}
