package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/LianHaeming/llmguide/feedback"
	"github.com/LianHaeming/llmguide/models"
	"github.com/LianHaeming/llmguide/session"
)

// maxFeedbackUpload bounds the multipart form held in memory. Only the
// attachment's file name is kept.
const maxFeedbackUpload = 10 << 20

// FeedbackData is the template data for the feedback page.
type FeedbackData struct {
	Layout
	Form            models.FeedbackEntry
	Error           string
	Topics          []string
	AttachmentTypes []string
	Entries         []models.FeedbackEntry
}

// HandleFeedbackPage renders the feedback form and the public list.
func (d *Deps) HandleFeedbackPage(w http.ResponseWriter, r *http.Request) {
	sess := d.Sessions.Get(w, r)
	sess.Lock()
	defer sess.Unlock()

	d.renderFeedback(w, r, sess, models.FeedbackEntry{Rating: models.DefaultRating}, "", http.StatusOK)
}

// HandleSubmitFeedback records a feedback entry. An invalid entry re-renders
// the form with the reader's input and the validation message.
func (d *Deps) HandleSubmitFeedback(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFeedbackUpload); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	entry := models.FeedbackEntry{
		Name:    r.PostFormValue("name"),
		Email:   r.PostFormValue("email"),
		Comment: r.PostFormValue("comment"),
		Topic:   r.PostFormValue("topic"),
	}
	entry.Rating, _ = strconv.Atoi(strings.TrimSpace(r.PostFormValue("rating")))

	if file, header, err := r.FormFile("attachment"); err == nil {
		entry.AttachmentName = header.Filename
		file.Close()
	}

	sess := d.Sessions.Get(w, r)
	sess.Lock()
	defer sess.Unlock()

	saved, err := d.Feedback.Submit(entry)
	if err != nil {
		d.Logger.Info("Feedback rejected", zap.Error(err))
		d.renderFeedback(w, r, sess, saved, validationMessage(err), http.StatusUnprocessableEntity)
		return
	}

	sess.AddFlash(session.FlashSuccess, "Thank you for your feedback!")
	flashWarnings(sess, d.Feedback.TakeWarnings())
	seeOther(w, r, "/feedback")
}

// HandleExportFeedback downloads every entry as CSV for the admin.
func (d *Deps) HandleExportFeedback(w http.ResponseWriter, r *http.Request) {
	if !d.Feedback.Authorize(r.PostFormValue("passphrase")) {
		d.Logger.Warn("Rejected feedback export")
		d.flashAndReturn(w, r, session.FlashError, "Invalid passphrase.")
		return
	}

	data, err := d.Feedback.ExportCSV()
	if err != nil {
		d.Logger.Error("Feedback export failed", zap.Error(err))
		d.flashAndReturn(w, r, session.FlashError, "Could not export feedback.")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="feedback_backup.csv"`)
	w.Write(data)
}

// HandleClearFeedback deletes all feedback after passphrase and confirmation.
func (d *Deps) HandleClearFeedback(w http.ResponseWriter, r *http.Request) {
	confirmed := r.PostFormValue("confirm") != ""
	err := d.Feedback.ClearAll(r.PostFormValue("passphrase"), confirmed)
	switch {
	case errors.Is(err, feedback.ErrUnauthorized):
		d.flashAndReturn(w, r, session.FlashError, "Invalid passphrase or confirmation missing.")
	case err != nil:
		d.Logger.Error("Feedback clear failed", zap.Error(err))
		d.flashAndReturn(w, r, session.FlashError, "Could not clear feedback.")
	default:
		d.flashAndReturn(w, r, session.FlashSuccess, "All feedback has been cleared.")
	}
}

func (d *Deps) flashAndReturn(w http.ResponseWriter, r *http.Request, kind, msg string) {
	sess := d.Sessions.Get(w, r)
	sess.Lock()
	sess.AddFlash(kind, msg)
	sess.Unlock()
	seeOther(w, r, "/feedback")
}

// renderFeedback renders the feedback page. The caller must hold the
// session lock.
func (d *Deps) renderFeedback(w http.ResponseWriter, r *http.Request, sess *session.Session, form models.FeedbackEntry, errMsg string, status int) {
	if form.Topic == "" {
		form.Topic = "None"
	}
	data := FeedbackData{
		Layout:          d.layout(r, sess, "Feedback", "feedback"),
		Form:            form,
		Error:           errMsg,
		Topics:          models.FeedbackTopics,
		AttachmentTypes: feedback.AttachmentTypes,
		Entries:         d.Feedback.ListAll(),
	}
	data.Warnings = d.Feedback.TakeWarnings()
	d.renderStatus(w, "feedback.html", data, status)
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, feedback.ErrMissingName):
		return "Please enter your name to submit the form."
	case errors.Is(err, feedback.ErrInvalidEmail):
		return "Invalid email format."
	default:
		msg := err.Error()
		return strings.ToUpper(msg[:1]) + msg[1:] + "."
	}
}
