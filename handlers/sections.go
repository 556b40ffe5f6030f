package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/LianHaeming/llmguide/content"
	"github.com/LianHaeming/llmguide/expansion"
	"github.com/LianHaeming/llmguide/render"
	"github.com/LianHaeming/llmguide/session"
)

// HandleToggleProgress marks one section read or unread and saves the page's
// progress right away.
func (d *Deps) HandleToggleProgress(w http.ResponseWriter, r *http.Request) {
	page, ok := d.trackedPage(w, r)
	if !ok {
		return
	}

	key, err := page.SectionKey(r.PostFormValue("title"))
	if err != nil {
		http.Error(w, "Unknown section", http.StatusBadRequest)
		return
	}
	completed, err := strconv.ParseBool(r.PostFormValue("completed"))
	if err != nil {
		http.Error(w, "completed must be true or false", http.StatusBadRequest)
		return
	}

	sess := d.Sessions.Get(w, r)
	sess.Lock()
	defer sess.Unlock()

	// Start from the durable set so a toggle never resurrects stale state.
	sess.Tracker.Load(page.Key)
	sess.Tracker.Toggle(key, completed)
	sess.Tracker.Save(page.Key)
	flashWarnings(sess, sess.Tracker.TakeWarnings())

	d.Logger.Debug("Section toggled",
		zap.String("page", page.Key),
		zap.String("section", key.Title),
		zap.Bool("completed", completed),
	)
	seeOther(w, r, pageURL(page.Key)+"#"+render.Anchor(key.Title))
}

// HandleResetProgress clears the page's progress, collapses its sections and
// drops the sub-topic filter.
func (d *Deps) HandleResetProgress(w http.ResponseWriter, r *http.Request) {
	page, ok := d.trackedPage(w, r)
	if !ok {
		return
	}

	sess := d.Sessions.Get(w, r)
	sess.Lock()
	defer sess.Unlock()

	sess.Tracker.Reset(page.Key, page.Titles())
	ps := sess.Page(page.Key)
	ps.Expansion.ResetDisplay()
	ps.Subtopic = session.AllSubtopics
	flashWarnings(sess, sess.Tracker.TakeWarnings())

	seeOther(w, r, pageURL(page.Key))
}

// HandleExpansion issues an expand-all / collapse-all command for the next
// render, or expands or collapses a single section.
func (d *Deps) HandleExpansion(w http.ResponseWriter, r *http.Request) {
	page, ok := d.Catalog.Page(r.PathValue("page"))
	if !ok {
		d.notFound(w, r)
		return
	}

	if c := r.PostFormValue("command"); c != "" {
		cmd, ok := expansion.ParseCommand(c)
		if !ok {
			http.Error(w, "command must be expand-all or collapse-all", http.StatusBadRequest)
			return
		}
		sess := d.Sessions.Get(w, r)
		sess.Lock()
		sess.Page(page.Key).Expansion.Issue(cmd)
		sess.Unlock()

		seeOther(w, r, pageURL(page.Key))
		return
	}

	key, err := page.SectionKey(r.PostFormValue("title"))
	if err != nil {
		http.Error(w, "Unknown section", http.StatusBadRequest)
		return
	}
	expanded, err := strconv.ParseBool(r.PostFormValue("expanded"))
	if err != nil {
		http.Error(w, "expanded must be true or false", http.StatusBadRequest)
		return
	}

	sess := d.Sessions.Get(w, r)
	sess.Lock()
	sess.Page(page.Key).Expansion.Set(key.Title, expanded)
	sess.Unlock()

	seeOther(w, r, pageURL(page.Key)+"#"+render.Anchor(key.Title))
}

// trackedPage resolves the {page} path value to a page with progress
// tracking, writing the error response when there is none.
func (d *Deps) trackedPage(w http.ResponseWriter, r *http.Request) (*content.Page, bool) {
	page, ok := d.Catalog.Page(r.PathValue("page"))
	if !ok {
		d.notFound(w, r)
		return nil, false
	}
	if !page.Tracked {
		http.Error(w, "This page has no progress tracking", http.StatusBadRequest)
		return nil, false
	}
	return page, true
}

func flashWarnings(sess *session.Session, warnings []string) {
	for _, msg := range warnings {
		sess.AddFlash(session.FlashWarning, msg)
	}
}

func seeOther(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusSeeOther)
}
