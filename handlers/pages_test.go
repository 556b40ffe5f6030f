package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LianHaeming/llmguide/session"
)

func TestHandleHome_RedirectsToGuide(t *testing.T) {
	c := newTestApp(t).client(t)

	rec := c.get("/")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/pages/home", rec.Header().Get("Location"))

	rec = c.get("/no-such-thing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found")
}

func TestHandlePage_RendersPageAndStartsSession(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)

	rec := c.get("/pages/prompt")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "Prompt Like a Pro")
	assert.Contains(t, body, "0 of 9 sections read (0%)")
	assert.Equal(t, 9, strings.Count(body, `class="section-toggle"`))
	assert.Contains(t, body, `id="introduction-to-prompt-engineering"`)

	require.Contains(t, c.cookies, session.CookieName)
	assert.Equal(t, 1, app.deps.Sessions.Len())

	c.get("/pages/prompt")
	assert.Equal(t, 1, app.deps.Sessions.Len(), "the cookie is reused")
}

func TestHandlePage_UnknownPage(t *testing.T) {
	rec := newTestApp(t).client(t).get("/pages/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlePage_UntrackedPageHasNoProgress(t *testing.T) {
	rec := newTestApp(t).client(t).get("/pages/glossary")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, "sections read")
	assert.NotContains(t, body, "Mark as read")
	assert.Equal(t, 14, strings.Count(body, `class="section-toggle"`))
}

func TestHandlePage_SubtopicFilterIsRemembered(t *testing.T) {
	c := newTestApp(t).client(t)

	rec := c.get("/pages/prompt?subtopic=Common+Pitfalls")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, strings.Count(rec.Body.String(), `class="section-toggle"`))
	assert.Contains(t, rec.Body.String(), `id="common-pitfalls"`)

	rec = c.get("/pages/prompt")
	assert.Equal(t, 1, strings.Count(rec.Body.String(), `class="section-toggle"`))
	assert.Contains(t, rec.Body.String(), "0 of 9 sections read", "percent counts every section")

	rec = c.get("/pages/prompt?subtopic=All")
	assert.Equal(t, 9, strings.Count(rec.Body.String(), `class="section-toggle"`))
}

func TestHandlePage_Widgets(t *testing.T) {
	c := newTestApp(t).client(t)
	c.post("/pages/prompt/expansion", formOf("command", "expand-all"))

	rec := c.get("/pages/prompt?quiz-q1=Clear+instructions+with+role%2C+format%2C+and+topic")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "verdict-correct")
	assert.Contains(t, body, "Score: 1 / ")

	c.post("/pages/temperature/expansion", formOf("command", "expand-all"))
	rec = c.get("/pages/temperature?temp=0.2&prompt=Pitch+our+app")
	body = rec.Body.String()
	assert.Contains(t, body, "Low Temperature (Factual &amp; Consistent)")
	assert.Contains(t, body, "Prompt: Pitch our app")

	c.post("/pages/api_cost/expansion", formOf("command", "expand-all"))
	rec = c.get("/pages/api_cost?model=GPT-4+Turbo&tokens_in=1000&tokens_out=500&requests=100")
	body = rec.Body.String()
	// (1000*0.01 + 500*0.03)/1000 * 100 = 2.50 per day
	assert.Contains(t, body, "$2.50")
	assert.Contains(t, body, "$75.00")
}

func TestHandlePage_StaticFiles(t *testing.T) {
	app := newTestApp(t)
	app.deps.StaticDir = "../static"
	app.handler = app.deps.Routes()

	rec := app.client(t).get("/static/style.css")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ".section")
}
