package tmpl

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type navItem struct {
	Title  string
	Href   string
	Active bool
}

type flash struct {
	Kind    string
	Message string
}

type layoutOnly struct {
	Title    string
	Nav      []navItem
	Flashes  []flash
	Warnings []string
	Message  string
	CSRF     string
}

func TestLoad_ParsesEveryPage(t *testing.T) {
	templates := Load("v1")
	assert.ElementsMatch(t, []string{"page.html", "feedback.html", "error.html"}, templates.Names())
}

func TestExecuteTemplate_RendersThroughLayout(t *testing.T) {
	templates := Load("v42")

	var buf bytes.Buffer
	err := templates.ExecuteTemplate(&buf, "error.html", layoutOnly{
		Title:    "Page not found",
		Warnings: []string{"Could not save your reading progress."},
		Message:  "There is no such page in the guide.",
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "<title>Page not found · LLM Guide for Startups</title>")
	assert.Contains(t, out, "/static/style.css?v=v42")
	assert.Contains(t, out, "There is no such page in the guide.")
	assert.Contains(t, out, `class="flash flash-warning"`)
}

func TestExecuteTemplate_UnknownName(t *testing.T) {
	err := Load("v1").ExecuteTemplate(&bytes.Buffer{}, "missing.html", nil)
	assert.EqualError(t, err, `template "missing.html" not found`)
}

func TestStars_ClampsToRatingScale(t *testing.T) {
	assert.Equal(t, "★★★", stars(3))
	assert.Equal(t, "★★★★★", stars(5))
	assert.Equal(t, "★★★★★", stars(1<<40))
	assert.Equal(t, "", stars(-2))
}
