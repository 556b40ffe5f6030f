// Package render runs one render cycle for a guide page: it reads persisted
// progress, consumes the pending expand/collapse command, builds a view of
// each section and writes progress back.
package render

import (
	"fmt"
	"html/template"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/LianHaeming/llmguide/content"
	"github.com/LianHaeming/llmguide/progress"
	"github.com/LianHaeming/llmguide/session"
	"github.com/LianHaeming/llmguide/widgets"
)

// QuestionView is a quiz question with the reader's current choice.
type QuestionView struct {
	Index   int
	Field   string
	Prompt  string
	Options []string
	Choice  string
	Verdict widgets.Verdict
}

// SectionView is everything the template needs for one section.
type SectionView struct {
	Title     string
	Anchor    string
	Body      template.HTML
	Expanded  bool
	Completed bool
	Widget    string

	Quiz        []QuestionView
	QuizScore   int
	QuizAnswers int
	Temperature *widgets.TemperatureDemo
	Cost        *widgets.CostEstimate
	CostModels  []widgets.Rate
}

// PageView is the result of a render cycle.
type PageView struct {
	Page      *content.Page
	Sections  []SectionView
	Subtopics []string
	Subtopic  string

	Tracked     bool
	Completed   int
	Total       int
	Percent     int
	ResetNotice bool
	Warnings    []string
}

// Page renders pageKey for the session. inputs carries the page's query
// parameters (sub-topic filter and widget inputs). The caller must hold the
// session lock.
func Page(sess *session.Session, page *content.Page, inputs url.Values) PageView {
	ps := sess.Page(page.Key)
	ctrl := ps.Expansion

	if v, ok := inputs["subtopic"]; ok && len(v) > 0 {
		ps.Subtopic = session.AllSubtopics
		if _, known := page.Section(v[0]); known {
			ps.Subtopic = v[0]
		}
	}

	view := PageView{
		Page:     page,
		Subtopic: ps.Subtopic,
		Tracked:  page.Tracked,
		Total:    len(page.Sections),
	}
	if page.Subtopic {
		view.Subtopics = append([]string{session.AllSubtopics}, page.Titles()...)
	}

	tracker := sess.Tracker
	if page.Tracked {
		tracker.Load(page.Key)
	}

	var rendered []string
	for i := range page.Sections {
		s := &page.Sections[i]
		if ps.Subtopic != session.AllSubtopics && ps.Subtopic != s.Title {
			continue
		}
		sv := SectionView{
			Title:    s.Title,
			Anchor:   Anchor(s.Title),
			Body:     s.HTML,
			Expanded: ctrl.IsExpanded(s.Title),
			Widget:   s.Widget,
		}
		if page.Tracked {
			sv.Completed = tracker.IsComplete(content.SectionKey{Page: page.Key, Title: s.Title})
		}
		fillWidget(&sv, s, inputs)

		view.Sections = append(view.Sections, sv)
		rendered = append(rendered, s.Title)
	}

	if page.Tracked {
		view.Completed = tracker.CompletedOf(page.Key, page.Titles())
		view.Percent = progress.Percent(view.Completed, view.Total)
		view.ResetNotice = tracker.TakeResetNotice(page.Key)
		tracker.Save(page.Key)
	}
	view.Warnings = tracker.TakeWarnings()

	ctrl.EndCycle(rendered)
	return view
}

func fillWidget(sv *SectionView, s *content.Section, inputs url.Values) {
	switch s.Widget {
	case content.WidgetQuiz:
		for i, q := range s.Quiz {
			field := QuizField(sv.Anchor, i)
			choice := inputs.Get(field)
			v := widgets.Grade(q, choice)
			if !v.Answered {
				choice = ""
			}
			sv.Quiz = append(sv.Quiz, QuestionView{
				Index:   i + 1,
				Field:   field,
				Prompt:  q.Prompt,
				Options: q.Options,
				Choice:  choice,
				Verdict: v,
			})
			if v.Answered {
				sv.QuizAnswers++
			}
			if v.Correct {
				sv.QuizScore++
			}
		}

	case content.WidgetTemperature:
		t := widgets.DefaultTemperature
		if v, err := strconv.ParseFloat(inputs.Get("temp"), 64); err == nil {
			t = v
		}
		demo := widgets.DemoTemperature(t, strings.TrimSpace(inputs.Get("prompt")))
		sv.Temperature = &demo

	case content.WidgetCost:
		in := widgets.DefaultCostInput()
		if m := inputs.Get("model"); m != "" {
			if _, ok := widgets.LookupRate(m); ok {
				in.Model = m
			}
		}
		in.TokensIn = intOr(inputs.Get("tokens_in"), in.TokensIn)
		in.TokensOut = intOr(inputs.Get("tokens_out"), in.TokensOut)
		in.RequestsPerDay = intOr(inputs.Get("requests"), in.RequestsPerDay)
		if est, err := widgets.EstimateCost(in); err == nil {
			sv.Cost = &est
		}
		sv.CostModels = widgets.Rates
	}
}

// QuizField is the query parameter carrying the answer to question i of the
// quiz in the section with the given anchor.
func QuizField(anchor string, i int) string {
	return fmt.Sprintf("%s-q%d", anchor, i+1)
}

var nonAnchor = regexp.MustCompile(`[^a-z0-9]+`)

// Anchor turns a section title into an HTML id.
func Anchor(title string) string {
	a := strings.Trim(nonAnchor.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if a == "" {
		return "section"
	}
	return a
}

func intOr(s string, fallback int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return v
	}
	return fallback
}
