// Package content holds the guide's page catalog: ordered pages, each with an
// ordered list of titled sections whose markdown bodies are rendered to HTML
// once at load time.
package content

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
	"gopkg.in/yaml.v3"
)

//go:embed pages.yaml
var defaultCatalog []byte

// Widget names a section's interactive element.
const (
	WidgetQuiz        = "quiz"
	WidgetTemperature = "temperature"
	WidgetCost        = "cost"
)

// ErrUnknownSection is returned when a title is not declared on a page.
var ErrUnknownSection = errors.New("unknown section")

// mdRenderer escapes raw HTML in section bodies (WithUnsafe is not set).
var mdRenderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// Question is one multiple-choice quiz question.
type Question struct {
	Prompt    string   `yaml:"prompt"`
	Options   []string `yaml:"options"`
	Answer    string   `yaml:"answer"`
	Correct   string   `yaml:"correct"`
	Incorrect string   `yaml:"incorrect"`
}

// Section is a titled block of content on a page.
type Section struct {
	Title  string     `yaml:"title"`
	Body   string     `yaml:"body"`
	Widget string     `yaml:"widget,omitempty"`
	Quiz   []Question `yaml:"quiz,omitempty"`

	HTML template.HTML `yaml:"-"`
}

// Page is one page of the guide.
type Page struct {
	Key      string    `yaml:"key"`
	Title    string    `yaml:"title"`
	Heading  string    `yaml:"heading"`
	Intro    string    `yaml:"intro"`
	Explore  string    `yaml:"explore"`
	Tracked  bool      `yaml:"tracked"`
	Subtopic bool      `yaml:"subtopics"`
	Outro    string    `yaml:"outro"`
	Sections []Section `yaml:"sections"`

	index map[string]int
}

// SectionKey identifies a section by page and title. Build it with
// Page.SectionKey so the title is checked against the page's sections.
type SectionKey struct {
	Page  string
	Title string
}

func (k SectionKey) String() string {
	return k.Page + "/" + k.Title
}

// SectionKey returns the key for title, or ErrUnknownSection.
func (p *Page) SectionKey(title string) (SectionKey, error) {
	if _, ok := p.index[title]; !ok {
		return SectionKey{}, fmt.Errorf("%w %q on page %q", ErrUnknownSection, title, p.Key)
	}
	return SectionKey{Page: p.Key, Title: title}, nil
}

// Section returns the section with the given title.
func (p *Page) Section(title string) (*Section, bool) {
	i, ok := p.index[title]
	if !ok {
		return nil, false
	}
	return &p.Sections[i], true
}

// Titles returns section titles in declaration order.
func (p *Page) Titles() []string {
	titles := make([]string, len(p.Sections))
	for i, s := range p.Sections {
		titles[i] = s.Title
	}
	return titles
}

// Catalog is the ordered set of pages.
type Catalog struct {
	Pages []*Page `yaml:"pages"`

	byKey map[string]*Page
}

// Page looks a page up by key.
func (c *Catalog) Page(key string) (*Page, bool) {
	p, ok := c.byKey[key]
	return p, ok
}

// Tracked returns the pages with progress tracking, in order.
func (c *Catalog) Tracked() []*Page {
	var out []*Page
	for _, p := range c.Pages {
		if p.Tracked {
			out = append(out, p)
		}
	}
	return out
}

// Load parses the embedded catalog.
func Load() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// LoadFile parses a catalog from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes, validates and renders a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog YAML: %w", err)
	}
	if err := c.build(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return &c, nil
}

func (c *Catalog) build() error {
	if len(c.Pages) == 0 {
		return errors.New("no pages")
	}
	c.byKey = make(map[string]*Page, len(c.Pages))
	for _, p := range c.Pages {
		if strings.TrimSpace(p.Key) == "" {
			return fmt.Errorf("page %q has no key", p.Title)
		}
		if _, dup := c.byKey[p.Key]; dup {
			return fmt.Errorf("duplicate page key %q", p.Key)
		}
		if p.Title == "" {
			p.Title = p.Key
		}
		if p.Heading == "" {
			p.Heading = p.Title
		}
		c.byKey[p.Key] = p

		p.index = make(map[string]int, len(p.Sections))
		for i := range p.Sections {
			s := &p.Sections[i]
			if strings.TrimSpace(s.Title) == "" {
				return fmt.Errorf("page %q: section %d has no title", p.Key, i+1)
			}
			if _, dup := p.index[s.Title]; dup {
				return fmt.Errorf("page %q: duplicate section %q", p.Key, s.Title)
			}
			p.index[s.Title] = i

			if err := validateWidget(s); err != nil {
				return fmt.Errorf("page %q: section %q: %w", p.Key, s.Title, err)
			}

			html, err := renderMarkdown(s.Body)
			if err != nil {
				return fmt.Errorf("page %q: section %q: %w", p.Key, s.Title, err)
			}
			s.HTML = html
		}
	}
	return nil
}

func validateWidget(s *Section) error {
	switch s.Widget {
	case "", WidgetTemperature, WidgetCost:
		if len(s.Quiz) > 0 {
			return errors.New("quiz questions on a non-quiz section")
		}
		return nil
	case WidgetQuiz:
		if len(s.Quiz) == 0 {
			return errors.New("quiz has no questions")
		}
		for i, q := range s.Quiz {
			found := false
			for _, o := range q.Options {
				if o == q.Answer {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("question %d: answer %q is not an option", i+1, q.Answer)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown widget %q", s.Widget)
	}
}

func renderMarkdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}
