// Package deck regenerates the stakeholder presentation from a yaml slide
// template and a styling configuration, so the deck never has to be
// committed as a binary asset. Output is a Marp-compatible markdown file at
// a fixed path.
package deck

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Template is the slide story definition.
type Template struct {
	Title    string  `yaml:"title"`
	Subtitle string  `yaml:"subtitle"`
	Author   string  `yaml:"author"`
	Slides   []Slide `yaml:"slides"`
}

type Slide struct {
	Title    string    `yaml:"title"`
	Lead     string    `yaml:"lead,omitempty"`
	Sections []Section `yaml:"sections,omitempty"`
	Bullets  []string  `yaml:"bullets,omitempty"`
	Closing  string    `yaml:"closing,omitempty"`
}

type Section struct {
	Heading string   `yaml:"heading"`
	Bullets []string `yaml:"bullets"`
}

// Styling is the fixed presentation styling configuration.
type Styling struct {
	Theme           string `yaml:"theme"`
	Paginate        bool   `yaml:"paginate"`
	BackgroundColor string `yaml:"background_color"`
	TextColor       string `yaml:"text_color"`
	AccentColor     string `yaml:"accent_color"`
	FooterText      string `yaml:"footer"`
}

func LoadTemplate(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deck template: %w", err)
	}
	var t Template
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse deck template: %w", err)
	}
	if t.Title == "" {
		return nil, fmt.Errorf("deck template %s: missing title", path)
	}
	if len(t.Slides) == 0 {
		return nil, fmt.Errorf("deck template %s: no slides", path)
	}
	return &t, nil
}

func LoadStyling(path string) (*Styling, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deck styling: %w", err)
	}
	var s Styling
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse deck styling: %w", err)
	}
	if s.Theme == "" {
		s.Theme = "default"
	}
	return &s, nil
}

// Build renders the deck and writes it to the fixed output path.
func Build(templatePath, stylePath, outputPath string) error {
	t, err := LoadTemplate(templatePath)
	if err != nil {
		return err
	}
	s, err := LoadStyling(stylePath)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create deck output dir: %w", err)
		}
	}

	content := Render(t, s)
	if err := os.WriteFile(outputPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("write deck %s: %w", outputPath, err)
	}

	log.Info().
		Str("output", outputPath).
		Int("slides", len(t.Slides)+1).
		Msg("Presentation regenerated")
	return nil
}

// Render produces the markdown deck text: Marp front matter from the
// styling, then a title slide, then one slide per template entry.
func Render(t *Template, s *Styling) string {
	var b strings.Builder

	b.WriteString("---\n")
	b.WriteString("marp: true\n")
	fmt.Fprintf(&b, "theme: %s\n", s.Theme)
	fmt.Fprintf(&b, "paginate: %v\n", s.Paginate)
	if s.BackgroundColor != "" {
		fmt.Fprintf(&b, "backgroundColor: %q\n", s.BackgroundColor)
	}
	if s.TextColor != "" {
		fmt.Fprintf(&b, "color: %q\n", s.TextColor)
	}
	if s.FooterText != "" {
		fmt.Fprintf(&b, "footer: %q\n", s.FooterText)
	}
	if s.AccentColor != "" {
		fmt.Fprintf(&b, "style: |\n  section h1, section h2, section strong { color: %s; }\n", s.AccentColor)
	}
	b.WriteString("---\n\n")

	fmt.Fprintf(&b, "# %s\n\n", t.Title)
	if t.Subtitle != "" {
		fmt.Fprintf(&b, "%s\n\n", t.Subtitle)
	}
	if t.Author != "" {
		fmt.Fprintf(&b, "*%s*\n\n", t.Author)
	}
	fmt.Fprintf(&b, "Generated %s\n", time.Now().Format("2006-01-02"))

	for _, slide := range t.Slides {
		b.WriteString("\n---\n\n")
		fmt.Fprintf(&b, "## %s\n\n", slide.Title)
		if slide.Lead != "" {
			fmt.Fprintf(&b, "%s\n\n", slide.Lead)
		}
		for _, section := range slide.Sections {
			fmt.Fprintf(&b, "### %s\n\n", section.Heading)
			writeBullets(&b, section.Bullets)
		}
		writeBullets(&b, slide.Bullets)
		if slide.Closing != "" {
			fmt.Fprintf(&b, "> %s\n", slide.Closing)
		}
	}

	return b.String()
}

func writeBullets(b *strings.Builder, bullets []string) {
	for _, bullet := range bullets {
		fmt.Fprintf(b, "- %s\n", bullet)
	}
	if len(bullets) > 0 {
		b.WriteString("\n")
	}
}
