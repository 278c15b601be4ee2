// Package template turns video metadata into Obsidian notes.
package template

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"gopkg.in/yaml.v3"

	ytparser "ytnote/internal/parser"
)

const (
	publishDateLayout = "2006-01-02"
	noteCreatedLayout = "2006-01-02 15:04"
	frontmatterFence  = "---"
)

// ErrInvalidFrontmatter is returned when a rendered note starts with a YAML
// block that does not parse.
var ErrInvalidFrontmatter = errors.New("invalid frontmatter")

// NoteData is the video metadata a note is rendered from.
type NoteData struct {
	Title         string
	ChannelName   string
	Subscribers   uint64
	Duration      string // ISO-8601, e.g. PT1H2M3S
	PublishedAt   time.Time
	Description   string
	URL           string
	ThumbnailPath string // vault-relative, empty when no thumbnail was saved
	Created       time.Time
}

// Formats are the user-editable layouts a note is rendered with.
type Formats struct {
	Template      string
	ChapterFormat string
	HashtagFormat string
}

// Renderer fills note templates and converts notes to HTML.
type Renderer struct {
	markdown goldmark.Markdown
}

// NewRenderer creates a renderer.
func NewRenderer() *Renderer {
	return &Renderer{
		markdown: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Typographer,
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
	}
}

// Render substitutes the note variables of f.Template with data. Placeholders
// that are not note variables are left as written.
//
// Inside the template's frontmatter, a placeholder wrapped in YAML quotes
// ("{{title}}" or '{{title}}') is escaped for that scalar style, so titles
// containing backslashes or apostrophes still produce valid YAML.
func (r *Renderer) Render(data NoteData, f Formats) (string, error) {
	if strings.TrimSpace(f.Template) == "" {
		return "", errors.New("template is empty")
	}

	vars := []string{
		"{{title}}", ytparser.SanitizeStringData(data.Title),
		"{{channelName}}", ytparser.SanitizeStringData(data.ChannelName),
		"{{subscribers}}", strconv.FormatUint(data.Subscribers, 10),
		"{{length}}", ytparser.FormatDuration(data.Duration),
		"{{publishDate}}", formatTime(data.PublishedAt, publishDateLayout),
		"{{thumbnail}}", thumbnailEmbed(data.ThumbnailPath),
		"{{chapters}}", renderChapters(data, f.ChapterFormat),
		"{{hashtags}}", renderHashtags(data.Description, f.HashtagFormat),
		"{{description}}", data.Description,
		"{{noteCreated}}", formatTime(data.Created, noteCreatedLayout),
		"{{youtubeUrl}}", data.URL,
	}

	end := frontmatterEnd(f.Template)
	head, body := f.Template[:end], f.Template[end:]
	return yamlReplacer(vars).Replace(head) + strings.NewReplacer(vars...).Replace(body), nil
}

// yamlReplacer substitutes vars inside frontmatter. Quoted forms come first
// because strings.Replacer prefers earlier pairs at the same position.
func yamlReplacer(vars []string) *strings.Replacer {
	pairs := make([]string, 0, len(vars)*3)
	for i := 0; i < len(vars); i += 2 {
		placeholder, value := vars[i], vars[i+1]
		pairs = append(pairs,
			`"`+placeholder+`"`, `"`+doubleQuoteEscaper.Replace(value)+`"`,
			`'`+placeholder+`'`, `'`+strings.ReplaceAll(value, `'`, `''`)+`'`,
		)
	}
	return strings.NewReplacer(append(pairs, vars...)...)
}

var doubleQuoteEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// frontmatterEnd returns the offset just past the closing fence of a leading
// "---" block in tmpl, or 0 when tmpl has no closed block.
func frontmatterEnd(tmpl string) int {
	offset := 0
	if strings.HasPrefix(tmpl, "\ufeff") {
		offset = len("\ufeff")
	}

	first := true
	for offset < len(tmpl) {
		line := tmpl[offset:]
		next := len(tmpl)
		if i := strings.IndexByte(line, '\n'); i >= 0 {
			line = line[:i]
			next = offset + i + 1
		}
		isFence := strings.TrimRight(line, "\r") == frontmatterFence
		switch {
		case first && !isFence:
			return 0
		case !first && isFence:
			return next
		}
		first = false
		offset = next
	}
	return 0
}

func renderChapters(data NoteData, format string) string {
	chapters := ytparser.ParseChapters(data.Description)
	if len(chapters) == 0 || format == "" {
		return ""
	}

	lines := make([]string, 0, len(chapters))
	for _, ch := range chapters {
		lines = append(lines, strings.NewReplacer(
			"{{chapter}}", ch.Title,
			"{{timestamp}}", ch.Timestamp,
			"{{link}}", chapterLink(data.URL, ch.Seconds()),
		).Replace(format))
	}
	return strings.Join(lines, "\n")
}

func chapterLink(videoURL string, seconds int) string {
	if videoURL == "" {
		return ""
	}
	sep := "?"
	if strings.Contains(videoURL, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%st=%ds", videoURL, sep, seconds)
}

func renderHashtags(description, format string) string {
	tags := ytparser.Hashtags(description)
	if len(tags) == 0 || format == "" {
		return ""
	}

	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		out = append(out, strings.ReplaceAll(format, "{{hashtag}}", tag))
	}
	return strings.Join(out, " ")
}

func thumbnailEmbed(relPath string) string {
	if relPath == "" {
		return ""
	}
	return "![[" + relPath + "]]"
}

func formatTime(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(layout)
}

// CheckFrontmatter validates the YAML block at the top of note, if any.
// A note without a closed leading "---" block has no frontmatter and passes.
func CheckFrontmatter(note string) error {
	fm, _, ok := splitFrontmatter(note)
	if !ok {
		return nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal([]byte(fm), &fields); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFrontmatter, err)
	}
	return nil
}

// RenderHTML converts a note body to HTML. Frontmatter is not rendered.
// Raw HTML in the note is omitted and dangerous link URLs are dropped.
func (r *Renderer) RenderHTML(note []byte) (string, error) {
	body := string(note)
	if _, rest, ok := splitFrontmatter(body); ok {
		body = rest
	}

	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}

// splitFrontmatter separates a leading "---" fenced block from the body.
func splitFrontmatter(note string) (frontmatter, body string, ok bool) {
	note = strings.TrimPrefix(note, "\ufeff")
	first, rest, found := strings.Cut(note, "\n")
	if !found || strings.TrimRight(first, "\r") != frontmatterFence {
		return "", note, false
	}

	var fm []string
	for {
		line, next, more := strings.Cut(rest, "\n")
		if strings.TrimRight(line, "\r") == frontmatterFence {
			return strings.Join(fm, "\n"), next, true
		}
		if !more {
			return "", note, false
		}
		fm = append(fm, line)
		rest = next
	}
}
