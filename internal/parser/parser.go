// Package parser extracts structured values from YouTube URLs and video
// descriptions and normalises strings destined for note templates and file names.
//
// Every function in this package is pure and safe for concurrent use.
package parser

import (
	"html"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// Group 3 is the identifier: everything after the last path segment marker
	// up to the first &, #, ? or end of line.
	videoIDRe = regexp.MustCompile(`(youtu.*be.*)/(watch\?v=|embed/|v|shorts|)([^&#?\n]*)`)

	// Matches 0:00, 00:00, 0:00:00 and 00:00:00.
	timestampRe = regexp.MustCompile(`\d{0,2}:?\d{1,2}:\d{2}`)

	isoDurationRe = regexp.MustCompile(`^P(?:(\d+)W)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)

	illegalFilenameRe = regexp.MustCompile(`[/\\?%*:|"<>]`)
	quotedRe          = regexp.MustCompile(`"(.*?)"`)

	hashtagRe = regexp.MustCompile(`#([\p{L}\p{N}_-]+)`)
)

// Chapter is a labeled timestamp marker taken from a video description.
type Chapter struct {
	Timestamp string `json:"timestamp"`
	Title     string `json:"title"`
}

// Seconds returns the chapter offset in seconds.
func (c Chapter) Seconds() int {
	total := 0
	for _, part := range strings.Split(c.Timestamp, ":") {
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return 0
		}
		total = total*60 + n
	}
	return total
}

// ExtractVideoID returns the video identifier from a YouTube URL.
// The second result is false when text holds no recognisable identifier.
func ExtractVideoID(text string) (string, bool) {
	m := videoIDRe.FindStringSubmatch(text)
	if m == nil || m[3] == "" {
		return "", false
	}
	return m[3], true
}

// ParseChapters extracts one chapter per description line that carries a
// timestamp, in line order. Lines without a timestamp are skipped.
func ParseChapters(description string) []Chapter {
	var chapters []Chapter

	for _, line := range strings.Split(description, "\n") {
		ts := timestampRe.FindString(line)
		if ts == "" {
			continue
		}

		words := strings.Fields(line)
		kept := words[:0]
		for _, w := range words {
			// Substring check: "(1:30)" and "1:30," are dropped along with "1:30".
			if !strings.Contains(w, ts) {
				kept = append(kept, w)
			}
		}

		chapters = append(chapters, Chapter{
			Timestamp: ts,
			Title:     strings.Join(kept, " "),
		})
	}

	return chapters
}

// FormatDuration renders an ISO-8601 duration such as PT1H2M3S as a clock
// string. Components are not zero padded: PT1H2M3S gives "1:2:3" and PT5M9S
// gives "5:9". The hours group is omitted when zero. Weeks and days fold into
// the hours group rather than wrapping at 24, so P1DT2H3M4S gives "26:3:4".
// Inputs that do not parse, or whose total overflows, render as "0:0".
func FormatDuration(iso string) string {
	total := durationSeconds(iso)

	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	var b strings.Builder
	if hours > 0 {
		b.WriteString(strconv.FormatInt(hours, 10))
		b.WriteByte(':')
	}
	b.WriteString(strconv.FormatInt(minutes, 10))
	b.WriteByte(':')
	b.WriteString(strconv.FormatInt(seconds, 10))
	return b.String()
}

// durationSeconds converts an ISO-8601 duration to whole seconds.
// Weeks and days are folded into the total. Fractional seconds are truncated.
// A total that does not fit in an int64 yields 0.
func durationSeconds(iso string) int64 {
	m := isoDurationRe.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(iso)))
	if m == nil {
		return 0
	}

	units := [...]int64{7 * 86400, 86400, 3600, 60}
	var total int64
	for i, unit := range units {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.ParseInt(m[i+1], 10, 64)
		if err != nil || n > (math.MaxInt64-total)/unit {
			return 0
		}
		total += n * unit
	}

	if m[5] != "" {
		secs, err := strconv.ParseFloat(m[5], 64)
		if err != nil || secs >= float64(math.MaxInt64-total) {
			return 0
		}
		total += int64(secs)
	}

	return total
}

// SanitizeFilename removes characters that are illegal in file names on
// common filesystems: / \ ? % * : | " < >
func SanitizeFilename(text string) string {
	return illegalFilenameRe.ReplaceAllString(text, "")
}

// SanitizeStringData makes text safe to embed in a double-quoted template
// field. Paired straight quotes become guillemets and unpaired ones are dropped:
//
//	He said "hello" → He said «hello»
func SanitizeStringData(text string) string {
	text = quotedRe.ReplaceAllString(text, "«${1}»")
	return strings.ReplaceAll(text, `"`, "")
}

// Hashtags returns the #hashtags of a description without the leading '#',
// lowercased, in order of first appearance.
func Hashtags(description string) []string {
	if description == "" {
		return nil
	}
	description = html.UnescapeString(description)

	var tags []string
	seen := make(map[string]bool)
	for _, grp := range hashtagRe.FindAllStringSubmatch(description, -1) {
		tag := strings.ToLower(grp[1])
		if seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}
