// Package markdown implements the tiny markdown dialect used by newsbot's
// state files: "##"-delimited sections containing "- item" list entries,
// plus "- **key**: value" property lines. The grammar is kept independent
// of the domain structs that are mapped onto it.
package markdown

import (
	"regexp"
	"strings"
)

var (
	headingPattern  = regexp.MustCompile(`^##\s+(.+)$`)
	listItemPattern = regexp.MustCompile(`^-\s+(.+)$`)
	propertyPattern = regexp.MustCompile(`^-\s+\*\*(\w+)\*\*:\s*(.+)$`)
	// Trailing parenthesized annotation on a list item, e.g.
	// "rust (weight: 0.80)" or "https://x.com/rss (added 2026-01-15)".
	annotationPattern = regexp.MustCompile(`^(.+?)\s*\(([^()]*)\)$`)
)

// Section is one "##"-delimited block and its list items, in file order.
type Section struct {
	Heading string
	Items   []Item
}

// Item is a single "- ..." list entry. Text is the entry with any trailing
// parenthesized annotation stripped; Annotation holds the text between the
// parentheses, or "" when there is none.
type Item struct {
	Text       string
	Annotation string
}

// Property is a single "- **key**: value" line.
type Property struct {
	Key   string
	Value string
}

// ParseSections splits raw markdown into its "##" sections. Lines before
// the first section heading are ignored, as are lines that are neither
// headings nor list items.
func ParseSections(raw string) []Section {
	var sections []Section
	for line := range strings.Lines(raw) {
		line = strings.TrimRight(line, "\r\n")

		if m := headingPattern.FindStringSubmatch(line); m != nil {
			sections = append(sections, Section{Heading: strings.TrimSpace(m[1])})
			continue
		}
		if len(sections) == 0 {
			continue
		}
		if m := listItemPattern.FindStringSubmatch(line); m != nil {
			cur := &sections[len(sections)-1]
			cur.Items = append(cur.Items, parseItem(strings.TrimSpace(m[1])))
		}
	}
	return sections
}

// parseItem splits a list entry into text and trailing annotation.
func parseItem(content string) Item {
	if m := annotationPattern.FindStringSubmatch(content); m != nil {
		return Item{Text: strings.TrimSpace(m[1]), Annotation: strings.TrimSpace(m[2])}
	}
	return Item{Text: content}
}

// ParseProperties extracts every "- **key**: value" line from raw markdown,
// in file order. Lines that do not match the property grammar are skipped.
func ParseProperties(raw string) []Property {
	var props []Property
	for line := range strings.Lines(raw) {
		line = strings.TrimRight(line, "\r\n")
		if m := propertyPattern.FindStringSubmatch(line); m != nil {
			props = append(props, Property{Key: m[1], Value: strings.TrimSpace(m[2])})
		}
	}
	return props
}

// HeadingContains reports whether the section heading contains the given
// keyword, case-insensitively. State files identify sections by keyword
// ("high", "rss", ...) rather than by exact heading text.
func (s Section) HeadingContains(keyword string) bool {
	return strings.Contains(strings.ToLower(s.Heading), strings.ToLower(keyword))
}

// Builder accumulates a markdown document in the state-file dialect.
type Builder struct {
	b strings.Builder
}

// Title writes the top-level "# ..." title followed by a blank line.
func (d *Builder) Title(title string) {
	d.b.WriteString("# " + title + "\n\n")
}

// Section writes a "## ..." heading.
func (d *Builder) Section(heading string) {
	d.b.WriteString("## " + heading + "\n")
}

// Item writes a "- ..." list entry.
func (d *Builder) Item(text string) {
	d.b.WriteString("- " + text + "\n")
}

// Property writes a "- **key**: value" line.
func (d *Builder) Property(key, value string) {
	d.b.WriteString("- **" + key + "**: " + value + "\n")
}

// Blank writes an empty line.
func (d *Builder) Blank() {
	d.b.WriteString("\n")
}

// String returns the accumulated document.
func (d *Builder) String() string {
	return d.b.String()
}
