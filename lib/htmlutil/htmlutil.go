package htmlutil

import (
	stdhtml "html"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer strings.Builder
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *strings.Builder) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var whitespaceRuns = regexp.MustCompile(`\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

func normalizeSpace(s string) string {
	s = whitespaceRuns.ReplaceAllString(s, " ")
	s = removeNonPrintable(s)
	return strings.Trim(s, " ")
}

var headingTags = map[string]int{
	"h1": 1, "h2": 2, "h3": 3, "h4": 4, "h5": 5, "h6": 6,
}

var blockTags = map[string]bool{
	"p":          true,
	"div":        true,
	"li":         true,
	"ul":         true,
	"ol":         true,
	"br":         true,
	"tr":         true,
	"table":      true,
	"section":    true,
	"article":    true,
	"blockquote": true,
}

// Clean strips markup from an HTML fragment, keeping headings as
// markdown-style prefixes and separating block elements with blank
// lines. Entities are decoded by the parser.
func Clean(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return normalizeSpace(stdhtml.UnescapeString(fragment))
	}

	c := &cleaner{}
	c.walk(doc)
	c.flush()
	return strings.Join(c.blocks, "\n\n")
}

type cleaner struct {
	blocks  []string
	current strings.Builder
}

func (c *cleaner) flush() {
	text := normalizeSpace(c.current.String())
	c.current.Reset()
	if text != "" {
		c.blocks = append(c.blocks, text)
	}
}

func (c *cleaner) walk(node *html.Node) {
	switch node.Type {
	case html.TextNode:
		c.current.WriteString(node.Data)
		return
	case html.ElementNode:
		if node.Data == "script" || node.Data == "style" {
			return
		}
		if level, ok := headingTags[node.Data]; ok {
			c.flush()
			c.current.WriteString(strings.Repeat("#", level))
			c.current.WriteString(" ")
			c.current.WriteString(GetText(node))
			c.flush()
			return
		}
		if blockTags[node.Data] {
			c.flush()
		}
	}

	for child := node.FirstChild; child != nil; child = child.NextSibling {
		c.walk(child)
	}
	if node.Type == html.ElementNode && blockTags[node.Data] {
		c.flush()
	}
}
