package feedback

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// BlockType tags the semantic role of one feedback block.
type BlockType string

const (
	// BlockHeading is an all-caps section title such as STRENGTHS.
	BlockHeading BlockType = "heading"
	// BlockCriterion is a numbered per-criterion entry (1. Clarity: ...).
	BlockCriterion BlockType = "criterion"
	// BlockList groups consecutive bullet lines into one list.
	BlockList BlockType = "list"
	// BlockParagraph is any other non-blank line.
	BlockParagraph BlockType = "paragraph"
)

// Block is a single semantically tagged piece of restructured feedback.
type Block struct {
	Type  BlockType `json:"type"`
	Label string    `json:"label,omitempty"`
	Text  string    `json:"text,omitempty"`
	Bold  bool      `json:"bold,omitempty"`
	Items []string  `json:"items,omitempty"`
}

var (
	scoreLinePattern  = regexp.MustCompile(`(?i)SCORE:[^\n]*\n`)
	strongPattern     = regexp.MustCompile(`\*\*(.*?)\*\*`)
	emphasisPattern   = regexp.MustCompile(`\*(.*?)\*`)
	numberedPattern   = regexp.MustCompile(`^\d+\.`)
	bulletPattern     = regexp.MustCompile(`^\s*[-•*]`)
	bulletTrimPattern = regexp.MustCompile(`^\s*[-•*]\s*`)
)

// Restructure converts the raw evaluator output (minus any SCORE lines)
// into an ordered block sequence. It walks line by line holding a single
// piece of state: whether a bullet list is currently open. Blank lines
// close an open list and are otherwise dropped; any list still open at
// end of input is closed.
func Restructure(raw string) []Block {
	text := scoreLinePattern.ReplaceAllString(raw, "")

	blocks := make([]Block, 0)
	var list *Block

	closeList := func() {
		if list != nil {
			blocks = append(blocks, *list)
			list = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			closeList()
			continue
		}

		line = strongPattern.ReplaceAllString(line, "<strong>$1</strong>")
		line = emphasisPattern.ReplaceAllString(line, "<em>$1</em>")

		switch {
		case isUpper(line) && len(line) > 3 && strings.Contains(line, ":"):
			closeList()
			blocks = append(blocks, Block{
				Type: BlockHeading,
				Text: strings.ReplaceAll(line, ":", ""),
			})

		case numberedPattern.MatchString(line):
			closeList()
			if label, content, found := strings.Cut(line, ":"); found {
				blocks = append(blocks, Block{
					Type:  BlockCriterion,
					Label: label,
					Text:  strings.TrimSpace(content),
				})
			} else {
				blocks = append(blocks, Block{Type: BlockParagraph, Text: line, Bold: true})
			}

		case bulletPattern.MatchString(line):
			if list == nil {
				list = &Block{Type: BlockList}
			}
			list.Items = append(list.Items, bulletTrimPattern.ReplaceAllString(line, ""))

		default:
			closeList()
			blocks = append(blocks, Block{Type: BlockParagraph, Text: line})
		}
	}

	closeList()

	return blocks
}

// RenderHTML serializes blocks into the markup shape consumed by the
// result views: h4 headings, criteria-score divs, ul/li lists and p tags.
func RenderHTML(blocks []Block) string {
	parts := make([]string, 0, len(blocks))

	for _, block := range blocks {
		switch block.Type {
		case BlockHeading:
			parts = append(parts, fmt.Sprintf("<h4>%s</h4>", block.Text))
		case BlockCriterion:
			parts = append(parts, fmt.Sprintf(`<div class="criteria-score"><strong>%s:</strong> %s</div>`, block.Label, block.Text))
		case BlockList:
			parts = append(parts, "<ul>")
			for _, item := range block.Items {
				parts = append(parts, fmt.Sprintf("<li>%s</li>", item))
			}
			parts = append(parts, "</ul>")
		case BlockParagraph:
			if block.Bold {
				parts = append(parts, fmt.Sprintf("<p><strong>%s</strong></p>", block.Text))
			} else {
				parts = append(parts, fmt.Sprintf("<p>%s</p>", block.Text))
			}
		}
	}

	return strings.Join(parts, "\n")
}

// FormatHTML restructures raw feedback and renders it in one step.
func FormatHTML(raw string) string {
	return RenderHTML(Restructure(raw))
}

// isUpper mirrors the "all capital letters" check: at least one cased rune
// and no lowercase runes anywhere in the line.
func isUpper(s string) bool {
	hasCased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasCased = true
		}
	}
	return hasCased
}
