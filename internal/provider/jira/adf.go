package jira

import "strings"

// FlattenADF renders an Atlassian Document Format tree as plain text.
// Block nodes become line breaks; marks, media, and mentions are reduced
// to their text content. The result is what gets stored as a local task
// description.
func FlattenADF(doc *ADFNode) string {
	if doc == nil {
		return ""
	}

	var b strings.Builder
	flattenNode(doc, &b)

	result := b.String()

	// Collapse multiple consecutive blank lines.
	for strings.Contains(result, "\n\n\n") {
		result = strings.ReplaceAll(result, "\n\n\n", "\n\n")
	}

	return strings.TrimSpace(result)
}

// blockTypes are ADF node types that terminate a line when closed.
var blockTypes = map[string]bool{
	"paragraph":   true,
	"heading":     true,
	"blockquote":  true,
	"codeBlock":   true,
	"listItem":    true,
	"tableRow":    true,
	"rule":        true,
	"mediaSingle": true,
}

func flattenNode(node *ADFNode, b *strings.Builder) {
	switch node.Type {
	case "text":
		b.WriteString(node.Text)
	case "hardBreak":
		b.WriteString("\n")
	case "mention", "emoji", "inlineCard":
		// Attrs are not mapped; inline objects contribute nothing.
	}

	for i := range node.Content {
		flattenNode(&node.Content[i], b)
	}

	if blockTypes[node.Type] {
		b.WriteString("\n")
	}
}

// TextToADF wraps plain text in a minimal ADF document, one paragraph per
// line, as required by the v3 create/update endpoints.
func TextToADF(text string) *ADFNode {
	doc := &ADFNode{Type: "doc", Version: 1, Content: []ADFNode{}}

	for _, line := range strings.Split(text, "\n") {
		para := ADFNode{Type: "paragraph"}
		if line != "" {
			para.Content = []ADFNode{{Type: "text", Text: line}}
		}
		doc.Content = append(doc.Content, para)
	}

	return doc
}
