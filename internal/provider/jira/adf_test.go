package jira

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenADF(t *testing.T) {
	t.Run("nil document", func(t *testing.T) {
		assert.Equal(t, "", FlattenADF(nil))
	})

	t.Run("paragraphs become lines", func(t *testing.T) {
		doc := &ADFNode{Type: "doc", Version: 1, Content: []ADFNode{
			{Type: "paragraph", Content: []ADFNode{
				{Type: "text", Text: "first line"},
			}},
			{Type: "paragraph", Content: []ADFNode{
				{Type: "text", Text: "second "},
				{Type: "text", Text: "line"},
			}},
		}}

		assert.Equal(t, "first line\nsecond line", FlattenADF(doc))
	})

	t.Run("hard breaks and inline objects", func(t *testing.T) {
		doc := &ADFNode{Type: "doc", Version: 1, Content: []ADFNode{
			{Type: "paragraph", Content: []ADFNode{
				{Type: "text", Text: "ping "},
				{Type: "mention"},
				{Type: "hardBreak"},
				{Type: "text", Text: "pong"},
			}},
		}}

		assert.Equal(t, "ping \npong", FlattenADF(doc))
	})

	t.Run("nested lists flatten to lines", func(t *testing.T) {
		doc := &ADFNode{Type: "doc", Version: 1, Content: []ADFNode{
			{Type: "bulletList", Content: []ADFNode{
				{Type: "listItem", Content: []ADFNode{
					{Type: "paragraph", Content: []ADFNode{
						{Type: "text", Text: "one"},
					}},
				}},
				{Type: "listItem", Content: []ADFNode{
					{Type: "paragraph", Content: []ADFNode{
						{Type: "text", Text: "two"},
					}},
				}},
			}},
		}}

		assert.Equal(t, "one\n\ntwo", FlattenADF(doc))
	})

	t.Run("blank runs collapse", func(t *testing.T) {
		doc := &ADFNode{Type: "doc", Version: 1, Content: []ADFNode{
			{Type: "paragraph", Content: []ADFNode{{Type: "text", Text: "a"}}},
			{Type: "paragraph"},
			{Type: "paragraph"},
			{Type: "paragraph", Content: []ADFNode{{Type: "text", Text: "b"}}},
		}}

		assert.Equal(t, "a\n\nb", FlattenADF(doc))
	})
}

func TestTextToADF(t *testing.T) {
	doc := TextToADF("first\n\nthird")

	require.NotNil(t, doc)
	assert.Equal(t, "doc", doc.Type)
	assert.Equal(t, 1, doc.Version)
	require.Len(t, doc.Content, 3)

	require.Len(t, doc.Content[0].Content, 1)
	assert.Equal(t, "first", doc.Content[0].Content[0].Text)

	assert.Empty(t, doc.Content[1].Content)

	require.Len(t, doc.Content[2].Content, 1)
	assert.Equal(t, "third", doc.Content[2].Content[0].Text)
}

func TestTextToADFRoundTrip(t *testing.T) {
	text := "line one\nline two"
	assert.Equal(t, text, FlattenADF(TextToADF(text)))
}
