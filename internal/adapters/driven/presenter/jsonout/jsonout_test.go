package jsonout

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semiconbook/chaptermap/internal/core/domain"
)

func TestPresenter_Present(t *testing.T) {
	next := "part1/ch1"
	ch := &domain.RenderedChapter{
		Slug:       "part0/ch0",
		Title:      "半导体简史",
		Layout:     domain.LayoutSidebar,
		Navigation: domain.Navigation{Next: &next},
		Sections:   []domain.Section{},
		Blocks: []domain.RenderedBlock{
			{BlockID: "b1", Position: 0, Component: "CoreContent", Node: domain.Node{Component: "CoreContent", Text: "正文"}},
		},
	}

	out, err := New(false).Present(ch)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, "}\n"))
	assert.Contains(t, out, "\n  \"slug\": \"part0/ch0\"")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "半导体简史", decoded["title"])
	assert.Equal(t, "sidebar", decoded["layout"])
	assert.Equal(t, map[string]any{"next": "part1/ch1"}, decoded["navigation"])
	assert.Equal(t, []any{}, decoded["sections"])
	blocks := decoded["blocks"].([]any)
	require.Len(t, blocks, 1)
	assert.Equal(t, "CoreContent", blocks[0].(map[string]any)["component"])
}

func TestPresenter_Compact(t *testing.T) {
	out, err := New(true).Present(&domain.RenderedChapter{Slug: "a"})
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.Equal(t, "json", New(true).Format())
}

func TestPresenter_PresentNil(t *testing.T) {
	_, err := New(false).Present(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
