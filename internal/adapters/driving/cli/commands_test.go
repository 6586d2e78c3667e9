package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semiconbook/chaptermap/internal/core/domain"
	"github.com/semiconbook/chaptermap/internal/core/ports/driving"
)

func TestChaptersList(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("chapters", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "part0/ch0")
	assert.Contains(t, out, "晶体结构")
}

func TestChaptersList_JSON(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("chapters", "list", "--json")

	require.NoError(t, err)
	assert.Contains(t, out, `"slug": "part1/ch1"`)
}

func TestChaptersNav(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("chapters", "nav", "part0/ch0")
	require.NoError(t, err)
	assert.Equal(t, "prev: (none)\nnext: part1/ch1\n", out)

	_, err = execute("chapters", "nav", "part9/ch9")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSections(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("sections", "part0/ch0")

	require.NoError(t, err)
	assert.Contains(t, out, "[0] 章节目标 → ChapterGoalsModule")
	assert.Contains(t, out, "[1] (untitled)")
	assert.Contains(t, out, "理解晶体管")

	_, err = execute("sections", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBlocks(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("blocks", "part0/ch0")

	require.NoError(t, err)
	assert.Contains(t, out, "[0] heading")
	assert.Contains(t, out, "list/default")
	assert.Contains(t, out, "- a - b")
}

func TestRender_UsesConfigDefaults(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("render", "part0/ch0")

	require.NoError(t, err)
	assert.Equal(t, "半导体简史 format=terminal style=dark\n", out)
}

func TestRender_FlagsOverrideConfig(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("render", "part0/ch0", "--style", "ascii", "-f", "json")

	require.NoError(t, err)
	assert.Equal(t, "半导体简史 format=json style=ascii\n", out)
}

func TestRender_Errors(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("render", "part9/ch9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render failed")

	_, err = execute("render", "part0/ch0", "-f", "xml")
	assert.EqualError(t, err, "unknown format: xml")
}

func TestRulesValidate(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("rules", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "ok   part0/ch0")
	assert.Contains(t, out, "ok   part1/ch1")

	ts.chapters.invalid = map[string]error{"part1/ch1": domain.ErrInvalidConfig}
	out, err = execute("rules", "validate", "part0/ch0", "part1/ch1")
	require.Error(t, err)
	assert.EqualError(t, err, "1 of 2 rule sets invalid")
	assert.Contains(t, out, "FAIL part1/ch1")
}

func TestRulesValidate_IncludesRuleFilesWithoutContent(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.rules.slugs = []string{"part0/ch0", "part7/ch3"}
	ts.chapters.invalid = map[string]error{"part7/ch3": domain.ErrInvalidConfig}

	out, err := execute("rules", "validate")

	assert.EqualError(t, err, "1 of 3 rule sets invalid")
	assert.Contains(t, out, "FAIL part7/ch3")
	assert.Equal(t, 1, strings.Count(out, "part0/ch0"))
}

func TestRulesExplain(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.chapters.explanations = []driving.BlockExplanation{
		{
			Block:            domain.Block{Position: 0, ContentType: domain.BlockHeading, Text: "晶体结构"},
			Feature:          "concept",
			FeatureComponent: "ConceptExplanationModule",
			Candidates: []driving.RuleCandidate{
				{Rule: "heading-title", Component: "SectionTitleModule", Priority: 10, Score: 2},
				{Rule: "default", Component: "DefaultContentModule"},
			},
		},
		{Block: domain.Block{Position: 1, ContentType: domain.BlockParagraph, Text: "正文"}},
	}

	out, err := execute("rules", "explain", "part0/ch0")
	require.NoError(t, err)
	assert.Contains(t, out, "* heading-title")
	assert.Contains(t, out, "feature concept → ConceptExplanationModule")
	assert.Contains(t, out, "(no rule matched)")

	out, err = execute("rules", "explain", "part0/ch0", "-b", "1")
	require.NoError(t, err)
	assert.NotContains(t, out, "heading-title")

	_, err = execute("rules", "explain", "part0/ch0", "-b", "7")
	assert.EqualError(t, err, "block 7 not found in part0/ch0")
}

func TestSearch(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("search", "晶体管", "-n", "5", "--part", "part1")

	require.NoError(t, err)
	assert.Contains(t, out, "Results:")
	assert.Contains(t, out, "[1] 晶体结构 (part1/ch1) 2.5")
	assert.Equal(t, "晶体管", ts.search.lastQuery)
	assert.Equal(t, domain.SearchOptions{Limit: 5, Part: "part1"}, ts.search.lastOpts)
}

func TestSearch_NoResults(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.search.results = nil

	out, err := execute("search", "zzz")

	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestSearch_RequiresOneArg(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("search")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestIndex(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("index")

	require.NoError(t, err)
	assert.Contains(t, out, "Indexed 3 chapters.")
}

func TestWatch(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.watcher.changes = []domain.ContentChange{
		{Type: domain.ChangeUpdated, Slug: "part0/ch0"},
		{Type: domain.ChangeDeleted, Slug: "part1/ch1"},
		{Type: domain.ChangeCreated, Slug: "part9/ch9"},
	}
	ts.refresher.err = errors.New("index locked")

	out, err := execute("watch", "--interval", "0")

	require.NoError(t, err)
	assert.Contains(t, out, "updated part0/ch0: 2 blocks, 0 warnings")
	assert.Contains(t, out, "removed part1/ch1")
	assert.Contains(t, out, "error   part9/ch9")
	assert.Equal(t, []string{"part0/ch0", "part1/ch1", "part9/ch9"}, ts.rules.invalidated)
	assert.Equal(t, []string{"part0/ch0", "part1/ch1", "part9/ch9"}, ts.refresher.refreshed)
}

func TestWatch_RequiresWatcher(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	services.Watcher = nil

	_, err := execute("watch")

	assert.EqualError(t, err, "content watcher not configured")
}

func TestConfigShow(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("config", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Config file: /tmp/chaptermap/config.toml")
	assert.Contains(t, out, "render.style   dark")
	assert.Contains(t, out, "content.dir    (unset)")
	assert.NotContains(t, out, "extra.key")
}

func TestConfigShow_ListsExtraKeys(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.config.data["extra.key"] = "x"

	out, err := execute("config", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "extra.key      x")
}

func TestConfigSet(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("config", "set", "content.dir", "/book")
	require.NoError(t, err)
	assert.Equal(t, "content.dir = /book\n", out)
	assert.Equal(t, "/book", ts.config.GetString("content.dir"))

	_, err = execute("config", "set", "bogus", "x")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMCPServe_HasPortFlag(t *testing.T) {
	flag := mcpServeCmd.Flags().Lookup("port")
	require.NotNil(t, flag)
	assert.Equal(t, "p", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)
}

func TestTUI_RequiresChapters(t *testing.T) {
	resetFlags(rootCmd)
	SetServices(&Services{})
	defer SetServices(nil)

	_, err := execute("tui")

	assert.EqualError(t, err, "chapter service not configured")
}
