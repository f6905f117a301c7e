package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/offerta-labs/citemark/internal/core/domain"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [document] [query]", searchCmd.Use)
}

func TestSearchCmd_RequiresTwoArgs(t *testing.T) {
	rootCmd.SetArgs([]string{"search", "doc.txt"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 2 arg(s)")
}

func TestSearchCmd_PrintsMatches(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	// The occurrences sit far enough apart vertically not to group.
	doc := writeDoc(t, "umowa najmu\naneks pierwszy\nzałącznik drugi\numowa sprzedaży")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", doc, "umowa"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), `2 matches for "umowa":`)
	assert.Contains(t, buf.String(), "offset 0")
}

func TestSearchCmd_NoMatches(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	doc := writeDoc(t, testDocument)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", doc, "xyzzy"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), `No matches for "xyzzy".`)
}

func TestGroupPage(t *testing.T) {
	paged := domain.HighlightGroup{Regions: []domain.MatchRegion{
		{Start: 10, NodeIDs: []string{"p3-l12"}},
	}}
	assert.Equal(t, 3, groupPage(paged))

	unpaged := domain.HighlightGroup{Regions: []domain.MatchRegion{
		{Start: 10, NodeIDs: []string{"line-4"}},
	}}
	assert.Equal(t, 0, groupPage(unpaged))

	assert.Equal(t, 0, groupPage(domain.HighlightGroup{Regions: []domain.MatchRegion{{}}}))
}
