package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/offerta-labs/citemark/internal/core/domain"
)

const testDocument = `Przedmiotem zamówienia jest dostawa sprzętu komputerowego.
Termin realizacji wynosi 30 dni od podpisania umowy.
Wykonawca udziela gwarancji na okres 24 miesięcy.`

func TestHighlightCmd_Use(t *testing.T) {
	assert.Equal(t, "highlight [document]", highlightCmd.Use)
}

func TestHighlightCmd_HasCitationFlag(t *testing.T) {
	flag := highlightCmd.Flags().Lookup("citation")
	require.NotNil(t, flag, "citation flag should exist")
	assert.Equal(t, "c", flag.Shorthand)
}

func TestHighlightCmd_NotConfigured(t *testing.T) {
	SetServices(Services{})

	rootCmd.SetArgs([]string{"highlight", "doc.txt", "-c", "x"})
	defer func() {
		rootCmd.SetArgs(nil)
		resetFlags()
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestHighlightCmd_RequiresCitations(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	rootCmd.SetArgs([]string{"highlight", writeDoc(t, testDocument)})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHighlightCmd_LocatesCitation(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"highlight", writeDoc(t, testDocument), "-c", "dostawa sprzętu komputerowego"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Located 1/1 citations")
	assert.Contains(t, buf.String(), "✓")
	assert.Contains(t, buf.String(), "strategy: strict")
}

func TestHighlightCmd_ReportsNotFound(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"highlight", writeDoc(t, testDocument), "-c", "fraza której nie ma w dokumencie ani trochę"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Located 0/1 citations")
	assert.Contains(t, buf.String(), "✗")
}

func TestHighlightCmd_SavesReport(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"highlight", writeDoc(t, testDocument), "-c", "gwarancji na okres 24 miesięcy"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	require.NoError(t, rootCmd.Execute())

	runs, err := reportStore.ListRuns(context.Background(), "local-doc.txt")
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 1, runs[0].FoundCount())
}

func TestHighlightCmd_NoSaveSkipsStore(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"highlight", writeDoc(t, testDocument), "--no-save", "-c", "dostawa sprzętu"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	require.NoError(t, rootCmd.Execute())

	runs, err := reportStore.ListRuns(context.Background(), "local-doc.txt")
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestHighlightCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"highlight", writeDoc(t, testDocument), "--json", "-c", "termin realizacji"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	require.NoError(t, rootCmd.Execute())

	var report domain.RunReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, "local-doc.txt", report.FileID)
	require.Len(t, report.Outcomes, 1)
	assert.True(t, report.Outcomes[0].Found)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "krótki", truncate("krótki", 70))
	assert.Equal(t, "zażó…", truncate("zażółć", 4))
}
