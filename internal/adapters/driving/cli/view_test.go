package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewCmd_Use(t *testing.T) {
	assert.Equal(t, "view [document]", viewCmd.Use)
}

func TestViewCmd_HasRecordFlag(t *testing.T) {
	flag := viewCmd.Flags().Lookup("record")
	require.NotNil(t, flag, "record flag should exist")
	assert.Equal(t, "r", flag.Shorthand)
}

func TestViewCmd_NotConfigured(t *testing.T) {
	SetServices(Services{})

	rootCmd.SetArgs([]string{"view", "doc.txt"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
