package plaintext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/offerta-labs/citemark/internal/core/domain"
)

func TestNew(t *testing.T) {
	builder := New()
	require.NotNil(t, builder)
	assert.IsType(t, &Builder{}, builder)
}

func TestSupportedTypes(t *testing.T) {
	types := New().SupportedTypes()
	assert.Contains(t, types, domain.FileTypeTXT)
	assert.Contains(t, types, domain.FileTypeDOC)
	assert.Contains(t, types, domain.FileTypeODT)
}

func TestPriority(t *testing.T) {
	assert.Equal(t, 1, New().Priority())
}

func TestBuild(t *testing.T) {
	rec := domain.FileRecord{ID: "f1", Type: domain.FileTypeTXT}
	content := []byte("pierwsza linia\n\n  \ndruga linia\r\n")

	layer, err := New().Build(context.Background(), rec, content)
	require.NoError(t, err)

	assert.True(t, layer.Ready())
	assert.Equal(t, 2, layer.NodeCount())
	assert.Equal(t, "pierwsza linia\ndruga linia", layer.Text())

	nodes := layer.Nodes()
	// Lines stack downwards with fixed height.
	assert.Less(t, nodes[0].Rect.Y, nodes[1].Rect.Y)
	assert.Positive(t, nodes[0].Rect.W)
}

func TestBuild_Empty(t *testing.T) {
	_, err := New().Build(context.Background(), domain.FileRecord{Type: domain.FileTypeTXT}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBuild_SalvagesLegacyFormats(t *testing.T) {
	rec := domain.FileRecord{ID: "f1", Type: domain.FileTypeDOC}
	content := []byte("tre\x00\x01\x02ść dokumentu")

	layer, err := New().Build(context.Background(), rec, content)
	require.NoError(t, err)

	// Control bytes become line breaks; the printable text survives.
	assert.Contains(t, layer.Text(), "ść dokumentu")
}
