package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/offerta-labs/citemark/internal/core/domain"
)

// buildDocx assembles a minimal DOCX archive with the given document.xml.
func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

const sampleXML = `<?xml version="1.0"?>
<document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <body>
    <p><r><t>Pierwszy akapit umowy</t></r></p>
    <p><r><t>Drugi akapit </t></r><r><t>sklejony z dwóch runów</t></r></p>
    <p><r><t>   </t></r></p>
  </body>
</document>`

func TestNew(t *testing.T) {
	builder := New()
	require.NotNil(t, builder)
	assert.IsType(t, &Builder{}, builder)
}

func TestSupportedTypes(t *testing.T) {
	assert.Equal(t, []domain.FileType{domain.FileTypeDOCX}, New().SupportedTypes())
}

func TestPriority(t *testing.T) {
	assert.Equal(t, 50, New().Priority())
}

func TestBuild(t *testing.T) {
	content := buildDocx(t, sampleXML)

	layer, err := New().Build(context.Background(), domain.FileRecord{}, content)
	require.NoError(t, err)

	assert.True(t, layer.Ready())
	require.Equal(t, 2, layer.NodeCount())

	nodes := layer.Nodes()
	assert.Equal(t, "Pierwszy akapit umowy", nodes[0].Text)
	assert.Equal(t, "Drugi akapit sklejony z dwóch runów", nodes[1].Text)
}

func TestBuild_NotAZip(t *testing.T) {
	_, err := New().Build(context.Background(), domain.FileRecord{}, []byte("plain text"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBuild_MissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/other.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte("<x/>"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = New().Build(context.Background(), domain.FileRecord{}, buf.Bytes())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
