package docx

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passim-search/passim/internal/core/domain"
)

func writeDocx(t *testing.T, documentXML string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.docx")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return path
}

const paragraphsOnly = `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second </w:t></w:r><w:r><w:t>paragraph.</w:t></w:r></w:p>
  </w:body>
</w:document>`

const withTable = `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Intro.</w:t></w:r></w:p>
    <w:tbl>
      <w:tr>
        <w:tc><w:p><w:r><w:t>Name</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>Role</w:t></w:r></w:p></w:tc>
      </w:tr>
      <w:tr>
        <w:tc><w:p><w:r><w:t>Ada</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>Engineer</w:t></w:r></w:p></w:tc>
      </w:tr>
    </w:tbl>
  </w:body>
</w:document>`

func TestParseParagraphs(t *testing.T) {
	path := writeDocx(t, paragraphsOnly)

	blocks, err := New().Parse(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, domain.BlockText, blocks[0].Kind)
	assert.Equal(t, "First paragraph.\nSecond paragraph.", blocks[0].Text)
}

func TestParseExtractsTable(t *testing.T) {
	path := writeDocx(t, withTable)

	blocks, err := New().Parse(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, blocks, 2)

	assert.Equal(t, domain.BlockText, blocks[0].Kind)
	assert.Equal(t, "Intro.", blocks[0].Text)

	tbl := blocks[1]
	assert.Equal(t, domain.BlockTable, tbl.Kind)
	assert.Equal(t, "table:1", tbl.TableID)
	assert.Equal(t, 2, tbl.ColumnCount)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, []string{"Name", "Role"}, tbl.Rows[0])
	assert.Equal(t, []string{"Ada", "Engineer"}, tbl.Rows[1])
}

func TestParseNotAZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.docx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))

	_, err := New().Parse(context.Background(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParseMissingDocumentXML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.docx")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	_, err = zw.Create("word/other.xml")
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	_, err = New().Parse(context.Background(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
