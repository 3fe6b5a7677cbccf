package document

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbis-trading/invoice-extractor/internal/common"
)

func writeDocx(t *testing.T, documentXML string) string {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "invoice.docx")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

const sampleDocumentXML = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>COMMERCIAL INVOICE</w:t></w:r></w:p>
    <w:p><w:r><w:t></w:t></w:r></w:p>
    <w:p><w:r><w:t>Description of Goods</w:t></w:r></w:p>
    <w:p><w:r><w:t>01234 </w:t></w:r><w:r><w:t>polished tile</w:t></w:r></w:p>
    <w:tbl>
      <w:tr>
        <w:tc><w:p><w:r><w:t>Invoice Number INV-9</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>Currency USD</w:t></w:r></w:p></w:tc>
      </w:tr>
      <w:tr>
        <w:tc><w:p><w:r><w:t>Sqm 10,00 20,00</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>Sqm 10,00 20,00</w:t></w:r></w:p></w:tc>
      </w:tr>
    </w:tbl>
    <w:p><w:r><w:t>Signature</w:t></w:r></w:p>
  </w:body>
</w:document>`

func TestExtractDocx(t *testing.T) {
	path := writeDocx(t, sampleDocumentXML)

	lines, cells, err := extractDocx(path)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"COMMERCIAL INVOICE",
		"Description of Goods",
		"01234 polished tile",
		"Invoice Number INV-9",
		"Currency USD",
		"Sqm 10,00 20,00",
		"Sqm 10,00 20,00",
		"Signature",
	}, lines, "paragraphs in document order, blanks dropped")

	// duplicated cell text collapses to the first occurrence
	assert.Equal(t, []string{
		"Invoice Number INV-9",
		"Currency USD",
		"Sqm 10,00 20,00",
	}, cells)
}

func TestExtractDocxUnreadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.docx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))

	_, _, err := extractDocx(path)
	require.Error(t, err)
	assert.True(t, common.IsDocumentReadError(err))
}

func TestExtractDocxMissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err := zw.Create("word/other.xml")
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "empty.docx")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	_, _, err = extractDocx(path)
	require.Error(t, err)
	assert.True(t, common.IsDocumentReadError(err))
}
