package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/placement-copilot/internal/models"
)

func TestTextExtractor_PlainText(t *testing.T) {
	e := NewTextExtractor()

	text, err := e.ExtractText(&models.ResumeFile{
		Name:      "resume.txt",
		MediaType: "text/plain; charset=utf-8",
		Data:      []byte("  Jane Doe  \n\n\n  Go developer \n"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nGo developer", text)
}

func TestTextExtractor_Errors(t *testing.T) {
	e := NewTextExtractor()

	_, err := e.ExtractText(nil)
	assert.ErrorIs(t, err, ErrNoTextContent)

	_, err = e.ExtractText(&models.ResumeFile{MediaType: MediaTypePlain, Data: []byte(" \n \n")})
	assert.ErrorIs(t, err, ErrNoTextContent)

	_, err = e.ExtractText(&models.ResumeFile{MediaType: "image/png", Data: []byte{1, 2, 3}})
	assert.Error(t, err)

	_, err = e.ExtractText(&models.ResumeFile{MediaType: MediaTypePDF, Data: []byte("not a pdf")})
	assert.Error(t, err)

	_, err = e.ExtractText(&models.ResumeFile{MediaType: MediaTypeDOCX, Data: []byte("not a zip")})
	assert.Error(t, err)
}

func TestStripXMLTags(t *testing.T) {
	in := `<w:body><w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p><w:p><w:r><w:t>Go &amp; SQL</w:t></w:r></w:p></w:body>`
	assert.Equal(t, "Jane Doe\nGo &amp; SQL\n", stripXMLTags(in))
}
