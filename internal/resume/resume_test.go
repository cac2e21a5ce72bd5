package resume

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractText(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
		want     string
	}{
		{
			name:     "plain text",
			filename: "cv.txt",
			data:     []byte("  Python   developer\n\n\nSQL expert  "),
			want:     "Python developer\nSQL expert",
		},
		{
			name:     "markdown upper case extension",
			filename: "CV.MD",
			data:     []byte("# Skills\n- Docker"),
			want:     "# Skills\n- Docker",
		},
		{
			name:     "docx",
			filename: "cv.docx",
			data: buildDocx(t, `<w:document><w:body>`+
				`<w:p><w:r><w:t>Python</w:t></w:r></w:p>`+
				`<w:p><w:r><w:t>SQL</w:t><w:tab/><w:t>Kafka</w:t></w:r></w:p>`+
				`</w:body></w:document>`),
			want: "Python\nSQL Kafka",
		},
		{
			name:     "docx word split across runs",
			filename: "cv.docx",
			data: buildDocx(t, `<w:document><w:body><w:p>`+
				`<w:r><w:t>Skills: Pyt</w:t></w:r>`+
				`<w:r><w:rPr><w:b/></w:rPr><w:t>hon, C</w:t></w:r>`+
				`<w:r><w:t>++ and SQL</w:t></w:r>`+
				`<w:r><w:br/><w:t xml:space="preserve">R &amp; D</w:t></w:r>`+
				`</w:p></w:body></w:document>`),
			want: "Skills: Python, C++ and SQL\nR & D",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractText(tt.filename, tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractTextErrors(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
		wantErr  error
	}{
		{name: "unsupported extension", filename: "cv.odt", data: []byte("x"), wantErr: ErrUnsupportedFormat},
		{name: "binary text", filename: "cv.txt", data: []byte{0xff, 0xfe, 0xfd}, wantErr: ErrUnsupportedFormat},
		{name: "blank text", filename: "cv.txt", data: []byte(" \n\t "), wantErr: ErrEmptyText},
		{name: "empty docx", filename: "cv.docx", data: buildDocx(t, `<w:document></w:document>`), wantErr: ErrEmptyText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractText(tt.filename, tt.data)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExtractTextBrokenFiles(t *testing.T) {
	_, err := ExtractText("cv.pdf", []byte("definitely not a pdf"))
	assert.Error(t, err)

	_, err = ExtractText("cv.docx", []byte("not a zip"))
	assert.Error(t, err)
}
