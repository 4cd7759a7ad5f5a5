package extract

import (
	"bytes"
	"errors"
	"io"

	"github.com/ledongthuc/pdf"
)

// ErrNoText indicates the document produced no extractable text.
var ErrNoText = errors.New("no extractable text")

// PDFText extracts plain text from an in-memory PDF.
// Library used: github.com/ledongthuc/pdf.
func PDFText(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty pdf data")
	}
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	if buf.Len() == 0 {
		return "", ErrNoText
	}
	return buf.String(), nil
}
