package common

import (
	"bytes"
	"io"
	"strings"

	"github.com/dslipak/pdf"
)

// ExtractRowsFromPDFReader returns the text rows of an e-slip PDF, one string
// per visual row with cells joined by a space.
func ExtractRowsFromPDFReader(reader io.Reader) ([]string, error) {
	var rAt io.ReaderAt
	var size int64

	switch v := reader.(type) {
	case *bytes.Reader:
		rAt, size = v, v.Size()
	case *strings.Reader:
		rAt, size = v, v.Size()
	default:
		b, err := io.ReadAll(reader)
		if err != nil {
			return nil, err
		}
		rAt, size = bytes.NewReader(b), int64(len(b))
	}

	r, err := pdf.NewReader(rAt, size)
	if err != nil {
		return nil, err
	}

	rows := []string{}
	for no := 1; no <= r.NumPage(); no++ {
		page := r.Page(no)
		if page.V.IsNull() {
			continue
		}
		pageRows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		for _, row := range pageRows {
			parts := make([]string, 0, len(row.Content))
			for _, text := range row.Content {
				parts = append(parts, text.S)
			}
			if line := strings.TrimSpace(strings.Join(parts, " ")); line != "" {
				rows = append(rows, line)
			}
		}
	}

	return rows, nil
}
