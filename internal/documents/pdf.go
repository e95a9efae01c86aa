package documents

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PageSeparator joins per-page text in PDF-to-markdown output. Pages
// are lost as layout; the separator keeps them visible as structure.
const PageSeparator = "\n---\n"

// PageCount returns the number of pages in a PDF. It doubles as a
// structural integrity check since counting requires parsing the
// cross-reference table.
func PageCount(data []byte) (int, error) {
	count, err := api.PageCount(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrConversionFailed, err)
	}
	return count, nil
}

// PDFToMarkdown extracts plain text per page and joins pages with an
// explicit separator. This is a lossy structural downgrade: no OCR, no
// layout reconstruction, images and tables are dropped.
func (c *Converter) PDFToMarkdown(data []byte) ([]byte, error) {
	if _, err := PageCount(data); err != nil {
		return nil, err
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: open pdf: %v", ErrConversionFailed, err)
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			c.logger.Warn("page text extraction failed", "page", i, "error", err)
			continue
		}
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			pages = append(pages, trimmed)
		}
	}

	return []byte(strings.Join(pages, PageSeparator)), nil
}
