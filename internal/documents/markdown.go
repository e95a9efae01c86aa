package documents

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// markdownParser is configured once and shared; goldmark parsers are
// safe for concurrent use. GFM brings table and strikethrough support
// on top of CommonMark's fenced code blocks.
var markdownParser = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// documentShell wraps rendered markdown HTML in a minimal styled page
// for the PDF renderer.
const documentShell = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: sans-serif; margin: 40px; line-height: 1.6; }
code { background: #f4f4f4; padding: 2px 6px; border-radius: 3px; }
pre { background: #f4f4f4; padding: 16px; border-radius: 6px; }
table { border-collapse: collapse; width: 100%%; }
th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
</style>
</head>
<body>
%s
</body>
</html>
`

// MarkdownToPDF parses markdown, wraps the resulting HTML in a styled
// document shell, and renders it to PDF with the external HTML-to-PDF
// renderer.
func (c *Converter) MarkdownToPDF(ctx context.Context, data []byte) ([]byte, error) {
	var html bytes.Buffer
	if err := markdownParser.Convert(data, &html); err != nil {
		return nil, fmt.Errorf("%w: parse markdown: %v", ErrConversionFailed, err)
	}

	dir, cleanup, err := scopedDir()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	inputPath := filepath.Join(dir, "input.html")
	outputPath := filepath.Join(dir, "output.pdf")

	page := fmt.Sprintf(documentShell, html.String())
	if err := os.WriteFile(inputPath, []byte(page), 0600); err != nil {
		return nil, fmt.Errorf("%w: write temp html: %v", ErrConversionFailed, err)
	}

	if err := c.runRenderer(ctx, c.htmlPDFBin, inputPath, outputPath); err != nil {
		return nil, err
	}

	return readRendererOutput(outputPath)
}

// readRendererOutput reads the renderer's expected output file.
// Absence of the file is the authoritative failure signal, regardless
// of the subprocess exit code.
func readRendererOutput(path string) ([]byte, error) {
	result, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: renderer produced no output file", ErrConversionFailed)
	}
	return result, nil
}
