package documents

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// OfficeToPDF renders an office document (docx) to PDF with the
// headless office renderer. The renderer writes input.pdf next to the
// temp input file; that file's presence, not the exit code, decides
// success.
func (c *Converter) OfficeToPDF(ctx context.Context, data []byte) ([]byte, error) {
	dir, cleanup, err := scopedDir()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	inputPath := filepath.Join(dir, "input.docx")
	if err := os.WriteFile(inputPath, data, 0600); err != nil {
		return nil, fmt.Errorf("%w: write temp docx: %v", ErrConversionFailed, err)
	}

	if err := c.runRenderer(ctx, c.officeBin,
		"--headless",
		"--convert-to", "pdf",
		"--outdir", dir,
		inputPath,
	); err != nil {
		return nil, err
	}

	return readRendererOutput(filepath.Join(dir, "input.pdf"))
}
