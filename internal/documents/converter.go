package documents

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/fileforge/fileforge/internal/config"
)

// Media type constants for the document family.
const (
	MIMEPDF      = "application/pdf"
	MIMEDocx     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEMarkdown = "text/markdown"
	MIMEPlain    = "text/plain"
)

// Converter runs document conversions. External renderers are invoked
// as subprocesses with a bounded timeout; expiry of the timeout is a
// hard failure, never a retry trigger.
type Converter struct {
	officeBin  string
	htmlPDFBin string
	timeout    time.Duration
	logger     *slog.Logger
}

// New creates a document converter from the convert configuration.
func New(cfg *config.ConvertConfig, logger *slog.Logger) *Converter {
	return &Converter{
		officeBin:  cfg.OfficeBin,
		htmlPDFBin: cfg.HTMLPDFBin,
		timeout:    cfg.TimeoutDuration(),
		logger:     logger.With("system", "documents"),
	}
}

// runRenderer executes an external renderer with the converter timeout.
// The subprocess exit status alone never decides success; callers must
// check for the expected output file.
func (c *Converter) runRenderer(ctx context.Context, bin string, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, bin, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	c.logger.Debug("renderer finished",
		"bin", bin,
		"duration", time.Since(start),
		"error", err,
	)

	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("%w: %s timed out after %s", ErrConversionFailed, bin, c.timeout)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v: %s", ErrConversionFailed, bin, err, stderr.String())
	}
	return nil
}

// scopedDir creates a temporary working directory and returns it with
// a cleanup function. Renderers only ever touch files inside it, so a
// single deferred cleanup guarantees no temp state survives any exit
// path.
func scopedDir() (string, func(), error) {
	dir, err := os.MkdirTemp("", "fileforge-*")
	if err != nil {
		return "", nil, fmt.Errorf("%w: create temp dir: %v", ErrConversionFailed, err)
	}
	return dir, func() { os.RemoveAll(dir) }, nil
}
