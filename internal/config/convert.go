package config

import (
	"fmt"
	"os"
	"time"
)

const (
	// EnvConvertOfficeBin overrides the headless office renderer binary.
	EnvConvertOfficeBin = "CONVERT_OFFICE_BIN"

	// EnvConvertHTMLPDFBin overrides the HTML-to-PDF renderer binary.
	EnvConvertHTMLPDFBin = "CONVERT_HTML_PDF_BIN"

	// EnvConvertTimeout overrides the external renderer timeout.
	EnvConvertTimeout = "CONVERT_TIMEOUT"
)

// ConvertConfig contains external document renderer configuration.
// Image conversions run in-process and need no settings here.
type ConvertConfig struct {
	// OfficeBin is the headless office suite binary used for
	// office-document to PDF rendering. Default: "soffice"
	OfficeBin string `toml:"office_bin"`

	// HTMLPDFBin is the HTML-to-PDF renderer binary used for
	// markdown to PDF rendering. Default: "weasyprint"
	HTMLPDFBin string `toml:"html_pdf_bin"`

	// Timeout bounds each external renderer invocation.
	// Default: "60s"
	Timeout    string `toml:"timeout"`
	timeoutVal time.Duration
}

// TimeoutDuration returns the parsed renderer timeout.
func (c *ConvertConfig) TimeoutDuration() time.Duration {
	return c.timeoutVal
}

// Finalize applies defaults, loads environment overrides, and validates the convert configuration.
func (c *ConvertConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *ConvertConfig) Merge(overlay *ConvertConfig) {
	if overlay.OfficeBin != "" {
		c.OfficeBin = overlay.OfficeBin
	}
	if overlay.HTMLPDFBin != "" {
		c.HTMLPDFBin = overlay.HTMLPDFBin
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *ConvertConfig) loadDefaults() {
	if c.OfficeBin == "" {
		c.OfficeBin = "soffice"
	}
	if c.HTMLPDFBin == "" {
		c.HTMLPDFBin = "weasyprint"
	}
	if c.Timeout == "" {
		c.Timeout = "60s"
	}
}

func (c *ConvertConfig) loadEnv() {
	if v := os.Getenv(EnvConvertOfficeBin); v != "" {
		c.OfficeBin = v
	}
	if v := os.Getenv(EnvConvertHTMLPDFBin); v != "" {
		c.HTMLPDFBin = v
	}
	if v := os.Getenv(EnvConvertTimeout); v != "" {
		c.Timeout = v
	}
}

func (c *ConvertConfig) validate() error {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	c.timeoutVal = d
	return nil
}
