package conversion

import "fmt"

// DefaultCompressQuality is the JPEG quality applied when a compress
// request does not specify one.
const DefaultCompressQuality = 70

// UploadResult is returned after an upload is validated and stored.
// PageCount is populated for PDF uploads only.
type UploadResult struct {
	JobID     string `json:"job_id"`
	Filename  string `json:"filename"`
	MIMEType  string `json:"mime_type"`
	Size      int64  `json:"size"`
	PageCount int    `json:"page_count,omitempty"`
}

// Options carries optional conversion parameters. Which fields apply
// depends on the target: quality for compress, width and height for
// resize. Irrelevant fields are ignored.
type Options struct {
	Quality int `json:"quality,omitempty"`
	Width   int `json:"width,omitempty"`
	Height  int `json:"height,omitempty"`
}

// ConvertRequest identifies an uploaded artifact and the target to
// convert it to.
type ConvertRequest struct {
	JobID        string  `json:"job_id"`
	TargetFormat string  `json:"target_format"`
	Options      Options `json:"options"`
}

// ConvertResponse is returned after a successful conversion.
type ConvertResponse struct {
	JobID    string `json:"job_id"`
	Filename string `json:"filename"`
	MIMEType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

// Download is a converted artifact ready to stream to the client.
type Download struct {
	Filename string
	MIMEType string
	Data     []byte
}

// validateCompress resolves the effective quality for a compress
// request, applying the default when unset.
func (o Options) validateCompress() (int, error) {
	if o.Quality == 0 {
		return DefaultCompressQuality, nil
	}
	if o.Quality < 1 || o.Quality > 100 {
		return 0, fmt.Errorf("%w: quality %d outside 1-100", ErrInvalidOptions, o.Quality)
	}
	return o.Quality, nil
}

// validateResize checks that both target dimensions are present and
// positive.
func (o Options) validateResize() (width, height int, err error) {
	if o.Width <= 0 || o.Height <= 0 {
		return 0, 0, fmt.Errorf("%w: resize requires positive width and height", ErrInvalidOptions)
	}
	return o.Width, o.Height, nil
}
