package conversion

import (
	"context"
	"fmt"
	"strings"

	"github.com/fileforge/fileforge/internal/documents"
	"github.com/fileforge/fileforge/internal/images"
)

// Document media types the router dispatches on.
const (
	mimePDF      = "application/pdf"
	mimeDOCX     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeMarkdown = "text/markdown"
	mimePlain    = "text/plain"
)

// imageTargets maps target format names to image media types.
var imageTargets = map[string]string{
	"png":  images.MIMEPNG,
	"jpg":  images.MIMEJPEG,
	"jpeg": images.MIMEJPEG,
	"gif":  images.MIMEGIF,
	"webp": images.MIMEWebP,
}

// Result is the output of a routed conversion.
type Result struct {
	Data      []byte
	MIMEType  string
	Extension string
}

// rule pairs a match predicate with the conversion it performs. Rules
// are evaluated in declaration order and the first match wins; no
// converter runs unless its rule matched.
type rule struct {
	name  string
	match func(sourceMIME, target string) bool
	apply func(ctx context.Context, data []byte, target string, opts Options) (*Result, error)
}

// Router dispatches a (source type, target format) pair to exactly one
// converter. Image format conversion is declared before the image
// action rules, so a target naming a format is never mistaken for an
// action.
type Router struct {
	rules []rule
}

// NewRouter creates a conversion router over the given document
// converter. Image operations are pure and need no dependencies.
func NewRouter(docs *documents.Converter) *Router {
	return &Router{rules: []rule{
		{
			name: "image format conversion",
			match: func(source, target string) bool {
				_, ok := imageTargets[target]
				return images.IsImage(source) && ok
			},
			apply: func(_ context.Context, data []byte, target string, _ Options) (*Result, error) {
				targetMIME := imageTargets[target]
				out, err := images.Convert(data, targetMIME)
				if err != nil {
					return nil, err
				}
				return imageResult(out, targetMIME), nil
			},
		},
		{
			name: "image compression",
			match: func(source, target string) bool {
				return images.IsImage(source) && target == "compress"
			},
			apply: func(_ context.Context, data []byte, _ string, opts Options) (*Result, error) {
				quality, err := opts.validateCompress()
				if err != nil {
					return nil, err
				}
				out, err := images.Compress(data, quality)
				if err != nil {
					return nil, err
				}
				return imageResult(out, images.MIMEJPEG), nil
			},
		},
		{
			name: "image resize",
			match: func(source, target string) bool {
				return images.IsImage(source) && target == "resize"
			},
			apply: func(_ context.Context, data []byte, _ string, opts Options) (*Result, error) {
				width, height, err := opts.validateResize()
				if err != nil {
					return nil, err
				}
				out, err := images.Resize(data, width, height)
				if err != nil {
					return nil, err
				}
				return imageResult(out, ""), nil
			},
		},
		{
			name: "image metadata strip",
			match: func(source, target string) bool {
				return images.IsImage(source) && target == "strip_metadata"
			},
			apply: func(_ context.Context, data []byte, _ string, _ Options) (*Result, error) {
				out, err := images.StripMetadata(data)
				if err != nil {
					return nil, err
				}
				return imageResult(out, ""), nil
			},
		},
		{
			name: "markdown to pdf",
			match: func(source, target string) bool {
				return (source == mimeMarkdown || source == mimePlain) && target == "pdf"
			},
			apply: func(ctx context.Context, data []byte, _ string, _ Options) (*Result, error) {
				out, err := docs.MarkdownToPDF(ctx, data)
				if err != nil {
					return nil, err
				}
				return &Result{Data: out, MIMEType: mimePDF, Extension: ".pdf"}, nil
			},
		},
		{
			name: "office to pdf",
			match: func(source, target string) bool {
				return source == mimeDOCX && target == "pdf"
			},
			apply: func(ctx context.Context, data []byte, _ string, _ Options) (*Result, error) {
				out, err := docs.OfficeToPDF(ctx, data)
				if err != nil {
					return nil, err
				}
				return &Result{Data: out, MIMEType: mimePDF, Extension: ".pdf"}, nil
			},
		},
		{
			name: "pdf to markdown",
			match: func(source, target string) bool {
				return source == mimePDF && (target == "md" || target == "markdown")
			},
			apply: func(_ context.Context, data []byte, _ string, _ Options) (*Result, error) {
				out, err := docs.PDFToMarkdown(data)
				if err != nil {
					return nil, err
				}
				return &Result{Data: out, MIMEType: mimeMarkdown, Extension: ".md"}, nil
			},
		},
	}}
}

// Route converts data according to the first rule matching the source
// media type and target format. Target matching is case-insensitive.
func (r *Router) Route(ctx context.Context, sourceMIME, target string, data []byte, opts Options) (*Result, error) {
	target = strings.ToLower(strings.TrimSpace(target))

	for _, rl := range r.rules {
		if rl.match(sourceMIME, target) {
			return rl.apply(ctx, data, target, opts)
		}
	}

	return nil, fmt.Errorf("%w: cannot convert %s to %q", ErrUnsupportedConversion, sourceMIME, target)
}

// imageResult builds a Result for an image operation. When the output
// media type is not determined by the operation itself, it is
// re-detected from the encoded bytes so format-preserving operations
// report the container they actually produced.
func imageResult(data []byte, mime string) *Result {
	if mime == "" {
		mime = sniffImage(data)
	}
	return &Result{Data: data, MIMEType: mime, Extension: images.Extensions[mime]}
}

// sniffImage identifies an encoded image's container by magic bytes.
// Only formats the encoder can produce are considered.
func sniffImage(data []byte) string {
	switch {
	case len(data) >= 8 && string(data[:8]) == "\x89PNG\r\n\x1a\n":
		return images.MIMEPNG
	case len(data) >= 3 && string(data[:3]) == "\xff\xd8\xff":
		return images.MIMEJPEG
	case len(data) >= 6 && (string(data[:6]) == "GIF87a" || string(data[:6]) == "GIF89a"):
		return images.MIMEGIF
	default:
		return images.MIMEPNG
	}
}
