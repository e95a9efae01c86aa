// Package documents provides the document converter family: markdown
// to PDF, office documents to PDF, and PDF to markdown. Image work
// happens in-process; document rendering delegates to external
// renderers invoked as bounded-timeout subprocesses against scoped
// temporary files.
package documents

import "errors"

// ErrConversionFailed wraps every internal document conversion failure:
// corrupt input, renderer crash, timeout, or missing output. Callers
// map it to a server-error outcome; the wrapped detail is for logs.
var ErrConversionFailed = errors.New("document conversion failed")
