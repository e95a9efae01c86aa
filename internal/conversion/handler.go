package conversion

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/fileforge/fileforge/pkg/handlers"
	"github.com/fileforge/fileforge/pkg/routes"
)

// uploadField is the multipart form field carrying the file.
const uploadField = "file"

// Handler exposes the conversion service over HTTP.
type Handler struct {
	service   System
	maxUpload int64
	logger    *slog.Logger
}

// NewHandler creates the conversion HTTP handler. maxUpload bounds how
// many bytes are read from a multipart file part; the validator applies
// the authoritative size check on the buffered payload.
func NewHandler(service System, maxUpload int64, logger *slog.Logger) *Handler {
	return &Handler{
		service:   service,
		maxUpload: maxUpload,
		logger:    logger.With("system", "conversion"),
	}
}

// Routes implements routes.System registration for the conversion API.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/api",
		Description: "File conversion operations",
		Routes: []routes.Route{
			{Method: http.MethodPost, Pattern: "/upload", Handler: h.handleUpload},
			{Method: http.MethodPost, Pattern: "/convert", Handler: h.handleConvert},
			{Method: http.MethodGet, Pattern: "/download/{id}", Handler: h.handleDownload},
		},
	}
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile(uploadField)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest,
			fmt.Errorf("multipart field %q is required: %w", uploadField, err))
		return
	}
	defer file.Close()

	// Read one byte past the ceiling so the validator can distinguish
	// at-limit from over-limit without buffering an unbounded payload.
	data, err := io.ReadAll(io.LimitReader(file, h.maxUpload+1))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError,
			fmt.Errorf("read upload: %w", err))
		return
	}

	result, err := h.service.Upload(r.Context(), header.Filename, data)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest,
			fmt.Errorf("invalid request body: %w", err))
		return
	}

	if req.TargetFormat == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest,
			errors.New("target_format is required"))
		return
	}

	resp, err := h.service.Convert(r.Context(), req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	download, err := h.service.Download(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondAttachment(w, download.Filename, download.MIMEType, download.Data)
}
