package conversion_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fileforge/fileforge/internal/artifacts"
	"github.com/fileforge/fileforge/internal/conversion"
	"github.com/fileforge/fileforge/internal/routes"
)

const testMaxUpload = 1 << 20

func testServer(t *testing.T) *httptest.Server {
	t.Helper()

	handler := conversion.NewHandler(testService(t, testMaxUpload), testMaxUpload, testLogger())

	registry := routes.New(testLogger())
	registry.RegisterGroup(handler.Routes())

	srv := httptest.NewServer(registry.Build())
	t.Cleanup(srv.Close)
	return srv
}

func multipartUpload(t *testing.T, url, filename string, data []byte) *http.Response {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	writer.Close()

	resp, err := http.Post(url+"/api/upload", writer.FormDataContentType(), &body)
	if err != nil {
		t.Fatalf("POST /api/upload: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func postConvert(t *testing.T, url string, req conversion.ConvertRequest) *http.Response {
	t.Helper()

	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	resp, err := http.Post(url+"/api/convert", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /api/convert: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHandler_UploadConvertDownload(t *testing.T) {
	srv := testServer(t)

	resp := multipartUpload(t, srv.URL, "photo.png", testPNG(t))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("upload status = %d", resp.StatusCode)
	}
	upload := decodeJSON[conversion.UploadResult](t, resp)

	if err := artifacts.ValidateID(upload.JobID); err != nil {
		t.Fatalf("invalid job id %q: %v", upload.JobID, err)
	}

	resp = postConvert(t, srv.URL, conversion.ConvertRequest{JobID: upload.JobID, TargetFormat: "jpg"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("convert status = %d", resp.StatusCode)
	}
	converted := decodeJSON[conversion.ConvertResponse](t, resp)
	if converted.Filename != "converted.jpg" {
		t.Errorf("expected converted.jpg, got %q", converted.Filename)
	}

	dlResp, err := http.Get(srv.URL + "/api/download/" + upload.JobID)
	if err != nil {
		t.Fatalf("GET /api/download: %v", err)
	}
	defer dlResp.Body.Close()

	if dlResp.StatusCode != http.StatusOK {
		t.Fatalf("download status = %d", dlResp.StatusCode)
	}
	if ct := dlResp.Header.Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("expected image/jpeg content type, got %q", ct)
	}
	if cd := dlResp.Header.Get("Content-Disposition"); !strings.Contains(cd, `filename="converted.jpg"`) {
		t.Errorf("unexpected content disposition %q", cd)
	}
}

func TestHandler_UploadMissingFileField(t *testing.T) {
	srv := testServer(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	writer.WriteField("name", "no file here")
	writer.Close()

	resp, err := http.Post(srv.URL+"/api/upload", writer.FormDataContentType(), &body)
	if err != nil {
		t.Fatalf("POST /api/upload: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestHandler_UploadRejectsOversize(t *testing.T) {
	srv := testServer(t)

	// Valid PNG header followed by padding past the limit; size is
	// checked before type, so payload content past the gate is moot.
	payload := append(testPNG(t), make([]byte, testMaxUpload)...)

	resp := multipartUpload(t, srv.URL, "big.png", payload)
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", resp.StatusCode)
	}
}

func TestHandler_UploadRejectsMismatchedExtension(t *testing.T) {
	srv := testServer(t)

	resp := multipartUpload(t, srv.URL, "photo.jpg", testPNG(t))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}

	body := decodeJSON[map[string]string](t, resp)
	if body["error"] == "" {
		t.Error("error body should carry a message")
	}
}

func TestHandler_ConvertErrors(t *testing.T) {
	srv := testServer(t)

	upload := decodeJSON[conversion.UploadResult](t, multipartUpload(t, srv.URL, "photo.png", testPNG(t)))

	tests := []struct {
		name     string
		req      conversion.ConvertRequest
		expected int
	}{
		{"malformed id", conversion.ConvertRequest{JobID: "zzz", TargetFormat: "jpg"}, http.StatusBadRequest},
		{"unknown id", conversion.ConvertRequest{JobID: artifacts.NewID(), TargetFormat: "jpg"}, http.StatusNotFound},
		{"missing target", conversion.ConvertRequest{JobID: upload.JobID}, http.StatusBadRequest},
		{"unsupported target", conversion.ConvertRequest{JobID: upload.JobID, TargetFormat: "tiff"}, http.StatusBadRequest},
		{"invalid options", conversion.ConvertRequest{
			JobID: upload.JobID, TargetFormat: "resize",
		}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postConvert(t, srv.URL, tt.req)
			if resp.StatusCode != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, resp.StatusCode)
			}
		})
	}
}

func TestHandler_ConvertRejectsBadJSON(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Post(srv.URL+"/api/convert", "application/json", strings.NewReader("{not json"))
	if err != nil {
		t.Fatalf("POST /api/convert: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestHandler_DownloadErrors(t *testing.T) {
	srv := testServer(t)

	tests := []struct {
		name     string
		id       string
		expected int
	}{
		{"malformed id", "not-a-uuid", http.StatusBadRequest},
		{"unknown id", artifacts.NewID(), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(fmt.Sprintf("%s/api/download/%s", srv.URL, tt.id))
			if err != nil {
				t.Fatalf("GET /api/download: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, resp.StatusCode)
			}
		})
	}
}
