package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/local/resumeai/internal/config"
	"github.com/local/resumeai/internal/extract"
	"github.com/local/resumeai/internal/filetype"
	"github.com/local/resumeai/internal/pipeline"
	"github.com/local/resumeai/internal/render"
	"github.com/local/resumeai/internal/upstream"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"too large", &pipeline.PayloadTooLargeError{Size: 10 << 20, Limit: 5 << 20}, http.StatusRequestEntityTooLarge},
		{"unsupported format", &extract.UnsupportedFormatError{Reason: "corrupt"}, http.StatusBadRequest},
		{"decode", &extract.DecodeError{Reason: "bad utf8"}, http.StatusBadRequest},
		{"empty content", extract.ErrEmptyContent, http.StatusBadRequest},
		{"upstream down", &upstream.UpstreamError{URL: "http://x", StatusCode: 502}, http.StatusInternalServerError},
		{"malformed response", upstream.ErrMalformedResponse, http.StatusInternalServerError},
		{"empty response", upstream.ErrEmptyResponse, http.StatusInternalServerError},
		{"missing rewrite", pipeline.ErrMissingRewrite, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestParseFlag(t *testing.T) {
	for _, v := range []string{"1", "true", "TRUE", " yes ", "on"} {
		assert.True(t, parseFlag(v), v)
	}
	for _, v := range []string{"", "0", "false", "no", "off", "maybe"} {
		assert.False(t, parseFlag(v), v)
	}
}

func newTestWeb(t *testing.T, webhook http.HandlerFunc) (*Web, func()) {
	t.Helper()
	srv := httptest.NewServer(webhook)
	client := upstream.NewClient(config.UpstreamConfig{WebhookURL: srv.URL, Timeout: 5 * time.Second})
	renderer := render.NewRenderer(config.RenderConfig{SkillsKeywords: []string{"habilidades"}, SkillsTwoColumnMin: 6})
	pipe := pipeline.New(extract.New(), client, renderer, 5<<20)
	return New(pipe, filetype.New(), 5<<20, []string{"*"}), srv.Close
}

func multipartUpload(t *testing.T, filename, contentType string, data []byte, adjust string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	hdr := make(map[string][]string)
	hdr["Content-Disposition"] = []string{`form-data; name="file"; filename="` + filename + `"`}
	hdr["Content-Type"] = []string{contentType}
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)

	if adjust != "" {
		require.NoError(t, mw.WriteField("adjust", adjust))
	}
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestHandleAnalyzeReturnsAnalysis(t *testing.T) {
	web, closeFn := newTestWeb(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"output": "Análise geral do documento.\n\nSugestões:\n- Encurtar o resumo\n\nNota: 8/10"}]`))
	})
	defer closeFn()

	body, ct := multipartUpload(t, "cv.txt", "text/plain", []byte("Nome Completo\nnome@mail.com\n\nEXPERIÊNCIA\nCinco anos."), "")
	req := httptest.NewRequest(http.MethodPost, "/resume/analyze", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	web.handleAnalyze(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Analysis    string `json:"analysis"`
		Suggestions string `json:"suggestions"`
		Score       *int   `json:"score"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Analysis, "Análise geral")
	assert.Contains(t, resp.Suggestions, "Encurtar o resumo")
	require.NotNil(t, resp.Score)
	assert.Equal(t, 8, *resp.Score)
}

func TestHandleAnalyzeAdjustReturnsPDF(t *testing.T) {
	web, closeFn := newTestWeb(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"output": "Nome Completo\nnome@mail.com\n\nRESUMO\nProfissional experiente."}]`))
	})
	defer closeFn()

	body, ct := multipartUpload(t, "cv.txt", "text/plain", []byte("Nome Completo\nnome@mail.com\n\nRESUMO\nProfissional."), "true")
	req := httptest.NewRequest(http.MethodPost, "/resume/analyze", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	web.handleAnalyze(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "curriculo_ajustado.pdf")
	assert.Equal(t, "%PDF", rec.Body.String()[:4])
}

func TestHandleAnalyzeMethodNotAllowed(t *testing.T) {
	web, closeFn := newTestWeb(t, func(w http.ResponseWriter, r *http.Request) {})
	defer closeFn()

	rec := httptest.NewRecorder()
	web.handleAnalyze(rec, httptest.NewRequest(http.MethodGet, "/resume/analyze", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleAnalyzeMissingFile(t *testing.T) {
	web, closeFn := newTestWeb(t, func(w http.ResponseWriter, r *http.Request) {})
	defer closeFn()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("adjust", "true"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/resume/analyze", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()

	web.handleAnalyze(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAnalyzeUnsupportedType(t *testing.T) {
	web, closeFn := newTestWeb(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("webhook must not be called for a rejected upload")
	})
	defer closeFn()

	png := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}
	body, ct := multipartUpload(t, "photo.png", "image/png", png, "")
	req := httptest.NewRequest(http.MethodPost, "/resume/analyze", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	web.handleAnalyze(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Detail, "unsupported file type")
}

func TestHandleAnalyzeUpstreamFailure(t *testing.T) {
	web, closeFn := newTestWeb(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer closeFn()

	body, ct := multipartUpload(t, "cv.txt", "text/plain", []byte("Nome\nnome@mail.com\n\ntexto"), "")
	req := httptest.NewRequest(http.MethodPost, "/resume/analyze", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	web.handleAnalyze(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCORS(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("wildcard", func(t *testing.T) {
		web := New(nil, nil, 0, []string{"*"})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "http://example.com")
		web.CORS(inner).ServeHTTP(rec, req)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("allowed origin echoed", func(t *testing.T) {
		web := New(nil, nil, 0, []string{"http://app.local"})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "http://app.local")
		web.CORS(inner).ServeHTTP(rec, req)
		assert.Equal(t, "http://app.local", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "Origin", rec.Header().Get("Vary"))
	})

	t.Run("other origin gets nothing", func(t *testing.T) {
		web := New(nil, nil, 0, []string{"http://app.local"})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "http://evil.local")
		web.CORS(inner).ServeHTTP(rec, req)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		web := New(nil, nil, 0, []string{"*"})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/resume/analyze", nil)
		req.Header.Set("Origin", "http://example.com")
		web.CORS(inner).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}
