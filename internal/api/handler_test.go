package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"
	"time"

	"fjacquet/trs-records/internal/logging"
	"fjacquet/trs-records/internal/models"
	"fjacquet/trs-records/internal/pdfparser"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statementText = "Page 1 of 1\nType : SALE Trs# : 104\nDate : 2021-01-05 Invoice# : 9001\nBALANCE $120.50\nType : Trs# : VOIDED 105\nBALANCE -$5.00\n"

func setupTestApp(extractor pdfparser.PageExtractor) *fiber.App {
	logger := logging.NewMockLogger()
	parser := pdfparser.NewParser(logger, extractor)
	return NewApp(NewHandler(parser, logger), 1)
}

func newMultipart(t *testing.T, fields map[string]string, fileName string, fileBody []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileName != "" {
		fw, err := w.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = fw.Write(fileBody)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

func doExtract(t *testing.T, app *fiber.App, body io.Reader, contentType string) (int, ExtractResponse) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/extract", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out ExtractResponse
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return resp.StatusCode, out
}

func TestHealthEndpoint(t *testing.T) {
	app := setupTestApp(pdfparser.NewMockExtractor(nil, nil))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "ok", result["status"])
	assert.Equal(t, "fiber", result["engine"])
}

func TestExtractEndpoint_Text(t *testing.T) {
	app := setupTestApp(pdfparser.NewMockExtractor(nil, nil))
	body, ct := newMultipart(t, map[string]string{"text": statementText}, "", nil)

	status, out := doExtract(t, app, body, ct)
	assert.Equal(t, fiber.StatusOK, status)
	assert.True(t, out.Success)
	assert.Equal(t, 2, out.Count)
	require.Len(t, out.Records, 2)
	assert.Equal(t, models.TransactionTypeSale, out.Records[0].Type)
	assert.Equal(t, models.TransactionTypeVoided, out.Records[1].Type)
	require.NotNil(t, out.Summary)
	assert.Equal(t, 1, out.Summary.ByType[models.TransactionTypeVoided])
	require.Len(t, out.Details, 2)
	assert.Equal(t, "9001", out.Details[0].Invoice)
}

func TestExtractEndpoint_File(t *testing.T) {
	extractor := pdfparser.NewMockExtractor([]string{statementText}, nil)
	app := setupTestApp(extractor)
	body, ct := newMultipart(t, nil, "statement.pdf", []byte("%PDF-1.4"))

	status, out := doExtract(t, app, body, ct)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 2, out.Count)
	assert.Len(t, extractor.Calls, 1)
}

func TestExtractEndpoint_NoRecords(t *testing.T) {
	app := setupTestApp(pdfparser.NewMockExtractor(nil, nil))
	body, ct := newMultipart(t, map[string]string{"text": "Page 1 of 1\n\nfile:///x.pdf\n"}, "", nil)

	status, out := doExtract(t, app, body, ct)
	assert.Equal(t, fiber.StatusOK, status)
	assert.True(t, out.Success)
	assert.Equal(t, 0, out.Count)
	assert.NotNil(t, out.Records)
	assert.Empty(t, out.Records)
}

func TestExtractEndpoint_IncompleteRecord(t *testing.T) {
	app := setupTestApp(pdfparser.NewMockExtractor(nil, nil))
	body, ct := newMultipart(t, map[string]string{"text": "Type : SALE Trs# : 1\nno balance"}, "", nil)

	status, out := doExtract(t, app, body, ct)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.False(t, out.Success)
	assert.Contains(t, out.Error, "closing balance marker")
}

func TestExtractEndpoint_ExtractionFailure(t *testing.T) {
	app := setupTestApp(pdfparser.NewMockExtractor(nil, errors.New("encrypted document")))
	body, ct := newMultipart(t, nil, "statement.pdf", []byte("%PDF-1.4"))

	status, out := doExtract(t, app, body, ct)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, out.Error, "encrypted document")
}

func TestExtractEndpoint_RequiresInput(t *testing.T) {
	app := setupTestApp(pdfparser.NewMockExtractor(nil, nil))
	body, ct := newMultipart(t, nil, "", nil)

	status, out := doExtract(t, app, body, ct)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.False(t, out.Success)
}

func TestErrorResponses_ShareShape(t *testing.T) {
	app := setupTestApp(pdfparser.NewMockExtractor(nil, nil))
	app.Get("/api/panic", func(c *fiber.Ctx) error {
		panic("boom")
	})
	emptyForm, emptyCT := newMultipart(t, nil, "", nil)

	tests := []struct {
		name        string
		method      string
		path        string
		body        io.Reader
		contentType string
		wantStatus  int
	}{
		{"handler error", "POST", "/api/extract", emptyForm, emptyCT, fiber.StatusBadRequest},
		{"unknown route", "GET", "/api/missing", nil, "", fiber.StatusNotFound},
		{"recovered panic", "GET", "/api/panic", nil, "", fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, tt.body)
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			raw, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Contains(t, string(raw), `"success":false`)
			assert.Contains(t, string(raw), `"records":[]`)
			assert.Contains(t, string(raw), `"details":[]`)
			assert.NotContains(t, string(raw), "null")
		})
	}
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	app := setupTestApp(pdfparser.NewMockExtractor(nil, nil))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- Serve(ctx, app, "127.0.0.1:0", logging.NewMockLogger()) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
