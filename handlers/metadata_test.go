package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dlages/filescope/metadata"
	"github.com/dlages/filescope/models"
)

type failingCatalog struct{}

func (failingCatalog) Save(metadata.Record, string) (*models.FileRecord, error) {
	return nil, errors.New("catalog unavailable")
}

func postExtract(h *MetadataHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/metadata", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.Extract(rr, req)
	return rr
}

func TestMetadataExtract(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello extraction\n"), 0644))

	mh := &MetadataHandler{Extractor: metadata.Default(), Logger: zerolog.Nop()}

	t.Run("success", func(t *testing.T) {
		rr := postExtract(mh, fmt.Sprintf(`{"path": %q}`, path))
		require.Equal(t, http.StatusOK, rr.Code)

		var rec metadata.Record
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rec))
		assert.Equal(t, "notes.txt", rec[metadata.FieldFileName])
	})

	t.Run("missing file", func(t *testing.T) {
		rr := postExtract(mh, fmt.Sprintf(`{"path": %q}`, filepath.Join(dir, "missing.txt")))
		require.Equal(t, http.StatusNotFound, rr.Code)

		var rec metadata.Record
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rec))
		assert.Equal(t, "File does not exist", rec[metadata.FieldError])
	})

	t.Run("invalid body", func(t *testing.T) {
		rr := postExtract(mh, `{not json`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("blank path", func(t *testing.T) {
		rr := postExtract(mh, `{"path": "  "}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("catalog failure returns error envelope", func(t *testing.T) {
		broken := &MetadataHandler{Extractor: metadata.Default(), Records: failingCatalog{}, Logger: zerolog.Nop()}
		rr := postExtract(broken, fmt.Sprintf(`{"path": %q, "catalog": true}`, path))
		require.Equal(t, http.StatusInternalServerError, rr.Code)

		var resp APIErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, "catalog_failed", resp.Errors[0].Code)
		assert.Equal(t, "500", resp.Errors[0].Status)
	})
}
