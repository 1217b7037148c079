package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/dlages/filescope/repository"
)

// CatalogHandler serves the persisted record catalog.
type CatalogHandler struct {
	Records *repository.RecordRepository
	Logger  zerolog.Logger
}

func (ch *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	rows, err := ch.Records.ListAll(limit, offset)
	if err != nil {
		ch.Logger.Error().Err(err).Msg("failed to list catalog")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to list catalog"})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (ch *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required query parameter: path"})
		return
	}

	row, err := ch.Records.GetByPath(path)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Record not found"})
			return
		}
		ch.Logger.Error().Str("path", path).Err(err).Msg("failed to get catalog record")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve record"})
		return
	}

	rec, err := ch.Records.Record(row)
	if err != nil {
		ch.Logger.Error().Str("path", path).Err(err).Msg("failed to decode catalog record")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to decode record"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"catalog": row,
		"record":  rec,
	})
}

func (ch *CatalogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required query parameter: path"})
		return
	}

	if err := ch.Records.DeleteByPath(path); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Record not found"})
			return
		}
		ch.Logger.Error().Str("path", path).Err(err).Msg("failed to delete catalog record")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to delete record"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": path})
}

func (ch *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	var query repository.SearchQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}

	rows, err := ch.Records.Search(query)
	if err != nil {
		ch.Logger.Error().Err(err).Msg("catalog search failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Catalog search failed"})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// Duplicates lists catalogued records sharing the content score of the
// given path, surfacing the same bytes under different names.
func (ch *CatalogHandler) Duplicates(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required query parameter: path"})
		return
	}

	row, err := ch.Records.GetByPath(path)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Record not found"})
			return
		}
		ch.Logger.Error().Str("path", path).Err(err).Msg("failed to get catalog record")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve record"})
		return
	}
	if row.ContentScore == "" {
		writeJSON(w, http.StatusOK, []interface{}{})
		return
	}

	rows, err := ch.Records.FindByContentScore(row.ContentScore)
	if err != nil {
		ch.Logger.Error().Str("path", path).Err(err).Msg("duplicate lookup failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Duplicate lookup failed"})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
