package repository

import (
	"github.com/dlages/filescope/metadata"
	"github.com/dlages/filescope/models"
)

// RecordSaver is the catalog write surface the extraction and batch
// handlers depend on.
type RecordSaver interface {
	Save(rec metadata.Record, contentScore string) (*models.FileRecord, error)
}

var _ RecordSaver = (*RecordRepository)(nil)
