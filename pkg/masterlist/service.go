package masterlist

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/openrelief/masterlist/pkg/common/logger"
	"github.com/openrelief/masterlist/pkg/observability/metrics"
	"gorm.io/datatypes"
)

type Service struct {
	repo      *Repository
	chunkSize int
}

func NewService(repo *Repository, chunkSize int) *Service {
	if chunkSize <= 0 {
		chunkSize = 500
	}
	return &Service{repo: repo, chunkSize: chunkSize}
}

// Ingest creates a masterlist from an uploaded CSV and walks it through
// pending -> processing -> ready. Row-level problems (short rows, bad
// birthdays) degrade the row rather than failing the upload.
func (s *Service) Ingest(ctx context.Context, ownerID, incidentName, filename string, csvData io.Reader) (*Masterlist, error) {
	ml := &Masterlist{
		OwnerID:          ownerID,
		IncidentName:     incidentName,
		OriginalFilename: filename,
		Status:           StatusPending,
		Metadata: datatypes.JSONMap{
			"source":      "csv-upload",
			"uploaded_at": time.Now().UTC().Format(time.RFC3339),
		},
	}
	if err := s.repo.Create(ctx, ml); err != nil {
		return nil, fmt.Errorf("creating masterlist: %w", err)
	}

	if err := s.repo.SetStatus(ctx, ml.ID, StatusProcessing); err != nil {
		return nil, fmt.Errorf("marking masterlist processing: %w", err)
	}

	records, err := ParseRecords(ml.ID, csvData)
	if err != nil {
		return nil, fmt.Errorf("parsing masterlist CSV: %w", err)
	}

	if err := s.repo.InsertRecords(ctx, records, s.chunkSize); err != nil {
		return nil, fmt.Errorf("inserting masterlist records: %w", err)
	}

	if err := s.repo.MarkReady(ctx, ml.ID, len(records)); err != nil {
		return nil, fmt.Errorf("marking masterlist ready: %w", err)
	}

	metrics.ObserveIngest(len(records))
	logger.Log.WithFields(map[string]interface{}{
		"masterlist_id": ml.ID,
		"incident_name": incidentName,
		"record_count":  len(records),
	}).Info("Masterlist ingested")

	ml.Status = StatusReady
	ml.RecordCount = len(records)
	return ml, nil
}

func (s *Service) Get(ctx context.Context, id uint64) (*Masterlist, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, ownerID string, limit int) ([]Masterlist, error) {
	return s.repo.List(ctx, ownerID, limit)
}

func (s *Service) Delete(ctx context.Context, id uint64) error {
	return s.repo.Delete(ctx, id)
}
