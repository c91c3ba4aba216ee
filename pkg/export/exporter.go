package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/openrelief/masterlist/pkg/masterlist"
)

// Store supplies the data an export needs: confirmed duplicate record ids
// and pages of records in ascending-ID order.
type Store interface {
	ConfirmedSecondaryIDs(ctx context.Context, masterlistID uint64) ([]uint64, error)
	RecordPage(ctx context.Context, masterlistID uint64, afterID uint64, limit int) ([]masterlist.Record, error)
}

// Exporter streams the clean CSV for a masterlist: every record except those
// appearing as record_2 in a confirmed duplicate pair. The record_2 side of
// a confirmed pair is, by convention, the copy that does not survive.
type Exporter struct {
	store    Store
	pageSize int
}

func NewExporter(store Store, pageSize int) *Exporter {
	if pageSize <= 0 {
		pageSize = 500
	}
	return &Exporter{store: store, pageSize: pageSize}
}

func (e *Exporter) Export(ctx context.Context, w io.Writer, masterlistID uint64) error {
	dropIDs, err := e.store.ConfirmedSecondaryIDs(ctx, masterlistID)
	if err != nil {
		return fmt.Errorf("loading confirmed duplicates: %w", err)
	}
	dropped := make(map[uint64]struct{}, len(dropIDs))
	for _, id := range dropIDs {
		dropped[id] = struct{}{}
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(masterlist.ExportHeader()); err != nil {
		return err
	}

	var afterID uint64
	for {
		page, err := e.store.RecordPage(ctx, masterlistID, afterID, e.pageSize)
		if err != nil {
			return fmt.Errorf("loading record page: %w", err)
		}
		if len(page) == 0 {
			break
		}

		for i := range page {
			rec := &page[i]
			afterID = rec.ID
			if _, drop := dropped[rec.ID]; drop {
				continue
			}
			if err := writer.Write(recordRow(rec)); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

func recordRow(rec *masterlist.Record) []string {
	birthday := ""
	if rec.Birthday != nil {
		birthday = rec.Birthday.Format("2006-01-02")
	}
	return []string{
		rec.LastName,
		rec.FirstName,
		strVal(rec.MiddleName),
		strVal(rec.ExtName),
		birthday,
		strVal(rec.RegionName),
		strVal(rec.ProvinceName),
		strVal(rec.CityName),
		strVal(rec.BarangayName),
		strVal(rec.PurokSitio),
	}
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
