package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"testing"
	"time"

	"github.com/openrelief/masterlist/pkg/masterlist"
)

type fakeStore struct {
	records   []masterlist.Record
	confirmed []uint64
	pageCalls int
	loadErr   error
}

func (s *fakeStore) ConfirmedSecondaryIDs(ctx context.Context, masterlistID uint64) ([]uint64, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.confirmed, nil
}

func (s *fakeStore) RecordPage(ctx context.Context, masterlistID uint64, afterID uint64, limit int) ([]masterlist.Record, error) {
	s.pageCalls++
	var page []masterlist.Record
	for _, rec := range s.records {
		if rec.ID > afterID {
			page = append(page, rec)
		}
		if len(page) == limit {
			break
		}
	}
	return page, nil
}

func strPtr(s string) *string { return &s }

func exportRecord(id uint64, last, first string) masterlist.Record {
	birthday := time.Date(2000, time.March, 10, 0, 0, 0, 0, time.UTC)
	return masterlist.Record{
		ID:           id,
		MasterlistID: 1,
		LastName:     last,
		FirstName:    first,
		CityName:     strPtr("Calamba"),
		Birthday:     &birthday,
	}
}

func runExport(t *testing.T, store *fakeStore, pageSize int) [][]string {
	t.Helper()
	var buf bytes.Buffer
	if err := NewExporter(store, pageSize).Export(context.Background(), &buf, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading exported CSV: %v", err)
	}
	return rows
}

func TestExportDropsConfirmedSecondaries(t *testing.T) {
	store := &fakeStore{
		records: []masterlist.Record{
			exportRecord(1, "Cruz", "Juan"),
			exportRecord(2, "Cruz", "Juan"),
			exportRecord(3, "Bautista", "Elena"),
		},
		confirmed: []uint64{2},
	}

	rows := runExport(t, store, 500)
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 records, got %d rows", len(rows))
	}
	// Record 2 is the confirmed secondary; record 1 survives.
	if rows[1][0] != "Cruz" || rows[2][0] != "Bautista" {
		t.Fatalf("wrong surviving records: %v", rows[1:])
	}
}

func TestExportHeaderAndFieldLayout(t *testing.T) {
	store := &fakeStore{records: []masterlist.Record{exportRecord(1, "Cruz", "Juan")}}

	rows := runExport(t, store, 500)
	header := masterlist.ExportHeader()
	if len(rows[0]) != len(header) {
		t.Fatalf("header width mismatch: %v", rows[0])
	}
	for i, col := range header {
		if rows[0][i] != col {
			t.Fatalf("header column %d: expected %q, got %q", i, col, rows[0][i])
		}
	}

	row := rows[1]
	if row[4] != "2000-03-10" {
		t.Fatalf("birthday should render as date-only, got %q", row[4])
	}
	if row[2] != "" || row[7] != "Calamba" {
		t.Fatalf("optional fields misplaced: %v", row)
	}
}

func TestExportPaginates(t *testing.T) {
	store := &fakeStore{}
	for i := 1; i <= 25; i++ {
		store.records = append(store.records, exportRecord(uint64(i), "Reyes", fmt.Sprintf("Person%02d", i)))
	}

	rows := runExport(t, store, 10)
	if len(rows) != 26 {
		t.Fatalf("expected 25 records plus header, got %d rows", len(rows))
	}
	// 3 full page loads plus the final empty probe.
	if store.pageCalls != 4 {
		t.Fatalf("expected 4 page loads, got %d", store.pageCalls)
	}
}

func TestExportDismissedPairsKeepBothRecords(t *testing.T) {
	store := &fakeStore{
		records: []masterlist.Record{
			exportRecord(1, "Cruz", "Juan"),
			exportRecord(2, "Cruz", "Juan"),
		},
		// Nothing confirmed: dismissed and pending pairs never drop rows.
		confirmed: nil,
	}

	rows := runExport(t, store, 500)
	if len(rows) != 3 {
		t.Fatalf("expected both records exported, got %d rows", len(rows))
	}
}

func TestExportEmptyMasterlist(t *testing.T) {
	rows := runExport(t, &fakeStore{}, 500)
	if len(rows) != 1 {
		t.Fatalf("expected header only, got %d rows", len(rows))
	}
}
