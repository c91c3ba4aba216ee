package masterlist

import (
	"encoding/csv"
	"io"
	"strings"
	"time"
)

// Expected CSV column order for uploaded masterlists.
var csvColumns = []string{
	"last_name",
	"first_name",
	"middle_name",
	"ext_name",
	"birthday",
	"region_name",
	"province_name",
	"city_name",
	"barangay_name",
	"purok_sitio",
}

var birthdayLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"01-02-2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// ParseRecords reads an uploaded CSV into Record rows for a masterlist.
// The first row is treated as a header and skipped. Rows with fewer than
// ten columns are skipped. Unparseable birthdays become NULL rather than
// failing the row.
func ParseRecords(masterlistID uint64, r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	// Skip header row
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}

	var records []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if _, ok := err.(*csv.ParseError); ok {
				continue
			}
			return nil, err
		}
		if len(row) < len(csvColumns) {
			continue
		}

		records = append(records, Record{
			MasterlistID: masterlistID,
			LastName:     strings.TrimSpace(row[0]),
			FirstName:    strings.TrimSpace(row[1]),
			MiddleName:   optional(row[2]),
			ExtName:      optional(row[3]),
			Birthday:     ParseBirthday(row[4]),
			RegionName:   optional(row[5]),
			ProvinceName: optional(row[6]),
			CityName:     optional(row[7]),
			BarangayName: optional(row[8]),
			PurokSitio:   optional(row[9]),
		})
	}

	return records, nil
}

// ParseBirthday attempts the known date layouts and returns nil when
// none apply. Parsed dates are truncated to UTC midnight.
func ParseBirthday(raw string) *time.Time {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}
	for _, layout := range birthdayLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			day := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
			return &day
		}
	}
	return nil
}

func optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// ExportHeader is the column header written to clean CSV exports.
func ExportHeader() []string {
	header := make([]string, len(csvColumns))
	copy(header, csvColumns)
	return header
}
