package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"

	"github.com/gocarina/gocsv"

	"launchdash/pkg/launch"
)

// Column names of the launch dataset
const (
	ColumnFlightNumber    = "Flight Number"
	ColumnLaunchSite      = "Launch Site"
	ColumnClass           = "class"
	ColumnPayloadMass     = "Payload Mass (kg)"
	ColumnBoosterVersion  = "Booster Version"
	ColumnBoosterCategory = "Booster Version Category"
)

// ErrMissingColumn is returned when a required column is absent from the header
var ErrMissingColumn = errors.New("missing required column")

var requiredColumns = []string{ColumnLaunchSite, ColumnPayloadMass, ColumnClass, ColumnBoosterCategory}

// launchRow mirrors one CSV line; unknown columns such as the leading index are ignored
type launchRow struct {
	FlightNumber    int     `csv:"Flight Number"`
	LaunchSite      string  `csv:"Launch Site"`
	Class           int     `csv:"class"`
	PayloadMassKg   float64 `csv:"Payload Mass (kg)"`
	BoosterVersion  string  `csv:"Booster Version"`
	BoosterCategory string  `csv:"Booster Version Category"`
}

// ParseLaunchRecords decodes the launch CSV into records, in file order
func ParseLaunchRecords(data []byte) ([]launch.Record, error) {
	if err := checkHeader(data); err != nil {
		return nil, err
	}

	var rows []launchRow
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode launch csv: %w", err)
	}

	records := make([]launch.Record, 0, len(rows))
	for i, row := range rows {
		rec := launch.Record{
			FlightNumber:    row.FlightNumber,
			Site:            strings.TrimSpace(row.LaunchSite),
			PayloadMassKg:   row.PayloadMassKg,
			Class:           launch.Outcome(row.Class),
			BoosterVersion:  strings.TrimSpace(row.BoosterVersion),
			BoosterCategory: strings.TrimSpace(row.BoosterCategory),
		}
		if err := rec.Validate(); err != nil {
			// header is line 1
			return nil, fmt.Errorf("line %d: %w", i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func checkHeader(data []byte) error {
	r := csv.NewReader(bytes.NewReader(data))
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("failed to read csv header: %w", err)
	}

	seen := make(map[string]bool, len(header))
	for _, h := range header {
		seen[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = true
	}
	for _, col := range requiredColumns {
		if !seen[col] {
			return fmt.Errorf("%w: %q", ErrMissingColumn, col)
		}
	}
	return nil
}
