package launch

import (
	"errors"
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

// AllSites is the site selection that disables site filtering
const AllSites = "All"

var (
	// ErrEmptyDataset is returned when a dataset is built from zero records
	ErrEmptyDataset = errors.New("dataset contains no launch records")
	// ErrInvalidRecord is returned for a record that breaks the row contract
	ErrInvalidRecord = errors.New("invalid launch record")
)

// Outcome is the binary launch result stored in the "class" column
type Outcome int

const (
	Failure Outcome = 0
	Success Outcome = 1
)

func (o Outcome) String() string {
	if o == Success {
		return "Success"
	}
	return "Failure"
}

// Record is a single launch attempt
type Record struct {
	FlightNumber    int     `json:"flight_number,omitempty"`
	Site            string  `json:"launch_site"`
	PayloadMassKg   float64 `json:"payload_mass_kg"`
	Class           Outcome `json:"class"`
	BoosterVersion  string  `json:"booster_version,omitempty"`
	BoosterCategory string  `json:"booster_version_category"`
}

// Validate checks the row contract: named site, finite non-negative payload, binary class
func (r Record) Validate() error {
	if r.Site == "" {
		return fmt.Errorf("%w: missing launch site", ErrInvalidRecord)
	}
	if math.IsNaN(r.PayloadMassKg) || math.IsInf(r.PayloadMassKg, 0) || r.PayloadMassKg < 0 {
		return fmt.Errorf("%w: payload mass %v", ErrInvalidRecord, r.PayloadMassKg)
	}
	if r.Class != Success && r.Class != Failure {
		return fmt.Errorf("%w: class %d", ErrInvalidRecord, r.Class)
	}
	return nil
}

// Range is a closed payload mass interval in kilograms
type Range struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Contains reports whether low <= mass <= high
func (r Range) Contains(mass float64) bool {
	return mass >= r.Low && mass <= r.High
}

// Empty reports whether the interval can match nothing
func (r Range) Empty() bool {
	return r.Low > r.High
}

// Dataset is the immutable, ordered launch table loaded at startup.
// Nothing mutates it after NewDataset returns, so concurrent readers need no locking.
type Dataset struct {
	records []Record
	sites   []string
	siteSet map[string]struct{}
	payload Range
}

// NewDataset copies records and precomputes the payload range and site list
func NewDataset(records []Record) (*Dataset, error) {
	if len(records) == 0 {
		return nil, ErrEmptyDataset
	}

	d := &Dataset{
		records: make([]Record, len(records)),
		siteSet: make(map[string]struct{}),
	}
	copy(d.records, records)

	masses := make(stats.Float64Data, len(records))
	for i, r := range d.records {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		masses[i] = r.PayloadMassKg
		if _, ok := d.siteSet[r.Site]; !ok {
			d.siteSet[r.Site] = struct{}{}
			d.sites = append(d.sites, r.Site)
		}
	}

	lo, err := stats.Min(masses)
	if err != nil {
		return nil, fmt.Errorf("failed to compute minimum payload: %w", err)
	}
	hi, err := stats.Max(masses)
	if err != nil {
		return nil, fmt.Errorf("failed to compute maximum payload: %w", err)
	}
	d.payload = Range{Low: lo, High: hi}

	return d, nil
}

// Len returns the number of records
func (d *Dataset) Len() int {
	return len(d.records)
}

// Records returns a copy of all records in dataset order
func (d *Dataset) Records() []Record {
	out := make([]Record, len(d.records))
	copy(out, d.records)
	return out
}

// Sites returns the known launch sites in order of first appearance
func (d *Dataset) Sites() []string {
	out := make([]string, len(d.sites))
	copy(out, d.sites)
	return out
}

// HasSite reports whether site appears in the dataset
func (d *Dataset) HasSite(site string) bool {
	_, ok := d.siteSet[site]
	return ok
}

// PayloadRange returns the global [min, max] payload mass
func (d *Dataset) PayloadRange() Range {
	return d.payload
}

func matchesSite(site, selected string) bool {
	return selected == AllSites || site == selected
}
