package launch

import (
	"github.com/montanaflynn/stats"
)

// SiteSummary describes the launches from one site
type SiteSummary struct {
	Site        string
	Launches    int
	Successes   int
	Failures    int
	SuccessRate float64
	MinPayload  float64
	MeanPayload float64
	MaxPayload  float64
}

// Summarize returns one summary per site in first-appearance order
func (d *Dataset) Summarize() ([]SiteSummary, error) {
	out := make([]SiteSummary, 0, len(d.sites))
	for _, site := range d.sites {
		s, err := summarize(site, d.Filter(site, d.payload))
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Overall summarizes the whole dataset under the AllSites label
func (d *Dataset) Overall() (SiteSummary, error) {
	return summarize(AllSites, d.records)
}

func summarize(site string, records []Record) (SiteSummary, error) {
	s := SiteSummary{Site: site, Launches: len(records)}
	masses := make(stats.Float64Data, 0, len(records))
	for _, r := range records {
		masses = append(masses, r.PayloadMassKg)
		if r.Class == Success {
			s.Successes++
		} else {
			s.Failures++
		}
	}
	if s.Launches == 0 {
		return s, nil
	}
	s.SuccessRate = float64(s.Successes) / float64(s.Launches)

	var err error
	if s.MinPayload, err = masses.Min(); err != nil {
		return s, err
	}
	if s.MeanPayload, err = masses.Mean(); err != nil {
		return s, err
	}
	if s.MaxPayload, err = masses.Max(); err != nil {
		return s, err
	}
	return s, nil
}
