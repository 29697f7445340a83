package launch

// OutcomeCount is the number of launches with a given outcome
type OutcomeCount struct {
	Class Outcome `json:"class"`
	Count int     `json:"count"`
}

// SiteOutcomeCount is the number of launches for a (site, outcome) group
type SiteOutcomeCount struct {
	Site  string  `json:"launch_site"`
	Class Outcome `json:"class"`
	Count int     `json:"count"`
}

// SiteCount is a per-site launch total
type SiteCount struct {
	Site  string `json:"launch_site"`
	Count int    `json:"count"`
}

// CountBySiteOutcome groups every record by (site, class).
// Groups are ordered by site first appearance, then class ascending; empty groups are omitted.
func (d *Dataset) CountBySiteOutcome() []SiteOutcomeCount {
	type key struct {
		site  string
		class Outcome
	}
	counts := make(map[key]int)
	for _, r := range d.records {
		counts[key{r.Site, r.Class}]++
	}

	out := make([]SiteOutcomeCount, 0, len(counts))
	for _, site := range d.sites {
		for _, class := range []Outcome{Failure, Success} {
			if n := counts[key{site, class}]; n > 0 {
				out = append(out, SiteOutcomeCount{Site: site, Class: class, Count: n})
			}
		}
	}
	return out
}

// SuccessesBySite returns the successful launch count per site.
// Sites without a success are omitted.
func (d *Dataset) SuccessesBySite() []SiteCount {
	return d.siteTotals(func(g SiteOutcomeCount) bool { return g.Class == Success })
}

// TotalsBySite returns the launch count per site regardless of outcome
func (d *Dataset) TotalsBySite() []SiteCount {
	return d.siteTotals(func(SiteOutcomeCount) bool { return true })
}

func (d *Dataset) siteTotals(keep func(SiteOutcomeCount) bool) []SiteCount {
	var out []SiteCount
	idx := make(map[string]int)
	for _, g := range d.CountBySiteOutcome() {
		if !keep(g) {
			continue
		}
		i, ok := idx[g.Site]
		if !ok {
			i = len(out)
			idx[g.Site] = i
			out = append(out, SiteCount{Site: g.Site})
		}
		out[i].Count += g.Count
	}
	return out
}

// CountByOutcome groups the records of one site (or AllSites) by class.
// A site with no records yields an empty slice.
func (d *Dataset) CountByOutcome(site string) []OutcomeCount {
	var byClass [2]int
	for _, r := range d.records {
		if matchesSite(r.Site, site) {
			byClass[r.Class]++
		}
	}

	out := make([]OutcomeCount, 0, 2)
	for _, class := range []Outcome{Failure, Success} {
		if byClass[class] > 0 {
			out = append(out, OutcomeCount{Class: class, Count: byClass[class]})
		}
	}
	return out
}

// Tally folds outcome groups into success and failure totals
func Tally(counts []OutcomeCount) (success, failure int) {
	for _, c := range counts {
		if c.Class == Success {
			success += c.Count
		} else {
			failure += c.Count
		}
	}
	return success, failure
}
