package launch

// Filter returns the records launched from site (or any site for AllSites)
// whose payload mass lies within r, in dataset order.
// An interval with Low > High matches nothing.
func (d *Dataset) Filter(site string, r Range) []Record {
	out := make([]Record, 0)
	if r.Empty() {
		return out
	}
	for _, rec := range d.records {
		if matchesSite(rec.Site, site) && r.Contains(rec.PayloadMassKg) {
			out = append(out, rec)
		}
	}
	return out
}
