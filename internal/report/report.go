package report

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"launchdash/pkg/launch"
)

var header = []string{"Launch Site", "Launches", "Successes", "Failures", "Success Rate", "Min Payload (kg)", "Mean Payload (kg)", "Max Payload (kg)"}

// Write prints a per-site launch summary table to w, with the whole
// dataset in the footer
func Write(w io.Writer, ds *launch.Dataset) error {
	sums, err := ds.Summarize()
	if err != nil {
		return fmt.Errorf("failed to summarize dataset: %w", err)
	}
	total, err := ds.Overall()
	if err != nil {
		return fmt.Errorf("failed to summarize dataset: %w", err)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetAutoFormatHeaders(false)

	for _, s := range sums {
		table.Append(row(s))
	}
	footer := row(total)
	footer[0] = "All Sites"
	table.SetFooter(footer)

	table.Render()
	return nil
}

func row(s launch.SiteSummary) []string {
	return []string{
		s.Site,
		fmt.Sprintf("%d", s.Launches),
		fmt.Sprintf("%d", s.Successes),
		fmt.Sprintf("%d", s.Failures),
		fmt.Sprintf("%.1f%%", s.SuccessRate*100),
		fmt.Sprintf("%.0f", s.MinPayload),
		fmt.Sprintf("%.0f", s.MeanPayload),
		fmt.Sprintf("%.0f", s.MaxPayload),
	}
}
