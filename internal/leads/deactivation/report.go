package deactivation

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

const updatedAtLayout = "2006-01-02 15:04:05"

// renderCandidates writes the preview table shown before any change is made.
func renderCandidates(w io.Writer, candidates []Candidate) error {
	table := tablewriter.NewWriter(w)
	table.Header("ID", "Lead Name", "Status", "Updated At", "Days Inactive")
	for _, c := range candidates {
		row := []string{
			strconv.FormatInt(c.ID, 10),
			c.LeadName,
			c.Status.Label(),
			c.UpdatedAt.Local().Format(updatedAtLayout),
			strconv.Itoa(c.DaysInactive),
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("append row for lead %d: %w", c.ID, err)
		}
	}
	return table.Render()
}

func noneMessage(thresholdDays int, filter *string) string {
	msg := fmt.Sprintf("No leads found that have been inactive for %d days", thresholdDays)
	if filter != nil {
		msg += " with status " + *filter
	}
	return msg + "."
}

func foundMessage(count, thresholdDays int) string {
	return fmt.Sprintf("Found %d %s inactive for %d+ days:", count, plural(count), thresholdDays)
}

func questionMessage(count int) string {
	return fmt.Sprintf("Do you want to deactivate these %d %s?", count, plural(count))
}

func resultMessage(count int) string {
	return fmt.Sprintf("Successfully deactivated %d %s.", count, plural(count))
}

func plural(n int) string {
	if n == 1 {
		return "lead"
	}
	return "leads"
}
