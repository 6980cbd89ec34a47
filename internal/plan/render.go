package plan

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// RenderText writes the plan as a day-by-day outline.
func (fp *FrontendPlan) RenderText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if fp.OverallGoal != "" {
		fmt.Fprintf(bw, "Goal: %s\n", fp.OverallGoal)
	}
	fmt.Fprintf(bw, "%d days, %s hours per day\n", fp.TotalStudyDays, formatHours(fp.HoursPerDay))

	if len(fp.KeyConcepts) > 0 {
		fmt.Fprintln(bw, "\nKey concepts:")
		for _, c := range fp.KeyConcepts {
			fmt.Fprintf(bw, "  - %s", c.Concept)
			if c.Explanation != "" {
				fmt.Fprintf(bw, ": %s", c.Explanation)
			}
			fmt.Fprintln(bw)
		}
	}

	for _, d := range fp.DailyBreakdown {
		fmt.Fprintf(bw, "\nDay %d: %s\n", d.Day, d.DaySummary)
		for _, it := range d.Items {
			fmt.Fprintf(bw, "  [%sh] %s\n", formatHours(it.EstimatedTimeHours), it.Topic)
			if it.Details != "" {
				fmt.Fprintf(bw, "        %s\n", it.Details)
			}
		}
	}

	if len(fp.KeyFormulas) > 0 {
		fmt.Fprintln(bw, "\nFormulas:")
		for _, f := range fp.KeyFormulas {
			fmt.Fprintf(bw, "  %s: %s\n", f.FormulaName, f.Formula)
		}
	}
	if len(fp.GeneralTips) > 0 {
		fmt.Fprintln(bw, "\nTips:")
		for _, tip := range fp.GeneralTips {
			fmt.Fprintf(bw, "  - %s\n", tip)
		}
	}
	return bw.Flush()
}

// RenderText writes the structured plan, or the error tag and details.
func (r Response) RenderText(w io.Writer) error {
	switch {
	case r.Failure != nil:
		_, err := fmt.Fprintf(w, "error: %s\n%s\n", r.Failure.Error, r.Failure.Details)
		return err
	case r.Success != nil && r.Success.StructuredPlan != nil:
		return r.Success.StructuredPlan.RenderText(w)
	default:
		_, err := fmt.Fprintln(w, "error: empty response")
		return err
	}
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}
