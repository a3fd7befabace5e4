package report

import (
	"fmt"
	"strings"

	"github.com/warp/backlog-report/backlog"
)

// Section is one headed block of the narrative.
type Section struct {
	Heading string
	Lines   []string
}

// Text is the narrative shown on the first PDF page and printed by the CLI.
type Text struct {
	Title    string
	Sections []Section
}

// String renders the narrative as plain text.
func (t Text) String() string {
	var b strings.Builder
	b.WriteString(t.Title)
	b.WriteString("\n")
	for _, s := range t.Sections {
		b.WriteString("\n")
		b.WriteString(s.Heading)
		b.WriteString("\n")
		for _, l := range s.Lines {
			b.WriteString(l)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Narrative describes a projection in prose. whatIf may be nil, in which case
// the recommendation section is omitted.
func Narrative(s backlog.Summary, whatIf *backlog.WhatIf) Text {
	t := Text{Title: "Backlog Progress Report"}

	t.Sections = append(t.Sections, Section{
		Heading: "Starting point",
		Lines: []string{fmt.Sprintf(
			"This projection starts from %s open items in %s, assuming %s items processed and %s new items per workday.",
			FormatQuantity(s.BacklogStart), s.Start, FormatQuantity(s.ProcessPerDay), FormatQuantity(s.NewPerDay),
		)},
	})

	t.Sections = append(t.Sections, Section{
		Heading: "Monthly flow",
		Lines: []string{
			fmt.Sprintf("- Processing capacity: %s items/month (%s items/day x %d days)",
				FormatQuantity(s.Rates.MonthlyProcess), FormatQuantity(s.ProcessPerDay), s.WorkdaysPerMonth),
			fmt.Sprintf("- New inflow: %s items/month (%s items/day x %d days)",
				FormatQuantity(s.Rates.MonthlyNew), FormatQuantity(s.NewPerDay), s.WorkdaysPerMonth),
			fmt.Sprintf("- Net reduction: %s items/month", FormatQuantity(s.Rates.MonthlyNetReduction)),
		},
	})

	t.Sections = append(t.Sections, Section{
		Heading: "Outlook",
		Lines: []string{
			fmt.Sprintf("The backlog is expected to reach zero in %s, on workday %d of that month (estimate).",
				s.ZeroMonth, s.FinalWorkdays),
			fmt.Sprintf("From then on only the %s new items per day need processing.", FormatQuantity(s.NewPerDay)),
		},
	})

	if whatIf != nil {
		line := fmt.Sprintf("Processing %s more items per day would reach zero in %s",
			FormatQuantity(whatIf.ExtraPerDay), whatIf.Improved.ZeroMonth)
		switch {
		case whatIf.PeriodsSaved == 1:
			line += ", 1 month earlier."
		case whatIf.PeriodsSaved > 1:
			line += fmt.Sprintf(", %d months earlier.", whatIf.PeriodsSaved)
		default:
			line += ", in the same month."
		}
		t.Sections = append(t.Sections, Section{Heading: "Recommendation", Lines: []string{line}})
	}

	return t
}
