// Package report renders benchmark run reports as aligned text tables or
// Markdown documents.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/geobench/tiffbench"
	"github.com/geobench/tiffbench/internal/analysis"
)

// failedCell marks a measurement that could not be taken.
const failedCell = "-"

// sizeCell formats one size measurement.
func sizeCell(s tiffbench.Size) string {
	if !s.OK() {
		return failedCell
	}
	return humanize.Bytes(uint64(s.Bytes))
}

// timingCell formats one timing measurement as the mean over its trials,
// with a standard deviation suffix when more than one trial ran.
func timingCell(t tiffbench.Timing) string {
	if !t.OK() {
		return failedCell
	}
	sum := analysis.Describe(t.Seconds())
	if sum.N > 1 {
		return fmt.Sprintf("%.4fs ±%.4f", sum.Mean, sum.StdDev)
	}
	return fmt.Sprintf("%.4fs", sum.Mean)
}

// rows builds the three measurement rows, position-aligned with the catalog.
func rows(rep *tiffbench.RunReport) [][]string {
	size := make([]string, len(rep.Variants))
	write := make([]string, len(rep.Variants))
	read := make([]string, len(rep.Variants))
	for i := range rep.Variants {
		size[i] = sizeCell(rep.Sizes[i])
		write[i] = timingCell(rep.Writes[i])
		read[i] = timingCell(rep.Reads[i])
	}
	return [][]string{size, write, read}
}

// rowLabels are the fixed row headers, in render order.
var rowLabels = []string{"Size", "Write time", "Read time"}

// WriteText renders the report as a plain aligned table.
func WriteText(w io.Writer, rep *tiffbench.RunReport) {
	cols := rep.Columns()
	body := rows(rep)

	// Column widths: header vs the widest cell in each column.
	label := len("Write time")
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = len(c)
		for _, row := range body {
			if len(row[i]) > widths[i] {
				widths[i] = len(row[i])
			}
		}
	}

	fmt.Fprintf(w, "%-*s", label, "")
	for i, c := range cols {
		fmt.Fprintf(w, "  %*s", widths[i], c)
	}
	fmt.Fprintln(w)

	for r, row := range body {
		fmt.Fprintf(w, "%-*s", label, rowLabels[r])
		for i, cell := range row {
			fmt.Fprintf(w, "  %*s", widths[i], cell)
		}
		fmt.Fprintln(w)
	}

	if rep.Failed() {
		fmt.Fprintf(w, "\n%d of %d variants failed\n", rep.FailureCount(), len(rep.Variants))
	}
}

// MarkdownReport generates run reports in Markdown format.
type MarkdownReport struct {
	w io.Writer
}

// NewMarkdownReport creates a new Markdown report writer.
func NewMarkdownReport(w io.Writer) *MarkdownReport {
	return &MarkdownReport{w: w}
}

// WriteHeader writes the report header.
func (r *MarkdownReport) WriteHeader(title string) {
	fmt.Fprintf(r.w, "# %s\n\n", title)
	fmt.Fprintf(r.w, "Generated: %s\n\n", time.Now().Format(time.RFC3339))
}

// WriteMethodology writes the methodology section.
func (r *MarkdownReport) WriteMethodology(rep *tiffbench.RunReport) {
	fmt.Fprintln(r.w, "## Methodology")
	fmt.Fprintln(r.w)
	fmt.Fprintf(r.w, "- **Source image:** %s\n", rep.Source)
	fmt.Fprintf(r.w, "- **Variants:** %d\n", len(rep.Variants))
	fmt.Fprintf(r.w, "- **Trials per phase:** %d\n", rep.Trials)
	fmt.Fprintln(r.w, "- **Write time:** decode source + encode variant, full artifact on disk")
	fmt.Fprintln(r.w, "- **Read time:** full decode of the variant artifact into memory")
	fmt.Fprintf(r.w, "- **Total elapsed:** %s\n", rep.Elapsed.Round(time.Millisecond))
	fmt.Fprintln(r.w)
}

// WriteTable writes the measurement table: one column per variant, one row
// per measurement.
func (r *MarkdownReport) WriteTable(rep *tiffbench.RunReport) {
	fmt.Fprintln(r.w, "## Results")
	fmt.Fprintln(r.w)

	cols := rep.Columns()
	fmt.Fprintf(r.w, "| | %s |\n", strings.Join(cols, " | "))
	fmt.Fprint(r.w, "|---|")
	for range cols {
		fmt.Fprint(r.w, "---|")
	}
	fmt.Fprintln(r.w)

	for i, row := range rows(rep) {
		fmt.Fprintf(r.w, "| **%s** | %s |\n", rowLabels[i], strings.Join(row, " | "))
	}
	fmt.Fprintln(r.w)
}

// WriteRatios writes compressed sizes as percentages of the uncompressed
// baseline. Skipped entirely when no baseline was measured.
func (r *MarkdownReport) WriteRatios(rep *tiffbench.RunReport) {
	baseline := rep.BaselineBytes()
	if baseline == 0 {
		return
	}

	fmt.Fprintln(r.w, "## Compression Ratios")
	fmt.Fprintln(r.w)
	for i, v := range rep.Variants {
		if !rep.Sizes[i].OK() {
			fmt.Fprintf(r.w, "- **%s:** %s\n", v.Display, failedCell)
			continue
		}
		fmt.Fprintf(r.w, "- **%s:** %.1f%% of uncompressed\n",
			v.Display, analysis.Ratio(rep.Sizes[i].Bytes, baseline))
	}
	fmt.Fprintln(r.w)
}

// WriteFooter writes the report footer.
func (r *MarkdownReport) WriteFooter() {
	fmt.Fprintln(r.w, "---")
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, "*Report generated by tiffbench*")
}

// WriteMarkdown renders the complete Markdown report.
func WriteMarkdown(w io.Writer, rep *tiffbench.RunReport) {
	md := NewMarkdownReport(w)
	md.WriteHeader("TIFF Compression Benchmark")
	md.WriteMethodology(rep)
	md.WriteTable(rep)
	md.WriteRatios(rep)
	md.WriteFooter()
}
