package ui

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// ExportUI drives the progress list of the export command.
type ExportUI struct {
	writer    io.Writer
	quiet     bool
	progress  *Progress
	startTime time.Time
	calcStep  int
	viewSteps map[string]int
	docStep   int
}

func NewExportUI(w io.Writer, quiet bool) *ExportUI {
	return &ExportUI{writer: w, quiet: quiet, startTime: time.Now(), docStep: -1}
}

// Start lays out one step for the calculation, one per view and one for
// the parameter document if withDocument is set.
func (e *ExportUI) Start(views []string, withDocument bool) {
	e.startTime = time.Now()
	if e.quiet {
		return
	}
	e.progress = NewProgress(e.writer, "Export")
	e.calcStep = e.progress.Add("Calculating geometry")
	e.viewSteps = make(map[string]int, len(views))
	for _, v := range views {
		e.viewSteps[v] = e.progress.Add("Writing " + v)
	}
	if withDocument {
		e.docStep = e.progress.Add("Writing parameter document")
	}
	e.progress.Start()
}

// Calculate runs fn as the calculation step.
func (e *ExportUI) Calculate(fn func() (string, error)) error {
	if e.progress == nil {
		_, err := fn()
		return err
	}
	return e.progress.Do(e.calcStep, fn)
}

// WriteView runs fn as the step of view. Unknown views run untracked.
func (e *ExportUI) WriteView(view string, fn func() (string, error)) error {
	idx, ok := e.viewSteps[view]
	if e.progress == nil || !ok {
		_, err := fn()
		return err
	}
	return e.progress.Do(idx, fn)
}

// SkipView marks a view that produced no artifact.
func (e *ExportUI) SkipView(view, reason string) {
	if idx, ok := e.viewSteps[view]; ok && e.progress != nil {
		e.progress.Skip(idx, reason)
	}
}

// WriteDocument runs fn as the parameter document step.
func (e *ExportUI) WriteDocument(fn func() (string, error)) error {
	if e.progress == nil || e.docStep < 0 {
		_, err := fn()
		return err
	}
	return e.progress.Do(e.docStep, fn)
}

func (e *ExportUI) Finish() {
	if e.progress != nil {
		e.progress.Stop()
	}
}

// PrintSummary prints a final summary
func (e *ExportUI) PrintSummary(files []string, outputDir string) {
	if e.quiet {
		return
	}
	fmt.Fprintln(e.writer)

	var summary strings.Builder
	summary.WriteString(Success.Bold(true).Render("Export Complete"))
	summary.WriteString("\n\n")
	summary.WriteString(FormatKeyValue("Files written", fmt.Sprintf("%d", len(files))))
	summary.WriteString("\n")
	summary.WriteString(FormatKeyValue("Output directory", outputDir))
	summary.WriteString("\n")
	summary.WriteString(FormatKeyValue("Duration", time.Since(e.startTime).Round(time.Millisecond).String()))
	for _, f := range files {
		summary.WriteString("\n")
		summary.WriteString(GetBullet() + " " + Dim.Render(f))
	}
	fmt.Fprintln(e.writer, SuccessBox.Render(summary.String()))
}
