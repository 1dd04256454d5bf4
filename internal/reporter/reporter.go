package reporter

// Diagnostics receives operator-facing messages from the parsing, mapping
// and rule evaluation code. Implementations must be safe for concurrent use.
type Diagnostics interface {
	Warning(message string)
	Verbose(message string)
}

// Reporter defines the full set of events emitted by CLI workflows.
type Reporter interface {
	Diagnostics
	MediaSummary(summary MediaSummary)
	StreamPlan(summary StreamPlanSummary)
	TranscodeStarted(input, output string)
	TranscodeProgress(progress ProgressSnapshot)
	TranscodeComplete(outcome TranscodeOutcome)
	ValidationComplete(summary ValidationSummary)
	Error(err ReporterError)
	OperationComplete(message string)
	BatchStarted(info BatchStartInfo)
	FileProgress(context FileProgressContext)
	BatchComplete(summary BatchSummary)
}

// NullReporter is a no-op reporter that discards all updates.
type NullReporter struct{}

func (NullReporter) Warning(string)                       {}
func (NullReporter) Verbose(string)                       {}
func (NullReporter) MediaSummary(MediaSummary)            {}
func (NullReporter) StreamPlan(StreamPlanSummary)         {}
func (NullReporter) TranscodeStarted(string, string)      {}
func (NullReporter) TranscodeProgress(ProgressSnapshot)   {}
func (NullReporter) TranscodeComplete(TranscodeOutcome)   {}
func (NullReporter) ValidationComplete(ValidationSummary) {}
func (NullReporter) Error(ReporterError)                  {}
func (NullReporter) OperationComplete(string)             {}
func (NullReporter) BatchStarted(BatchStartInfo)          {}
func (NullReporter) FileProgress(FileProgressContext)     {}
func (NullReporter) BatchComplete(BatchSummary)           {}
