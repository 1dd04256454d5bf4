package reporter

// CompositeReporter fans out events to multiple reporters.
type CompositeReporter struct {
	reporters []Reporter
}

// NewCompositeReporter creates a composite reporter.
func NewCompositeReporter(reporters ...Reporter) *CompositeReporter {
	return &CompositeReporter{reporters: reporters}
}

func (c *CompositeReporter) Warning(message string) {
	for _, r := range c.reporters {
		r.Warning(message)
	}
}

func (c *CompositeReporter) Verbose(message string) {
	for _, r := range c.reporters {
		r.Verbose(message)
	}
}

func (c *CompositeReporter) MediaSummary(summary MediaSummary) {
	for _, r := range c.reporters {
		r.MediaSummary(summary)
	}
}

func (c *CompositeReporter) StreamPlan(summary StreamPlanSummary) {
	for _, r := range c.reporters {
		r.StreamPlan(summary)
	}
}

func (c *CompositeReporter) TranscodeStarted(input, output string) {
	for _, r := range c.reporters {
		r.TranscodeStarted(input, output)
	}
}

func (c *CompositeReporter) TranscodeProgress(progress ProgressSnapshot) {
	for _, r := range c.reporters {
		r.TranscodeProgress(progress)
	}
}

func (c *CompositeReporter) TranscodeComplete(outcome TranscodeOutcome) {
	for _, r := range c.reporters {
		r.TranscodeComplete(outcome)
	}
}

func (c *CompositeReporter) ValidationComplete(summary ValidationSummary) {
	for _, r := range c.reporters {
		r.ValidationComplete(summary)
	}
}

func (c *CompositeReporter) Error(err ReporterError) {
	for _, r := range c.reporters {
		r.Error(err)
	}
}

func (c *CompositeReporter) OperationComplete(message string) {
	for _, r := range c.reporters {
		r.OperationComplete(message)
	}
}

func (c *CompositeReporter) BatchStarted(info BatchStartInfo) {
	for _, r := range c.reporters {
		r.BatchStarted(info)
	}
}

func (c *CompositeReporter) FileProgress(context FileProgressContext) {
	for _, r := range c.reporters {
		r.FileProgress(context)
	}
}

func (c *CompositeReporter) BatchComplete(summary BatchSummary) {
	for _, r := range c.reporters {
		r.BatchComplete(summary)
	}
}
