package generator

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Diagnosis is the outcome of a connectivity probe.
type Diagnosis struct {
	Response string
	Took     time.Duration
	Err      error
}

// ErrorType names the concrete error type, for the console report.
func (d Diagnosis) ErrorType() string {
	if d.Err == nil {
		return ""
	}
	return fmt.Sprintf("%T", d.Err)
}

// Diagnose sends a trivial prompt and times the answer. The first call may
// include model load time.
func Diagnose(ctx context.Context, llm LLMClient) Diagnosis {
	start := time.Now()
	resp, err := llm.Complete(ctx, BuildDiagnosticPrompt())
	d := Diagnosis{Response: strings.TrimSpace(resp), Took: time.Since(start), Err: err}
	if err == nil && d.Response == "" {
		d.Err = ErrEmptyResponse
	}
	return d
}
