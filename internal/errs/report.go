package errs

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
)

// Report is the canonical structured error type for this module: a
// JSON-encodable record of a single binding failure for host-side
// logging, grounded on the teacher's internal/errors.Report.
type Report struct {
	Schema  string         `json:"schema"` // always "embind.error/v1"
	Code    Code           `json:"code"`
	Kind    string         `json:"kind"` // the runtime ErrKind name
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// ReportError wraps a Report as an error so structured reports survive
// errors.As() unwrapping, matching the teacher's ReportError.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	return e.Rep.Code + ": " + e.Rep.Message
}

// WrapReport wraps r as an error.
func WrapReport(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// ToJSON renders r as deterministic JSON, indented unless compact is set.
func (r *Report) ToJSON(compact bool) (string, error) {
	var data []byte
	var err error
	if compact {
		data, err = json.Marshal(r)
	} else {
		data, err = json.MarshalIndent(r, "", "  ")
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// NewReport builds a Report for a failure of the given code/kind/message.
func NewReport(code Code, kind, message string) *Report {
	return &Report{Schema: "embind.error/v1", Code: code, Kind: kind, Message: message}
}

// The per-kind terminal colors SprintColored renders a report in.
// Grounded on the teacher's use of fatih/color for phase-tagged CLI
// diagnostics.
var (
	colorType  = color.New(color.FgRed, color.Bold)
	colorValue = color.New(color.FgRed)
	colorAssrt = color.New(color.FgMagenta, color.Bold)
	colorSys   = color.New(color.FgYellow, color.Bold)
	colorOther = color.New(color.FgHiBlack)
)

// SprintColored renders "<Kind>: <message>" (the Report's code omitted for
// terminal output) in the color that matches its severity.
func (r *Report) SprintColored() string {
	c := colorOther
	switch r.Kind {
	case "TypeError":
		c = colorType
	case "ValueError":
		c = colorValue
	case "AssertionError":
		c = colorAssrt
	case "SystemError":
		c = colorSys
	}
	return c.Sprint(fmt.Sprintf("%s: %s", r.Kind, r.Message))
}
