package core

import (
	"fmt"
	"strconv"
)

// Period is the closed set of time ranges a request may reference.
type Period string

const (
	// PeriodDay covers the current day.
	PeriodDay Period = "day"
	// PeriodWeek covers the current week.
	PeriodWeek Period = "week"
	// PeriodMonth covers the current month.
	PeriodMonth Period = "month"
	// PeriodQuarter covers the current quarter.
	PeriodQuarter Period = "quarter"
	// PeriodYear covers the current year.
	PeriodYear Period = "year"
)

// TaskKind identifies which specialized handler serves a request.
type TaskKind string

const (
	// TaskChat is the default free-form conversation task.
	TaskChat TaskKind = "chat"
	// TaskObject retrieves stored objects.
	TaskObject TaskKind = "object"
	// TaskDocument retrieves documents.
	TaskDocument TaskKind = "document"
	// TaskDescription describes an object, optionally from its image.
	TaskDescription TaskKind = "description"
	// TaskComparison compares two or more items.
	TaskComparison TaskKind = "comparison"
)

// TaskParameters is the quantifier bundle extracted from the prompt. It is
// built from the full parsed context regardless of the winning task kind, so
// every handler sees the same resolved values.
type TaskParameters struct {
	Last   bool    `json:"last"`
	All    bool    `json:"all"`
	Period *Period `json:"period,omitempty"`
	Amount *int    `json:"amount,omitempty"`
}

// Describe renders the parameters as a compact human-readable fragment for
// inclusion in handler instructions.
func (p TaskParameters) Describe() string {
	period := "none"
	if p.Period != nil {
		period = string(*p.Period)
	}
	amount := "none"
	if p.Amount != nil {
		amount = strconv.Itoa(*p.Amount)
	}
	return fmt.Sprintf("last=%t, all=%t, period=%s, amount=%s", p.Last, p.All, period, amount)
}

// Echo returns the parameters as a map for embedding into structured payload
// events. Nil period/amount are surfaced as explicit nulls so consumers can
// distinguish absence from zero values.
func (p TaskParameters) Echo() map[string]any {
	echo := map[string]any{
		"last":   p.Last,
		"all":    p.All,
		"period": nil,
		"amount": nil,
	}
	if p.Period != nil {
		echo["period"] = string(*p.Period)
	}
	if p.Amount != nil {
		echo["amount"] = *p.Amount
	}
	return echo
}

// Task is the classifier output: exactly one kind per request plus the shared
// parameter bundle. Chat carries parameters too even though the chat handler
// ignores them; this keeps dispatch uniform.
type Task struct {
	Kind       TaskKind       `json:"kind"`
	Parameters TaskParameters `json:"parameters"`
}
