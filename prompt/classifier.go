package prompt

import "github.com/saf59/cx58-agent/core"

// Classify maps a parsed Context to exactly one Task. It is total: when no
// domain keyword matched, the request defaults to chat.
//
// The priority order is fixed, most specific intent first:
// comparison > description > document > object > chat. Compound requests
// ("compare the last two documents") must resolve to the most specific
// actionable intent, and comparison subsumes document/object intent, so it
// is checked first. Parameters are always built from the full context so
// every handler sees the same resolved quantifiers.
func Classify(pc Context) core.Task {
	parameters := buildParameters(pc)

	switch {
	case pc.Has(KeyComparison):
		return core.Task{Kind: core.TaskComparison, Parameters: parameters}
	case pc.Has(KeyDescription):
		return core.Task{Kind: core.TaskDescription, Parameters: parameters}
	case pc.Has(KeyDocument):
		return core.Task{Kind: core.TaskDocument, Parameters: parameters}
	case pc.Has(KeyObject):
		return core.Task{Kind: core.TaskObject, Parameters: parameters}
	default:
		return core.Task{Kind: core.TaskChat, Parameters: parameters}
	}
}

func buildParameters(pc Context) core.TaskParameters {
	return core.TaskParameters{
		Last:   pc.Has(KeyLast),
		All:    pc.Has(KeyAll),
		Period: pc.Period,
		Amount: pc.Amount,
	}
}
