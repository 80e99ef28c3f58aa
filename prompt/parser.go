package prompt

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/saf59/cx58-agent/core"
)

// Key is a semantic marker recognized in a request message.
type Key string

const (
	// KeyObject marks object retrieval intent.
	KeyObject Key = "object"
	// KeyDocument marks document retrieval intent.
	KeyDocument Key = "document"
	// KeyDescription marks description intent.
	KeyDescription Key = "description"
	// KeyComparison marks comparison intent.
	KeyComparison Key = "comparison"
	// KeyLast marks the "most recent" quantifier.
	KeyLast Key = "last"
	// KeyAll marks the "everything" quantifier.
	KeyAll Key = "all"
)

// Context is the parser output: the set of recognized semantic keys plus an
// optional period and positive amount. It lives for a single classification
// call.
type Context struct {
	Keys   map[Key]bool
	Period *core.Period
	Amount *int
}

// Has reports whether the key was recognized in the message.
func (c Context) Has(k Key) bool { return c.Keys[k] }

// ParseError reports that a message could not be tokenized. It is a
// deterministic failure: resubmitting the same message cannot succeed.
type ParseError struct {
	Reason string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.Reason)
}

// table holds the keyword and period vocabularies of one language.
type table struct {
	keys    map[string]Key
	periods map[string]core.Period
}

// Per-language vocabularies. Token matching is exact after case folding, so
// common inflections are listed explicitly. Unknown language codes fall back
// to English.
var tables = map[string]table{
	"en": {
		keys: map[string]Key{
			"object": KeyObject, "objects": KeyObject, "item": KeyObject, "items": KeyObject,
			"document": KeyDocument, "documents": KeyDocument, "doc": KeyDocument, "docs": KeyDocument,
			"description": KeyDescription, "descriptions": KeyDescription, "describe": KeyDescription,
			"compare": KeyComparison, "comparison": KeyComparison, "comparisons": KeyComparison,
			"versus": KeyComparison, "vs": KeyComparison, "difference": KeyComparison, "differences": KeyComparison,
			"last": KeyLast, "latest": KeyLast, "recent": KeyLast, "newest": KeyLast,
			"all": KeyAll, "every": KeyAll, "everything": KeyAll,
		},
		periods: map[string]core.Period{
			"today": core.PeriodDay, "day": core.PeriodDay, "daily": core.PeriodDay,
			"week": core.PeriodWeek, "weekly": core.PeriodWeek,
			"month": core.PeriodMonth, "monthly": core.PeriodMonth,
			"quarter": core.PeriodQuarter, "quarterly": core.PeriodQuarter,
			"year": core.PeriodYear, "yearly": core.PeriodYear, "annual": core.PeriodYear,
		},
	},
	"uk": {
		keys: map[string]Key{
			"об'єкт": KeyObject, "об'єкти": KeyObject, "об'єктів": KeyObject,
			"документ": KeyDocument, "документи": KeyDocument, "документів": KeyDocument,
			"опис": KeyDescription, "описи": KeyDescription, "опиши": KeyDescription, "описати": KeyDescription,
			"порівняй": KeyComparison, "порівняння": KeyComparison, "порівняти": KeyComparison,
			"останній": KeyLast, "останні": KeyLast, "останню": KeyLast, "останнє": KeyLast,
			"всі": KeyAll, "усі": KeyAll, "все": KeyAll,
		},
		periods: map[string]core.Period{
			"сьогодні": core.PeriodDay, "день": core.PeriodDay,
			"тиждень": core.PeriodWeek, "тижня": core.PeriodWeek,
			"місяць": core.PeriodMonth, "місяця": core.PeriodMonth,
			"квартал": core.PeriodQuarter,
			"рік":     core.PeriodYear, "року": core.PeriodYear,
		},
	},
	"de": {
		keys: map[string]Key{
			"objekt": KeyObject, "objekte": KeyObject, "objekten": KeyObject,
			"dokument": KeyDocument, "dokumente": KeyDocument, "dokumenten": KeyDocument,
			"beschreibung": KeyDescription, "beschreibe": KeyDescription, "beschreiben": KeyDescription,
			"vergleich": KeyComparison, "vergleiche": KeyComparison, "vergleichen": KeyComparison,
			"letzte": KeyLast, "letzten": KeyLast, "letzter": KeyLast, "neueste": KeyLast,
			"alle": KeyAll, "allen": KeyAll, "alles": KeyAll,
		},
		periods: map[string]core.Period{
			"heute": core.PeriodDay, "tag": core.PeriodDay,
			"woche": core.PeriodWeek, "monat": core.PeriodMonth,
			"quartal": core.PeriodQuarter, "jahr": core.PeriodYear,
		},
	},
}

// Parse tokenizes the message and populates a Context from the keyword table
// of the given language. It is pure: no I/O, deterministic output. A message
// that is empty after normalization yields a *ParseError; a message with no
// recognized keywords still succeeds with an empty key set.
func Parse(language, message string) (Context, error) {
	tokens := tokenize(message)
	if len(tokens) == 0 {
		return Context{}, &ParseError{Reason: "message is empty after normalization"}
	}

	tbl, ok := tables[strings.ToLower(language)]
	if !ok {
		tbl = tables["en"]
	}

	pc := Context{Keys: make(map[Key]bool)}
	for _, tok := range tokens {
		if key, ok := tbl.keys[tok]; ok {
			pc.Keys[key] = true
		}
		if pc.Period == nil {
			if period, ok := tbl.periods[tok]; ok {
				p := period
				pc.Period = &p
			}
		}
		if pc.Amount == nil {
			if n, err := strconv.Atoi(tok); err == nil && n > 0 {
				amount := n
				pc.Amount = &amount
			}
		}
	}
	return pc, nil
}

// tokenize case-folds the message and splits it into letter/digit runs.
// Apostrophes are kept inside words so Ukrainian forms like "об'єкт" survive;
// the typographic variant is normalized to ASCII so both spellings hit the
// same table entries.
func tokenize(message string) []string {
	lowered := strings.ToLower(strings.TrimSpace(message))
	lowered = strings.ReplaceAll(lowered, "’", "'")
	return strings.FieldsFunc(lowered, func(r rune) bool {
		if r == '\'' {
			return false
		}
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
