// Package prompt turns free-form request text into a structured context and
// classifies it into exactly one task. Parsing is pure and deterministic:
// the message is case-folded, tokenized and matched against a per-language
// keyword table; a time period and a numeric amount are scanned for
// independently. Classification is total: when no domain keyword matches,
// the request falls through to the chat task.
package prompt
