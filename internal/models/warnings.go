package models

// WarningCode categorizes warnings by subsystem.
// W1xxx = configuration, W2xxx = feeds and refresh sections.
type WarningCode string

const (
	WarnProfileFallback   WarningCode = "W1001" // unknown threshold profile requested, active profile used instead
	WarnCrisisFeedFailed  WarningCode = "W2001" // one crisis feed failed, its events are missing from the batch
	WarnMetalsStale       WarningCode = "W2002" // metals section carried over from the previous snapshot
	WarnMacroStale        WarningCode = "W2003" // macro section carried over from the previous snapshot
	WarnRatesStale        WarningCode = "W2004" // exchange rates carried over from the previous snapshot
	WarnConversionSkipped WarningCode = "W2005" // requested currency could not be converted, prices left as fetched
)

// Warning represents a non-fatal issue encountered during processing.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}
