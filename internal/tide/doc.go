// Package tide turns a list of predicted tide events into the current tide
// state, an hourly forecast curve and the next highs and lows.
//
// Height between two consecutive events is linear. Every function is pure:
// the caller passes the events and "now" in, nothing reads a clock, and the
// same inputs always produce the same forecast. Queries outside the span of
// known events do not fail; they return a configurable fallback height marked
// with IsFallback.
package tide
