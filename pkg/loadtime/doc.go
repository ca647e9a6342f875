// Package loadtime provides the string store an interstitial page reads its
// localized strings and early page data from. The store is populated once
// with SetData, read through typed accessors that report (but never fail on)
// missing keys and type mismatches, and refreshed in place with
// OverrideValues, e.g. when DNS probe results arrive.
//
// Stored strings may carry positional placeholders: $1 through $9 are
// replaced by the matching argument and $$ produces a literal dollar sign.
package loadtime
