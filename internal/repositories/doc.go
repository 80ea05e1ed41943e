// Package repositories implements SQLite persistence for conversion history.
//
// Each finished conversion is stored as an import run: which source it came
// from, what was matched, and which tracks were left behind. The unmatched
// list is stored as a JSON array so a run's report can be reproduced later.
package repositories
