// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI drives one playlist conversion end to end:
//  1. [ConfirmView] : Confirm the source playlist before starting
//  2. [ConvertView] : Monitor phase and progress updates live
//  3. [ResultView] : Display match counts and any unmatched tracks
//
// The [Model] implements bubbletea's standard Init/Update/View pattern.
// Progress updates flow through a channel from the conversion pipeline,
// re-read one message at a time so rendering never blocks the pipeline.
package ui
