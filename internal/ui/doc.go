// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for game-day walk-up cues:
//  1. [RosterView] : Browse the roster with assigned tracks and cue windows
//  2. [ConfirmView] : Confirm the walk-up before touching the PA
//  3. [CueView] : Monitor real-time progress while the cue plays
//  4. [ResultView] : Display the outcome and return to the roster
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the roster engine, providing non-blocking status reporting during cues.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
