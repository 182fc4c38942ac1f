// Package logtail reads and formats palette's log file for `palette logs`.
//
// # Reading
//
// Read returns the last N lines of a file using a ring buffer, so only N
// lines are held in memory however large the file grows. A missing file is
// not an error; it just means nothing has been logged yet.
//
// # Parsing and filtering
//
// Parse understands the line format written by the logging package:
//
//	2026-01-02T15:04:05 [LEVEL] [category] message key=value ...
//
// Filter keeps lines at or above a level and, optionally, from one category.
//
// # Colorizing
//
// Colorize styles the timestamp, level and category with lipgloss. Under
// a terminal without color support lipgloss renders plain text, so the
// output stays readable when piped.
package logtail
