package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/palette/internal/logging"
)

// Read returns the last maxLines lines of the file at path. A missing file
// yields no lines and no error. maxLines <= 0 returns the whole file.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var all []string
		for scanner.Scan() {
			all = append(all, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return all, nil
	}

	ring := make([]string, maxLines)
	count, next := 0, 0
	for scanner.Scan() {
		ring[next] = scanner.Text()
		next = (next + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count < maxLines {
		copy(lines, ring[:count])
		return lines, nil
	}
	for i := range lines {
		lines[i] = ring[(next+i)%maxLines]
	}
	return lines, nil
}

// Entry is one parsed log line.
type Entry struct {
	Time     string
	Level    logging.Level
	Category string
	Message  string
}

// Parse splits a line written by the logging package:
//
//	2026-01-02T15:04:05 [WARN] [store] message key=value
func Parse(line string) (Entry, bool) {
	ts, rest, ok := strings.Cut(line, " ")
	if !ok {
		return Entry{}, false
	}
	level, rest, ok := cutBracket(rest)
	if !ok {
		return Entry{}, false
	}
	cat, rest, ok := cutBracket(rest)
	if !ok {
		return Entry{}, false
	}
	return Entry{
		Time:     ts,
		Level:    logging.ParseLevel(level),
		Category: cat,
		Message:  rest,
	}, true
}

func cutBracket(s string) (inner, rest string, ok bool) {
	if !strings.HasPrefix(s, "[") {
		return "", s, false
	}
	end := strings.IndexByte(s, ']')
	if end < 0 {
		return "", s, false
	}
	return s[1:end], strings.TrimPrefix(s[end+1:], " "), true
}

// Filter selects lines at or above a level, optionally limited to one category.
type Filter struct {
	MinLevel logging.Level
	Category string
}

// Apply keeps the lines that match f. Lines that do not parse are kept only
// when no filtering is requested.
func (f Filter) Apply(lines []string) []string {
	if f.MinLevel == logging.LevelDebug && f.Category == "" {
		return lines
	}
	var out []string
	for _, line := range lines {
		e, ok := Parse(line)
		if !ok {
			continue
		}
		if e.Level < f.MinLevel {
			continue
		}
		if f.Category != "" && !strings.EqualFold(e.Category, f.Category) {
			continue
		}
		out = append(out, line)
	}
	return out
}

var (
	timeStyle  = lipgloss.NewStyle().Faint(true)
	catStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7aa2f7"))
	levelStyle = map[logging.Level]lipgloss.Style{
		logging.LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("#71839b")),
		logging.LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("#81b29a")),
		logging.LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("#dbc074")).Bold(true),
		logging.LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("#c94f6d")).Bold(true),
	}
)

// Colorize styles the timestamp, level and category of a log line for a
// terminal. Unparseable lines are returned as is.
func Colorize(line string) string {
	e, ok := Parse(line)
	if !ok {
		return line
	}
	return fmt.Sprintf("%s %s %s %s",
		timeStyle.Render(e.Time),
		levelStyle[e.Level].Render("["+e.Level.String()+"]"),
		catStyle.Render("["+e.Category+"]"),
		e.Message,
	)
}
