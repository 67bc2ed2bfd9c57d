package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/Iron-Ham/eisen/internal/config"
	"github.com/Iron-Ham/eisen/internal/logging"
	"github.com/Iron-Ham/eisen/internal/render"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View the eisen log",
	Long: `View and filter eisen.log in the data directory.

Logging is controlled by logging.enabled and logging.level in the config.`,
	Example: `  # Show the last 50 entries
  eisen logs

  # Only failed saves from the last hour
  eisen logs --level warn --since 1h

  # Follow new entries as they are written
  eisen logs -f --grep "write"`,
	Args: cobra.NoArgs,
	RunE: runLogs,
}

// followPoll is how often follow mode checks the log for new lines.
const followPoll = 200 * time.Millisecond

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.Flags().IntP("tail", "n", 50, "number of entries to show (0 for all)")
	logsCmd.Flags().BoolP("follow", "f", false, "follow the log (like tail -f)")
	logsCmd.Flags().String("level", "", "minimum level: debug, info, warn or error")
	logsCmd.Flags().String("since", "", "only entries newer than this duration (e.g. 1h, 30m)")
	logsCmd.Flags().String("grep", "", "only entries matching this regular expression")
}

// logEntry is one JSON line written by the logger
type logEntry struct {
	Time  time.Time
	Level string
	Msg   string
	Store string
	Key   string
	Extra map[string]any
}

// UnmarshalJSON keeps unknown attributes in Extra.
func (e *logEntry) UnmarshalJSON(data []byte) error {
	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}

	str := func(name string) string {
		v, _ := all[name].(string)
		delete(all, name)
		return v
	}
	if ts := str("time"); ts != "" {
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return err
		}
		e.Time = t
	}
	e.Level = str("level")
	e.Msg = str("msg")
	e.Store = str("store")
	e.Key = str("key")
	if len(all) > 0 {
		e.Extra = all
	}
	return nil
}

// logFilter selects entries for display
type logFilter struct {
	minLevel int
	since    time.Time
	grep     *regexp.Regexp
}

// levelPriority returns the priority of a log level for filtering
func levelPriority(level string) int {
	return slices.Index(logging.ValidLevels(), strings.ToUpper(level))
}

func (f logFilter) passes(e *logEntry) bool {
	if f.minLevel >= 0 && levelPriority(e.Level) < f.minLevel {
		return false
	}
	if !f.since.IsZero() && e.Time.Before(f.since) {
		return false
	}
	if f.grep != nil {
		text := []string{e.Msg, e.Store, e.Key}
		for _, v := range e.Extra {
			text = append(text, fmt.Sprint(v))
		}
		if !f.grep.MatchString(strings.Join(text, " ")) {
			return false
		}
	}
	return true
}

// logFormatter renders entries with the theme's styles
type logFormatter struct {
	theme *render.Theme
}

func (lf logFormatter) levelStyle(level string) lipgloss.Style {
	switch strings.ToUpper(level) {
	case logging.LevelWarn:
		return lf.theme.PriorityStyle("Medium")
	case logging.LevelError:
		return lf.theme.Overdue
	case logging.LevelDebug:
		return lf.theme.Muted
	default:
		return lf.theme.Key
	}
}

func (lf logFormatter) format(e *logEntry) string {
	var sb strings.Builder
	sb.WriteString(lf.theme.Muted.Render("[" + e.Time.Local().Format("15:04:05.000") + "]"))
	sb.WriteString(" ")
	sb.WriteString(lf.levelStyle(e.Level).Render(fmt.Sprintf("%-5s", strings.ToUpper(e.Level))))
	sb.WriteString(" ")
	sb.WriteString(e.Msg)

	if e.Store != "" {
		sb.WriteString(lf.theme.Subtitle.Render(" store=" + e.Store))
	}
	if e.Key != "" {
		sb.WriteString(lf.theme.Subtitle.Render(" key=" + e.Key))
	}
	for _, k := range slices.Sorted(maps.Keys(e.Extra)) {
		sb.WriteString(lf.theme.Subtitle.Render(" " + k + "="))
		sb.WriteString(fmt.Sprint(e.Extra[k]))
	}
	return sb.String()
}

// formatLine renders one raw log line, or "" when it is filtered out.
// Lines that are not JSON are shown as they are.
func (lf logFormatter) formatLine(line string, f logFilter) string {
	line = strings.TrimSpace(line)
	if line == "" {
		return ""
	}
	var entry logEntry
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		return line
	}
	if !f.passes(&entry) {
		return ""
	}
	return lf.format(&entry)
}

func parseLogFilter(cmd *cobra.Command) (logFilter, error) {
	f := logFilter{minLevel: -1}

	if level, _ := cmd.Flags().GetString("level"); level != "" {
		f.minLevel = levelPriority(logging.ParseLevel(level))
	}
	if since, _ := cmd.Flags().GetString("since"); since != "" {
		d, err := time.ParseDuration(since)
		if err != nil {
			return f, fmt.Errorf("invalid duration format: %w", err)
		}
		f.since = time.Now().Add(-d)
	}
	if pattern, _ := cmd.Flags().GetString("grep"); pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return f, fmt.Errorf("invalid grep pattern: %w", err)
		}
		f.grep = re
	}
	return f, nil
}

func runLogs(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	filter, err := parseLogFilter(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	logPath := filepath.Join(cfg.Storage.ResolveDir(), logging.LogFileName)
	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		fmt.Fprintln(out, "No log file yet.")
		fmt.Fprintln(out, "Logs are written to:", logPath)
		return nil
	}

	themeName := render.ThemeMono
	if f, ok := out.(*os.File); ok && render.IsTerminal(f) {
		themeName = cfg.TUI.Theme
	}
	lf := logFormatter{theme: render.ThemeFor(themeName)}

	if follow, _ := cmd.Flags().GetBool("follow"); follow {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return followLogs(ctx, out, logPath, lf, filter)
	}
	tail, _ := cmd.Flags().GetInt("tail")
	return displayLogs(out, logPath, tail, lf, filter)
}

// displayLogs prints the last tail matching entries of the log file
func displayLogs(out io.Writer, logPath string, tail int, lf logFormatter, filter logFilter) error {
	file, err := os.Open(logPath)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var entries []string
	scanner := bufio.NewScanner(file)
	// Increase buffer size for potentially long log lines
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		if s := lf.formatLine(scanner.Text(), filter); s != "" {
			entries = append(entries, s)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading log file: %w", err)
	}

	if tail > 0 && len(entries) > tail {
		entries = entries[len(entries)-tail:]
	}
	for _, entry := range entries {
		fmt.Fprintln(out, entry)
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No matching log entries found.")
	}
	return nil
}

// followLogs prints entries appended to the log until ctx is canceled
func followLogs(ctx context.Context, out io.Writer, logPath string, lf logFormatter, filter logFilter) error {
	file, err := os.Open(logPath)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = file.Close() }()

	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("failed to seek to end: %w", err)
	}
	fmt.Fprintf(out, "Following %s... (Ctrl+C to stop)\n\n", logPath)

	ticker := time.NewTicker(followPoll)
	defer ticker.Stop()

	reader := bufio.NewReader(file)
	var partial string
	for {
		line, err := reader.ReadString('\n')
		switch {
		case err == io.EOF:
			// Keep an unterminated line until the rest arrives
			partial += line
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
			continue
		case err != nil:
			return fmt.Errorf("error reading log file: %w", err)
		}

		if s := lf.formatLine(partial+line, filter); s != "" {
			fmt.Fprintln(out, s)
		}
		partial = ""
	}
}
