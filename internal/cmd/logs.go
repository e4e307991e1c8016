package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/runger/casts/internal/config"
	"github.com/runger/casts/internal/logging"
)

const (
	logsPollInterval = 200 * time.Millisecond
	// maxLogLine bounds one JSON entry; longer lines are reported as errors.
	maxLogLine = 1 << 20
)

var (
	logsFollow bool
	logsLines  int
	logsLevel  string
	logsRaw    bool
)

var logsCmd = &cobra.Command{
	Use:     "logs",
	Short:   "View the browser log",
	GroupID: groupSetup,
	Long: `View the casts log file.

The browser owns the terminal while it runs, so it writes JSON lines to a
rotated file instead. Entries are shown one per line as
"time LEVEL message key=value ...", or untouched with --raw.

Examples:
  casts logs                  # Last 50 entries
  casts logs --level warn     # Only warnings and errors
  casts logs -f               # Follow a running browser
  casts logs --raw -n 100     # Last 100 entries as JSON`,
	Args: cobra.NoArgs,
	RunE: runLogs,
}

func init() {
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "follow log output")
	logsCmd.Flags().IntVarP(&logsLines, "lines", "n", 50, "number of entries to show")
	logsCmd.Flags().StringVar(&logsLevel, "level", "debug", "minimum level: debug, info, warn or error")
	logsCmd.Flags().BoolVar(&logsRaw, "raw", false, "print entries as stored JSON")
	rootCmd.AddCommand(logsCmd)
}

// logFilter selects and renders log entries.
type logFilter struct {
	min slog.Level
	raw bool
}

func runLogs(cmd *cobra.Command, args []string) error {
	if logsLines < 0 {
		return fmt.Errorf("--lines must not be negative")
	}
	switch strings.ToLower(logsLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid --level %q: want debug, info, warn or error", logsLevel)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logFile := cfg.LogFile(config.DefaultPaths())

	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		fmt.Printf("No log file found at: %s\n", logFile)
		fmt.Println("casts has not written any logs yet.")
		return nil
	}

	filter := logFilter{min: logging.ParseLevel(logsLevel), raw: logsRaw}
	if logsFollow {
		return followLogs(cmd.Context(), os.Stdout, logFile, filter)
	}
	return tailLogs(os.Stdout, logFile, logsLines, filter)
}

// tailLogs prints the last n entries of filename that pass filter. The file
// is bounded by log rotation, so it is scanned front to back.
func tailLogs(w io.Writer, filename string, n int, filter logFilter) error {
	if n == 0 {
		return nil
	}

	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	ring := make([]string, 0, n)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLogLine)
	for scanner.Scan() {
		line, ok := filter.render(scanner.Text())
		if !ok {
			continue
		}
		if len(ring) == n {
			ring = slices.Delete(ring, 0, 1)
		}
		ring = append(ring, line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read log file: %w", err)
	}

	if len(ring) == 0 {
		fmt.Fprintln(w, "No matching log entries.")
		return nil
	}
	for _, line := range ring {
		fmt.Fprintln(w, line)
	}
	return nil
}

// followLogs prints entries appended to filename until ctx is done. When the
// file shrinks it has been rotated and is reopened from the start.
func followLogs(ctx context.Context, w io.Writer, filename string, filter logFilter) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { f.Close() }()

	offset, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return fmt.Errorf("failed to seek to end: %w", err)
	}

	fmt.Fprintf(w, "Following %s (Ctrl+C to stop)...\n\n", filename)

	reader := bufio.NewReader(f)
	var partial strings.Builder
	for {
		chunk, err := reader.ReadString('\n')
		offset += int64(len(chunk))
		partial.WriteString(chunk)
		if err == nil {
			if line, ok := filter.render(strings.TrimRight(partial.String(), "\r\n")); ok {
				fmt.Fprintln(w, line)
			}
			partial.Reset()
			continue
		}
		if err != io.EOF {
			return fmt.Errorf("error reading log: %w", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(logsPollInterval):
		}

		if st, statErr := os.Stat(filename); statErr == nil && st.Size() < offset {
			f.Close()
			if f, err = os.Open(filename); err != nil {
				return fmt.Errorf("failed to reopen rotated log: %w", err)
			}
			reader.Reset(f)
			offset = 0
			partial.Reset()
		}
	}
}

// render returns the display form of one stored line and whether it passes
// the level filter. Lines that are not JSON always pass and print verbatim.
func (lf logFilter) render(line string) (string, bool) {
	if strings.TrimSpace(line) == "" {
		return "", false
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		return line, true
	}

	level := slog.LevelInfo
	if s, ok := entry[slog.LevelKey].(string); ok {
		if err := level.UnmarshalText([]byte(s)); err != nil {
			level = slog.LevelInfo
		}
	}
	if level < lf.min {
		return "", false
	}
	if lf.raw {
		return line, true
	}
	return formatEntry(entry, level), true
}

func formatEntry(entry map[string]any, level slog.Level) string {
	var b strings.Builder

	if ts, ok := entry["ts"].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			ts = t.Local().Format("2006-01-02 15:04:05.000")
		}
		b.WriteString(colorDim + ts + colorReset + " ")
	}
	fmt.Fprintf(&b, "%s%-5s%s ", levelColor(level), level.String(), colorReset)
	if msg, ok := entry[slog.MessageKey].(string); ok {
		b.WriteString(colorBold + msg + colorReset)
	}

	keys := make([]string, 0, len(entry))
	for k := range entry {
		switch k {
		case "ts", slog.LevelKey, slog.MessageKey:
		default:
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s%s=%s%s", colorCyan, k, colorReset, formatValue(entry[k]))
	}
	return b.String()
}

func formatValue(v any) string {
	switch v := v.(type) {
	case string:
		if v == "" || strings.ContainsAny(v, " \t\"=") {
			return fmt.Sprintf("%q", v)
		}
		return v
	case nil:
		return "null"
	case float64, bool:
		return fmt.Sprint(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	}
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level >= slog.LevelInfo:
		return colorGreen
	default:
		return colorDim
	}
}
