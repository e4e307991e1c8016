package cmd

import (
	"bytes"
	"io"
	"os"
	"testing"
)

// withIsolatedHome points every casts path at a fresh temporary directory
// and disables colors.
func withIsolatedHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir+"/config")
	t.Setenv("XDG_DATA_HOME", dir+"/data")
	t.Setenv("XDG_CACHE_HOME", dir+"/cache")
	t.Setenv("NO_COLOR", "1")
	t.Setenv("CASTS_DB", "")
	t.Setenv("CASTS_DEBUG", "")
	t.Setenv("CASTS_LOG_LEVEL", "")
	t.Setenv("CASTS_PAGE_SIZE", "")
	return dir
}

// saveColors restores every color code when the test ends.
func saveColors(t *testing.T) {
	t.Helper()
	codes := []*string{&colorRed, &colorGreen, &colorYellow, &colorCyan, &colorDim, &colorBold, &colorReset}
	orig := make([]string, len(codes))
	for i, p := range codes {
		orig[i] = *p
	}
	mode := colorMode
	t.Cleanup(func() {
		for i, p := range codes {
			*p = orig[i]
		}
		colorMode = mode
	})
}

// plainColors disables color codes for the duration of a test.
func plainColors(t *testing.T) {
	t.Helper()
	saveColors(t)
	disableColors()
}

// resetFlags restores every flag variable to its default, since cobra keeps
// parsed values between Execute calls.
func resetFlags() {
	colorMode = "auto"
	dbPathFlag = ""
	feedTitle = ""
	episodeGUID = ""
	episodeURL = ""
	episodeDuration = 0
	episodePublished = ""
	episodeFeed = 0
	episodeStatus = ""
	episodeOffset = 0
	episodeLimit = 20
	demoFeeds = 5
	demoEpisodes = 500
	demoSeed = 1
	logsFollow = false
	logsLines = 50
	logsLevel = "debug"
	logsRaw = false
}

// runCLI executes the root command with args and returns its stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	t.Cleanup(resetFlags)

	var err error
	out := captureStdout(t, func() {
		rootCmd.SetArgs(args)
		err = rootCmd.Execute()
	})
	return out, err
}

// mustRunCLI is runCLI for commands that must succeed.
func mustRunCLI(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCLI(t, args...)
	if err != nil {
		t.Fatalf("casts %v: %v\noutput:\n%s", args, err, out)
	}
	return out
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() failed: %v", err)
	}
	os.Stdout = w

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	fn()
	_ = w.Close()
	os.Stdout = old
	out := <-outC
	_ = r.Close()
	return out
}
