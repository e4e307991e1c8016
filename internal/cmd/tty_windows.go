//go:build windows

package cmd

import (
	"fmt"
	"os"
)

// getTermWidthIoctl returns 0 on Windows; width detection falls back to $COLUMNS.
func getTermWidthIoctl() int {
	return 0
}

// checkTerminal only rejects TERM=dumb on Windows.
func checkTerminal() error {
	if os.Getenv("TERM") == "dumb" {
		return fmt.Errorf("TERM=dumb is not supported")
	}
	return nil
}
