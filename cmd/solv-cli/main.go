// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"

	"solv/internal/diag"
	"solv/internal/engine"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: solv <file.sol>")
		os.Exit(1)
	}

	startTime := time.Now()
	path := os.Args[1]

	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read file: %v\n", err)
		os.Exit(1)
	}

	eng := engine.New(filepath.Dir(path))
	eng.UpdateFile(path, string(source))

	diagnostics := eng.Diagnostics(path, nil)
	reporter := diag.NewReporter(path, string(source))

	hasErrors := false
	for _, d := range diagnostics {
		fmt.Print(reporter.Format(d))
		if d.Severity == diag.SeverityError {
			hasErrors = true
		}
	}

	duration := formatDuration(time.Since(startTime))

	if hasErrors {
		color.Red("Analysis failed after %s", duration)
		os.Exit(1)
	}
	color.Green("Successfully analyzed %s in %s", path, duration)
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
