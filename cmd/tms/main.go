package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"tms/internal/cli"
)

func main() {
	closeLog := setupLogging()
	defer closeLog()

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "tms:", err)
		os.Exit(1)
	}
}

// setupLogging sends the log package to a file under the user cache dir so
// warnings never bleed into the TUI. Without a usable cache dir logging is
// discarded.
func setupLogging() func() {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		log.SetOutput(io.Discard)
		return func() {}
	}

	logDir := filepath.Join(cacheDir, "tms")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		log.SetOutput(io.Discard)
		return func() {}
	}

	f, err := os.OpenFile(filepath.Join(logDir, "tms.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.SetOutput(io.Discard)
		return func() {}
	}

	log.SetOutput(f)
	return func() { _ = f.Close() }
}
