package logging

import (
	"io"
	"log"
	"os"
)

func New() *log.Logger {
	return log.New(os.Stdout, "[loraterm] ", log.LstdFlags)
}

// NewFile logs to a file so the TUI screen stays clean. Falls back to a
// discarding logger if the file cannot be opened.
func NewFile(path string) *log.Logger {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return log.New(io.Discard, "", 0)
	}
	return log.New(f, "[loraterm] ", log.LstdFlags)
}
