package main

import (
	"log"
	"os"
)

var debugEnabled bool

// setDebug turns debug logging on when requested by flag or by PICSORT_DEBUG.
func setDebug(flagValue bool) {
	debugEnabled = flagValue || os.Getenv("PICSORT_DEBUG") != ""
	if debugEnabled {
		log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	}
}

// debugLog prints only when debug logging is enabled
func debugLog(format string, args ...any) {
	if debugEnabled {
		log.Printf("Debug: "+format, args...)
	}
}
