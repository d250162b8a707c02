package config

import (
	"fmt"
	"runtime"

	"github.com/standardbeagle/lcc/internal/index"
)

// Options is the per-request completion configuration surface. The zero
// value is NOT the default; use DefaultOptions. Index is an explicit
// immutable handle passed per request so independent corpora can coexist
// without shared mutable state.
type Options struct {
	// Limit caps the number of returned items; 0 means unbounded. When the
	// candidate count exceeds Limit the list is truncated to the Limit
	// highest-ranked items and marked incomplete.
	Limit int

	IncludeMacros            bool
	IncludeGlobals           bool
	IncludeBriefComments     bool
	EnableSnippets           bool
	IncludeCodePatterns      bool
	IncludeIneligibleResults bool

	// Index is the static corpus index to merge with the dynamic one.
	// nil means "no index configured" and contributes nothing.
	Index index.Index
}

// DefaultOptions has everything benign on by default, snippets and
// ineligible results opt-in, and no result limit.
func DefaultOptions() Options {
	return Options{
		IncludeMacros:        true,
		IncludeGlobals:       true,
		IncludeBriefComments: true,
		IncludeCodePatterns:  true,
	}
}

// Config is the file-level configuration for the lcc CLI and server.
type Config struct {
	Project    Project
	Completion Completion
	Server     Server
	Include    []string
}

type Project struct {
	Root string
	Name string
}

// Completion holds the Options fields that make sense in a config file
// (the Index handle is runtime-only).
type Completion struct {
	Limit                    int
	IncludeMacros            bool
	IncludeGlobals           bool
	IncludeBriefComments     bool
	EnableSnippets           bool
	IncludeCodePatterns      bool
	IncludeIneligibleResults bool
}

type Server struct {
	Workers         int  // completion worker pool size, 0 = NumCPU
	WatchMode       bool // re-add documents on file writes
	WatchDebounceMs int
	SnapshotPath    string // static index snapshot to load at startup
}

// Default returns the built-in configuration.
func Default() *Config {
	opts := DefaultOptions()
	return &Config{
		Completion: Completion{
			Limit:                opts.Limit,
			IncludeMacros:        opts.IncludeMacros,
			IncludeGlobals:       opts.IncludeGlobals,
			IncludeBriefComments: opts.IncludeBriefComments,
			EnableSnippets:       opts.EnableSnippets,
			IncludeCodePatterns:  opts.IncludeCodePatterns,
		},
		Server: Server{
			Workers:         runtime.NumCPU(),
			WatchDebounceMs: 200,
		},
		Include: []string{},
	}
}

// Options converts the file-level completion section into request Options.
func (c *Config) Options() Options {
	return Options{
		Limit:                    c.Completion.Limit,
		IncludeMacros:            c.Completion.IncludeMacros,
		IncludeGlobals:           c.Completion.IncludeGlobals,
		IncludeBriefComments:     c.Completion.IncludeBriefComments,
		EnableSnippets:           c.Completion.EnableSnippets,
		IncludeCodePatterns:      c.Completion.IncludeCodePatterns,
		IncludeIneligibleResults: c.Completion.IncludeIneligibleResults,
	}
}

// Validate rejects configurations the engine cannot honor.
func (c *Config) Validate() error {
	if c.Completion.Limit < 0 {
		return fmt.Errorf("completion limit must be >= 0, got %d", c.Completion.Limit)
	}
	if c.Server.Workers < 0 {
		return fmt.Errorf("server workers must be >= 0, got %d", c.Server.Workers)
	}
	if c.Server.WatchDebounceMs < 0 {
		return fmt.Errorf("watch debounce must be >= 0, got %d", c.Server.WatchDebounceMs)
	}
	return nil
}
