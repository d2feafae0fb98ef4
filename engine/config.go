// Package engine drives the two-barrier scan/analyze pipeline over a set
// of source files: lex/parse/resolve/reflect runs file-parallel behind one
// barrier, the reflection store is frozen, then flow analysis runs
// file-parallel behind a second barrier, one work item per file, with a
// file's function bodies analyzed one after another by that worker.
package engine

import (
	"github.com/mago-php/mago-core/issue"
	"github.com/mago-php/mago-core/types"
)

// Config is the host-supplied, read-only configuration for one Run. The
// core never parses a config file itself (spec §1 Non-goals); the host
// loads whatever format it likes and fills this struct in.
type Config struct {
	// PHPVersion gates which syntax and built-in stub declarations are
	// available, e.g. "8.3".
	PHPVersion string

	// SeverityOverrides remaps a code's default severity (spec §6).
	SeverityOverrides map[issue.Code]issue.Severity

	// DisabledCodes are never reported regardless of severity.
	DisabledCodes map[issue.Code]bool

	// Integrations enables stub/rule sets for specific third-party
	// libraries (spec §6 "integrations flags").
	Integrations map[string]bool

	// TypeConfig carries the literal-union and array-shape widening caps
	// (spec §9's Open Question on configurable widening thresholds). Run
	// does not pass it to the analyzer: every analyzer Context uses
	// types.DefaultConfig.
	TypeConfig types.Config

	// Workers bounds in-flight per-file work items. Zero means
	// runtime.GOMAXPROCS(0).
	Workers int

	// BaselinePath, when non-empty, is read at Run start to filter
	// pre-existing issues and can be regenerated via RegenerateBaseline.
	BaselinePath string
}

// DefaultConfig mirrors types.DefaultConfig's widening caps and otherwise
// enables every code at its registry default severity.
var DefaultConfig = Config{
	PHPVersion:        "8.3",
	SeverityOverrides: map[issue.Code]issue.Severity{},
	DisabledCodes:     map[issue.Code]bool{},
	Integrations:      map[string]bool{},
	TypeConfig:        types.DefaultConfig,
}

// severityFor applies SeverityOverrides to iss, leaving its registry
// default untouched when no override is configured.
func (c Config) severityFor(iss issue.Issue) issue.Issue {
	if sev, ok := c.SeverityOverrides[iss.Code]; ok {
		iss.Severity = sev
	}
	return iss
}

// enabled reports whether code should be reported under c.
func (c Config) enabled(code issue.Code) bool {
	return !c.DisabledCodes[code]
}
