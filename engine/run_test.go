package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/mago-php/mago-core/issue"
)

func runSources(t *testing.T, cfg Config, sources ...string) *Result {
	t.Helper()
	inputs := make([]Input, len(sources))
	for i, src := range sources {
		inputs[i] = Input{Path: fmt.Sprintf("file%d.php", i), Text: src}
	}
	res, err := Run(context.Background(), inputs, cfg, nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	return res
}

func TestRunReturnsSortedCrossFileIssues(t *testing.T) {
	a := `<?php
function f(): void {
    echo $missing;
}
`
	b := `<?php
function g(): void {
    echo $alsoMissing;
}
`
	res := runSources(t, DefaultConfig, a, b)
	if len(res.Issues) < 2 {
		t.Fatalf("expected at least 2 issues, got %+v", res.Issues)
	}
	for i := 1; i < len(res.Issues); i++ {
		prev, cur := res.Issues[i-1].SortKey(), res.Issues[i].SortKey()
		if cur.Less(prev) {
			t.Fatalf("issues not sorted: %+v before %+v", res.Issues[i-1], res.Issues[i])
		}
	}
}

func TestRunSetsCorrelationID(t *testing.T) {
	res := runSources(t, DefaultConfig, "<?php\nfunction f(): void {}\n")
	if res.RunID == uuid.Nil {
		t.Fatalf("expected a non-nil run id")
	}
}

func TestConfigDisabledCodeSuppressed(t *testing.T) {
	src := `<?php
function f(): void {
    echo $missing;
}
`
	cfg := DefaultConfig
	cfg.DisabledCodes = map[issue.Code]bool{issue.UndefinedVariable: true}
	res := runSources(t, cfg, src)
	for _, iss := range res.Issues {
		if iss.Code == issue.UndefinedVariable {
			t.Fatalf("expected UndefinedVariable to be disabled, got %+v", res.Issues)
		}
	}
}

func TestConfigSeverityOverrideApplied(t *testing.T) {
	src := `<?php
function f(): void {
    echo $missing;
}
`
	cfg := DefaultConfig
	cfg.SeverityOverrides = map[issue.Code]issue.Severity{issue.UndefinedVariable: issue.Error}
	res := runSources(t, cfg, src)
	found := false
	for _, iss := range res.Issues {
		if iss.Code == issue.UndefinedVariable {
			found = true
			if iss.Severity != issue.Error {
				t.Fatalf("expected overridden severity Error, got %v", iss.Severity)
			}
		}
	}
	if !found {
		t.Fatalf("expected UndefinedVariable to still be reported")
	}
}

func TestWellFormedInputYieldsNoInternalError(t *testing.T) {
	// A well-formed file goes through both phases without any worker
	// recovering from a panic, so no InternalError issue is reported.
	good := "<?php\nfunction f(): void {}\n"
	res := runSources(t, DefaultConfig, good)
	for _, iss := range res.Issues {
		if iss.Code == issue.InternalError {
			t.Fatalf("did not expect an internal error from well-formed input: %+v", iss)
		}
	}
}
