package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mago-php/mago-core/issue"
	"github.com/mago-php/mago-core/source"
)

// rebuildFileSet mirrors Run's own construction of a source.Set from Inputs,
// since RegenerateBaseline needs to resolve each issue's file id back to a
// path and Result does not carry the set Run built internally.
func rebuildFileSet(t *testing.T, inputs []Input) *source.Set {
	t.Helper()
	files := source.NewSet()
	for i, in := range inputs {
		files.Add(source.NewFile(source.FileID(i), in.Path, source.KindPath, in.Text))
	}
	return files
}

func TestBaselineFilterSuppressesRegeneratedIssues(t *testing.T) {
	src := `<?php
function f(): void {
    echo $missing;
}
`
	res := runSources(t, DefaultConfig, src)
	if !hasIssueCode(res.Issues, issue.UndefinedVariable) {
		t.Fatalf("expected UndefinedVariable before baselining, got %+v", res.Issues)
	}

	inputs := []Input{{Path: "file0.php", Text: src}}
	ctx := context.Background()
	first, err := Run(ctx, inputs, DefaultConfig, nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	files := rebuildFileSet(t, inputs)
	path := filepath.Join(t.TempDir(), "baseline.json")
	if err := RegenerateBaseline(path, first.Issues, files); err != nil {
		t.Fatalf("RegenerateBaseline returned error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected baseline file to exist: %v", err)
	}

	cfg := DefaultConfig
	cfg.BaselinePath = path
	second, err := Run(ctx, inputs, cfg, nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if hasIssueCode(second.Issues, issue.UndefinedVariable) {
		t.Fatalf("expected UndefinedVariable to be filtered by baseline, got %+v", second.Issues)
	}
}

func TestBaselineLoadMissingFileErrors(t *testing.T) {
	if _, err := LoadBaseline(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatalf("expected an error loading a missing baseline file")
	}
}

func hasIssueCode(issues []issue.Issue, code issue.Code) bool {
	for _, iss := range issues {
		if iss.Code == code {
			return true
		}
	}
	return false
}
