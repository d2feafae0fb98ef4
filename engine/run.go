package engine

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/mago-php/mago-core/analyzer"
	"github.com/mago-php/mago-core/ast"
	"github.com/mago-php/mago-core/issue"
	"github.com/mago-php/mago-core/lexer"
	"github.com/mago-php/mago-core/parser"
	"github.com/mago-php/mago-core/reflector"
	"github.com/mago-php/mago-core/resolver"
	"github.com/mago-php/mago-core/source"
)

// Input is one source or stub file submitted to a Run.
type Input struct {
	Path string
	Text string
	Stub bool
}

// Result is everything one Run produced: every issue across every file,
// sorted for deterministic output, and the run's correlation id.
type Result struct {
	RunID  uuid.UUID
	Issues []issue.Issue
}

// InternalError models an impossible state reached by the engine itself
// (spec §7, "internal invariant violations ... terminate the affected
// worker with a diagnostic blaming the engine"), as opposed to a
// diagnostic about the user's code. It is recovered at the worker
// boundary and turned into an issue.Issue with category "engine" rather
// than allowed to escape as a panic and abort the whole run.
type InternalError struct {
	File  string
	Phase string
	Cause any
	Stack []byte
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error during %s of %s: %v", e.Phase, e.File, e.Cause)
}

func (e *InternalError) asIssue(fileID source.FileID) issue.Issue {
	iss := issue.New(issue.InternalError, source.NewSpan(fileID, 0, 0), e.Error())
	return iss.WithSeverity(issue.Error)
}

type fileUnit struct {
	id    source.FileID
	input Input
}

type scanResult struct {
	unit          fileUnit
	file          *ast.File
	table         *resolver.Table
	pendingIssues []issue.Issue
}

// Run executes the full scan-then-analyze pipeline over inputs under cfg,
// logging lifecycle events to logger. It returns as soon as every file has
// been scanned and analyzed, or the first unrecoverable setup error.
func Run(ctx context.Context, inputs []Input, cfg Config, logger *zap.Logger) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	runID := uuid.New()
	logger = logger.With(zap.String("run_id", runID.String()))
	logger.Info("run started", zap.Int("files", len(inputs)))

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	files := source.NewSet()
	units := make([]fileUnit, len(inputs))
	for i, in := range inputs {
		id := source.FileID(i)
		kind := source.KindPath
		if in.Stub {
			kind = source.KindStub
		}
		files.Add(source.NewFile(id, in.Path, kind, in.Text))
		units[i] = fileUnit{id: id, input: in}
	}

	var baseline *Baseline
	if cfg.BaselinePath != "" {
		bl, err := LoadBaseline(cfg.BaselinePath)
		if err != nil {
			return nil, err
		}
		baseline = bl
	}

	store := reflector.NewStore()
	scanResults := make([]*scanResult, len(units))

	sem := semaphore.NewWeighted(int64(workers))
	scanGroup, scanCtx := errgroup.WithContext(ctx)
	var scanIssues []issue.Issue
	var scanIssuesGuard sync.Mutex

	for i, u := range units {
		i, u := i, u
		scanGroup.Go(func() error {
			if err := sem.Acquire(scanCtx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			res, internalIssue := runScanWorker(scanCtx, u, logger, store)
			if internalIssue != nil {
				scanIssuesGuard.Lock()
				scanIssues = append(scanIssues, *internalIssue)
				scanIssuesGuard.Unlock()
				return nil
			}
			scanResults[i] = res
			scanIssuesGuard.Lock()
			scanIssues = append(scanIssues, res.issuesSoFar()...)
			scanIssuesGuard.Unlock()
			return nil
		})
	}
	if err := scanGroup.Wait(); err != nil {
		return nil, err
	}

	store.Freeze()
	logger.Info("scan phase complete, reflection store frozen")

	analyzeGroup, analyzeCtx := errgroup.WithContext(ctx)
	var analyzeIssues []issue.Issue
	var analyzeGuard sync.Mutex

	for _, res := range scanResults {
		if res == nil {
			continue
		}
		res := res
		analyzeGroup.Go(func() error {
			if err := sem.Acquire(analyzeCtx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			issues := runAnalyzeWorker(analyzeCtx, res, logger, store)
			analyzeGuard.Lock()
			analyzeIssues = append(analyzeIssues, issues...)
			analyzeGuard.Unlock()
			return nil
		})
	}
	if err := analyzeGroup.Wait(); err != nil {
		return nil, err
	}

	all := append(scanIssues, analyzeIssues...)
	all = applyConfig(all, cfg)
	sortAll(all)

	if baseline != nil {
		all = baseline.Filter(all, files)
	}

	logger.Info("run complete", zap.Int("issues", len(all)))
	return &Result{RunID: runID, Issues: all}, nil
}

func (r *scanResult) issuesSoFar() []issue.Issue {
	return r.pendingIssues
}

func runScanWorker(ctx context.Context, u fileUnit, logger *zap.Logger, store *reflector.Store) (res *scanResult, internalIssue *issue.Issue) {
	defer func() {
		if r := recover(); r != nil {
			ie := &InternalError{File: u.input.Path, Phase: "scan", Cause: r, Stack: debug.Stack()}
			logger.Error("panic during scan", zap.String("file", u.input.Path), zap.Any("panic", r), zap.ByteString("stack", ie.Stack))
			iss := ie.asIssue(u.id)
			internalIssue = &iss
			res = nil
		}
	}()

	if ctx.Err() != nil {
		return nil, nil
	}

	l := lexer.NewForFile(u.input.Text, u.id)
	p := parser.NewForFile(l, u.id)
	file := p.ParseFile()

	table, resolveIssues := resolver.Resolve(file, u.id)
	buildIssues := reflector.BuildFile(file, u.id, table, store)

	pending := append(append([]issue.Issue{}, l.Diagnostics()...), p.Diagnostics()...)
	pending = append(pending, resolveIssues...)
	pending = append(pending, buildIssues...)

	return &scanResult{unit: u, file: file, table: table, pendingIssues: pending}, nil
}

func runAnalyzeWorker(ctx context.Context, res *scanResult, logger *zap.Logger, store *reflector.Store) (issues []issue.Issue) {
	defer func() {
		if r := recover(); r != nil {
			ie := &InternalError{File: res.unit.input.Path, Phase: "analyze", Cause: r, Stack: debug.Stack()}
			logger.Error("panic during analyze", zap.String("file", res.unit.input.Path), zap.Any("panic", r), zap.ByteString("stack", ie.Stack))
			issues = []issue.Issue{ie.asIssue(res.unit.id)}
		}
	}()

	if ctx.Err() != nil {
		return nil
	}
	return analyzer.AnalyzeFile(res.file, res.unit.id, res.table, store)
}

func applyConfig(issues []issue.Issue, cfg Config) []issue.Issue {
	out := make([]issue.Issue, 0, len(issues))
	for _, iss := range issues {
		if !cfg.enabled(iss.Code) {
			continue
		}
		out = append(out, cfg.severityFor(iss))
	}
	return out
}

// sortAll orders issues across every file by (file, start-offset, code),
// the canonical ordering spec §5 requires for thread-count-independent
// reports.
func sortAll(issues []issue.Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].SortKey().Less(issues[j].SortKey())
	})
}
