package analyzer

import (
	"testing"

	"github.com/mago-php/mago-core/issue"
	"github.com/mago-php/mago-core/parser"
	"github.com/mago-php/mago-core/reflector"
	"github.com/mago-php/mago-core/resolver"
)

func analyzeSource(t *testing.T, src string) []issue.Issue {
	t.Helper()
	file := parser.ParseString(src)
	table, resolveIssues := resolver.Resolve(file, 0)
	if len(resolveIssues) != 0 {
		t.Fatalf("unexpected resolver issues: %+v", resolveIssues)
	}
	store := reflector.NewStore()
	if issues := reflector.BuildFile(file, 0, table, store); len(issues) != 0 {
		t.Fatalf("unexpected build issues: %+v", issues)
	}
	return AnalyzeFile(file, 0, table, store)
}

func hasCode(issues []issue.Issue, code issue.Code) bool {
	for _, i := range issues {
		if i.Code == code {
			return true
		}
	}
	return false
}

func TestUndefinedVariableReported(t *testing.T) {
	src := `<?php
function f(): void {
    echo $missing;
}
`
	issues := analyzeSource(t, src)
	if !hasCode(issues, issue.UndefinedVariable) {
		t.Fatalf("expected UndefinedVariable, got %+v", issues)
	}
}

func TestParameterIsInitialized(t *testing.T) {
	src := `<?php
function f(int $x): int {
    return $x;
}
`
	issues := analyzeSource(t, src)
	if hasCode(issues, issue.UndefinedVariable) {
		t.Fatalf("did not expect UndefinedVariable, got %+v", issues)
	}
	if hasCode(issues, issue.InvalidReturnStatement) {
		t.Fatalf("did not expect InvalidReturnStatement, got %+v", issues)
	}
}

func TestMissingReturnStatementOnSomePaths(t *testing.T) {
	src := `<?php
function f(bool $cond): int {
    if ($cond) {
        return 1;
    }
}
`
	issues := analyzeSource(t, src)
	if !hasCode(issues, issue.MissingReturnStatement) {
		t.Fatalf("expected MissingReturnStatement, got %+v", issues)
	}
}

func TestReturnOnEveryBranchSatisfiesDeclaredType(t *testing.T) {
	src := `<?php
function f(bool $cond): int {
    if ($cond) {
        return 1;
    } else {
        return 2;
    }
}
`
	issues := analyzeSource(t, src)
	if hasCode(issues, issue.MissingReturnStatement) {
		t.Fatalf("did not expect MissingReturnStatement, got %+v", issues)
	}
}

func TestInvalidReturnStatementOnTypeMismatch(t *testing.T) {
	src := `<?php
function f(): int {
    return "not an int";
}
`
	issues := analyzeSource(t, src)
	if !hasCode(issues, issue.InvalidReturnStatement) {
		t.Fatalf("expected InvalidReturnStatement, got %+v", issues)
	}
}

func TestNullCoalesceNarrowsAwayNull(t *testing.T) {
	src := `<?php
function f(?string $s): string {
    return $s ?? "default";
}
`
	issues := analyzeSource(t, src)
	if hasCode(issues, issue.InvalidReturnStatement) {
		t.Fatalf("did not expect InvalidReturnStatement, got %+v", issues)
	}
}

func TestInstanceofNarrowingAllowsMethodCall(t *testing.T) {
	src := `<?php
class A {
    public function greet(): string { return "hi"; }
}
function f(object $x): void {
    if ($x instanceof A) {
        $x->greet();
    }
}
`
	issues := analyzeSource(t, src)
	if hasCode(issues, issue.UndefinedMethod) {
		t.Fatalf("did not expect UndefinedMethod after instanceof narrowing, got %+v", issues)
	}
}

func TestTooFewArgumentsReported(t *testing.T) {
	src := `<?php
function needsTwo(int $a, int $b): int { return $a + $b; }
function f(): void {
    needsTwo(1);
}
`
	issues := analyzeSource(t, src)
	if !hasCode(issues, issue.TooFewArguments) {
		t.Fatalf("expected TooFewArguments, got %+v", issues)
	}
}

func TestTooManyArgumentsReported(t *testing.T) {
	src := `<?php
function needsOne(int $a): int { return $a; }
function f(): void {
    needsOne(1, 2, 3);
}
`
	issues := analyzeSource(t, src)
	if !hasCode(issues, issue.TooManyArguments) {
		t.Fatalf("expected TooManyArguments, got %+v", issues)
	}
}

func TestUnhandledThrowReported(t *testing.T) {
	src := `<?php
class MyError extends \Exception {}
function f(): void {
    throw new MyError();
}
`
	issues := analyzeSource(t, src)
	if !hasCode(issues, issue.UnhandledThrownType) {
		t.Fatalf("expected UnhandledThrownType, got %+v", issues)
	}
}

func TestCaughtThrowIsNotReported(t *testing.T) {
	src := `<?php
class MyError extends \Exception {}
function f(): void {
    try {
        throw new MyError();
    } catch (MyError $e) {
    }
}
`
	issues := analyzeSource(t, src)
	if hasCode(issues, issue.UnhandledThrownType) {
		t.Fatalf("did not expect UnhandledThrownType for a caught exception, got %+v", issues)
	}
}

func TestSuppressionDisablesTaggedDiagnostic(t *testing.T) {
	src := `<?php
/**
 * @mago-expect undefined-variable
 */
function f(): void {
    echo $missing;
}
`
	issues := analyzeSource(t, src)
	if hasCode(issues, issue.UndefinedVariable) {
		t.Fatalf("expected UndefinedVariable to be suppressed, got %+v", issues)
	}
}

func TestUnreachableCodeAfterReturn(t *testing.T) {
	src := `<?php
function f(): int {
    return 1;
    echo "dead";
}
`
	issues := analyzeSource(t, src)
	if !hasCode(issues, issue.UnreachableCode) {
		t.Fatalf("expected UnreachableCode, got %+v", issues)
	}
}

func TestForeachOverListAssignsElementType(t *testing.T) {
	src := `<?php
function f(): int {
    $sum = 0;
    foreach ([1, 2, 3] as $n) {
        $sum = $sum + $n;
    }
    return $sum;
}
`
	issues := analyzeSource(t, src)
	if hasCode(issues, issue.InvalidBinaryOperand) {
		t.Fatalf("did not expect InvalidBinaryOperand, got %+v", issues)
	}
	if hasCode(issues, issue.InvalidReturnStatement) {
		t.Fatalf("did not expect InvalidReturnStatement, got %+v", issues)
	}
}

func TestLoopFixpointTerminates(t *testing.T) {
	src := `<?php
function f(): int {
    $i = 0;
    while ($i < 100) {
        $i = $i + 1;
    }
    return $i;
}
`
	// This mainly exercises that runLoop's bounded-iteration fixpoint
	// returns at all rather than looping forever widening $i.
	issues := analyzeSource(t, src)
	if hasCode(issues, issue.InvalidReturnStatement) {
		t.Fatalf("did not expect InvalidReturnStatement, got %+v", issues)
	}
}
