// Package analyzer implements the flow-sensitive, single-pass-per-body
// type checker: given a reflection store (spec §4.5) and one function,
// method, or closure body, it threads a Context through every statement
// and expression, narrowing and widening variable types as control flow
// branches and loops, and emitting issues when an operation's operand
// types cannot support it (spec §4.7).
package analyzer

import (
	"github.com/mago-php/mago-core/reflector"
	"github.com/mago-php/mago-core/source"
	"github.com/mago-php/mago-core/types"
)

// VarState is one variable binding: its current narrowed type, whether
// it has definitely been assigned on every path reaching this point, and
// the reference constraint it is bound under, if any (spec's Context
// "Variables" and "Reference constraints" entries).
type VarState struct {
	Type        *types.Type
	Initialized bool
	// RefTarget is the name of the storage this variable is bound to by
	// `$x = &$y`, empty when the variable holds an ordinary value.
	RefTarget string
	// RefDeclaredType is the type the referenced storage was declared to
	// hold; every subsequent assignment to any alias must stay within it.
	RefDeclaredType *types.Type
}

// LoopFrame is one entry of the Context's loop-nesting stack: the set of
// variable types observed at every break/continue reachable from the
// loop currently being analyzed, used to compute the type visible after
// the loop exits (spec's Context "Loop state").
type LoopFrame struct {
	BreakStates    []map[string]*types.Type
	ContinueStates []map[string]*types.Type
}

// TryFrame is one entry of the Context's try stack: the catch clauses
// active for a throw occurring at the current point, in source order.
type TryFrame struct {
	CatchTypes []*types.Type
}

// Context is the mutable value threaded through one function/method/
// closure body's analysis (spec §3 "Context (analyzer state)"). A fresh
// Context is created per body by NewFunctionContext; Clone/Merge let
// branch-and-join control flow (if/else, match, switch) fork and
// recombine it without the branches observing each other's writes.
type Context struct {
	Store *reflector.Store
	Cfg   types.Config

	Variables map[string]*VarState

	// ReturnUnion accumulates every `return` expression's type observed
	// so far in the current body (spec's Context "Return accumulator").
	ReturnUnion *types.Type
	// Returned is true once at least one reachable return was seen; a
	// body with none is implicitly `return null` for void-compatibility
	// checks.
	Returned bool

	// YieldKeyUnion / YieldValueUnion accumulate a generator body's key
	// and value types across every `yield`/`yield from` observed.
	YieldKeyUnion   *types.Type
	YieldValueUnion *types.Type
	IsGenerator     bool

	Loops []*LoopFrame
	Tries []*TryFrame

	// Unreachable marks that the statement about to be analyzed follows
	// an unconditional break/continue/return/throw on every path reaching
	// it; expression analysis still runs (so later declarations are still
	// reflected) but no diagnostic about it is redundant with the
	// UnreachableCode one already raised at the point of divergence.
	Unreachable bool

	// Suppressed holds issue codes disabled by an enclosing @mago-expect
	// or @mago-ignore docblock tag, keyed by the code's String() form.
	Suppressed map[string]bool

	FileID source.FileID
}

// NewFunctionContext seeds a fresh Context for a function/method/closure
// body from its parameter bindings (spec: "a fresh context is created
// when entering each function/method/closure body, seeded from its
// parameter signature and captured variables").
func NewFunctionContext(store *reflector.Store, fileID source.FileID, params map[string]*types.Type, suppressed map[string]bool) *Context {
	vars := make(map[string]*VarState, len(params))
	for name, t := range params {
		vars[name] = &VarState{Type: t, Initialized: true}
	}
	if suppressed == nil {
		suppressed = map[string]bool{}
	}
	return &Context{
		Store:       store,
		Cfg:         types.DefaultConfig,
		Variables:   vars,
		ReturnUnion: types.NeverT,
		Suppressed:  suppressed,
		FileID:      fileID,
	}
}

// Get reads a variable's current type, reporting whether it has ever been
// bound on the path reaching this point.
func (c *Context) Get(name string) (*types.Type, bool) {
	v, ok := c.Variables[name]
	if !ok {
		return nil, false
	}
	return v.Type, v.Initialized
}

// Assign records name as holding t, initialized, clearing any stale
// reference constraint unless the caller re-applies one (AssignRef does).
func (c *Context) Assign(name string, t *types.Type) {
	c.Variables[name] = &VarState{Type: t, Initialized: true}
}

// AssignRef binds name by reference to target, whose current declared
// type becomes the constraint every future write to either alias must
// satisfy (spec's Context "Reference constraints").
func (c *Context) AssignRef(name, target string, declared *types.Type) {
	c.Variables[name] = &VarState{
		Type:            declared,
		Initialized:     true,
		RefTarget:       target,
		RefDeclaredType: declared,
	}
	c.Variables[target] = &VarState{
		Type:            declared,
		Initialized:     true,
		RefTarget:       name,
		RefDeclaredType: declared,
	}
}

// Clone returns a deep-enough copy of c for one branch of a conditional:
// the Variables map is copied so the branch's writes don't leak back into
// the parent, but the *types.Type value objects themselves are immutable
// and shared.
func (c *Context) Clone() *Context {
	vars := make(map[string]*VarState, len(c.Variables))
	for k, v := range c.Variables {
		cp := *v
		vars[k] = &cp
	}
	suppressed := make(map[string]bool, len(c.Suppressed))
	for k, v := range c.Suppressed {
		suppressed[k] = v
	}
	loops := make([]*LoopFrame, len(c.Loops))
	copy(loops, c.Loops)
	tries := make([]*TryFrame, len(c.Tries))
	copy(tries, c.Tries)
	return &Context{
		Store:           c.Store,
		Cfg:             c.Cfg,
		Variables:       vars,
		ReturnUnion:     c.ReturnUnion,
		Returned:        c.Returned,
		YieldKeyUnion:   c.YieldKeyUnion,
		YieldValueUnion: c.YieldValueUnion,
		IsGenerator:     c.IsGenerator,
		Loops:           loops,
		Tries:           tries,
		Unreachable:     c.Unreachable,
		Suppressed:      suppressed,
		FileID:          c.FileID,
	}
}

// snapshotVars captures the current variable-name -> type map for later
// union-merging at a loop's break/continue collection points.
func (c *Context) snapshotVars() map[string]*types.Type {
	out := make(map[string]*types.Type, len(c.Variables))
	for k, v := range c.Variables {
		if v.Initialized {
			out[k] = v.Type
		}
	}
	return out
}

// MergeBranches folds the Context produced by each of a set of mutually
// exclusive branches (if/elseif/.../else, match arms, switch cases) into
// one new Context: a variable is initialized after the join only if every
// branch that completes normally (is still reachable at its end)
// initialized it, and its merged type is the union of the branches' types.
// A path that skips every branch (an if with no else) is passed in as a
// branch of its own.
func MergeBranches(branches []*Context) *Context {
	live := make([]*Context, 0, len(branches))
	for _, b := range branches {
		if !b.Unreachable {
			live = append(live, b)
		}
	}
	if len(live) == 0 {
		// Every branch diverged (return/throw/break/continue on all
		// paths): the join point itself is unreachable.
		merged := branches[0].Clone()
		merged.Unreachable = true
		return merged
	}
	base := live[0]
	merged := base.Clone()
	merged.Unreachable = false

	names := map[string]bool{}
	for _, b := range live {
		for name := range b.Variables {
			names[name] = true
		}
	}

	vars := make(map[string]*VarState, len(names))
	for name := range names {
		var union *types.Type
		allInit := true
		for _, b := range live {
			v, ok := b.Variables[name]
			if !ok || !v.Initialized {
				allInit = false
				continue
			}
			if union == nil {
				union = v.Type
			} else {
				union = types.Union(union, v.Type)
			}
		}
		if union == nil {
			union = types.NeverT
		}
		vars[name] = &VarState{Type: union, Initialized: allInit}
	}
	merged.Variables = vars

	for _, b := range live[1:] {
		merged.ReturnUnion = types.Union(merged.ReturnUnion, b.ReturnUnion)
		merged.Returned = merged.Returned || b.Returned
	}
	return merged
}

// pushLoop starts tracking break/continue exit states for a new loop
// nesting level.
func (c *Context) pushLoop() {
	c.Loops = append(c.Loops, &LoopFrame{})
}

// popLoop pops the current loop frame and returns it.
func (c *Context) popLoop() *LoopFrame {
	n := len(c.Loops)
	frame := c.Loops[n-1]
	c.Loops = c.Loops[:n-1]
	return frame
}

// recordBreak/recordContinue are called by stmt.go when analyzing a
// break/continue statement, capturing the live variable bindings at that
// point against the innermost loop frame (depth 1 is the innermost; a
// numeric break/continue N targets the Nth-from-innermost frame).
func (c *Context) recordBreak(depth int) {
	idx := len(c.Loops) - depth
	if idx < 0 || idx >= len(c.Loops) {
		return
	}
	c.Loops[idx].BreakStates = append(c.Loops[idx].BreakStates, c.snapshotVars())
}

func (c *Context) recordContinue(depth int) {
	idx := len(c.Loops) - depth
	if idx < 0 || idx >= len(c.Loops) {
		return
	}
	c.Loops[idx].ContinueStates = append(c.Loops[idx].ContinueStates, c.snapshotVars())
}

func (c *Context) isSuppressed(code string) bool {
	return c.Suppressed[code]
}
