package ast_test

import (
	"reflect"
	"testing"

	"github.com/mago-php/mago-core/ast"
	"github.com/mago-php/mago-core/parser"
	"github.com/mago-php/mago-core/source"
)

var nodeType = reflect.TypeOf((*ast.Node)(nil)).Elem()

// forEachChildNode finds every ast.Node directly reachable through v's
// struct fields, slice/array elements, and map values — without a
// hand-maintained visitor method per node kind, which the AST's ~50 node
// types would otherwise require one of. It stops descending the moment it
// finds a Node, leaving further descent to the caller so the caller can
// check containment one level at a time.
func forEachChildNode(v reflect.Value, visit func(ast.Node)) {
	switch v.Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			return
		}
		if v.Type().Implements(nodeType) {
			visit(v.Interface().(ast.Node))
			return
		}
		forEachChildNode(v.Elem(), visit)
	case reflect.Interface:
		if v.IsNil() {
			return
		}
		forEachChildNode(v.Elem(), visit)
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if f := v.Field(i); f.CanInterface() {
				forEachChildNode(f, visit)
			}
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			forEachChildNode(v.Index(i), visit)
		}
	case reflect.Map:
		for _, k := range v.MapKeys() {
			forEachChildNode(v.MapIndex(k), visit)
		}
	}
}

// checkContainment asserts the §8.2 span-containment property for parent
// and recurses into every child it finds: a parent's span must contain
// every child's span, all the way down the tree.
func checkContainment(t *testing.T, fileID source.FileID, parent ast.Node, seen map[ast.Node]bool) {
	t.Helper()
	if seen[parent] {
		return
	}
	seen[parent] = true

	pspan := ast.Span(fileID, parent)
	v := reflect.ValueOf(parent)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	forEachChildNode(v, func(child ast.Node) {
		cspan := ast.Span(fileID, child)
		if !pspan.Contains(cspan) {
			t.Errorf("%T span %v does not contain child %T span %v", parent, pspan, child, cspan)
		}
		checkContainment(t, fileID, child, seen)
	})
}

func TestSpanContainment(t *testing.T) {
	const fileID = source.FileID(7)

	fixtures := []string{
		`<?php
function add(int $a, int $b): int {
	return $a + $b;
}`,
		`<?php
class Point {
	public function __construct(
		private readonly int $x,
		private readonly int $y,
	) {}

	public function length(): float {
		return sqrt($this->x ** 2 + $this->y ** 2);
	}
}`,
		`<?php
foreach ($items as $key => $value) {
	if ($value > 0) {
		echo $key . ": " . $value;
	} else {
		continue;
	}
}`,
		`<?php
try {
	$result = match ($status) {
		1, 2 => 'active',
		0 => 'inactive',
		default => 'unknown',
	};
} catch (Exception $e) {
	throw $e;
} finally {
	cleanup();
}`,
		`<?php
$nums = [1, 2, 3];
$mapped = array_map(fn($n) => $n * 2, $nums);
$closure = function () use ($mapped) {
	return count($mapped);
};`,
		"<?php\n$doc = <<<EOT\nhello $name\nEOT;\n",
	}

	for _, src := range fixtures {
		file := parser.ParseString(src)
		checkContainment(t, fileID, file, map[ast.Node]bool{})
	}
}
