package issue

// entry is one row of the issue registry: everything known about a code
// ahead of time, independent of any particular occurrence.
type entry struct {
	name        string
	category    Category
	severity    Severity
	description string
	goodExample string
	badExample  string
}

var registry = map[Code]entry{
	RedundantCondition: {
		name: "redundant-condition", category: CategoryRedundancy, severity: Warning,
		description: "A condition is always true given the known types of its operands.",
		badExample:  "if ($x instanceof Foo) { /* $x is already known to be Foo here */ }",
		goodExample: "if ($x instanceof Foo && $x->ready()) { ... }",
	},
	RedundantCast: {
		name: "redundant-cast", category: CategoryRedundancy, severity: Note,
		description: "A cast expression doesn't change the value's type.",
		badExample:  "$n = (int) $alreadyInt;",
		goodExample: "$n = (int) $maybeString;",
	},
	RedundantNullCoalesce: {
		name: "redundant-null-coalesce", category: CategoryRedundancy, severity: Note,
		description: "The left operand of ?? can never be null.",
		badExample:  "$name ?? 'default'; // $name: string",
		goodExample: "$name ?? 'default'; // $name: ?string",
	},
	RedundantIsset: {
		name: "redundant-isset", category: CategoryRedundancy, severity: Note,
		description: "isset() on a variable whose type already excludes null.",
	},
	UnnecessaryNullsafe: {
		name: "unnecessary-nullsafe", category: CategoryRedundancy, severity: Note,
		description: "?-> used on an expression that is never null.",
	},
	ImpossibleCondition: {
		name: "impossible-condition", category: CategoryImpossibility, severity: Error,
		description: "A condition can never be true given the known types of its operands.",
	},
	ImpossibleTypeComparison: {
		name: "impossible-type-comparison", category: CategoryImpossibility, severity: Error,
		description: "Comparing two values whose types can never overlap.",
		badExample:  "if ($count === 'zero') { ... } // $count: int",
	},
	ImpossibleInstanceof: {
		name: "impossible-instanceof", category: CategoryImpossibility, severity: Error,
		description: "instanceof check against a class unrelated to the operand's known type.",
	},
	NoValueSatisfiesIntersection: {
		name: "no-value-satisfies-intersection", category: CategoryImpossibility, severity: Error,
		description: "An intersection type combines two class-likes that share no possible implementor.",
	},
	UnreachableCode: {
		name: "unreachable-code", category: CategoryUnreachable, severity: Warning,
		description: "Code after an unconditional return/throw/break/continue/exit.",
	},
	PossiblyNullArgument: {
		name: "possibly-null-argument", category: CategoryNullability, severity: Warning,
		description: "An argument's type includes null but the parameter's does not.",
	},
	PossiblyNullPropertyAccess: {
		name: "possibly-null-property-access", category: CategoryNullability, severity: Warning,
		description: "Property access on an expression whose type includes null.",
	},
	PossiblyNullMethodCall: {
		name: "possibly-null-method-call", category: CategoryNullability, severity: Warning,
		description: "Method call on an expression whose type includes null.",
	},
	PossiblyNullArrayAccess: {
		name: "possibly-null-array-access", category: CategoryNullability, severity: Warning,
		description: "Array access on an expression whose type includes null.",
	},
	PossiblyNullOperand: {
		name: "possibly-null-operand", category: CategoryNullability, severity: Warning,
		description: "Binary/unary operand whose type includes null.",
	},
	NullArgument: {
		name: "null-argument", category: CategoryNullability, severity: Error,
		description: "An argument is definitely null but the parameter's type excludes null.",
	},
	NullPropertyAccess: {
		name: "null-property-access", category: CategoryNullability, severity: Error,
		description: "Property access on an expression that is definitely null.",
	},
	NullMethodCall: {
		name: "null-method-call", category: CategoryNullability, severity: Error,
		description: "Method call on an expression that is definitely null.",
	},
	PossiblyFalseArgument: {
		name: "possibly-false-argument", category: CategoryFalsability, severity: Warning,
		description: "An argument's type includes false but the parameter's does not.",
	},
	PossiblyFalseOperand: {
		name: "possibly-false-operand", category: CategoryFalsability, severity: Warning,
		description: "Binary/unary operand whose type includes false.",
	},
	FalsableReturnStatement: {
		name: "falsable-return-statement", category: CategoryFalsability, severity: Warning,
		description: "A return expression includes false but the declared return type does not.",
	},
	MixedArgument: {
		name: "mixed-argument", category: CategoryMixedness, severity: Note,
		description: "An argument's type could not be narrowed past mixed.",
	},
	MixedAssignment: {
		name: "mixed-assignment", category: CategoryMixedness, severity: Note,
		description: "The right-hand side of an assignment is mixed.",
	},
	MixedReturnStatement: {
		name: "mixed-return-statement", category: CategoryMixedness, severity: Note,
		description: "A return expression is mixed but the declared return type is not.",
	},
	MixedPropertyTypeCoercion: {
		name: "mixed-property-type-coercion", category: CategoryMixedness, severity: Note,
		description: "A mixed value is being coerced into a typed property.",
	},
	MixedMethodCall: {
		name: "mixed-method-call", category: CategoryMixedness, severity: Note,
		description: "A method is being called on a mixed-typed expression.",
	},
	MixedOperand: {
		name: "mixed-operand", category: CategoryMixedness, severity: Note,
		description: "Binary/unary operand whose type is mixed.",
	},
	UndefinedClass: {
		name: "undefined-class", category: CategoryExistence, severity: Error,
		description: "Reference to a class-like name that has no reflected symbol.",
	},
	UndefinedFunction: {
		name: "undefined-function", category: CategoryExistence, severity: Error,
		description: "Call to a function name that has no reflected symbol.",
	},
	UndefinedConstant: {
		name: "undefined-constant", category: CategoryExistence, severity: Error,
		description: "Reference to a constant name that has no reflected symbol.",
	},
	UndefinedMethod: {
		name: "undefined-method", category: CategoryExistence, severity: Error,
		description: "Call to a method not found on the receiver's known class-likes.",
	},
	UndefinedProperty: {
		name: "undefined-property", category: CategoryExistence, severity: Error,
		description: "Access to a property not found on the receiver's known class-likes.",
	},
	UndefinedVariable: {
		name: "undefined-variable", category: CategoryExistence, severity: Warning,
		description: "Read of a variable with no reaching definition on this path.",
	},
	UndefinedInterface: {
		name: "undefined-interface", category: CategoryExistence, severity: Error,
		description: "implements/extends clause names an interface with no reflected symbol.",
	},
	UndefinedTrait: {
		name: "undefined-trait", category: CategoryExistence, severity: Error,
		description: "use clause names a trait with no reflected symbol.",
	},
	DuplicateDeclaration: {
		name: "duplicate-declaration", category: CategoryExistence, severity: Error,
		description: "A class-like, function, or constant name is declared more than once in the project.",
		badExample:  "class Widget {}\nclass Widget {}",
	},
	InvalidTemplateArgument: {
		name: "invalid-template-argument", category: CategoryTemplate, severity: Error,
		description: "A template argument violates its parameter's upper-bound constraint.",
	},
	MissingTemplateParameter: {
		name: "missing-template-parameter", category: CategoryTemplate, severity: Warning,
		description: "A generic class-like is used without its required template arguments.",
	},
	TemplateConstraintViolation: {
		name: "template-constraint-violation", category: CategoryTemplate, severity: Error,
		description: "An inferred template binding conflicts with a prior binding for the same parameter.",
	},
	TooFewArguments: {
		name: "too-few-arguments", category: CategoryArgument, severity: Error,
		description: "A call supplies fewer arguments than the callee's required parameters.",
	},
	TooManyArguments: {
		name: "too-many-arguments", category: CategoryArgument, severity: Error,
		description: "A call supplies more positional arguments than the callee accepts.",
	},
	InvalidArgument: {
		name: "invalid-argument", category: CategoryArgument, severity: Error,
		description: "An argument's type is disjoint from its parameter's declared type.",
	},
	NamedArgumentNotFound: {
		name: "named-argument-not-found", category: CategoryArgument, severity: Error,
		description: "A named argument doesn't match any parameter of the callee.",
	},
	DuplicateNamedArgument: {
		name: "duplicate-named-argument", category: CategoryArgument, severity: Error,
		description: "A named argument duplicates a parameter already bound positionally.",
	},
	InvalidOperand: {
		name: "invalid-operand", category: CategoryOperand, severity: Error,
		description: "An operand's type is disjoint from what the operator accepts.",
	},
	InvalidBinaryOperand: {
		name: "invalid-binary-operand", category: CategoryOperand, severity: Error,
		description: "A binary operator's operand type is disjoint from what it accepts.",
	},
	InvalidUnaryOperand: {
		name: "invalid-unary-operand", category: CategoryOperand, severity: Error,
		description: "A unary operator's operand type is disjoint from what it accepts.",
	},
	InvalidPropertyAssignmentValue: {
		name: "invalid-property-assignment-value", category: CategoryProperty, severity: Error,
		description: "Assigned value's type is disjoint from the property's declared type.",
	},
	PropertyTypeCoercion: {
		name: "property-type-coercion", category: CategoryProperty, severity: Warning,
		description: "Assigned value's type only partially overlaps the property's declared type.",
	},
	UninitializedProperty: {
		name: "uninitialized-property", category: CategoryProperty, severity: Warning,
		description: "A non-nullable typed property has no initializer and isn't set in every constructor path.",
	},
	AccessToNonPublicProperty: {
		name: "access-to-non-public-property", category: CategoryProperty, severity: Error,
		description: "Property access from outside the class/subclass boundary its visibility allows.",
	},
	InvalidYieldValue: {
		name: "invalid-yield-value", category: CategoryGenerator, severity: Error,
		description: "A yielded value's type is disjoint from the generator's declared TValue.",
	},
	InvalidYieldKey: {
		name: "invalid-yield-key", category: CategoryGenerator, severity: Error,
		description: "A yielded key's type is disjoint from the generator's declared TKey.",
	},
	InvalidGeneratorReturn: {
		name: "invalid-generator-return", category: CategoryGenerator, severity: Error,
		description: "A generator's return expression type is disjoint from its declared TReturn.",
	},
	InvalidArrayAccess: {
		name: "invalid-array-access", category: CategoryArray, severity: Error,
		description: "Array access on an expression that is not array-accessible.",
	},
	InvalidArrayOffset: {
		name: "invalid-array-offset", category: CategoryArray, severity: Error,
		description: "An array offset's type is disjoint from the array's known key type.",
	},
	MissingArrayShapeKey: {
		name: "missing-array-shape-key", category: CategoryArray, severity: Error,
		description: "Access to a key not present in a known, sealed array shape.",
	},
	ArrayKeyTypeMismatch: {
		name: "array-key-type-mismatch", category: CategoryArray, severity: Warning,
		description: "An array literal mixes key types in a way that widens unexpectedly.",
	},
	InvalidReturnStatement: {
		name: "invalid-return-statement", category: CategoryReturn, severity: Error,
		description: "A return expression's type is disjoint from the declared return type.",
	},
	MissingReturnStatement: {
		name: "missing-return-statement", category: CategoryReturn, severity: Error,
		description: "A non-void function has a path that falls off the end without returning.",
	},
	MoreSpecificReturnType: {
		name: "more-specific-return-type", category: CategoryReturn, severity: Help,
		description: "Every observed return expression is narrower than the declared return type.",
	},
	LessSpecificReturnStatement: {
		name: "less-specific-return-statement", category: CategoryReturn, severity: Warning,
		description: "A return expression's type is broader than the declared return type allows.",
	},
	MethodSignatureMismatch: {
		name: "method-signature-mismatch", category: CategoryMethod, severity: Error,
		description: "An overriding method's signature is not contravariant/covariant-compatible with its parent's.",
	},
	AccessToNonPublicMethod: {
		name: "access-to-non-public-method", category: CategoryMethod, severity: Error,
		description: "Method call from outside the class/subclass boundary its visibility allows.",
	},
	AbstractMethodNotImplemented: {
		name: "abstract-method-not-implemented", category: CategoryMethod, severity: Error,
		description: "A concrete class-like doesn't implement all inherited abstract methods.",
	},
	OverriddenPropertyAccess: {
		name: "overridden-property-access", category: CategoryMethod, severity: Warning,
		description: "A property redeclared in a subclass narrows visibility in a way callers may not expect.",
	},
	InvalidIterator: {
		name: "invalid-iterator", category: CategoryIterator, severity: Error,
		description: "foreach target's type is not iterable.",
	},
	InvalidForeachTarget: {
		name: "invalid-foreach-target", category: CategoryIterator, severity: Error,
		description: "foreach target's type is disjoint from array/Traversable.",
	},
	DeprecatedClass: {
		name: "deprecated-class", category: CategoryDeprecation, severity: Warning,
		description: "Reference to a class-like marked @deprecated.",
	},
	DeprecatedFunction: {
		name: "deprecated-function", category: CategoryDeprecation, severity: Warning,
		description: "Call to a function marked @deprecated.",
	},
	DeprecatedMethod: {
		name: "deprecated-method", category: CategoryDeprecation, severity: Warning,
		description: "Call to a method marked @deprecated.",
	},
	DeprecatedProperty: {
		name: "deprecated-property", category: CategoryDeprecation, severity: Warning,
		description: "Access to a property marked @deprecated.",
	},
	DeprecatedConstant: {
		name: "deprecated-constant", category: CategoryDeprecation, severity: Warning,
		description: "Reference to a constant marked @deprecated.",
	},
	AmbiguousStringConcatenation: {
		name: "ambiguous-string-concatenation", category: CategoryAmbiguity, severity: Help,
		description: "A concatenation mixes . with arithmetic operators without parentheses.",
	},
	MixedOperandPrecedenceAmbiguity: {
		name: "mixed-operand-precedence-ambiguity", category: CategoryAmbiguity, severity: Help,
		description: "An expression mixes operators whose relative precedence is commonly misremembered.",
	},
	InvalidReferenceAssignment: {
		name: "invalid-reference-assignment", category: CategoryReference, severity: Error,
		description: "A value assigned to a reference-bound variable is not compatible with the declared type of the referenced storage.",
	},
	ReferenceToNonReferencableExpression: {
		name: "reference-to-non-referencable-expression", category: CategoryReference, severity: Error,
		description: "The right-hand side of a reference assignment is not a referencable expression.",
	},
	UnusedVariable: {
		name: "unused-variable", category: CategoryUnreachable, severity: Note,
		description: "A variable is assigned but never read on any path.",
	},
	UnusedParameter: {
		name: "unused-parameter", category: CategoryUnreachable, severity: Note,
		description: "A non-promoted parameter is never read in the function body.",
	},
	UnevaluatedCode: {
		name: "unevaluated-code", category: CategoryUnreachable, severity: Note,
		description: "A branch is syntactically reachable but its guard is always false given known types.",
	},
	UnhandledThrownType: {
		name: "unhandled-thrown-type", category: CategoryUnreachable, severity: Warning,
		description: "A thrown value's type is not accepted by any enclosing catch clause; @throws declarations are not consulted.",
	},
	MissingThrowsDocblock: {
		name: "missing-throws-docblock", category: CategoryDeprecation, severity: Help,
		description: "A function throws within its own body but declares no @throws tag for it.",
	},
	ParseError: {
		name: "parse-error", category: CategorySyntax, severity: Error,
		description: "The parser could not derive a grammar production at this position.",
	},
	UnexpectedToken: {
		name: "unexpected-token", category: CategorySyntax, severity: Error,
		description: "A token was encountered where the grammar expected a different one.",
	},
	UnterminatedString: {
		name: "unterminated-string", category: CategorySyntax, severity: Error,
		description: "A string or heredoc/nowdoc literal was not closed before end of file.",
	},
	InvalidDocblockType: {
		name: "invalid-docblock-type", category: CategorySyntax, severity: Warning,
		description: "A docblock type expression could not be parsed and was treated as mixed.",
	},
	InternalError: {
		name: "internal-error", category: CategoryEngine, severity: Error,
		description: "An internal invariant was violated; recovered at a worker boundary instead of crashing the run.",
	},
}

var codeNames = buildCodeNames()

func buildCodeNames() []string {
	names := make([]string, codeCount)
	for code, e := range registry {
		names[code] = e.name
	}
	return names
}

// DefaultSeverity returns the registry's default severity for code, or
// Warning if code is somehow outside the registry (never happens for a
// Code produced by this package, but keeps the lookup total).
func DefaultSeverity(code Code) Severity {
	if e, ok := registry[code]; ok {
		return e.severity
	}
	return Warning
}

// CategoryOf returns the category a code belongs to.
func CategoryOf(code Code) Category {
	if e, ok := registry[code]; ok {
		return e.category
	}
	return CategoryEngine
}

// Description returns the registry's human description of code.
func Description(code Code) string {
	return registry[code].description
}

// AllCodes returns every registered code, for catalog export and for tests
// that assert every Code has a registry entry.
func AllCodes() []Code {
	codes := make([]Code, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}
