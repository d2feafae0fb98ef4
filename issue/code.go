package issue

// Code is a closed enum of diagnostic identifiers. Every code the analyzer
// can ever emit is listed here; there is no way to construct an Issue with a
// code outside this set (spec §4.8).
type Code int

const (
	// Redundancy: the condition/expression is always true or always
	// provably redundant given known types.
	RedundantCondition Code = iota
	RedundantCast
	RedundantNullCoalesce
	RedundantIsset
	UnnecessaryNullsafe

	// Impossibility: the condition can never hold given known types.
	ImpossibleCondition
	ImpossibleTypeComparison
	ImpossibleInstanceof
	NoValueSatisfiesIntersection
	UnreachableCode

	// Nullability.
	PossiblyNullArgument
	PossiblyNullPropertyAccess
	PossiblyNullMethodCall
	PossiblyNullArrayAccess
	PossiblyNullOperand
	NullArgument
	NullPropertyAccess
	NullMethodCall

	// Falsability.
	PossiblyFalseArgument
	PossiblyFalseOperand
	FalsableReturnStatement

	// Mixedness: a value's type could not be narrowed past mixed.
	MixedArgument
	MixedAssignment
	MixedReturnStatement
	MixedPropertyTypeCoercion
	MixedMethodCall
	MixedOperand

	// Existence: referenced symbol does not exist.
	UndefinedClass
	UndefinedFunction
	UndefinedConstant
	UndefinedMethod
	UndefinedProperty
	UndefinedVariable
	UndefinedInterface
	UndefinedTrait
	DuplicateDeclaration

	// Template/generics.
	InvalidTemplateArgument
	MissingTemplateParameter
	TemplateConstraintViolation

	// Argument-list shape.
	TooFewArguments
	TooManyArguments
	InvalidArgument
	NamedArgumentNotFound
	DuplicateNamedArgument

	// Operand mismatches in binary/unary expressions.
	InvalidOperand
	InvalidBinaryOperand
	InvalidUnaryOperand

	// Property access/assignment mismatches.
	InvalidPropertyAssignmentValue
	PropertyTypeCoercion
	UninitializedProperty
	AccessToNonPublicProperty

	// Generator/yield mismatches.
	InvalidYieldValue
	InvalidYieldKey
	InvalidGeneratorReturn

	// Array shape/key mismatches.
	InvalidArrayAccess
	InvalidArrayOffset
	MissingArrayShapeKey
	ArrayKeyTypeMismatch

	// Return statement mismatches.
	InvalidReturnStatement
	MissingReturnStatement
	MoreSpecificReturnType
	LessSpecificReturnStatement

	// Method override / contract.
	MethodSignatureMismatch
	AccessToNonPublicMethod
	AbstractMethodNotImplemented
	OverriddenPropertyAccess

	// Iterator/traversable mismatches.
	InvalidIterator
	InvalidForeachTarget

	// Deprecation.
	DeprecatedClass
	DeprecatedFunction
	DeprecatedMethod
	DeprecatedProperty
	DeprecatedConstant

	// Ambiguity: construct is syntactically valid but semantically
	// underspecified enough to flag.
	AmbiguousStringConcatenation
	MixedOperandPrecedenceAmbiguity

	// Reference constraints.
	InvalidReferenceAssignment
	ReferenceToNonReferencableExpression

	// Unreachable / dead code beyond the impossibility family.
	UnusedVariable
	UnusedParameter
	UnevaluatedCode

	// Unhandled throw (S4 in spec's end-to-end scenarios).
	UnhandledThrownType
	MissingThrowsDocblock

	// Parse/tokenize-time issues, not part of the semantic taxonomy but
	// routed through the same sink (spec §7).
	ParseError
	UnexpectedToken
	UnterminatedString
	InvalidDocblockType

	// Internal invariant violations recovered at a worker boundary
	// (spec §7) instead of crashing the run.
	InternalError

	codeCount
)

func (c Code) String() string {
	if int(c) >= 0 && int(c) < len(codeNames) && codeNames[c] != "" {
		return codeNames[c]
	}
	return "unknown-code"
}
