package types

// TemplateParamDecl is one @template declaration on a signature: its
// name, declared bound (nil for unbounded), and variance.
type TemplateParamDecl struct {
	Name     string
	Bound    *Type
	Variance string
}

// InstantiationResult is what TemplateInstantiate returns: the
// substitution env ready to pass to Construct for the signature's
// parameter/return types, plus any bound violated by the call-site
// arguments.
type InstantiationResult struct {
	Env        TemplateEnv
	Violations []TemplateViolation
}

// TemplateViolation records that an inferred argument type did not
// satisfy its template parameter's declared bound.
type TemplateViolation struct {
	Param    string
	Bound    *Type
	Inferred *Type
}

// TemplateInstantiate infers a binding for each of sig's template
// parameters from the corresponding call-site argument types (matched
// positionally against paramTypes, themselves still containing the bare
// TemplateParam atoms), then verifies each inferred type against its
// declared bound. An unsatisfiable bound is reported as a
// TemplateViolation rather than failing outright, so the caller still
// gets a best-effort Env to analyze the call with.
func TemplateInstantiate(sig []TemplateParamDecl, paramTypes []*Type, argTypes []*Type) InstantiationResult {
	env := make(TemplateEnv, len(sig))
	inferred := make(map[string][]*Type, len(sig))

	n := len(paramTypes)
	if len(argTypes) < n {
		n = len(argTypes)
	}
	for i := 0; i < n; i++ {
		collectTemplateBindings(paramTypes[i], argTypes[i], inferred)
	}

	var violations []TemplateViolation
	for _, decl := range sig {
		bound := decl.Bound
		if bound == nil {
			bound = MixedT
		}
		candidates, ok := inferred[decl.Name]
		var resolved *Type
		if !ok || len(candidates) == 0 {
			resolved = bound
		} else {
			resolved = UnionAll(candidates)
			if IsSubtype(resolved, bound) == No {
				violations = append(violations, TemplateViolation{Param: decl.Name, Bound: bound, Inferred: resolved})
				resolved = bound
			}
		}
		env[decl.Name] = resolved
	}
	return InstantiationResult{Env: env, Violations: violations}
}

// collectTemplateBindings walks paramType and argType in lockstep,
// recording argType's corresponding substructure for every TemplateParam
// atom found in paramType's matching position.
func collectTemplateBindings(paramType, argType *Type, out map[string][]*Type) {
	if paramType == nil || argType == nil {
		return
	}
	if paramType.Kind == TemplateParam {
		out[paramType.Name] = append(out[paramType.Name], argType)
		return
	}
	switch paramType.Kind {
	case Object:
		if argType.Kind == Object && len(paramType.Generics) == len(argType.Generics) {
			for i := range paramType.Generics {
				collectTemplateBindings(paramType.Generics[i], argType.Generics[i], out)
			}
		}
	case ArrayShape, ListShape:
		if argType.Kind == paramType.Kind {
			for _, pf := range paramType.Fields {
				if af := findField(argType, pf.Key); af != nil {
					collectTemplateBindings(pf.Value, af.Value, out)
				}
			}
			if paramType.Rest != nil && argType.Rest != nil {
				collectTemplateBindings(paramType.Rest, argType.Rest, out)
			}
		}
	case Callable:
		if argType.Kind == Callable {
			collectTemplateBindings(paramType.Return, argType.Return, out)
			n := len(paramType.Params)
			if len(argType.Params) < n {
				n = len(argType.Params)
			}
			for i := 0; i < n; i++ {
				collectTemplateBindings(paramType.Params[i].Type, argType.Params[i].Type, out)
			}
		}
	case Union:
		// A templated union parameter (T|null) binds T from whichever
		// argument member isn't already covered by the union's other,
		// non-template members.
		var others []*Type
		for _, m := range paramType.Members {
			if m.Kind != TemplateParam {
				others = append(others, m)
			}
		}
		covered := buildUnion(others)
		var uncovered []*Type
		for _, am := range flattenUnion(argType) {
			if IsSubtype(am, covered) != Yes {
				uncovered = append(uncovered, am)
			}
		}
		if len(uncovered) == 0 {
			return
		}
		rest := buildUnion(uncovered)
		for _, m := range paramType.Members {
			if m.Kind == TemplateParam {
				collectTemplateBindings(m, rest, out)
			}
		}
	}
}
