package analyzer

// Parameters returns the formal parameter names of the named function, in
// declaration order (spec §4.7's "extract the parameter names" step).
func (a *Analyzer) Parameters(code []byte, name string) ([]string, error) {
	root, err := a.parse(code)
	if err != nil {
		return nil, err
	}
	fn, err := findFunction(root, name)
	if err != nil {
		return nil, err
	}

	fd := findDeclaratorKind(fn.ChildByFieldName("declarator"), "function_declarator")
	if fd == nil {
		return nil, nil
	}
	params := fd.ChildByFieldName("parameters")
	if params == nil {
		return nil, nil
	}

	var names []string
	for _, child := range params.Children() {
		if child.Kind() != "parameter_declaration" {
			continue
		}
		ids := collectIdentifiers(child)
		if len(ids) == 0 {
			continue
		}
		// The declarator's own name is the last identifier reachable under
		// a parameter_declaration (earlier identifiers, if any, belong to
		// the type specifier, e.g. "struct Foo").
		names = append(names, string(ids[len(ids)-1].Text()))
	}
	return names, nil
}
