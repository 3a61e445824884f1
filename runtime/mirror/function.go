package mirror

// FunctionMirror exposes the metadata and invocation surface of one
// annotated top-level function.
type FunctionMirror struct {
	data    *FunctionData
	payload *Payload
}

// Name returns the bare function name.
func (f *FunctionMirror) Name() string { return f.data.Name }

// PkgPath returns the owning package's import path.
func (f *FunctionMirror) PkgPath() string { return f.data.PkgPath }

// Return returns the interned record of the function's result type.
func (f *FunctionMirror) Return() TypeRecord { return f.payload.Types[f.data.Return] }

// Params returns the parameter views in declaration order.
func (f *FunctionMirror) Params() []Param {
	if f.data.Params == nil {
		return nil
	}
	out := make([]Param, len(f.data.Params))
	for i, p := range f.data.Params {
		out[i] = Param{
			Name:        p.Name,
			Type:        f.payload.Types[p.Type],
			TypeIndex:   p.Type,
			Index:       p.Index,
			Named:       p.Named,
			Required:    p.Required,
			Optional:    p.Optional,
			Default:     p.Default,
			Annotations: annotationViews(p.Annotations),
		}
	}
	return out
}

// Annotations returns the reconstructed annotations on the declaration.
func (f *FunctionMirror) Annotations() []Annotation {
	return annotationViews(f.data.Annotations)
}

// Invoke calls the function with positional arguments. Declared defaults are
// applied for trailing optional parameters by the generated closure; missing
// required arguments surface as a ConstructorError-style invocation failure.
func (f *FunctionMirror) Invoke(pos []any) (any, error) {
	return f.data.Invoke(pos)
}
