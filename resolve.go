// File: conf/resolve.go
package conf

import "strings"

// Resolve walks the schema against the supplied value sources and returns
// either the fully resolved configuration tree or the complete list of every
// defect found. The walk never stops at the first error: each field and each
// constraint records its own defects and resolution continues, so a single
// run reports everything that is wrong.
//
// The call is pure: nil sources are treated as empty, nothing is read from
// the process, and the Schema is never mutated, so concurrent calls are safe.
func (s *Schema) Resolve(args *Args, env *Environ) (Value, error) {
	return s.ResolveWith(args, env, nil)
}

// ResolveWith is Resolve with a document layer: values from doc apply at
// priority below the environment and above hard defaults.
func (s *Schema) ResolveWith(args *Args, env *Environ, doc Doc) (Value, error) {
	if args == nil {
		args = NewArgs()
	}
	r := &resolver{env: env, doc: doc}
	v := r.resolveGroup(s.root, args, scope{}.enter(s.root))
	if len(r.errs) > 0 {
		return nil, r.errs
	}
	return v, nil
}

// resolver threads the error accumulator through one resolution call. It
// holds no state across calls.
type resolver struct {
	env  *Environ
	doc  Doc
	errs Errors
}

func (r *resolver) report(e *FieldError) {
	r.errs = append(r.errs, e)
}

// resolveGroup resolves one group's direct children in declaration order,
// then evaluates the group's constraints over the outcome. Fields that
// failed are tracked so constraints can skip them.
func (r *resolver) resolveGroup(g *group, args *Args, sc scope) Value {
	out := make(Value, len(g.children))
	failed := make(map[string]bool)

	for _, n := range g.children {
		switch c := n.(type) {
		case *Option:
			v, present, ok := r.resolveOption(c, args, sc)
			if !ok {
				failed[c.name] = true
				continue
			}
			if present {
				out[c.name] = v
			}

		case *Flatten:
			nsc := sc.flattened(c).enter(c.group)
			if c.optional && !r.probe(c.group, args, nsc) {
				continue // absent, no errors from the subtree
			}
			before := len(r.errs)
			out[c.name] = r.resolveGroup(c.group, args, nsc)
			if len(r.errs) > before {
				failed[c.name] = true
			}

		case *Subcommands:
			before := len(r.errs)
			v, present, ok := r.resolveSubcommands(c, args, sc)
			if !ok || len(r.errs) > before {
				failed[c.name] = true
			}
			if present {
				out[c.name] = v
			}
		}
	}

	r.checkConstraints(g, sc, out, failed)
	return out
}

// resolveOption resolves one leaf. It returns the value, whether the field
// is present in the result, and whether resolution succeeded; exactly one of
// {missing, invalid, success} happens per field.
func (r *resolver) resolveOption(o *Option, args *Args, sc scope) (any, bool, bool) {
	switch o.kind {
	case KindFlag:
		return r.resolveFlag(o, args, sc), true, true
	case KindRepeat:
		return r.resolveRepeat(o, args, sc)
	default:
		return r.resolveParameter(o, args, sc)
	}
}

// resolveFlag: present on the command line, or truthy in the first set env
// var, or truthy in the document. Absent everywhere is false, never an
// error.
func (r *resolver) resolveFlag(o *Option, args *Args, sc scope) bool {
	if args.FlagPresent(o.switches(sc)...) {
		return true
	}
	for _, name := range o.envNames(sc) {
		if raw, ok := r.env.Lookup(name); ok {
			return truthy(raw)
		}
	}
	if raw, ok := r.doc.lookup(sc.child(o.name)); ok {
		return truthy(raw)
	}
	return false
}

// resolveParameter: CLI occurrence > env > document > default. A duplicate
// CLI occurrence is an error; so is a missing value for a required field.
func (r *resolver) resolveParameter(o *Option, args *Args, sc scope) (any, bool, bool) {
	path := sc.child(o.name)

	var raw string
	found := false

	occ := args.Occurrences(o.switches(sc)...)
	switch {
	case len(occ) > 1:
		r.report(&FieldError{Path: path, Kind: DuplicateOccurrence})
		return nil, false, false
	case len(occ) == 1:
		raw, found = occ[0], true
	}

	if !found {
		for _, name := range o.envNames(sc) {
			if v, ok := r.env.Lookup(name); ok {
				raw, found = v, true
				break
			}
		}
	}
	if !found {
		if v, ok := r.doc.lookup(path); ok {
			raw, found = v, true
		}
	}
	if !found && o.hasDef {
		raw, found = o.def, true
	}

	if !found {
		if o.required() {
			r.report(&FieldError{
				Path:    path,
				Kind:    MissingRequiredValue,
				Sources: o.sourcesChecked(sc),
			})
			return nil, false, false
		}
		return nil, false, true // optional, absent
	}

	v, err := o.parser(raw)
	if err != nil {
		r.report(&FieldError{
			Path:   path,
			Kind:   InvalidValue,
			Value:  o.display(raw),
			Reason: err.Error(),
		})
		return nil, false, false
	}
	return v, true, true
}

// resolveRepeat: CLI occurrences shadow the environment entirely; an env
// value is split on the delimiter, or taken whole without one. Every
// occurrence is parsed independently and every parser failure is collected.
// No occurrences is an empty list, always valid.
func (r *resolver) resolveRepeat(o *Option, args *Args, sc scope) (any, bool, bool) {
	path := sc.child(o.name)

	raws := args.Occurrences(o.switches(sc)...)
	if len(raws) == 0 {
		for _, name := range o.envNames(sc) {
			if v, ok := r.env.Lookup(name); ok {
				raws = o.splitEnvValue(v)
				break
			}
		}
	}
	if len(raws) == 0 {
		if v, ok := r.doc.lookup(path); ok {
			raws = o.splitEnvValue(v)
		}
	}

	list := make([]any, 0, len(raws))
	ok := true
	for _, raw := range raws {
		v, err := o.parser(raw)
		if err != nil {
			r.report(&FieldError{
				Path:   path,
				Kind:   InvalidValue,
				Value:  o.display(raw),
				Reason: err.Error(),
			})
			ok = false
			continue
		}
		list = append(list, v)
	}
	if !ok {
		return nil, false, false
	}
	return list, true, true
}

func (o *Option) splitEnvValue(v string) []string {
	if o.envDelim == 0 {
		return []string{v}
	}
	return strings.Split(v, string(o.envDelim))
}

// display returns the raw value as it may appear in error text, substituting
// the redaction placeholder for secret options.
func (o *Option) display(raw string) string {
	if o.secret {
		return Redacted
	}
	return raw
}

// resolveSubcommands recurses only into the selected variant; sibling
// variants are not evaluated at all.
func (r *resolver) resolveSubcommands(c *Subcommands, args *Args, sc scope) (any, bool, bool) {
	path := sc.child(c.name)

	sel, subArgs := args.Subcommand()
	if sel == "" {
		if c.optional {
			return nil, false, true
		}
		r.report(&FieldError{Path: path, Kind: MissingSubcommand, Names: c.names})
		return nil, false, false
	}

	vg, known := c.variants[sel]
	if !known {
		r.report(&FieldError{Path: path, Kind: MissingSubcommand, Names: c.names,
			Reason: "unknown subcommand " + sel})
		return nil, false, false
	}

	if subArgs == nil {
		subArgs = NewArgs()
	}
	vsc := scope{path: path + "." + sel}.enter(vg)
	sub := r.resolveGroup(vg, subArgs, vsc)
	// "name" cannot collide with sel: it is rejected as a command name when
	// the schema is built.
	return Value{"name": sel, sel: sub}, true, true
}

// probe is the dry presence check behind optional flattens: does any leaf of
// the subtree, post-prefixing, have a CLI occurrence, a flag presence, or an
// environment value set? Nothing is recorded and no parsing happens.
func (r *resolver) probe(g *group, args *Args, sc scope) bool {
	for _, n := range g.children {
		switch c := n.(type) {
		case *Option:
			if len(args.Occurrences(c.switches(sc)...)) > 0 {
				return true
			}
			if args.FlagPresent(c.switches(sc)...) {
				return true
			}
			for _, name := range c.envNames(sc) {
				if _, ok := r.env.Lookup(name); ok {
					return true
				}
			}
		case *Flatten:
			if r.probe(c.group, args, sc.flattened(c).enter(c.group)) {
				return true
			}
		}
	}
	return false
}
