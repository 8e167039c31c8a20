// File: conf/schema.go
package conf

import "strings"

// Kind dictates what form of data an option collects from the command line
// and the environment.
type Kind int

const (
	// KindFlag is a switch with no argument; it is either present or absent.
	KindFlag Kind = iota
	// KindParameter is a switch with exactly one expected argument.
	KindParameter
	// KindRepeat is a switch that may appear any number of times, each time
	// supplying one argument.
	KindRepeat
)

// String returns the kind's display name.
func (k Kind) String() string {
	switch k {
	case KindFlag:
		return "flag"
	case KindParameter:
		return "parameter"
	case KindRepeat:
		return "repeat"
	default:
		return "unknown"
	}
}

// ValueParser converts one raw string occurrence into a typed value.
type ValueParser func(raw string) (any, error)

// Predicate validates a resolved group value after all of its direct fields
// have resolved. A non-nil error fails resolution with the error's message.
type Predicate func(v Value) error

// Option describes one leaf option of a schema: its kind, naming, default,
// parser, and resolution attributes. Options are built through the schema
// builder and are immutable once the schema is built.
type Option struct {
	name     string
	kind     Kind
	aliases  []string // additional long switches
	short    rune     // 0 = none
	env      []string // env var names, checked in order, first match wins
	def      string
	hasDef   bool
	parser   ValueParser
	optional bool // optional-wrapped: absent is a valid outcome
	secret   bool
	envDelim rune // KindRepeat: char splitting one env value, 0 = whole value
	help     string
}

// Name returns the option's field identity within its group.
func (o *Option) Name() string { return o.name }

// Kind returns the option's kind.
func (o *Option) Kind() Kind { return o.kind }

// Help returns the option's help text, for external help renderers.
func (o *Option) Help() string { return o.help }

// required is derived: a parameter is required unless it is optional-wrapped
// or has a default. Flags and repeats are never required.
func (o *Option) required() bool {
	return o.kind == KindParameter && !o.optional && !o.hasDef
}

// scope carries the prefixing and elision context accumulated from the root
// down to the node being visited.
type scope struct {
	path       string // dotted field path, "" at the root
	longPrefix string
	envPrefix  string
	skipShort  map[rune]bool
}

func (sc scope) child(name string) string {
	if sc.path == "" {
		return name
	}
	return sc.path + "." + name
}

// flattened derives the scope for a flatten site, composing prefixes
// additively from root to leaf.
func (sc scope) flattened(f *Flatten) scope {
	next := scope{
		path:       sc.child(f.name),
		longPrefix: sc.longPrefix + f.longPrefix,
		envPrefix:  sc.envPrefix + f.envPrefix,
		skipShort:  sc.skipShort,
	}
	if len(f.skipShort) > 0 {
		merged := make(map[rune]bool, len(sc.skipShort)+len(f.skipShort))
		for r := range sc.skipShort {
			merged[r] = true
		}
		for _, r := range f.skipShort {
			merged[r] = true
		}
		next.skipShort = merged
	}
	return next
}

// longSwitches returns the option's effective long switches under sc,
// primary first.
func (o *Option) longSwitches(sc scope) []string {
	out := make([]string, 0, 1+len(o.aliases))
	out = append(out, sc.longPrefix+o.name)
	for _, a := range o.aliases {
		out = append(out, sc.longPrefix+a)
	}
	return out
}

// switches returns every CLI switch identity of the option under sc: the
// effective long switches plus the short form, unless skip-short elides it
// at this site.
func (o *Option) switches(sc scope) []string {
	out := o.longSwitches(sc)
	if s, ok := o.effectiveShort(sc); ok {
		out = append(out, string(s))
	}
	return out
}

// effectiveShort returns the option's short switch under sc, honoring
// skip-short elision.
func (o *Option) effectiveShort(sc scope) (rune, bool) {
	if o.short == 0 || sc.skipShort[o.short] {
		return 0, false
	}
	return o.short, true
}

// envNames returns the option's effective environment variable names under
// sc, in declaration order.
func (o *Option) envNames(sc scope) []string {
	if len(o.env) == 0 {
		return nil
	}
	out := make([]string, len(o.env))
	for i, e := range o.env {
		out[i] = sc.envPrefix + e
	}
	return out
}

// sourcesChecked renders every place a value for this option was looked for,
// used in missing-required error text.
func (o *Option) sourcesChecked(sc scope) []string {
	var out []string
	for _, l := range o.longSwitches(sc) {
		out = append(out, "--"+l)
	}
	if s, ok := o.effectiveShort(sc); ok {
		out = append(out, "-"+string(s))
	}
	out = append(out, o.envNames(sc)...)
	return out
}

// node is one child of a group: an *Option, a *Flatten, or a *Subcommands.
type node interface {
	fieldName() string
}

func (o *Option) fieldName() string { return o.name }

// Flatten embeds a nested schema's full option set into the parent group's
// namespace, optionally prefixed. When optional, the whole subtree resolves
// to absent unless the presence probe finds any of its fields in a source.
type Flatten struct {
	name       string
	group      *group
	optional   bool
	longPrefix string
	envPrefix  string
	helpPrefix string
	skipShort  []rune
}

func (f *Flatten) fieldName() string { return f.name }

// Subcommands selects exactly one of several named variants, each with its
// own schema. When optional, selecting none is a valid outcome.
type Subcommands struct {
	name     string
	names    []string // declaration order
	variants map[string]*group
	optional bool
}

func (s *Subcommands) fieldName() string { return s.name }

// constraintKind is the group-level rule variety.
type constraintKind int

const (
	exactlyOne constraintKind = iota
	atMostOne
	atLeastOne
	predicate
)

func (k constraintKind) String() string {
	switch k {
	case exactlyOne:
		return "exactly one"
	case atMostOne:
		return "at most one"
	case atLeastOne:
		return "at least one"
	default:
		return "predicate"
	}
}

// constraint is a struct-level rule over sibling fields of one group.
type constraint struct {
	kind   constraintKind
	fields []string
	pred   Predicate
}

// group is one struct's worth of schema: ordered children, constraints, and
// its own prefix context (empty at the root unless declared).
type group struct {
	name        string
	children    []node
	constraints []constraint
	longPrefix  string
	envPrefix   string
}

// enter applies the group's own prefix context on top of the caller's scope.
func (sc scope) enter(g *group) scope {
	sc.longPrefix += g.longPrefix
	sc.envPrefix += g.envPrefix
	return sc
}

func (g *group) child(name string) (node, bool) {
	for _, n := range g.children {
		if n.fieldName() == name {
			return n, true
		}
	}
	return nil, false
}

// hasSubcommands reports whether the group's tree contains a subcommands
// node, including through flattened subtrees.
func (g *group) hasSubcommands() bool {
	for _, n := range g.children {
		switch c := n.(type) {
		case *Subcommands:
			return true
		case *Flatten:
			if c.group.hasSubcommands() {
				return true
			}
		}
	}
	return false
}

// Schema is an immutable, statically built description of every option of a
// program, produced by Builder.Build. One Schema may serve any number of
// concurrent Resolve calls.
type Schema struct {
	root *group
}

// Name returns the schema's name, used in error and help contexts.
func (s *Schema) Name() string { return s.root.name }

// falsy is the case-insensitive set of environment values that leave a flag
// unset.
func truthy(raw string) bool {
	switch strings.ToLower(raw) {
	case "", "0", "false", "f", "off", "o":
		return false
	}
	return true
}

// isValidName checks a field identity: a non-empty dotless sequence of
// letters, digits, dashes and underscores starting with a letter or
// underscore.
func isValidName(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		if i == 0 && !isLetter && r != '_' {
			return false
		}
		if !(isLetter || isDigit || r == '_' || r == '-') {
			return false
		}
	}
	return true
}
