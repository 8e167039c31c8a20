// File: conf/builder.go
package conf

import "strings"

// Builder assembles a Schema through a fluent interface. Declaration order
// of fields is preserved and becomes the resolution and error-report order.
//
//	b := conf.NewSchema("myapp")
//	b.Flag("verbose").Short('v').Env("VERBOSE")
//	b.Param("db-url").Env("DB_URL").Help("database connection string")
//	schema, err := b.Build()
type Builder struct {
	g   *group
	err error
}

// NewSchema creates a builder for a schema with the given name. The name is
// used in error and help contexts only; it is not a switch.
func NewSchema(name string) *Builder {
	return &Builder{g: &group{name: name}}
}

// EnvPrefix sets the group's own environment variable prefix, applied to
// every env name declared beneath it (composing with any flatten prefixes).
func (b *Builder) EnvPrefix(prefix string) *Builder {
	b.g.envPrefix = prefix
	return b
}

// LongPrefix sets the group's own long-switch prefix.
func (b *Builder) LongPrefix(prefix string) *Builder {
	b.g.longPrefix = prefix
	return b
}

func (b *Builder) addOption(name string, kind Kind) *OptionBuilder {
	o := &Option{name: name, kind: kind, parser: ParseString}
	b.g.children = append(b.g.children, o)
	return &OptionBuilder{b: b, o: o}
}

// Flag declares a boolean switch field. Its long switch is the field name.
func (b *Builder) Flag(name string) *OptionBuilder {
	return b.addOption(name, KindFlag)
}

// Param declares a single-valued parameter field. Its long switch is the
// field name; it is required unless marked Optional or given a Default.
func (b *Builder) Param(name string) *OptionBuilder {
	return b.addOption(name, KindParameter)
}

// Repeat declares a list-valued field populated by repeated CLI occurrences
// or by delimiter-splitting one environment value. Empty is always valid.
func (b *Builder) Repeat(name string) *OptionBuilder {
	return b.addOption(name, KindRepeat)
}

// Flatten embeds a previously built schema as a nested field. By default no
// prefixes are applied; see FlattenBuilder.Prefix and friends.
func (b *Builder) Flatten(name string, sub *Schema) *FlattenBuilder {
	f := &Flatten{name: name}
	if sub != nil {
		f.group = sub.root
	} else if b.err == nil {
		b.err = schemaErrorf("flatten %q: nil schema", name)
	}
	b.g.children = append(b.g.children, f)
	return &FlattenBuilder{b: b, f: f}
}

// Subcommands declares a field holding one of several named command
// variants. Exactly one must be selected unless marked Optional.
func (b *Builder) Subcommands(name string) *SubcommandsBuilder {
	s := &Subcommands{name: name, variants: make(map[string]*group)}
	b.g.children = append(b.g.children, s)
	return &SubcommandsBuilder{b: b, s: s}
}

// ExactlyOne requires that exactly one of the named sibling fields is
// present in the resolved value.
func (b *Builder) ExactlyOne(fields ...string) *Builder {
	b.g.constraints = append(b.g.constraints, constraint{kind: exactlyOne, fields: fields})
	return b
}

// AtMostOne requires that no more than one of the named sibling fields is
// present.
func (b *Builder) AtMostOne(fields ...string) *Builder {
	b.g.constraints = append(b.g.constraints, constraint{kind: atMostOne, fields: fields})
	return b
}

// AtLeastOne requires that at least one of the named sibling fields is
// present.
func (b *Builder) AtLeastOne(fields ...string) *Builder {
	b.g.constraints = append(b.g.constraints, constraint{kind: atLeastOne, fields: fields})
	return b
}

// Validate adds a predicate over the group's resolved value, run once after
// every direct field has resolved. It is skipped when any sibling field
// failed, so it never sees an incomplete value.
func (b *Builder) Validate(fn Predicate) *Builder {
	b.g.constraints = append(b.g.constraints, constraint{kind: predicate, pred: fn})
	return b
}

// Build validates the declarations and returns the immutable Schema. Any
// defect in the schema itself (duplicate effective names, ineffective
// skip-short, a constraint naming a nonexistent field, ...) is a
// *SchemaError here, never a resolution-time error.
func (b *Builder) Build() (*Schema, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := validateGroup(b.g); err != nil {
		return nil, err
	}
	sc := scope{}.enter(b.g)
	if err := validateNamespace(b.g, sc, newNamespace()); err != nil {
		return nil, err
	}
	return &Schema{root: b.g}, nil
}

// MustBuild is like Build but panics on error. Schema construction errors
// are programming defects, so panicking at startup is usually what you want.
func (b *Builder) MustBuild() *Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

// OptionBuilder configures one declared option. All methods return the
// builder for chaining.
type OptionBuilder struct {
	b *Builder
	o *Option
}

// Short sets the single-character short switch.
func (ob *OptionBuilder) Short(r rune) *OptionBuilder {
	ob.o.short = r
	return ob
}

// Aliases adds additional long switches for the option.
func (ob *OptionBuilder) Aliases(names ...string) *OptionBuilder {
	ob.o.aliases = append(ob.o.aliases, names...)
	return ob
}

// Env sets the environment variable names checked for the option, in order;
// the first variable that is set wins.
func (ob *OptionBuilder) Env(names ...string) *OptionBuilder {
	ob.o.env = append(ob.o.env, names...)
	return ob
}

// Default sets the raw string default, parsed by the option's value parser
// when no source supplies a value. Only valid for parameters.
func (ob *OptionBuilder) Default(raw string) *OptionBuilder {
	ob.o.def = raw
	ob.o.hasDef = true
	return ob
}

// Parser sets the value parser applied to every raw occurrence. The default
// parser passes the string through unchanged.
func (ob *OptionBuilder) Parser(fn ValueParser) *OptionBuilder {
	ob.o.parser = fn
	return ob
}

// Optional marks a parameter as optional-wrapped: absence is a valid
// outcome and produces no value rather than an error.
func (ob *OptionBuilder) Optional() *OptionBuilder {
	ob.o.optional = true
	return ob
}

// Secret redacts the option's raw value in error messages.
func (ob *OptionBuilder) Secret() *OptionBuilder {
	ob.o.secret = true
	return ob
}

// EnvDelimiter sets the character splitting one environment value into
// several occurrences of a repeat option. Without it the whole value is one
// occurrence.
func (ob *OptionBuilder) EnvDelimiter(r rune) *OptionBuilder {
	ob.o.envDelim = r
	return ob
}

// Help sets the option's help text.
func (ob *OptionBuilder) Help(text string) *OptionBuilder {
	ob.o.help = text
	return ob
}

// FlattenBuilder configures one flatten site.
type FlattenBuilder struct {
	b *Builder
	f *Flatten
}

// Prefix derives both prefixes from the field name: "<name>-" for long
// switches and "<NAME>_" for environment variables.
func (fb *FlattenBuilder) Prefix() *FlattenBuilder {
	fb.f.longPrefix = fb.f.name + "-"
	fb.f.envPrefix = strings.ToUpper(strings.ReplaceAll(fb.f.name, "-", "_")) + "_"
	return fb
}

// LongPrefix overrides the derived long-switch prefix at this site.
func (fb *FlattenBuilder) LongPrefix(prefix string) *FlattenBuilder {
	fb.f.longPrefix = prefix
	return fb
}

// EnvPrefix overrides the derived environment prefix at this site.
func (fb *FlattenBuilder) EnvPrefix(prefix string) *FlattenBuilder {
	fb.f.envPrefix = prefix
	return fb
}

// HelpPrefix sets a prefix composed onto the nested options' help text.
func (fb *FlattenBuilder) HelpPrefix(prefix string) *FlattenBuilder {
	fb.f.helpPrefix = prefix
	return fb
}

// Optional makes the whole subtree resolve to absent when none of its
// fields appear in any source; required nested fields then produce no
// errors.
func (fb *FlattenBuilder) Optional() *FlattenBuilder {
	fb.f.optional = true
	return fb
}

// SkipShort elides the named short switches from the nested schema at this
// site, freeing them for other options. Naming a short the nested schema
// does not expose here is a schema error.
func (fb *FlattenBuilder) SkipShort(shorts ...rune) *FlattenBuilder {
	fb.f.skipShort = append(fb.f.skipShort, shorts...)
	return fb
}

// SubcommandsBuilder configures one subcommands field.
type SubcommandsBuilder struct {
	b *Builder
	s *Subcommands
}

// Command adds a named variant with its own schema.
func (sb *SubcommandsBuilder) Command(name string, sub *Schema) *SubcommandsBuilder {
	if sub == nil {
		if sb.b.err == nil {
			sb.b.err = schemaErrorf("subcommand %q: nil schema", name)
		}
		return sb
	}
	if _, dup := sb.s.variants[name]; dup {
		if sb.b.err == nil {
			sb.b.err = schemaErrorf("subcommand %q declared twice", name)
		}
		return sb
	}
	sb.s.names = append(sb.s.names, name)
	sb.s.variants[name] = sub.root
	return sb
}

// Optional makes selecting no subcommand a valid outcome.
func (sb *SubcommandsBuilder) Optional() *SubcommandsBuilder {
	sb.s.optional = true
	return sb
}

// validateGroup checks per-group invariants that do not depend on prefixing:
// field identities, kind rules, constraint targets, subcommand placement.
func validateGroup(g *group) error {
	seen := make(map[string]bool, len(g.children))
	subcommands := 0

	for _, n := range g.children {
		name := n.fieldName()
		if !isValidName(name) {
			return schemaErrorf("group %q: invalid field name %q", g.name, name)
		}
		if seen[name] {
			return schemaErrorf("group %q: duplicate field %q", g.name, name)
		}
		seen[name] = true

		switch c := n.(type) {
		case *Option:
			if err := validateOption(g, c); err != nil {
				return err
			}
		case *Flatten:
			if c.group.hasSubcommands() {
				return schemaErrorf("group %q: flatten %q embeds a schema containing subcommands", g.name, name)
			}
			if err := validateGroup(c.group); err != nil {
				return err
			}
		case *Subcommands:
			subcommands++
			if subcommands > 1 {
				return schemaErrorf("group %q: more than one subcommands field", g.name)
			}
			if len(c.names) == 0 {
				return schemaErrorf("group %q: subcommands field %q has no commands", g.name, name)
			}
			for _, vn := range c.names {
				if !isValidName(vn) {
					return schemaErrorf("group %q: subcommands field %q has invalid command name %q", g.name, name, vn)
				}
				// The selector is stored under "name" in the resolved value.
				if vn == "name" {
					return schemaErrorf("group %q: subcommands field %q: command name %q is reserved", g.name, name, vn)
				}
				if err := validateGroup(c.variants[vn]); err != nil {
					return err
				}
			}
		}
	}

	for _, c := range g.constraints {
		if c.kind == predicate {
			if c.pred == nil {
				return schemaErrorf("group %q: nil validation predicate", g.name)
			}
			continue
		}
		if len(c.fields) == 0 {
			return schemaErrorf("group %q: %s constraint names no fields", g.name, c.kind)
		}
		for _, f := range c.fields {
			if !seen[f] {
				return schemaErrorf("group %q: %s constraint names unknown field %q", g.name, c.kind, f)
			}
		}
	}

	return nil
}

func validateOption(g *group, o *Option) error {
	if o.parser == nil {
		return schemaErrorf("group %q: option %q has nil value parser", g.name, o.name)
	}
	for _, a := range o.aliases {
		if !isValidName(a) {
			return schemaErrorf("group %q: option %q has invalid alias %q", g.name, o.name, a)
		}
	}
	switch o.kind {
	case KindFlag:
		if o.hasDef {
			return schemaErrorf("group %q: flag %q cannot have a default", g.name, o.name)
		}
		if o.optional {
			return schemaErrorf("group %q: flag %q cannot be optional; an absent flag is false", g.name, o.name)
		}
		if o.envDelim != 0 {
			return schemaErrorf("group %q: flag %q cannot have an env delimiter", g.name, o.name)
		}
	case KindParameter:
		if o.envDelim != 0 {
			return schemaErrorf("group %q: parameter %q cannot have an env delimiter", g.name, o.name)
		}
	case KindRepeat:
		if o.hasDef {
			return schemaErrorf("group %q: repeat %q cannot have a string default; its default is no occurrences", g.name, o.name)
		}
		if o.optional {
			return schemaErrorf("group %q: repeat %q cannot be optional; an empty list is the absent outcome", g.name, o.name)
		}
	}
	return nil
}

// namespace tracks effective switch and env identities within one parser
// scope (the root, or one subcommand variant).
type namespace struct {
	longs  map[string]string // effective long switch -> field path
	envs   map[string]string // effective env name -> field path
	shorts map[rune]string   // short switch -> field path
}

func newNamespace() *namespace {
	return &namespace{
		longs:  make(map[string]string),
		envs:   make(map[string]string),
		shorts: make(map[rune]string),
	}
}

// validateNamespace checks that effective identities are unique across the
// resolved tree and that every skip-short entry has observable effect.
// Subcommand variants are independent parser scopes and get their own
// namespaces.
func validateNamespace(g *group, sc scope, ns *namespace) error {
	for _, n := range g.children {
		switch c := n.(type) {
		case *Option:
			path := sc.child(c.name)
			for _, l := range c.longSwitches(sc) {
				if prev, dup := ns.longs[l]; dup {
					return schemaErrorf("switch --%s of %q collides with %q", l, path, prev)
				}
				ns.longs[l] = path
			}
			for _, e := range c.envNames(sc) {
				if prev, dup := ns.envs[e]; dup {
					return schemaErrorf("env var %s of %q collides with %q", e, path, prev)
				}
				ns.envs[e] = path
			}
			if s, ok := c.effectiveShort(sc); ok {
				if prev, dup := ns.shorts[s]; dup {
					return schemaErrorf("short switch -%c of %q collides with %q", s, path, prev)
				}
				ns.shorts[s] = path
			}
		case *Flatten:
			for _, r := range c.skipShort {
				if !visibleShorts(c.group, sc.skipShort)[r] {
					return schemaErrorf("flatten %q: skip-short -%c has no effect; the nested schema exposes no such short here", sc.child(c.name), r)
				}
			}
			if err := validateNamespace(c.group, sc.flattened(c).enter(c.group), ns); err != nil {
				return err
			}
		case *Subcommands:
			for _, vn := range c.names {
				vg := c.variants[vn]
				vsc := scope{path: sc.child(c.name) + "." + vn}.enter(vg)
				if err := validateNamespace(vg, vsc, newNamespace()); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// visibleShorts collects the short switches a group exposes after the given
// elisions, including through nested flattens.
func visibleShorts(g *group, skip map[rune]bool) map[rune]bool {
	out := make(map[rune]bool)
	for _, n := range g.children {
		switch c := n.(type) {
		case *Option:
			if c.short != 0 && !skip[c.short] {
				out[c.short] = true
			}
		case *Flatten:
			merged := skip
			if len(c.skipShort) > 0 {
				merged = make(map[rune]bool, len(skip)+len(c.skipShort))
				for r := range skip {
					merged[r] = true
				}
				for _, r := range c.skipShort {
					merged[r] = true
				}
			}
			for r := range visibleShorts(c.group, merged) {
				out[r] = true
			}
		}
	}
	return out
}
