// File: conf/walk.go
package conf

// OptionInfo is one leaf option with its effective (post-prefixing)
// identities, the shape a help renderer needs. Resolution itself never uses
// this view.
type OptionInfo struct {
	Path     string   // dotted field path
	Kind     Kind
	Longs    []string // effective long switches, primary first
	Short    rune     // 0 when absent or elided at this site
	Envs     []string // effective environment variable names
	Default  string
	HasDef   bool
	Required bool
	Secret   bool
	Help     string // help text with any flatten help prefixes composed in
}

// WalkOptions visits every leaf option of the schema in declaration order,
// including options inside flattens and subcommand variants. Subcommand
// variant options carry their "field.variant." qualified path.
func (s *Schema) WalkOptions(fn func(OptionInfo)) {
	walkOptions(s.root, scope{}.enter(s.root), "", fn)
}

func walkOptions(g *group, sc scope, helpPrefix string, fn func(OptionInfo)) {
	for _, n := range g.children {
		switch c := n.(type) {
		case *Option:
			info := OptionInfo{
				Path:     sc.child(c.name),
				Kind:     c.kind,
				Longs:    c.longSwitches(sc),
				Envs:     c.envNames(sc),
				Default:  c.def,
				HasDef:   c.hasDef,
				Required: c.required(),
				Secret:   c.secret,
				Help:     helpPrefix + c.help,
			}
			if r, ok := c.effectiveShort(sc); ok {
				info.Short = r
			}
			fn(info)
		case *Flatten:
			walkOptions(c.group, sc.flattened(c).enter(c.group), helpPrefix+c.helpPrefix, fn)
		case *Subcommands:
			for _, vn := range c.names {
				vg := c.variants[vn]
				vsc := scope{path: sc.child(c.name) + "." + vn}.enter(vg)
				walkOptions(vg, vsc, helpPrefix, fn)
			}
		}
	}
}
