// File: conf/tokenize.go
package conf

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// Tokenize parses raw command-line arguments (without the program name)
// into an Args occurrence map using a pflag.FlagSet built from the schema's
// effective switches. Tokenization is purely lexical: it records which
// switches occurred with which raw strings, and which subcommand was
// selected, but performs no value parsing and no requiredness checking —
// that is Resolve's job. Duplicate occurrences of a single-valued parameter
// are preserved so the resolver can report them.
func (s *Schema) Tokenize(argv []string) (*Args, error) {
	return tokenizeGroup(s.root, scope{}.enter(s.root), argv)
}

func tokenizeGroup(g *group, sc scope, argv []string) (*Args, error) {
	fs := pflag.NewFlagSet(g.name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)

	sub := findSubcommands(g)
	if sub != nil {
		// Stop at the first positional token so it can select a subcommand.
		fs.SetInterspersed(false)
	}

	registerGroup(fs, g, sc)

	// ParseAll hands each switch over in argv order, so values of one option
	// spread across its aliases interleave correctly; reading the flag values
	// back per switch after the parse would lose that order.
	args := NewArgs()
	err := fs.ParseAll(argv, func(f *pflag.Flag, value string) error {
		if f.Value.Type() == "bool" {
			on, perr := strconv.ParseBool(value)
			if perr != nil {
				return fmt.Errorf("invalid boolean value %q for --%s", value, f.Name)
			}
			if on {
				args.SetFlag(f.Name)
			}
			return nil
		}
		args.AddOccurrence(f.Name, value)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse arguments: %w", err)
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return args, nil
	}
	if sub == nil {
		return nil, fmt.Errorf("unexpected argument %q", rest[0])
	}

	name := rest[0]
	vg, known := sub.variants[name]
	if !known {
		return nil, fmt.Errorf("unknown subcommand %q (expected one of: %s)",
			name, strings.Join(sub.names, ", "))
	}
	scoped, err := tokenizeGroup(vg, scope{}.enter(vg), rest[1:])
	if err != nil {
		return nil, fmt.Errorf("subcommand %s: %w", name, err)
	}
	args.SelectSubcommand(name, scoped)
	return args, nil
}

func findSubcommands(g *group) *Subcommands {
	for _, n := range g.children {
		if sc, ok := n.(*Subcommands); ok {
			return sc
		}
	}
	return nil
}

// registerGroup declares every effective switch of the group on the
// FlagSet: the primary long carries the short form, aliases stand alone.
// Short-form usages are folded into the primary long switch by pflag
// itself. Subcommand variants are not registered; they get their own
// FlagSet from their own token scope.
func registerGroup(fs *pflag.FlagSet, g *group, sc scope) {
	for _, n := range g.children {
		switch c := n.(type) {
		case *Option:
			longs := c.longSwitches(sc)
			shorthand := ""
			if s, ok := c.effectiveShort(sc); ok {
				shorthand = string(s)
			}
			if c.kind == KindFlag {
				fs.BoolP(longs[0], shorthand, false, c.help)
				for _, alias := range longs[1:] {
					fs.Bool(alias, false, c.help)
				}
			} else {
				fs.StringArrayP(longs[0], shorthand, nil, c.help)
				for _, alias := range longs[1:] {
					fs.StringArray(alias, nil, c.help)
				}
			}
		case *Flatten:
			registerGroup(fs, c.group, sc.flattened(c).enter(c.group))
		}
	}
}

// FindParameter scans argv for one long parameter before the main parse,
// accepting "--name=value" and "--name value" forms and stopping at "--".
// This is useful for grabbing e.g. a config-document path whose content
// must be loaded before resolution runs; the schema should still declare
// the parameter so the main parse accepts it.
func FindParameter(name string, argv []string) (string, bool) {
	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		if arg == "--" {
			return "", false
		}
		if !strings.HasPrefix(arg, "--") {
			continue
		}
		body := arg[2:]
		if eq := strings.IndexByte(body, '='); eq >= 0 {
			if body[:eq] == name {
				return body[eq+1:], true
			}
			continue
		}
		if body == name {
			if i+1 < len(argv) {
				return argv[i+1], true
			}
			return "", false
		}
	}
	return "", false
}
