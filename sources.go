// File: conf/sources.go
package conf

import (
	"sort"
	"strings"
)

// Environ is an immutable snapshot of environment variables, supplied
// explicitly by the caller rather than read from the process, so resolution
// is deterministic and testable.
type Environ struct {
	keys   []string
	values map[string]string
}

// NewEnviron builds a snapshot from "KEY=VALUE" entries, the shape of
// os.Environ. Malformed entries without "=" are skipped; values may contain
// "=". The first occurrence of a duplicated key wins, as os.Getenv reads a
// duplicated variable.
func NewEnviron(entries []string) *Environ {
	e := &Environ{values: make(map[string]string, len(entries))}
	for _, entry := range entries {
		idx := strings.Index(entry, "=")
		if idx <= 0 {
			continue
		}
		key := entry[:idx]
		if _, seen := e.values[key]; seen {
			continue
		}
		e.keys = append(e.keys, key)
		e.values[key] = entry[idx+1:]
	}
	return e
}

// EnvironFromMap builds a snapshot from a map, ordering keys
// lexicographically for determinism.
func EnvironFromMap(m map[string]string) *Environ {
	e := &Environ{values: make(map[string]string, len(m))}
	for k, v := range m {
		e.keys = append(e.keys, k)
		e.values[k] = v
	}
	sort.Strings(e.keys)
	return e
}

// Lookup returns the value of name and whether it is set. An empty value is
// set; only a missing variable is absent.
func (e *Environ) Lookup(name string) (string, bool) {
	if e == nil {
		return "", false
	}
	v, ok := e.values[name]
	return v, ok
}

// Keys returns the variable names in snapshot order.
func (e *Environ) Keys() []string {
	if e == nil {
		return nil
	}
	out := make([]string, len(e.keys))
	copy(out, e.keys)
	return out
}

// Len returns the number of variables in the snapshot.
func (e *Environ) Len() int {
	if e == nil {
		return 0
	}
	return len(e.keys)
}

// occurrence is one raw switch value with its position in the overall
// command line, so values recorded under different switch identities of the
// same option can be merged back into argv order.
type occurrence struct {
	seq int
	raw string
}

// Args holds the raw output of command-line tokenization: per-switch
// occurrence lists for parameters and repeats, a presence set for flags, and
// the selected subcommand with its own scoped Args. It is produced by
// Tokenize, or assembled directly in tests.
type Args struct {
	occ     map[string][]occurrence
	present map[string]bool
	seq     int
	sub     string
	subArgs *Args
}

// NewArgs returns an empty argument-occurrence map.
func NewArgs() *Args {
	return &Args{
		occ:     make(map[string][]occurrence),
		present: make(map[string]bool),
	}
}

// AddOccurrence records one raw string occurrence for a switch identity
// (a long name, alias, or short character, without dashes). Occurrences are
// sequenced across all switches in the order they are added.
func (a *Args) AddOccurrence(switchName, raw string) *Args {
	a.occ[switchName] = append(a.occ[switchName], occurrence{seq: a.seq, raw: raw})
	a.seq++
	return a
}

// SetFlag records the presence of a flag switch.
func (a *Args) SetFlag(switchName string) *Args {
	a.present[switchName] = true
	return a
}

// SelectSubcommand records the chosen subcommand name and the Args scoped to
// its token stream.
func (a *Args) SelectSubcommand(name string, scoped *Args) *Args {
	a.sub = name
	a.subArgs = scoped
	return a
}

// Occurrences returns the raw occurrences recorded under any of the given
// switch identities, merged back into the order they were added — for
// tokenized input, command-line order, even when one option's values arrived
// through several aliases.
func (a *Args) Occurrences(switches ...string) []string {
	if a == nil {
		return nil
	}
	var merged []occurrence
	for _, s := range switches {
		merged = append(merged, a.occ[s]...)
	}
	if len(merged) == 0 {
		return nil
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].seq < merged[j].seq })
	out := make([]string, len(merged))
	for i, o := range merged {
		out[i] = o.raw
	}
	return out
}

// FlagPresent reports whether any of the given switch identities is in the
// flag-presence set.
func (a *Args) FlagPresent(switches ...string) bool {
	if a == nil {
		return false
	}
	for _, s := range switches {
		if a.present[s] {
			return true
		}
	}
	return false
}

// Subcommand returns the selected subcommand name ("" for none) and the
// Args scoped to it.
func (a *Args) Subcommand() (string, *Args) {
	if a == nil {
		return "", nil
	}
	return a.sub, a.subArgs
}
