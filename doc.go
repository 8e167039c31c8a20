// File: conf/doc.go

// Package conf resolves a statically declared, tree-shaped configuration
// schema against command-line arguments and environment variables, producing
// either a fully typed configuration value or a complete list of every
// defect found — never just the first one.
//
// Features:
//   - Exhaustive error collection: every missing, invalid, or conflicting
//     field is reported in one pass, in declaration order
//   - Flags, single-valued parameters, and repeatable options, each with
//     long/short/env aliases, defaults, and per-option value parsers
//   - Flattening of nested schemas with additive long/env prefixing
//   - Optional subtrees with presence probing: an untouched optional group
//     resolves to absent without raising its required-field errors
//   - Subcommands, each with an independent switch namespace
//   - Group constraints (exactly-one, at-most-one, at-least-one) and custom
//     validation predicates
//   - Secret options redacted in error messages
//   - Explicit value-source snapshots: nothing is read from the process, so
//     resolution is deterministic and trivially testable
//
// Quick Start:
//
//	b := conf.NewSchema("myapp")
//	b.Flag("verbose").Short('v').Env("VERBOSE")
//	b.Param("listen").Env("LISTEN").Default(":8080")
//	b.Param("db-url").Env("DB_URL").Help("database connection string")
//	b.Repeat("peer").Env("PEERS").EnvDelimiter(',')
//	schema := b.MustBuild()
//
//	v, err := schema.Parse(os.Args[1:], os.Environ())
//	if err != nil {
//	    fmt.Fprintln(os.Stderr, err) // one line per defect
//	    os.Exit(2)
//	}
//	listen, _ := v.String("listen")
//
// Source precedence per field (highest to lowest):
//  1. Command-line occurrence (--db-url=..., -v)
//  2. Environment variable (first set name among the declared aliases)
//  3. Document layer, when supplied (conf.DocFromTOML)
//  4. Declared default
//
// Schema construction is separate from resolution: Build validates the
// schema once (duplicate effective names, ineffective skip-short entries,
// constraints naming unknown fields are all *SchemaError there), and the
// resulting Schema is immutable and safe for concurrent Resolve calls.
// Errors found while resolving values are *FieldError entries aggregated in
// an Errors list; a resolution call either returns the complete Value tree
// or the complete error list, never both.
package conf
