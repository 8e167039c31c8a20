// File: conf/convenience.go
package conf

import "fmt"

// Parse tokenizes argv (without the program name) and resolves the schema
// against it and the given environment entries ("KEY=VALUE" form, the shape
// of os.Environ). This is the one-call entry point for most programs:
//
//	v, err := schema.Parse(os.Args[1:], os.Environ())
func (s *Schema) Parse(argv []string, environ []string) (Value, error) {
	args, err := s.Tokenize(argv)
	if err != nil {
		return nil, err
	}
	return s.Resolve(args, NewEnviron(environ))
}

// ParseWith is Parse with a document layer between environment and
// defaults.
func (s *Schema) ParseWith(argv []string, environ []string, doc Doc) (Value, error) {
	args, err := s.Tokenize(argv)
	if err != nil {
		return nil, err
	}
	return s.ResolveWith(args, NewEnviron(environ), doc)
}

// ParseInto parses like Parse and decodes the result into target, a struct
// pointer with "conf" tags matching the schema's field names.
func (s *Schema) ParseInto(argv []string, environ []string, target any) error {
	v, err := s.Parse(argv, environ)
	if err != nil {
		return err
	}
	if err := Decode(v, target); err != nil {
		return fmt.Errorf("failed to decode resolved config: %w", err)
	}
	return nil
}

// MustParse is like Parse but panics on error.
func (s *Schema) MustParse(argv []string, environ []string) Value {
	v, err := s.Parse(argv, environ)
	if err != nil {
		panic(fmt.Sprintf("config resolution failed:\n%v", err))
	}
	return v
}
