package vecsql

// maxIdentifierLen matches the engine limit for bare identifiers.
const maxIdentifierLen = 64

// ValidateIdentifier accepts a string iff it is safe to inline as a bare SQL
// identifier: [A-Za-z_][A-Za-z0-9_]*, at most 64 bytes. Anything else, in
// particular quotes, semicolons and whitespace, is rejected up front so that
// no unvalidated name ever reaches string concatenation.
func ValidateIdentifier(name string) error {
	if name == "" || len(name) > maxIdentifierLen {
		return &InvalidIdentifierError{Name: name}
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return &InvalidIdentifierError{Name: name}
			}
		default:
			return &InvalidIdentifierError{Name: name}
		}
	}
	return nil
}

// ValidateIdentifiers validates every name in order and fails on the first
// offender.
func ValidateIdentifiers(names ...string) error {
	for _, name := range names {
		if err := ValidateIdentifier(name); err != nil {
			return err
		}
	}
	return nil
}
