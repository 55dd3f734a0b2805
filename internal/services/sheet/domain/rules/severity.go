package rules

// Severity ranks validation findings: Information < Warning < Error.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityInformation
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInformation:
		return "information"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "none"
	}
}

// Blocking reports whether the severity prevents a character from being complete.
func (s Severity) Blocking() bool {
	return s >= SeverityError
}
