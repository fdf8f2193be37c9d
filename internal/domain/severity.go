package domain

// Classification outcomes the oracle is allowed to return. The set is closed:
// any other reply is a contract violation.
const (
	ClassI       = "Class I"
	ClassII      = "Class II"
	ClassIII     = "Class III"
	ClassUnknown = "Unknown"
)

// KnownClass reports whether class belongs to the fixed taxonomy.
func KnownClass(class string) bool {
	switch class {
	case ClassI, ClassII, ClassIII, ClassUnknown:
		return true
	}
	return false
}

// Severity is the persisted form of an inferred classification. The hedged
// wording signals the value was derived, not agency-asserted.
type Severity struct {
	RiskLevel      string
	Classification string
}

// SeverityFromClass maps an oracle class to its persisted severity strings.
func SeverityFromClass(class string) (Severity, bool) {
	switch class {
	case ClassI:
		return Severity{RiskLevel: "Potentially High - Class I", Classification: "Potentially Class I"}, true
	case ClassII:
		return Severity{RiskLevel: "Potentially Low - Class II", Classification: "Potentially Class II"}, true
	case ClassIII:
		return Severity{RiskLevel: "Potentially Marginal - Class III", Classification: "Potentially Class III"}, true
	case ClassUnknown:
		return Severity{RiskLevel: "Unknown", Classification: "Unknown"}, true
	}
	return Severity{}, false
}
