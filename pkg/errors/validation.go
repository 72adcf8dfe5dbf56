package errors

import (
	"strings"
	"unicode"
)

// Allowed property values. These mirror the categories the editor offers in
// its property menus; the core stores them as opaque strings.
var (
	genders          = []string{"M", "F", "U"}
	lifeStatuses     = []string{"alive", "deceased", "stillborn", "unborn", "aborted", "miscarriage"}
	childlessStates  = []string{"none", "childless", "infertile"}
	carrierStates    = []string{"", "carrier", "affected", "presymptomatic"}
	adoptionStates   = []string{"none", "adoptedIn", "adoptedOut"}
	consanguinities  = []string{"auto", "yes", "no"}
	maxTermLength    = 256
	maxNameLength    = 512
	maxChildlessNote = 1024
	maxCommentLength = 4096
)

func oneOf(code Code, what, value string, allowed []string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return New(code, "invalid %s %q (allowed: %s)", what, value, strings.Join(quoteAll(allowed), ", "))
}

func quoteAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = `"` + v + `"`
	}
	return out
}

// ValidateGender checks a sex/gender category: "M", "F" or "U".
func ValidateGender(g string) error {
	return oneOf(ErrCodeInvalidProperty, "gender", g, genders)
}

// ValidateLifeStatus checks a life-status category.
func ValidateLifeStatus(s string) error {
	return oneOf(ErrCodeInvalidProperty, "life status", s, lifeStatuses)
}

// ValidateChildlessStatus checks a childless status: "none", "childless" or "infertile".
func ValidateChildlessStatus(s string) error {
	return oneOf(ErrCodeInvalidProperty, "childless status", s, childlessStates)
}

// ValidateCarrierStatus checks a carrier status. The empty string means "not affected".
func ValidateCarrierStatus(s string) error {
	return oneOf(ErrCodeInvalidProperty, "carrier status", s, carrierStates)
}

// ValidateAdoptionStatus checks an adoption status.
func ValidateAdoptionStatus(s string) error {
	return oneOf(ErrCodeInvalidProperty, "adoption status", s, adoptionStates)
}

// ValidateConsanguinity checks a partnership consanguinity flag.
func ValidateConsanguinity(s string) error {
	return oneOf(ErrCodeInvalidProperty, "consanguinity", s, consanguinities)
}

// ValidateTerm validates an opaque disorder, gene or phenotype identifier.
// Terms are never interpreted, but they must be printable and bounded so
// they survive a snapshot round trip.
//
// Validation rules:
//   - Term cannot be empty or only whitespace
//   - Maximum length of 256 characters
//   - No control characters
func ValidateTerm(term string) error {
	if strings.TrimSpace(term) == "" {
		return New(ErrCodeInvalidProperty, "term cannot be empty")
	}
	if len(term) > maxTermLength {
		return New(ErrCodeInvalidProperty, "term too long (max %d characters)", maxTermLength)
	}
	for _, r := range term {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidProperty, "term contains invalid control characters")
		}
	}
	return nil
}

// ValidateName validates a free-text name or external identifier.
// Empty names are allowed; the editor simply shows no label.
func ValidateName(name string) error {
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidProperty, "name too long (max %d characters)", maxNameLength)
	}
	for _, r := range name {
		if r == '\x00' || (unicode.IsControl(r) && r != '\t') {
			return New(ErrCodeInvalidProperty, "name contains invalid characters")
		}
	}
	return nil
}

// ValidateChildlessReason validates the free-text reason attached to a
// childless or infertile status.
func ValidateChildlessReason(reason string) error {
	if len(reason) > maxChildlessNote {
		return New(ErrCodeInvalidProperty, "childless reason too long (max %d characters)", maxChildlessNote)
	}
	return nil
}

// ValidateComment validates the free-text comments of a person. Line breaks
// and tabs are allowed; other control characters are not.
func ValidateComment(comment string) error {
	if len(comment) > maxCommentLength {
		return New(ErrCodeInvalidProperty, "comment too long (max %d characters)", maxCommentLength)
	}
	for _, r := range comment {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return New(ErrCodeInvalidProperty, "comment contains invalid control characters")
		}
	}
	return nil
}
