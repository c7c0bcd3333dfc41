package validation

import "regexp"

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

const (
	// Password requirements
	MinPasswordLength = 8
	MaxPasswordLength = 72

	// String lengths
	MaxCommentLength     = 5000
	MaxNoteLength        = 1000
	MaxDeclineReasonLen  = 200
	MaxLegalNameLength   = 200
	MaxDeclineReasons    = 20
	MaxOwnersPerMerchant = 10

	// Underwriting
	MinRiskScore = 0
	MaxRiskScore = 100
	MinFicoScore = 300
	MaxFicoScore = 850
)

// PaperGrades are the accepted risk letter grades, best first.
var PaperGrades = []string{"A", "B", "C", "D"}
