package validation

import "strings"

// PaperGrade normalises and checks an optional paper grade.
func (v *Validator) PaperGrade(field string, grade *string) *string {
	if grade == nil {
		return nil
	}
	normalized := strings.ToUpper(strings.TrimSpace(*grade))
	v.OneOf(field, normalized, PaperGrades...)
	return &normalized
}

// RiskScore checks an optional risk score.
func (v *Validator) RiskScore(field string, score *int) {
	if score != nil {
		v.IntRange(field, *score, MinRiskScore, MaxRiskScore)
	}
}

// DeclineReasons requires at least one non-blank reason.
func (v *Validator) DeclineReasons(field string, reasons []string) {
	if len(reasons) == 0 {
		v.AddError(field, "must contain at least one item")
		return
	}
	v.Check(len(reasons) <= MaxDeclineReasons, field, "has too many items")
	for _, r := range reasons {
		if strings.TrimSpace(r) == "" {
			v.AddError(field, "must not contain blank reasons")
			return
		}
		if len([]rune(r)) > MaxDeclineReasonLen {
			v.AddError(field, "contains a reason that is too long")
			return
		}
	}
}
