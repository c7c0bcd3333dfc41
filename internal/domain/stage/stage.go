// Package stage defines the closed set of deal pipeline stages and the
// static table of legal transitions between them.
package stage

import (
	"strings"

	apperrors "mcadesk/internal/errors"
)

type Stage string

const (
	NewLead        Stage = "NEW_LEAD"
	DocsRequested  Stage = "DOCS_REQUESTED"
	DocsReceived   Stage = "DOCS_RECEIVED"
	InUnderwriting Stage = "IN_UNDERWRITING"
	Approved       Stage = "APPROVED"
	ContractSent   Stage = "CONTRACT_SENT"
	ContractSigned Stage = "CONTRACT_SIGNED"
	Funded         Stage = "FUNDED"
	Declined       Stage = "DECLINED"
	Dead           Stage = "DEAD"
)

// All lists every stage in pipeline order.
var All = []Stage{
	NewLead,
	DocsRequested,
	DocsReceived,
	InUnderwriting,
	Approved,
	ContractSent,
	ContractSigned,
	Funded,
	Declined,
	Dead,
}

// successors is the transition table. Each case must list its outgoing
// edges explicitly; a stage falling through to default is unknown.
func successors(s Stage) ([]Stage, bool) {
	switch s {
	case NewLead:
		return []Stage{DocsRequested, Declined, Dead}, true
	case DocsRequested:
		return []Stage{DocsReceived, Declined, Dead}, true
	case DocsReceived:
		return []Stage{InUnderwriting, DocsRequested, Declined, Dead}, true
	case InUnderwriting:
		return []Stage{Approved, Declined, Dead}, true
	case Approved:
		return []Stage{ContractSent, Declined, Dead}, true
	case ContractSent:
		return []Stage{ContractSigned, Declined, Dead}, true
	case ContractSigned:
		return []Stage{Funded, Declined, Dead}, true
	case Funded:
		return []Stage{}, true
	case Declined:
		return []Stage{NewLead}, true
	case Dead:
		return []Stage{NewLead}, true
	default:
		return nil, false
	}
}

// Parse converts user input into a Stage.
func Parse(v string) (Stage, error) {
	s := Stage(strings.ToUpper(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", apperrors.ErrInvalidStage.WithDetail("%q", v)
	}
	return s, nil
}

func (s Stage) Valid() bool {
	_, ok := successors(s)
	return ok
}

func (s Stage) String() string {
	return string(s)
}

// Next returns a fresh copy of the stages s may move to.
func (s Stage) Next() []Stage {
	next, _ := successors(s)
	return next
}

func (s Stage) CanTransitionTo(to Stage) bool {
	for _, n := range s.Next() {
		if n == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns ErrInvalidTransition naming the pair when the
// move from -> to is not in the table.
func ValidateTransition(from, to Stage) error {
	if !to.Valid() {
		return apperrors.ErrInvalidStage.WithDetail("%q", string(to))
	}
	if !from.CanTransitionTo(to) {
		return apperrors.ErrInvalidTransition.WithDetail("%s -> %s", from, to)
	}
	return nil
}

func (s Stage) IsTerminal() bool {
	return len(s.Next()) == 0
}

// IsReopen reports whether from -> to re-opens a closed deal.
func IsReopen(from, to Stage) bool {
	return (from == Declined || from == Dead) && to == NewLead
}

// CarriesOffer reports whether a deal in stage s may hold approved offer terms.
func (s Stage) CarriesOffer() bool {
	switch s {
	case Approved, ContractSent, ContractSigned, Funded:
		return true
	}
	return false
}
