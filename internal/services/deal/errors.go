package deal

import apperrors "mcadesk/internal/errors"

var (
	ErrInvalidTransition      = apperrors.ErrInvalidTransition
	ErrInvalidOfferInput      = apperrors.ErrInvalidOfferInput
	ErrInvalidDecision        = apperrors.ErrInvalidDecision
	ErrDealNotFound           = apperrors.ErrDealNotFound
	ErrConcurrentModification = apperrors.ErrConcurrentModification
)
