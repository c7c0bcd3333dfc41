package merchant

import apperrors "mcadesk/internal/errors"

var (
	ErrMerchantNotFound = apperrors.ErrMerchantNotFound
	ErrInvalidMerchant  = apperrors.ErrValidation
)
