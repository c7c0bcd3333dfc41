package errors

import "net/http"

var (
	ErrInvalidTransition = &DomainError{
		Code:    "INVALID_TRANSITION",
		Message: "stage transition not allowed",
		Status:  http.StatusUnprocessableEntity,
	}
	ErrInvalidStage = &DomainError{
		Code:    "INVALID_STAGE",
		Message: "unknown deal stage",
		Status:  http.StatusBadRequest,
	}
	ErrInvalidOfferInput = &DomainError{
		Code:    "INVALID_OFFER_INPUT",
		Message: "invalid offer input",
		Status:  http.StatusUnprocessableEntity,
	}
	ErrInvalidDecision = &DomainError{
		Code:    "INVALID_DECISION",
		Message: "invalid underwriting decision",
		Status:  http.StatusBadRequest,
	}
	ErrDealNotFound = &DomainError{
		Code:    "DEAL_NOT_FOUND",
		Message: "deal not found",
		Status:  http.StatusNotFound,
	}
	ErrMerchantNotFound = &DomainError{
		Code:    "MERCHANT_NOT_FOUND",
		Message: "merchant not found",
		Status:  http.StatusNotFound,
	}
	ErrConcurrentModification = &DomainError{
		Code:    "CONCURRENT_MODIFICATION",
		Message: "deal was modified by another request",
		Status:  http.StatusConflict,
	}
)
