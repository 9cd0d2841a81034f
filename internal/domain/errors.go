package domain

import "errors"

var (
	ErrExpiryDateRequired      = errors.New("expiry date is required")
	ErrRejectionReasonRequired = errors.New("rejection reason is required")
	ErrPolicyCancelled         = errors.New("policy is cancelled")
	ErrDocumentRequired        = errors.New("document reference is required")
	ErrTrailerNotAvailable     = errors.New("trailer is not available for lease")
	ErrTrailerNotLeased        = errors.New("trailer is not currently leased")
)
