package model

import "errors"

var (
	ErrInvalidRange                = errors.New("invalid date range")
	ErrInvalidSubjectConfiguration = errors.New("invalid subject configuration")
	ErrUnknownSubjectReference     = errors.New("unknown subject reference")
	ErrUnbalancedInput             = errors.New("trial balance does not balance")
	ErrUnapprovedVoucher           = errors.New("voucher is not approved")
	ErrUnknownCategory             = errors.New("unknown category")
	ErrUnknownFundAccount          = errors.New("unknown fund account")
)
