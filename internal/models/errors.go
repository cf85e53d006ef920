package rewards

import "errors"

// Типизированные ошибки ядра
var (
	ErrDependentNotFound      = errors.New("dependent not found")
	ErrInsufficientBalance    = errors.New("insufficient balance")
	ErrGiftNotFound           = errors.New("gift not found")
	ErrGiftNotOwned           = errors.New("gift is not owned by actor")
	ErrInvalidGiftTransition  = errors.New("invalid gift transition")
	ErrEntitlementUnavailable = errors.New("entitlement is not available")
)
