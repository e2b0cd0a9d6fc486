package auction

import "errors"

// Kind classifies a failure so transports can map it without knowing every
// individual error.
type Kind uint8

const (
	KindInternal Kind = iota
	KindNotFound
	KindForbidden
	KindRule
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindRule:
		return "rule_violation"
	case KindInvalid:
		return "invalid"
	default:
		return "internal"
	}
}

// Error is a typed domain failure. Compare with errors.Is against the
// package-level values.
type Error struct {
	kind Kind
	msg  string
}

func (e *Error) Error() string { return e.msg }
func (e *Error) Kind() Kind    { return e.kind }

func newError(k Kind, msg string) *Error { return &Error{kind: k, msg: msg} }

// Invalid builds a KindInvalid failure with a custom message, used for
// field-level validation.
func Invalid(msg string) error { return newError(KindInvalid, msg) }

// KindOf reports the kind of err, or KindInternal for anything that is not a
// domain failure.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.kind
	}
	return KindInternal
}

var (
	ErrAuctionNotFound      = newError(KindNotFound, "auction not found")
	ErrBidNotFound          = newError(KindNotFound, "bid not found")
	ErrNotificationNotFound = newError(KindNotFound, "notification not found")

	ErrUserNotFound      = newError(KindForbidden, "user not found")
	ErrNotSeller         = newError(KindForbidden, "only the seller can modify this auction")
	ErrNotSellerOrAdmin  = newError(KindForbidden, "only the seller or an admin can end this auction")
	ErrSellerCannotBid   = newError(KindRule, "seller cannot bid on own auction")
	ErrAuctionNotActive  = newError(KindRule, "auction is not active")
	ErrAuctionClosed     = newError(KindRule, "auction end time has passed")
	ErrAuctionSold       = newError(KindRule, "auction already sold")
	ErrBidTooLow         = newError(KindRule, "bid amount below minimum acceptable bid")
	ErrNoBids            = newError(KindRule, "auction has no bids")
	ErrNoWinningBid      = newError(KindRule, "no winning bid found")
	ErrNotEnding         = newError(KindRule, "auction end time is more than 5 minutes away")
	ErrIllegalTransition = newError(KindRule, "invalid status transition")
	ErrAuctionHasBids    = newError(KindRule, "cannot delete an auction that has bids")

	ErrInvalidAmount    = newError(KindInvalid, "amount must be greater than 0")
	ErrAmountScale      = newError(KindInvalid, "amounts allow at most 2 decimal places")
	ErrInvalidIncrement = newError(KindInvalid, "minimum bid increment must be greater than 0 and less than starting price")
	ErrInvalidEndTime   = newError(KindInvalid, "end time must be between 1 hour and 30 days from now")
	ErrInvalidCategory  = newError(KindInvalid, "invalid category")
	ErrInvalidCurrency  = newError(KindInvalid, "unsupported currency")
	ErrInvalidStatus    = newError(KindInvalid, "unknown auction status")
	ErrTooManyMedia     = newError(KindInvalid, "maximum 10 images allowed")
	ErrMissingMedia     = newError(KindInvalid, "at least one image is required")
)
