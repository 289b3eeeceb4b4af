package menutree

import "errors"

var (
	ErrDayNotFound      = errors.New("day not found")
	ErrShiftNotFound    = errors.New("shift not found")
	ErrVariantNotFound  = errors.New("variant not found")
	ErrMenuItemNotFound = errors.New("menu item not found")

	ErrDuplicateDate    = errors.New("a menu for this date already exists")
	ErrInvalidDate      = errors.New("date must be YYYY-MM-DD")
	ErrDuplicateShift   = errors.New("day already has this shift")
	ErrInvalidShiftType = errors.New("shift type must be lunch or dinner")
	ErrTodayPinned      = errors.New("today's menu cannot be removed")
	ErrLastMenuItem     = errors.New("a variant keeps at least one menu item")
	ErrInvalidPrice     = errors.New("price must be a non-negative number")
	ErrNotImage         = errors.New("data is not an image")

	ErrUnknownField = errors.New("unknown variant field")
	ErrUnknownOp    = errors.New("unknown edit operation")

	ErrInvalidSnapshot = errors.New("invalid menu snapshot")
)

// IsUserError reports whether err is a constraint violation an admin can
// trigger from the UI. Those are reported as no-ops; anything else is a bug
// in the caller.
func IsUserError(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrUnknownField) && !errors.Is(err, ErrUnknownOp)
}
