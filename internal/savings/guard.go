package savings

import (
	"fmt"
)

// Authorize applies the owner-or-admin rule. Users are compared by their
// stable identifier; an empty identifier never owns anything.
func Authorize(actingUserID, ownerUserID string, isAdmin bool) error {
	if isAdmin {
		return nil
	}
	if actingUserID != "" && actingUserID == ownerUserID {
		return nil
	}
	return fmt.Errorf("%w: user %q does not own the account", ErrForbidden, actingUserID)
}
