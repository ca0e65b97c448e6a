package notifications

import (
	"errors"
	"fmt"

	"github.com/travo-app/travo-server/internal/models"
)

// ValidationError reports a Notify call that is missing a field its kind
// requires, or that uses an unknown kind.
type ValidationError struct {
	Kind  models.NotificationKind
	Field string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("unknown notification kind %q", e.Kind)
	}
	return fmt.Sprintf("notification kind %q requires %s", e.Kind, e.Field)
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
