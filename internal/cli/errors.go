package cli

import (
	"errors"
	"fmt"

	"swcommons/internal/ui"
	"swcommons/internal/views"
	"swcommons/pkg/models"
)

// usageError is a mistake in the command line itself
type usageError string

func (e usageError) Error() string { return string(e) }

func usagef(format string, args ...interface{}) error {
	return usageError(fmt.Sprintf(format, args...))
}

// failure renders err for the operator. Typed record errors get the user
// message; anything else is a cobra or local error and is printed as is.
func failure(d *ui.Display, err error) string {
	var usage usageError
	var unknown *models.UnknownError
	switch {
	case errors.Is(err, views.ErrAdminMode):
		return "✗ Admin mode is off. Run 'swctl admin on' first.\n"
	case errors.As(err, &usage):
		return fmt.Sprintf("Error: %s\n", usage)
	case errors.As(err, &unknown):
		return d.Failure(err) + fmt.Sprintf("  %v\n", err)
	case models.Classify(err) != models.KindUnknown:
		return d.Failure(err)
	}
	return fmt.Sprintf("Error: %v\n", err)
}
