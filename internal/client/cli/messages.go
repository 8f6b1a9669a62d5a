package cli

import (
	"errors"

	"github.com/dmitrijs2005/kaanoon/internal/client/client"
	"github.com/dmitrijs2005/kaanoon/internal/client/models"
	"github.com/dmitrijs2005/kaanoon/internal/client/otp"
	"github.com/dmitrijs2005/kaanoon/internal/client/session"
)

// userMessage turns an operation error into the line shown to the user.
func userMessage(err error) string {
	var (
		ve *models.ValidationError
		re *client.RequestError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return ve.Message
	case errors.Is(err, otp.ErrDraftMissing):
		return "Session expired. Please sign up again."
	case errors.Is(err, otp.ErrMissingEmail):
		return "Please sign up first."
	case errors.Is(err, session.ErrBusy):
		return "Still working on the previous request, please wait."
	case errors.Is(err, session.ErrLoginFailed):
		return "Failed to complete login"
	case errors.As(err, &re):
		return re.Error()
	default:
		return err.Error()
	}
}

func printError(err error) {
	printlnFn("Error:", userMessage(err))
}
