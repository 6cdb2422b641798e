package handler

import (
	"errors"

	"github.com/glizzus/goonbot/internal/apperr"
)

const internalErrorMessage = "Something went wrong, try again later."

// userMessage is what a Discord user is told about err. Errors without a kind
// are not shown.
func userMessage(err error) string {
	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Kind != apperr.KindInternal && appErr.Kind != apperr.KindStore {
		return appErr.Message
	}
	return internalErrorMessage
}
