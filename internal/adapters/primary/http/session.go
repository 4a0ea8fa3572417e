package http

import (
	"net/http"

	mw "github.com/lorrc/ticket-insights/internal/adapters/primary/http/middleware"
	"github.com/lorrc/ticket-insights/internal/core/domain"
	apperrors "github.com/lorrc/ticket-insights/internal/core/errors"
)

// requireSession returns the session resolved by the session middleware,
// writing a 401 when the route was mounted without it.
func requireSession(w http.ResponseWriter, r *http.Request, errorHandler *ErrorHandler) (*domain.Session, bool) {
	session, ok := mw.GetSession(r.Context())
	if !ok {
		errorHandler.Handle(w, r, apperrors.ErrUnauthorized)
		return nil, false
	}
	return session, true
}
