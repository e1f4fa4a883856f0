package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-tool-keeper/internal/app"
	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	"github.com/MKhiriev/go-tool-keeper/internal/service"
	"github.com/MKhiriev/go-tool-keeper/internal/utils"
)

// auth is an HTTP middleware that enforces JWT-based authentication.
//
// It extracts the bearer token from the "Authorization" header, validates
// it via [service.AuthService.ParseToken] and stores the login of the
// token subject in the request context (see [utils.WithLogin]).
//
// Requests are rejected with 401 when the header is missing or malformed,
// or when the token is expired or invalid. The JSON error body carries
// [app.MsgTokenIsExpired] for expired tokens and
// [app.MsgTokenIsExpiredOrInvalid] otherwise.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		tokenString, err := getTokenFromAuthHeader(r.Header.Get("Authorization"))
		if err != nil {
			log.Err(err).Str("func", "*Handler.auth").Send()
			utils.WriteError(w, app.MsgTokenIsExpiredOrInvalid, http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		token, err := h.services.AuthService.ParseToken(ctx, tokenString)
		if err != nil {
			if errors.Is(err, service.ErrTokenIsExpired) {
				log.Err(err).Str("func", "*Handler.auth").Msg("token expired")
				utils.WriteError(w, app.MsgTokenIsExpired, http.StatusUnauthorized)
				return
			}
			log.Err(err).Str("func", "*Handler.auth").Msg("error occurred during parsing token")
			utils.WriteError(w, app.MsgTokenIsExpiredOrInvalid, http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(utils.WithLogin(ctx, token.Login)))
	})
}

// getTokenFromAuthHeader extracts the token of a "Bearer <token>" header
// value.
//
// It returns:
//   - [ErrEmptyAuthorizationHeader] if the header is empty.
//   - [ErrInvalidAuthorizationHeader] if the scheme is not Bearer or the
//     value has no token part.
//   - [ErrEmptyToken] if the token part is blank.
func getTokenFromAuthHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrEmptyAuthorizationHeader
	}

	scheme, tokenString, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrInvalidAuthorizationHeader
	}

	if strings.TrimSpace(tokenString) == "" {
		return "", ErrEmptyToken
	}

	return strings.TrimSpace(tokenString), nil
}
