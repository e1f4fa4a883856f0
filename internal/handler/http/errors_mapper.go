package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-tool-keeper/internal/app"
	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	"github.com/MKhiriev/go-tool-keeper/internal/service"
	"github.com/MKhiriev/go-tool-keeper/internal/store"
	"github.com/MKhiriev/go-tool-keeper/internal/utils"
	"github.com/MKhiriev/go-tool-keeper/internal/validators"
)

type errorReply struct {
	status  int
	message string
}

// errorStatusMap is checked in order; the first match wins.
var errorStatusMap = []struct {
	target error
	reply  errorReply
}{
	{validators.ErrUnknownTable, errorReply{http.StatusBadRequest, app.MsgUnknownTable}},
	{store.ErrUnknownTable, errorReply{http.StatusBadRequest, app.MsgUnknownTable}},
	{validators.ErrEmptyData, errorReply{http.StatusBadRequest, app.MsgNoRecordProvided}},
	{validators.ErrLimitTooLarge, errorReply{http.StatusBadRequest, app.MsgInvalidQuery}},
	{validators.ErrMissingID, errorReply{http.StatusBadRequest, app.MsgInvalidDataProvided}},
	{service.ErrInvalidDataProvided, errorReply{http.StatusBadRequest, app.MsgInvalidDataProvided}},
	{service.ErrMalformedWebhookEvent, errorReply{http.StatusBadRequest, app.MsgInvalidDataProvided}},

	{service.ErrWrongPassword, errorReply{http.StatusUnauthorized, app.MsgInvalidLoginPassword}},
	{store.ErrNoUserWasFound, errorReply{http.StatusUnauthorized, app.MsgInvalidLoginPassword}},
	{service.ErrTokenIsExpired, errorReply{http.StatusUnauthorized, app.MsgTokenIsExpired}},
	{service.ErrTokenIsExpiredOrInvalid, errorReply{http.StatusUnauthorized, app.MsgTokenIsExpiredOrInvalid}},
	{service.ErrInvalidSignature, errorReply{http.StatusUnauthorized, app.MsgInvalidSignature}},

	{store.ErrRecordNotFound, errorReply{http.StatusNotFound, app.MsgRecordNotFound}},
	{store.ErrLoginAlreadyExists, errorReply{http.StatusConflict, app.MsgLoginAlreadyExists}},
	{store.ErrRecordAlreadyExists, errorReply{http.StatusConflict, app.MsgRecordAlreadyExists}},

	{service.ErrPaymentGatewayFailed, errorReply{http.StatusBadGateway, app.MsgPaymentGatewayFailed}},
}

func replyFromError(err error) errorReply {
	for _, entry := range errorStatusMap {
		if errors.Is(err, entry.target) {
			return entry.reply
		}
	}
	return errorReply{http.StatusInternalServerError, app.MsgInternalServerError}
}

func statusFromError(err error) int {
	return replyFromError(err).status
}

// writeError logs err and writes the mapped JSON error body.
func writeError(w http.ResponseWriter, r *http.Request, funcName string, err error) {
	reply := replyFromError(err)

	event := logger.FromRequest(r).Warn()
	if reply.status >= http.StatusInternalServerError {
		event = logger.FromRequest(r).Error()
	}
	event.Err(err).Str("func", funcName).Int("status", reply.status).Send()

	utils.WriteError(w, reply.message, reply.status)
}
