// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/MKhiriev/go-tool-keeper/internal/app"
	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	"github.com/MKhiriev/go-tool-keeper/internal/utils"
	"github.com/MKhiriev/go-tool-keeper/models"
)

const (
	signatureHeader = "X-Signature"

	// maxWebhookBody caps the size of a gateway notification.
	maxWebhookBody = 1 << 20
)

func (h *Handler) createPayment(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	login, ok := utils.GetLoginFromContext(r.Context())
	if !ok {
		log.Error().Str("func", "*Handler.createPayment").Msg("no login in context")
		utils.WriteError(w, app.MsgTokenIsExpiredOrInvalid, http.StatusUnauthorized)
		return
	}

	var req models.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.createPayment").Msg("Invalid JSON was passed")
		utils.WriteError(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}

	resp, err := h.services.PaymentService.CreatePayment(r.Context(), login, req)
	if err != nil {
		writeError(w, r, "*Handler.createPayment", err)
		return
	}

	_, _ = utils.WriteJSON(w, resp, http.StatusCreated)
}

// paymentWebhook hands the raw body to the payment service; the signature
// covers the exact bytes sent by the gateway.
func (h *Handler) paymentWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		logger.FromRequest(r).Err(err).Str("func", "*Handler.paymentWebhook").Msg("failed to read request body")
		utils.WriteError(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}

	if err = h.services.PaymentService.HandleWebhook(r.Context(), body, r.Header.Get(signatureHeader)); err != nil {
		writeError(w, r, "*Handler.paymentWebhook", err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
