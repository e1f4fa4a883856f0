// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/MKhiriev/go-tool-keeper/internal/app"
	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	"github.com/MKhiriev/go-tool-keeper/internal/utils"
	"github.com/MKhiriev/go-tool-keeper/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) insertRow(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")

	record, ok := decodeRecord(w, r, "*Handler.insertRow")
	if !ok {
		return
	}

	created, err := h.services.TableService.Insert(r.Context(), table, record)
	if err != nil {
		writeError(w, r, "*Handler.insertRow", err)
		return
	}

	_, _ = utils.WriteJSON(w, created, http.StatusCreated)
}

func (h *Handler) updateRow(w http.ResponseWriter, r *http.Request) {
	table, id := chi.URLParam(r, "table"), chi.URLParam(r, "id")

	record, ok := decodeRecord(w, r, "*Handler.updateRow")
	if !ok {
		return
	}

	updated, err := h.services.TableService.Update(r.Context(), table, id, record)
	if err != nil {
		writeError(w, r, "*Handler.updateRow", err)
		return
	}

	_, _ = utils.WriteJSON(w, updated, http.StatusOK)
}

func (h *Handler) deleteRow(w http.ResponseWriter, r *http.Request) {
	table, id := chi.URLParam(r, "table"), chi.URLParam(r, "id")

	if err := h.services.TableService.Delete(r.Context(), table, id); err != nil {
		writeError(w, r, "*Handler.deleteRow", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) selectRows(w http.ResponseWriter, r *http.Request) {
	req, err := parseSelectRequest(r)
	if err != nil {
		logger.FromRequest(r).Warn().Err(err).Str("func", "*Handler.selectRows").Msg("invalid query")
		utils.WriteError(w, app.MsgInvalidQuery, http.StatusBadRequest)
		return
	}

	records, err := h.services.TableService.Select(r.Context(), req)
	if err != nil {
		writeError(w, r, "*Handler.selectRows", err)
		return
	}
	if records == nil {
		records = []models.Record{}
	}

	_, _ = utils.WriteJSON(w, records, http.StatusOK)
}

func decodeRecord(w http.ResponseWriter, r *http.Request, funcName string) (models.Record, bool) {
	var record models.Record
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&record); err != nil {
		logger.FromRequest(r).Err(err).Str("func", funcName).Msg("Invalid JSON was passed")
		utils.WriteError(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return nil, false
	}
	return record, true
}

// parseSelectRequest reads id, since (RFC 3339), limit and offset from the
// query string.
func parseSelectRequest(r *http.Request) (models.SelectRequest, error) {
	query := r.URL.Query()
	req := models.SelectRequest{
		Table: chi.URLParam(r, "table"),
		ID:    query.Get("id"),
	}

	if raw := query.Get("since"); raw != "" {
		since, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return models.SelectRequest{}, fmt.Errorf("since: %w", err)
		}
		req.Since = &since
	}

	var err error
	if req.Limit, err = parseUint(query.Get("limit")); err != nil {
		return models.SelectRequest{}, fmt.Errorf("limit: %w", err)
	}
	if req.Offset, err = parseUint(query.Get("offset")); err != nil {
		return models.SelectRequest{}, fmt.Errorf("offset: %w", err)
	}

	return req, nil
}

func parseUint(raw string) (uint64, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseUint(raw, 10, 64)
}
