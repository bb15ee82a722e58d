// MsgVault - Message Record Management REST API
// Copyright 2026 MsgVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msgvault/msgvault

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/msgvault/msgvault/internal/logging"
	"github.com/msgvault/msgvault/internal/models"
	"github.com/msgvault/msgvault/internal/store"
)

// ListMessages handles GET /api/messages. Results are paginated and
// sorted newest first; page and size query parameters are clamped to
// configured bounds rather than rejected.
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}
	size := queryInt(r, "size", h.apiCfg.DefaultPageSize)
	if size < 1 {
		size = h.apiCfg.DefaultPageSize
	}
	if size > h.apiCfg.MaxPageSize {
		size = h.apiCfg.MaxPageSize
	}

	items, total, err := h.store.ListMessages(r.Context(), page, size)
	if err != nil {
		rw.InternalError(err)
		return
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + size - 1) / size
	}

	rw.Success(models.MessagePage{
		Items:      items,
		Page:       page,
		Size:       size,
		Total:      total,
		TotalPages: totalPages,
	})
}

// GetMessage handles GET /api/messages/{id}.
func (h *Handler) GetMessage(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, ok := pathID(r)
	if !ok {
		rw.NotFound("Message not found")
		return
	}

	msg, err := h.store.MessageByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rw.NotFound("Message not found")
			return
		}
		rw.InternalError(err)
		return
	}

	rw.Success(msg)
}

// CreateMessage handles POST /api/messages. Admin only; a code that is
// already in use yields 409.
func (h *Handler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req models.CreateMessageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.ValidationError("Invalid request body", nil)
		return
	}
	if verr := validateRequest(&req); verr != nil {
		rw.ValidationError(verr.Message, verr.Details)
		return
	}

	msg := &models.Message{Code: req.Code, Content: req.Content}
	if err := h.store.CreateMessage(r.Context(), msg); err != nil {
		if errors.Is(err, store.ErrDuplicateCode) {
			rw.Conflict("Message code already in use")
			return
		}
		rw.InternalError(err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Int64("message_id", msg.ID).
		Str("code", msg.Code).
		Msg("Message created")

	rw.Created(msg)
}

// UpdateMessage handles PUT /api/messages/{id}. Only the content can
// change; the code is immutable after creation.
func (h *Handler) UpdateMessage(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, ok := pathID(r)
	if !ok {
		rw.NotFound("Message not found")
		return
	}

	var req models.UpdateMessageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.ValidationError("Invalid request body", nil)
		return
	}
	if verr := validateRequest(&req); verr != nil {
		rw.ValidationError(verr.Message, verr.Details)
		return
	}

	msg, err := h.store.UpdateMessage(r.Context(), id, req.Content)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rw.NotFound("Message not found")
			return
		}
		rw.InternalError(err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Int64("message_id", msg.ID).
		Msg("Message updated")

	rw.Success(msg)
}

// DeleteMessage handles DELETE /api/messages/{id}.
func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, ok := pathID(r)
	if !ok {
		rw.NotFound("Message not found")
		return
	}

	if err := h.store.DeleteMessage(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rw.NotFound("Message not found")
			return
		}
		rw.InternalError(err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Int64("message_id", id).
		Msg("Message deleted")

	rw.NoContent()
}

// pathID parses the {id} route parameter. A non-numeric or
// non-positive id behaves like a missing record.
func pathID(r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// queryInt parses an integer query parameter, falling back to def when
// absent or malformed.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
