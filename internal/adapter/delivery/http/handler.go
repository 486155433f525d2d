package http

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"time"

	"address-inspector/internal/application/port"
	"address-inspector/internal/domain"
	"address-inspector/internal/pkg/apperrors"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// defaultKeepAlive bounds how long a stream stays silent before repeating the current snapshot.
const defaultKeepAlive = 15 * time.Second

type lookupRequest struct {
	Input string `json:"input"`
}

type lookupCreated struct {
	ID string `json:"id"`
}

type LookupHandler struct {
	service   port.LookupService
	logger    *zap.Logger
	keepAlive time.Duration
}

func NewLookupHandler(service port.LookupService, logger *zap.Logger) *LookupHandler {
	return &LookupHandler{
		service:   service,
		logger:    logger.Named("LookupHandler"),
		keepAlive: defaultKeepAlive,
	}
}

// CreateLookup starts a lookup for the posted input and returns its id.
func (h *LookupHandler) CreateLookup(ctx *fasthttp.RequestCtx) {
	input, ok := h.decodeInput(ctx)
	if !ok {
		return
	}

	id, err := h.service.StartLookup(ctx, input)
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	ctx.Response.Header.Set("Location", "/lookups/"+id)
	h.writeJSON(ctx, fasthttp.StatusAccepted, lookupCreated{ID: id})
}

// RestartLookup cancels the lookup's active run and starts a new one for the posted input.
func (h *LookupHandler) RestartLookup(ctx *fasthttp.RequestCtx) {
	id, ok := h.lookupID(ctx)
	if !ok {
		return
	}
	input, ok := h.decodeInput(ctx)
	if !ok {
		return
	}

	if err := h.service.RestartLookup(ctx, id, input); err != nil {
		h.writeError(ctx, err)
		return
	}
	h.writeJSON(ctx, fasthttp.StatusAccepted, lookupCreated{ID: id})
}

// GetLookup returns the current snapshot of a lookup.
func (h *LookupHandler) GetLookup(ctx *fasthttp.RequestCtx) {
	id, ok := h.lookupID(ctx)
	if !ok {
		return
	}

	snap, err := h.service.GetLookup(ctx, id)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	h.writeJSON(ctx, fasthttp.StatusOK, snap)
}

// DeleteLookup stops a lookup and removes it.
func (h *LookupHandler) DeleteLookup(ctx *fasthttp.RequestCtx) {
	id, ok := h.lookupID(ctx)
	if !ok {
		return
	}

	if err := h.service.DeleteLookup(ctx, id); err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.SetStatusCode(fasthttp.StatusNoContent)
}

// StreamLookup writes one JSON snapshot per line on every change until the run ends.
func (h *LookupHandler) StreamLookup(ctx *fasthttp.RequestCtx) {
	id, ok := h.lookupID(ctx)
	if !ok {
		return
	}

	snap, changed, err := h.service.WatchLookup(ctx, id)
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	ctx.SetContentType("application/x-ndjson")
	ctx.Response.Header.Set("Cache-Control", "no-cache")
	// RequestCtx must not be used once the handler returns.
	ctx.SetBodyStreamWriter(func(w *bufio.Writer) {
		enc := json.NewEncoder(w)
		for {
			if err := enc.Encode(snap); err != nil {
				h.logger.Debug("Failed to encode snapshot", zap.String("lookupId", id), zap.Error(err))
				return
			}
			if err := w.Flush(); err != nil {
				h.logger.Debug("Stream client went away", zap.String("lookupId", id), zap.Error(err))
				return
			}
			if snap.Finished() {
				return
			}

			select {
			case <-changed:
			case <-time.After(h.keepAlive):
			}

			snap, changed, err = h.service.WatchLookup(context.Background(), id)
			if err != nil {
				h.logger.Debug("Lookup disappeared while streaming", zap.String("lookupId", id), zap.Error(err))
				return
			}
		}
	})
}

// ListNetworks returns the network registry in order.
func (h *LookupHandler) ListNetworks(ctx *fasthttp.RequestCtx) {
	h.writeJSON(ctx, fasthttp.StatusOK, h.service.ListNetworks(ctx))
}

func (h *LookupHandler) lookupID(ctx *fasthttp.RequestCtx) (string, bool) {
	id, ok := ctx.UserValue("id").(string)
	if !ok || id == "" {
		h.logger.Error("Failed to get lookup id from context")
		ctx.Error("Bad Request: Invalid lookup id", fasthttp.StatusBadRequest)
		return "", false
	}
	return id, true
}

func (h *LookupHandler) decodeInput(ctx *fasthttp.RequestCtx) (string, bool) {
	var req lookupRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.logger.Debug("Failed to decode lookup request", zap.Error(err))
		ctx.Error("Bad Request: Invalid JSON body", fasthttp.StatusBadRequest)
		return "", false
	}
	return req.Input, true
}

func (h *LookupHandler) writeError(ctx *fasthttp.RequestCtx, err error) {
	switch {
	case errors.Is(err, domain.ErrLookupNotFound), errors.Is(err, apperrors.ErrNotFound):
		ctx.Error("Not Found", fasthttp.StatusNotFound)
	case errors.Is(err, apperrors.ErrInvalidInput):
		ctx.Error("Bad Request: "+err.Error(), fasthttp.StatusBadRequest)
	default:
		h.logger.Error("Request failed", zap.ByteString("uri", ctx.RequestURI()), zap.Error(err))
		ctx.Error("Internal Server Error", fasthttp.StatusInternalServerError)
	}
}

func (h *LookupHandler) writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	if err := json.NewEncoder(ctx).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
		// Response already started, can't set error code
	}
}
