package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/example/gallery-booking/internal/application"
)

type catalogService interface {
	ListPaintings(ctx context.Context) ([]application.Painting, error)
	CreatePainting(ctx context.Context, input application.PaintingInput) (application.Painting, error)
}

type PaintingHandler struct {
	service   catalogService
	responder responder
	logger    *slog.Logger
}

func NewPaintingHandler(service catalogService, logger *slog.Logger) *PaintingHandler {
	base := defaultLogger(logger)
	return &PaintingHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *PaintingHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return handlerLogger(ctx, h.logger, "PaintingHandler", operation, attrs...)
}

func (h *PaintingHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "List")
	paintings, err := h.service.ListPaintings(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "painting list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(paintings)).DebugContext(r.Context(), "paintings listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listPaintingsResponse{Paintings: toPaintingDTOs(paintings)})
}

func (h *PaintingHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var input application.PaintingInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode painting request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create")
	painting, err := h.service.CreatePainting(r.Context(), input)
	if err != nil {
		logger.WarnContext(r.Context(), "painting creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("painting_id", painting.ID).InfoContext(r.Context(), "painting created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, paintingResponse{Painting: toPaintingDTO(painting)})
}

type paintingResponse struct {
	Painting paintingDTO `json:"painting"`
}

type listPaintingsResponse struct {
	Paintings []paintingDTO `json:"paintings"`
}
