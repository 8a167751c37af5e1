package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/example/gallery-booking/internal/application"
)

type exhibitionService interface {
	Get(ctx context.Context, exhibitionID string) (application.ExhibitionDetails, error)
	List(ctx context.Context) ([]application.ExhibitionDetails, error)
	Delete(ctx context.Context, exhibitionID string) error
}

type bookingCoordinator interface {
	BeginNew(ctx context.Context) (*application.BookingSession, error)
	BeginExisting(ctx context.Context, exhibitionID string) (*application.BookingSession, error)
}

// ExhibitionHandler serves exhibition reads and drives one booking session
// per create or update request.
type ExhibitionHandler struct {
	service   exhibitionService
	coord     bookingCoordinator
	responder responder
	logger    *slog.Logger
}

func NewExhibitionHandler(service exhibitionService, coord bookingCoordinator, logger *slog.Logger) *ExhibitionHandler {
	base := defaultLogger(logger)
	return &ExhibitionHandler{service: service, coord: coord, responder: newResponder(base), logger: base}
}

func (h *ExhibitionHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return handlerLogger(ctx, h.logger, "ExhibitionHandler", operation, attrs...)
}

func (h *ExhibitionHandler) ready(w http.ResponseWriter) bool {
	if h == nil || h.service == nil || h.coord == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return false
	}
	return true
}

func (h *ExhibitionHandler) List(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	list, err := h.service.List(r.Context())
	if err != nil {
		h.log(r.Context(), "List").ErrorContext(r.Context(), "exhibition list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]exhibitionDTO, 0, len(list))
	for _, details := range list {
		out = append(out, toExhibitionDTO(details))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listExhibitionsResponse{Exhibitions: out})
}

func (h *ExhibitionHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	exhibitionID := strings.TrimSpace(chi.URLParam(r, "id"))
	details, err := h.service.Get(r.Context(), exhibitionID)
	if err != nil {
		h.log(r.Context(), "Get", "exhibition_id", exhibitionID).WarnContext(r.Context(), "exhibition lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, exhibitionResponse{Exhibition: toExhibitionDTO(details)})
}

func (h *ExhibitionHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	var req exhibitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode exhibition request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create")
	session, err := h.coord.BeginNew(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	details, err := h.apply(r.Context(), session, req)
	if err != nil {
		logger.WarnContext(r.Context(), "exhibition not created", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("exhibition_id", details.Exhibition.ID).InfoContext(r.Context(), "exhibition created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, exhibitionResponse{Exhibition: toExhibitionDTO(details)})
}

func (h *ExhibitionHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	exhibitionID := strings.TrimSpace(chi.URLParam(r, "id"))
	if exhibitionID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidExhibitionID)
		return
	}

	var req exhibitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "exhibition_id", exhibitionID, "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode exhibition update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "exhibition_id", exhibitionID)
	session, err := h.coord.BeginExisting(r.Context(), exhibitionID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	details, err := h.apply(r.Context(), session, req)
	if err != nil {
		logger.WarnContext(r.Context(), "exhibition not updated", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "exhibition updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, exhibitionResponse{Exhibition: toExhibitionDTO(details)})
}

func (h *ExhibitionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	exhibitionID := strings.TrimSpace(chi.URLParam(r, "id"))
	logger := h.log(r.Context(), "Delete", "exhibition_id", exhibitionID)
	if err := h.service.Delete(r.Context(), exhibitionID); err != nil {
		logger.WarnContext(r.Context(), "exhibition delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "exhibition deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// apply replays the request against session: details, then dates, then the
// painting selection reconciled through RemovePainting and AddPainting, then
// Save. The session is cancelled when any step fails.
func (h *ExhibitionHandler) apply(ctx context.Context, session *application.BookingSession, req exhibitionRequest) (details application.ExhibitionDetails, err error) {
	defer func() {
		if err != nil {
			_ = session.Cancel()
		}
	}()

	if err = session.SetDetails(req.toInput()); err != nil {
		return
	}

	start, err := parseOptionalDate("start_date", req.StartDate)
	if err != nil {
		return
	}
	end, err := parseOptionalDate("end_date", req.EndDate)
	if err != nil {
		return
	}
	if err = session.SetPeriod(ctx, start, end); err != nil {
		return
	}

	wanted := dedupe(req.Paintings)
	for _, pid := range session.SelectedIDs() {
		if !slices.Contains(wanted, pid) {
			if err = session.RemovePainting(pid); err != nil {
				return
			}
		}
	}
	for _, pid := range wanted {
		if session.IsSelected(pid) {
			continue
		}
		if err = session.AddPainting(ctx, pid); err != nil {
			if errors.Is(err, application.ErrNotFound) {
				err = &application.ValidationError{FieldErrors: map[string]string{"paintings": "unknown painting " + pid}}
			}
			return
		}
	}

	return session.Save(ctx)
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

type exhibitionRequest struct {
	Name        string   `json:"name"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	Paintings   []string `json:"paintings"`
}

func (r exhibitionRequest) toInput() application.ExhibitionInput {
	return application.ExhibitionInput{
		Name:        r.Name,
		Location:    r.Location,
		Description: r.Description,
	}
}

type exhibitionResponse struct {
	Exhibition exhibitionDTO `json:"exhibition"`
}

type listExhibitionsResponse struct {
	Exhibitions []exhibitionDTO `json:"exhibitions"`
}
