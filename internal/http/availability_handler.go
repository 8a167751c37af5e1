package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/gallery-booking/internal/application"
	"github.com/example/gallery-booking/internal/booking"
)

type availabilityService interface {
	Compute(ctx context.Context, req application.AvailabilityRequest) (application.Availability, error)
}

type AvailabilityHandler struct {
	service   availabilityService
	responder responder
	logger    *slog.Logger
}

func NewAvailabilityHandler(service availabilityService, logger *slog.Logger) *AvailabilityHandler {
	base := defaultLogger(logger)
	return &AvailabilityHandler{service: service, responder: newResponder(base), logger: base}
}

// Get answers GET /availability?start=&end=&exclude=&selected=a,b.
func (h *AvailabilityHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()
	logger := handlerLogger(r.Context(), h.logger, "AvailabilityHandler", "Get", "exclude_exhibition_id", query.Get("exclude"))

	start, err := parseOptionalDate("start_date", query.Get("start"))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	end, err := parseOptionalDate("end_date", query.Get("end"))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	result, err := h.service.Compute(r.Context(), application.AvailabilityRequest{
		Start:               start,
		End:                 end,
		ExcludeExhibitionID: strings.TrimSpace(query.Get("exclude")),
		Selected:            splitIDs(query.Get("selected")),
	})
	if err != nil {
		logger.WarnContext(r.Context(), "availability failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toAvailabilityResponse(result))
}

func splitIDs(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

type availablePaintingDTO struct {
	paintingDTO
	Busy bool `json:"busy"`
}

type availabilityResponse struct {
	DatesRequired bool                   `json:"dates_required"`
	StartDate     string                 `json:"start_date,omitempty"`
	EndDate       string                 `json:"end_date,omitempty"`
	Paintings     []availablePaintingDTO `json:"paintings"`
}

func toAvailabilityResponse(a application.Availability) availabilityResponse {
	resp := availabilityResponse{
		DatesRequired: a.DatesRequired,
		Paintings:     make([]availablePaintingDTO, 0, len(a.Available)),
	}
	if !a.DatesRequired {
		resp.StartDate = a.Period.Start.Format(booking.DateLayout)
		resp.EndDate = a.Period.End.Format(booking.DateLayout)
	}
	for _, p := range a.Available {
		resp.Paintings = append(resp.Paintings, availablePaintingDTO{paintingDTO: toPaintingDTO(p), Busy: a.IsBusy(p.ID)})
	}
	return resp
}
