package schedule_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"ms-schedule/internal/logger"
	"ms-schedule/internal/models"
	"ms-schedule/internal/schedule"
	"ms-schedule/internal/schedule/db"
	"ms-schedule/internal/utils"
)

type Handler struct {
	ScheduleService *schedule.ScheduleService
	Logger          *logger.Logger
	validate        *validator.Validate
}

func NewHandler(service *schedule.ScheduleService, logger *logger.Logger) *Handler {
	return &Handler{
		ScheduleService: service,
		Logger:          logger,
		validate:        validator.New(),
	}
}

// slotRequest is the shared placement block of every event payload. The
// location list matches the fixed taxonomy; begin/end stay independent.
type slotRequest struct {
	Location  string     `json:"location" validate:"omitempty,oneof=1-r3 2-all 3-r012 4-r0 5-r1 6-r2"`
	BeginTime *time.Time `json:"begin_time"`
	EndTime   *time.Time `json:"end_time"`
}

func (r slotRequest) toSlot() models.EventSlot {
	return models.EventSlot{
		Location:  r.Location,
		BeginTime: r.BeginTime,
		EndTime:   r.EndTime,
	}
}

type customEventRequest struct {
	Title string `json:"title" validate:"required,max=140"`
	slotRequest
}

type keynoteEventRequest struct {
	SpeakerName string `json:"speaker_name" validate:"required,max=100"`
	Slug        string `json:"slug" validate:"omitempty,max=50"`
	slotRequest
}

type sponsoredEventRequest struct {
	Title    string `json:"title" validate:"required,max=140"`
	Category string `json:"category"`
	Language string `json:"language"`
	Abstract string `json:"abstract"`
	HostID   string `json:"host_id" validate:"required"`
	Slug     string `json:"slug" validate:"omitempty,max=100"`
	slotRequest
}

type talkEventRequest struct {
	ProposalID int64 `json:"proposal_id" validate:"required,gt=0"`
	slotRequest
}

type publishScheduleRequest struct {
	HTML string `json:"html" validate:"required"`
}

func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.Logger.Error("API", fmt.Sprintf("Failed to decode request body: %v", err))
		http.Error(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		h.Logger.Warn("API", fmt.Sprintf("Request validation failed: %v", err))
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Logger.Error("API", fmt.Sprintf("Failed to encode response: %v", err))
	}
}

func (h *Handler) serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, db.ErrEventNotFound),
		errors.Is(err, db.ErrTimeNotFound),
		errors.Is(err, db.ErrProposalNotFound),
		errors.Is(err, db.ErrScheduleNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, schedule.ErrProposalNotAccepted),
		errors.Is(err, models.ErrUnknownLocation):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// ---------------- TIMES ----------------

func (h *Handler) ListTimes(w http.ResponseWriter, r *http.Request) {
	times, err := h.ScheduleService.ListTimes()
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListTimes: %v", err))
		h.serviceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, times)
}

func (h *Handler) GetTime(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("value")
	value, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		http.Error(w, "value must be RFC3339", http.StatusBadRequest)
		return
	}

	t, err := h.ScheduleService.GetTime(value)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetTime: %v", err))
		h.serviceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, t)
}

// ---------------- LOCATIONS / DAYS ----------------

func (h *Handler) ListLocations(w http.ResponseWriter, r *http.Request) {
	type locationResponse struct {
		Code    string `json:"code"`
		Label   string `json:"label"`
		MDWidth int    `json:"md_width"`
	}

	resp := make([]locationResponse, 0, len(models.LocationChoices))
	for _, choice := range models.LocationChoices {
		width, err := models.MDWidth(choice.Code)
		if err != nil {
			h.serviceError(w, err)
			return
		}
		resp = append(resp, locationResponse{Code: choice.Code, Label: choice.Label, MDWidth: width})
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) ListDays(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, models.DayNames)
}

// ---------------- CUSTOM EVENTS ----------------

func (h *Handler) CreateCustomEvent(w http.ResponseWriter, r *http.Request) {
	var req customEventRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	created, err := h.ScheduleService.AddCustomEvent(models.CustomEvent{
		Title:     req.Title,
		EventSlot: req.toSlot(),
	})
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateCustomEvent: %v", err))
		h.serviceError(w, err)
		return
	}
	h.Logger.Info("API", fmt.Sprintf("CreateCustomEvent: created %s", created.ID))
	h.writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) GetCustomEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")

	ev, err := h.ScheduleService.GetCustomEvent(eventID)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, ev)
}

func (h *Handler) UpdateCustomEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")

	var req customEventRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	err := h.ScheduleService.UpdateCustomEvent(eventID, models.CustomEvent{
		Title:     req.Title,
		EventSlot: req.toSlot(),
	})
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateCustomEvent: %v", err))
		h.serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteCustomEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")

	if err := h.ScheduleService.RemoveCustomEvent(eventID); err != nil {
		h.Logger.Error("API", fmt.Sprintf("DeleteCustomEvent: %v", err))
		h.serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListCustomEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.ScheduleService.ListCustomEvents()
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, events)
}

// ---------------- KEYNOTE EVENTS ----------------

func (h *Handler) CreateKeynoteEvent(w http.ResponseWriter, r *http.Request) {
	var req keynoteEventRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	created, err := h.ScheduleService.AddKeynoteEvent(models.KeynoteEvent{
		SpeakerName: req.SpeakerName,
		Slug:        req.Slug,
		EventSlot:   req.toSlot(),
	})
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateKeynoteEvent: %v", err))
		h.serviceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, struct {
		*models.KeynoteEvent
		URL string `json:"url"`
	}{created, created.AbsoluteURL()})
}

func (h *Handler) GetKeynoteEvent(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	ev, err := h.ScheduleService.GetKeynoteEventBySlug(slug)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, struct {
		*models.KeynoteEvent
		URL string `json:"url"`
	}{ev, ev.AbsoluteURL()})
}

func (h *Handler) UpdateKeynoteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")

	var req keynoteEventRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	err := h.ScheduleService.UpdateKeynoteEvent(eventID, models.KeynoteEvent{
		SpeakerName: req.SpeakerName,
		Slug:        req.Slug,
		EventSlot:   req.toSlot(),
	})
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateKeynoteEvent: %v", err))
		h.serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteKeynoteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")

	if err := h.ScheduleService.RemoveKeynoteEvent(eventID); err != nil {
		h.serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListKeynoteEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.ScheduleService.ListKeynoteEvents()
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, events)
}

// ---------------- SPONSORED EVENTS ----------------

func (h *Handler) CreateSponsoredEvent(w http.ResponseWriter, r *http.Request) {
	var req sponsoredEventRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	created, err := h.ScheduleService.AddSponsoredEvent(models.SponsoredEvent{
		HostID: req.HostID,
		Slug:   req.Slug,
		EventInfo: models.EventInfo{
			Title:    req.Title,
			Category: req.Category,
			Language: req.Language,
			Abstract: req.Abstract,
		},
		EventSlot: req.toSlot(),
	})
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateSponsoredEvent: %v", err))
		h.serviceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, struct {
		*models.SponsoredEvent
		URL string `json:"url"`
	}{created, created.AbsoluteURL()})
}

func (h *Handler) GetSponsoredEvent(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	ev, err := h.ScheduleService.GetSponsoredEventBySlug(slug)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, struct {
		*models.SponsoredEvent
		URL string `json:"url"`
	}{ev, ev.AbsoluteURL()})
}

func (h *Handler) UpdateSponsoredEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")

	var req sponsoredEventRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	err := h.ScheduleService.UpdateSponsoredEvent(models.SponsoredEvent{
		ID:     eventID,
		HostID: req.HostID,
		Slug:   req.Slug,
		EventInfo: models.EventInfo{
			Title:    req.Title,
			Category: req.Category,
			Language: req.Language,
			Abstract: req.Abstract,
		},
		EventSlot: req.toSlot(),
	})
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateSponsoredEvent: %v", err))
		h.serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteSponsoredEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")

	if err := h.ScheduleService.RemoveSponsoredEvent(eventID); err != nil {
		h.serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListSponsoredEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.ScheduleService.ListSponsoredEvents()
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, events)
}

// ---------------- PROPOSED TALK EVENTS ----------------

func (h *Handler) CreateTalkEvent(w http.ResponseWriter, r *http.Request) {
	var req talkEventRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	created, err := h.ScheduleService.ScheduleProposedTalk(models.ProposedTalkEvent{
		ProposalID: req.ProposalID,
		EventSlot:  req.toSlot(),
	})
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateTalkEvent: %v", err))
		h.serviceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, struct {
		*models.ProposedTalkEvent
		URL string `json:"url"`
	}{created, created.AbsoluteURL()})
}

func (h *Handler) GetTalkEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")

	ev, err := h.ScheduleService.GetProposedTalkEvent(eventID)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, struct {
		*models.ProposedTalkEvent
		URL string `json:"url"`
	}{ev, ev.AbsoluteURL()})
}

func (h *Handler) UpdateTalkEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")

	var req talkEventRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	err := h.ScheduleService.UpdateProposedTalkEvent(eventID, models.ProposedTalkEvent{
		ProposalID: req.ProposalID,
		EventSlot:  req.toSlot(),
	})
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateTalkEvent: %v", err))
		h.serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteTalkEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")

	if err := h.ScheduleService.WithdrawProposedTalk(eventID); err != nil {
		h.serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListTalkEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.ScheduleService.ListProposedTalkEvents()
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, events)
}

// ---------------- SCHEDULES ----------------

func (h *Handler) PublishSchedule(w http.ResponseWriter, r *http.Request) {
	var req publishScheduleRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	snapshot, err := h.ScheduleService.PublishSchedule(req.HTML)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("PublishSchedule: %v", err))
		h.serviceError(w, err)
		return
	}

	h.Logger.LogSchedule("PUBLISH", snapshot.ID, snapshot.String())
	h.writeJSON(w, http.StatusCreated, utils.SuccessResponse("Schedule published", snapshot))
}

func (h *Handler) GetLatestSchedule(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.ScheduleService.LatestSchedule()
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, snapshot)
}

func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	schedules, err := h.ScheduleService.ListSchedules()
	if err != nil {
		h.serviceError(w, err)
		return
	}

	// History can get big; allow trimming with ?limit=N
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			http.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		if limit < len(schedules) {
			schedules = schedules[:limit]
		}
	}
	h.writeJSON(w, http.StatusOK, schedules)
}
