package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"timekeeper/internal/domain"
	"timekeeper/internal/service"
)

// TimeEntryHandler handles time entry CRUD and summary requests. The
// authenticated user's id comes from the token claims; entries belonging to
// other users are invisible.
type TimeEntryHandler struct {
	entries *service.TimeEntryService
}

// NewTimeEntryHandler creates a new TimeEntryHandler.
func NewTimeEntryHandler(entries *service.TimeEntryService) *TimeEntryHandler {
	return &TimeEntryHandler{entries: entries}
}

// entryFilterFromQuery parses the shared list/summary query parameters.
// Date strings are validated downstream so both endpoints report them the
// same way.
func entryFilterFromQuery(r *http.Request) (service.EntryFilter, error) {
	q := r.URL.Query()
	filter := service.EntryFilter{
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
	}

	if v := q.Get("project_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, errors.New("invalid project_id")
		}
		filter.ProjectID = &id
	}
	if v := q.Get("is_billable"); v != "" {
		billable, err := strconv.ParseBool(v)
		if err != nil {
			return filter, errors.New("invalid is_billable")
		}
		filter.Billable = &billable
	}
	return filter, nil
}

// HandleList returns the caller's entries newest first.
// GET /api/entries?project_id=&start_date=&end_date=&is_billable=
func (h *TimeEntryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())

	filter, err := entryFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.entries.List(r.Context(), claims.UserID, filter)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "Invalid date format")
			return
		}
		slog.Error("list time entries", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, toTimeEntryDTOs(entries))
}

// HandleGet returns one of the caller's entries.
// GET /api/entries/{id}
func (h *TimeEntryHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Time entry not found")
		return
	}

	entry, err := h.entries.Get(r.Context(), claims.UserID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Time entry not found")
			return
		}
		slog.Error("get time entry", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, toTimeEntryDTO(entry))
}

// HandleCreate logs a new time entry for the caller.
// POST /api/entries
func (h *TimeEntryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())

	var req struct {
		ProjectID  int64  `json:"project_id"`
		StartTime  string `json:"start_time"`
		EndTime    string `json:"end_time"`
		Notes      string `json:"notes"`
		IsBillable *bool  `json:"is_billable"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.entries.Create(r.Context(), claims.UserID, service.CreateEntryInput{
		ProjectID:  req.ProjectID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Notes:      req.Notes,
		IsBillable: req.IsBillable,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "Project not found")
		default:
			slog.Error("create time entry", "error", err)
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Time entry created successfully",
		"entry":   toTimeEntryDTO(entry),
	})
}

// HandleUpdate applies a partial update to one of the caller's entries.
// PUT /api/entries/{id}
func (h *TimeEntryHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Time entry not found")
		return
	}

	var req struct {
		ProjectID  *int64  `json:"project_id"`
		StartTime  *string `json:"start_time"`
		EndTime    *string `json:"end_time"`
		Notes      *string `json:"notes"`
		IsBillable *bool   `json:"is_billable"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.entries.Update(r.Context(), claims.UserID, id, service.EntryPatch{
		ProjectID:  req.ProjectID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Notes:      req.Notes,
		IsBillable: req.IsBillable,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "Time entry not found")
		default:
			slog.Error("update time entry", "error", err)
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Time entry updated successfully",
		"entry":   toTimeEntryDTO(entry),
	})
}

// HandleDelete removes one of the caller's entries.
// DELETE /api/entries/{id}
func (h *TimeEntryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Time entry not found")
		return
	}

	if err := h.entries.Delete(r.Context(), claims.UserID, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Time entry not found")
			return
		}
		slog.Error("delete time entry", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Time entry deleted successfully"})
}

// HandleSummary aggregates the caller's matching entries.
// GET /api/entries/summary?project_id=&start_date=&end_date=
func (h *TimeEntryHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())

	filter, err := entryFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := h.entries.Summarize(r.Context(), claims.UserID, filter)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "Invalid date format")
			return
		}
		slog.Error("summarize time entries", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, toSummaryDTO(summary))
}
