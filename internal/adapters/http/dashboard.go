package httpadapter

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/kittipatc/opsdesk/internal/core/domain"
	"github.com/kittipatc/opsdesk/internal/core/usecase"
)

const defaultListLimit = 50

func (rt *Router) alerts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		status := domain.AlertStatus(r.URL.Query().Get("status"))
		out, err := rt.dashboard.ListAlerts(r.Context(), status, queryLimit(r))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"alerts": out})
	case http.MethodPost:
		var req struct {
			Title    string `json:"title"`
			Detail   string `json:"detail"`
			Source   string `json:"source"`
			Severity string `json:"severity"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		alert, err := rt.dashboard.RaiseAlert(r.Context(), domain.Alert{
			Title:    req.Title,
			Detail:   req.Detail,
			Source:   req.Source,
			Severity: domain.AlertSeverity(req.Severity),
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, alert)
	default:
		writeMethodNotAllowed(w)
	}
}

func (rt *Router) alertByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/alerts/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "alert id is required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		alert, err := rt.dashboard.GetAlert(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, alert)
	case http.MethodPatch:
		var req struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if err := rt.dashboard.UpdateAlertStatus(r.Context(), id, domain.AlertStatus(req.Status)); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": req.Status})
	default:
		writeMethodNotAllowed(w)
	}
}

func (rt *Router) cases(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		status := domain.CaseStatus(r.URL.Query().Get("status"))
		out, err := rt.dashboard.ListCases(r.Context(), status, queryLimit(r))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"cases": out})
	case http.MethodPost:
		var req struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Category    string `json:"category"`
			Assignee    string `json:"assignee"`
			Priority    int    `json:"priority"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		c, err := rt.dashboard.OpenCase(r.Context(), domain.Case{
			Title:       req.Title,
			Description: req.Description,
			Category:    req.Category,
			Assignee:    req.Assignee,
			Priority:    req.Priority,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, c)
	default:
		writeMethodNotAllowed(w)
	}
}

func (rt *Router) caseByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/cases/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "case id is required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		c, err := rt.dashboard.GetCase(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	case http.MethodPatch:
		var req struct {
			Title       *string `json:"title"`
			Description *string `json:"description"`
			Category    *string `json:"category"`
			Assignee    *string `json:"assignee"`
			Priority    *int    `json:"priority"`
			Status      *string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		update := usecase.CaseUpdate{
			Title:       req.Title,
			Description: req.Description,
			Category:    req.Category,
			Assignee:    req.Assignee,
			Priority:    req.Priority,
		}
		if req.Status != nil {
			status := domain.CaseStatus(*req.Status)
			update.Status = &status
		}
		c, err := rt.dashboard.UpdateCase(r.Context(), id, update)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	default:
		writeMethodNotAllowed(w)
	}
}

func (rt *Router) feed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	out, err := rt.dashboard.Feed(r.Context(), queryLimit(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

func queryLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultListLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return defaultListLimit
	}
	return limit
}
