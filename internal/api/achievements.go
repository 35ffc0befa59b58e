package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bloom-wellness/bloom/internal/domain"
)

// ─── Achievements ───────────────────────────────────────────────────────────

// --- GET /api/achievements ---

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	statuses := s.engine.AllWithProgress(r.Context())

	type achievementView struct {
		ID           string  `json:"id"`
		Title        string  `json:"title"`
		Description  string  `json:"description"`
		Icon         string  `json:"icon"`
		Category     string  `json:"category"`
		Rarity       string  `json:"rarity"`
		Requirement  int     `json:"requirement"`
		CurrentValue int     `json:"current_value"`
		Pct          float64 `json:"pct"`
		Earned       bool    `json:"earned"`
		EarnedAt     string  `json:"earned_at,omitempty"`
	}

	out := make([]achievementView, len(statuses))
	for i, st := range statuses {
		v := achievementView{
			ID:           st.Definition.ID,
			Title:        st.Definition.Title,
			Description:  st.Definition.Description,
			Icon:         st.Definition.Icon,
			Category:     string(st.Definition.Category),
			Rarity:       string(st.Definition.Rarity),
			Requirement:  st.Definition.Requirement,
			CurrentValue: st.Progress.CurrentValue,
			Pct:          st.Pct(),
			Earned:       st.Progress.Earned,
		}
		if st.Progress.Earned {
			v.EarnedAt = st.Progress.EarnedAt.Format("2006-01-02T15:04:05Z07:00")
		}
		out[i] = v
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"achievements": out,
	})
}

// --- GET /api/achievements/summary ---

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"earned": s.engine.EarnedCount(r.Context()),
		"total":  s.engine.Catalog().Len(),
	})
}

// --- POST /api/activity ---

type activityRequest struct {
	Type     string `json:"type"`
	Amount   int    `json:"amount"`
	Absolute bool   `json:"absolute"`
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	var req activityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Type == "" {
		writeError(w, http.StatusBadRequest, domain.ErrEmptySignalType.Error())
		return
	}

	var newly []domain.AchievementDef
	if req.Absolute {
		newly = s.engine.SetProgress(r.Context(), req.Type, req.Amount)
	} else {
		newly = s.engine.IncrementProgress(r.Context(), req.Type, req.Amount)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"newly_earned": earnedViews(newly),
	})
}

// --- POST /api/achievements/recheck-total ---

func (s *Server) handleRecheckTotal(w http.ResponseWriter, r *http.Request) {
	newly := s.engine.CheckTotalEarned(r.Context())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"newly_earned": earnedViews(newly),
	})
}

// --- POST /api/achievements/reset ---

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.engine.ResetProgress(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "reset",
	})
}

type earnedView struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Icon   string `json:"icon"`
	Rarity string `json:"rarity"`
}

func earnedViews(defs []domain.AchievementDef) []earnedView {
	out := make([]earnedView, len(defs))
	for i, d := range defs {
		out[i] = earnedView{ID: d.ID, Title: d.Title, Icon: d.Icon, Rarity: string(d.Rarity)}
	}
	return out
}

// ─── Notifications ──────────────────────────────────────────────────────────

// --- GET /api/notifications ---

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	if s.notify == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"notifications": []domain.Notification{},
		})
		return
	}

	limit := 20
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	pending, err := s.notify.Pending(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if pending == nil {
		pending = []domain.Notification{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": pending,
	})
}

// --- POST /api/notifications/{id}/shown ---

func (s *Server) handleNotificationShown(w http.ResponseWriter, r *http.Request) {
	if s.notify == nil {
		writeError(w, http.StatusNotFound, domain.ErrNotificationsDisabled.Error())
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid notification id")
		return
	}
	if err := s.notify.MarkShown(r.Context(), id); err != nil {
		if err == domain.ErrNotificationNotFound {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "shown",
	})
}
