package curriculum

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/heythambi/backend/internal/models"
)

// Handler serves the committed curriculum. It is an internal content API:
// answers come back with their correctness flags, and hiding them from
// learners is the client's job.
type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) ListSections(w http.ResponseWriter, r *http.Request) {
	sections, err := h.store.ListSections()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load sections"})
		return
	}
	writeJSON(w, http.StatusOK, models.SectionListResponse{Sections: sections, Total: len(sections)})
}

func (h *Handler) ListUnits(w http.ResponseWriter, r *http.Request) {
	sectionID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	units, err := h.store.ListUnits(sectionID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load units"})
		return
	}
	writeJSON(w, http.StatusOK, models.UnitListResponse{Units: units, Total: len(units)})
}

func (h *Handler) ListLessons(w http.ResponseWriter, r *http.Request) {
	unitID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	lessons, err := h.store.ListLessons(unitID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load lessons"})
		return
	}
	writeJSON(w, http.StatusOK, models.LessonListResponse{Lessons: lessons, Total: len(lessons)})
}

func (h *Handler) GetLesson(w http.ResponseWriter, r *http.Request) {
	lessonID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	detail, err := h.store.GetLessonDetail(lessonID)
	if err == sql.ErrNoRows {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Lesson not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load lesson"})
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	runs, err := h.store.ListRuns(limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load runs"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"runs": runs, "total": len(runs)})
}

func pathID(w http.ResponseWriter, r *http.Request, key string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[key], 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid id"})
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
