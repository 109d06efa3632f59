package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"mendizabala/dual/internal/model"
	"mendizabala/dual/internal/repository"
)

type createTeacherRequest struct {
	Name           string  `json:"name" validate:"required"`
	Email          string  `json:"email" validate:"required,email"`
	SubstituteName *string `json:"substituteName"`
}

type patchTeacherRequest struct {
	Name           model.Field[string] `json:"name"`
	Email          model.Field[string] `json:"email"`
	SubstituteName model.Field[string] `json:"substituteName"`
}

type teacherResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	SubstituteName *string   `json:"substitute_name"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toTeacherResponse(t model.Teacher) teacherResponse {
	return teacherResponse{
		ID:             t.ID,
		Name:           t.Name,
		Email:          t.Email,
		SubstituteName: t.SubstituteName,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func (s *Server) handleListTeachers(w http.ResponseWriter, r *http.Request) {
	teachers, err := s.teachers.ListTeachers(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeStoreError(w, r, err, "teacher_not_found")
		return
	}
	resp := make([]teacherResponse, 0, len(teachers))
	for _, t := range teachers {
		resp = append(resp, toTeacherResponse(t))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateTeacher(w http.ResponseWriter, r *http.Request) {
	var req createTeacherRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationCode(err))
		return
	}

	now := s.now().UTC()
	teacher, err := s.teachers.CreateTeacher(r.Context(), model.Teacher{
		ID:             uuid.NewString(),
		Name:           req.Name,
		Email:          req.Email,
		SubstituteName: blankToNil(req.SubstituteName),
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		s.writeStoreError(w, r, err, "teacher_not_found")
		return
	}
	writeJSON(w, http.StatusCreated, toTeacherResponse(teacher))
}

func (s *Server) handlePatchTeacher(w http.ResponseWriter, r *http.Request) {
	teacherID := chi.URLParam(r, "teacherId")

	var req patchTeacherRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	update := repository.TeacherUpdate{}
	if name := requiredValue(req.Name); name != nil {
		update.Name = name
	}
	if email := requiredValue(req.Email); email != nil {
		normalized := strings.ToLower(*email)
		if err := s.validate.Var(normalized, "email"); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_email")
			return
		}
		update.Email = &normalized
	}
	update.SubstituteName = clearable(req.SubstituteName)

	teacher, err := s.teachers.UpdateTeacher(r.Context(), teacherID, update)
	if err != nil {
		s.writeStoreError(w, r, err, "teacher_not_found")
		return
	}
	writeJSON(w, http.StatusOK, toTeacherResponse(teacher))
}

func (s *Server) handleDeleteTeacher(w http.ResponseWriter, r *http.Request) {
	teacherID := chi.URLParam(r, "teacherId")
	if err := s.teachers.DeleteTeacher(r.Context(), teacherID); err != nil {
		s.writeStoreError(w, r, err, "teacher_not_found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Profesor eliminado"})
}

// requiredValue reads a patch field for a NOT NULL column. Null, absent and
// blank all mean "keep the stored value".
func requiredValue(f model.Field[string]) *string {
	if !f.Present || f.Null {
		return nil
	}
	value := strings.TrimSpace(f.Value)
	if value == "" {
		return nil
	}
	return &value
}

func blankToNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
