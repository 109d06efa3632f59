package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"mendizabala/dual/internal/model"
	"mendizabala/dual/internal/operations"
	"mendizabala/dual/internal/repository"
)

type createCompanyRequest struct {
	Name                string        `json:"name" validate:"required"`
	Location            *string       `json:"location"`
	ContactPerson       *string       `json:"contactPerson"`
	Email               *string       `json:"email" validate:"omitnil,email"`
	Phone               *string       `json:"phone"`
	Website             *string       `json:"website"`
	AssignedTeacherID   *string       `json:"assignedTeacherId" validate:"omitnil,uuid"`
	Status              *model.Status `json:"status" validate:"omitnil,company_status"`
	DemandDual1         *int32        `json:"demandDual1" validate:"omitnil,gte=0"`
	DemandDualGeneral   *int32        `json:"demandDualGeneral" validate:"omitnil,gte=0"`
	DemandDualIntensive *int32        `json:"demandDualIntensive" validate:"omitnil,gte=0"`
}

type patchCompanyRequest struct {
	Name                model.Field[string] `json:"name"`
	Location            model.Field[string] `json:"location"`
	ContactPerson       model.Field[string] `json:"contactPerson"`
	Email               model.Field[string] `json:"email"`
	Phone               model.Field[string] `json:"phone"`
	Website             model.Field[string] `json:"website"`
	AssignedTeacherID   model.Field[string] `json:"assignedTeacherId"`
	Status              model.Field[string] `json:"status"`
	DemandDual1         model.Field[int32]  `json:"demandDual1"`
	DemandDualGeneral   model.Field[int32]  `json:"demandDualGeneral"`
	DemandDualIntensive model.Field[int32]  `json:"demandDualIntensive"`
}

type assignCompanyRequest struct {
	TeacherID model.Field[string] `json:"teacherId"`
}

type companyResponse struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Location            *string   `json:"location"`
	ContactPerson       *string   `json:"contact_person"`
	Email               *string   `json:"email"`
	Phone               *string   `json:"phone"`
	Website             *string   `json:"website"`
	AssignedTeacherID   *string   `json:"assigned_teacher_id"`
	Status              string    `json:"status"`
	DemandDual1         int32     `json:"demand_dual1"`
	DemandDualGeneral   int32     `json:"demand_dual_general"`
	DemandDualIntensive int32     `json:"demand_dual_intensive"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func toCompanyResponse(c model.Company) companyResponse {
	return companyResponse{
		ID:                  c.ID,
		Name:                c.Name,
		Location:            c.Location,
		ContactPerson:       c.ContactPerson,
		Email:               c.Email,
		Phone:               c.Phone,
		Website:             c.Website,
		AssignedTeacherID:   c.AssignedTeacherID,
		Status:              string(c.Status),
		DemandDual1:         c.DemandDual1,
		DemandDualGeneral:   c.DemandDualGeneral,
		DemandDualIntensive: c.DemandDualIntensive,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}
}

func (s *Server) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := repository.CompanyFilter{
		Query:     query.Get("q"),
		TeacherID: strings.TrimSpace(query.Get("teacher")),
		Status:    model.Status(strings.TrimSpace(query.Get("status"))),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		writeError(w, http.StatusBadRequest, "invalid_status")
		return
	}

	companies, err := s.companies.ListCompanies(r.Context(), filter)
	if err != nil {
		s.writeStoreError(w, r, err, "company_not_found")
		return
	}
	resp := make([]companyResponse, 0, len(companies))
	for _, c := range companies {
		resp = append(resp, toCompanyResponse(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateCompany(w http.ResponseWriter, r *http.Request) {
	var req createCompanyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Location = blankToNil(req.Location)
	req.ContactPerson = blankToNil(req.ContactPerson)
	req.Email = lowerPtr(blankToNil(req.Email))
	req.Phone = blankToNil(req.Phone)
	req.Website = blankToNil(req.Website)
	req.AssignedTeacherID = blankToNil(req.AssignedTeacherID)
	if req.Status != nil {
		status := model.Status(strings.ToLower(strings.TrimSpace(string(*req.Status))))
		req.Status = &status
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationCode(err))
		return
	}

	now := s.now().UTC()
	company := model.Company{
		ID:                uuid.NewString(),
		Name:              req.Name,
		Location:          req.Location,
		ContactPerson:     req.ContactPerson,
		Email:             req.Email,
		Phone:             req.Phone,
		Website:           req.Website,
		AssignedTeacherID: req.AssignedTeacherID,
		Status:            model.StatusOrange,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if req.Status != nil {
		company.Status = *req.Status
	}
	if req.DemandDual1 != nil {
		company.DemandDual1 = *req.DemandDual1
	}
	if req.DemandDualGeneral != nil {
		company.DemandDualGeneral = *req.DemandDualGeneral
	}
	if req.DemandDualIntensive != nil {
		company.DemandDualIntensive = *req.DemandDualIntensive
	}

	created, err := s.companies.CreateCompany(r.Context(), company)
	if err != nil {
		s.writeStoreError(w, r, err, "company_not_found")
		return
	}
	writeJSON(w, http.StatusCreated, toCompanyResponse(created))
}

func (s *Server) handlePatchCompany(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyId")

	var req patchCompanyRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	update, code := s.companyUpdate(req)
	if code != "" {
		writeError(w, http.StatusBadRequest, code)
		return
	}

	company, err := s.companies.UpdateCompany(r.Context(), companyID, update)
	if err != nil {
		s.writeStoreError(w, r, err, "company_not_found")
		return
	}
	writeJSON(w, http.StatusOK, toCompanyResponse(company))
}

// companyUpdate converts a patch body into a repository update, returning an
// error code when a present value is malformed.
func (s *Server) companyUpdate(req patchCompanyRequest) (repository.CompanyUpdate, string) {
	update := repository.CompanyUpdate{
		Name:          requiredValue(req.Name),
		Location:      clearable(req.Location),
		ContactPerson: clearable(req.ContactPerson),
		Phone:         clearable(req.Phone),
		Website:       clearable(req.Website),
	}

	update.Email = clearable(req.Email)
	if email := update.Email.Ptr(); email != nil {
		normalized := strings.ToLower(*email)
		if err := s.validate.Var(normalized, "email"); err != nil {
			return update, "invalid_email"
		}
		update.Email = model.Set(normalized)
	}

	update.AssignedTeacherID = clearable(req.AssignedTeacherID)
	if teacherID := update.AssignedTeacherID.Ptr(); teacherID != nil {
		if _, err := uuid.Parse(*teacherID); err != nil {
			return update, operations.ErrUnknownTeacher
		}
	}

	if status := requiredValue(req.Status); status != nil {
		parsed := model.Status(strings.ToLower(*status))
		if !parsed.Valid() {
			return update, "invalid_status"
		}
		update.Status = &parsed
	}

	demands := []struct {
		field model.Field[int32]
		dst   **int32
		code  string
	}{
		{req.DemandDual1, &update.DemandDual1, "invalid_demand_dual1"},
		{req.DemandDualGeneral, &update.DemandDualGeneral, "invalid_demand_dual_general"},
		{req.DemandDualIntensive, &update.DemandDualIntensive, "invalid_demand_dual_intensive"},
	}
	for _, d := range demands {
		value := d.field.Ptr()
		if value == nil {
			continue
		}
		if *value < 0 {
			return update, d.code
		}
		*d.dst = value
	}
	return update, ""
}

func (s *Server) handleDeleteCompany(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyId")
	if err := s.companies.DeleteCompany(r.Context(), companyID); err != nil {
		s.writeStoreError(w, r, err, "company_not_found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Empresa eliminada"})
}

func (s *Server) handleAssignCompany(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyId")

	var req assignCompanyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if !req.TeacherID.Present {
		writeError(w, http.StatusBadRequest, "teacher_id_required")
		return
	}

	company, err := operations.AssignCompany(r.Context(), s.companies, companyID, req.TeacherID.Ptr())
	if err != nil {
		s.writeOpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCompanyResponse(company))
}

// clearable reads a patch field for a nullable column. Null and blank both
// clear it.
func clearable(f model.Field[string]) model.Field[string] {
	if !f.Present {
		return model.Field[string]{}
	}
	return model.FieldFromPtr(blankToNil(f.Ptr()))
}

func lowerPtr(value *string) *string {
	if value == nil {
		return nil
	}
	lowered := strings.ToLower(*value)
	return &lowered
}
