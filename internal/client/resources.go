package client

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"mendizabala/dual/internal/model"
)

type teacherWire struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	SubstituteName *string   `json:"substitute_name"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (t teacherWire) model() model.Teacher {
	return model.Teacher{
		ID:             t.ID,
		Name:           t.Name,
		Email:          t.Email,
		SubstituteName: t.SubstituteName,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

type companyWire struct {
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

func (c companyWire) model() model.Company {
	return model.Company{
		ID:                  c.ID,
		Name:                c.Name,
		Location:            c.Location,
		ContactPerson:       c.ContactPerson,
		Email:               c.Email,
		Phone:               c.Phone,
		Website:             c.Website,
		AssignedTeacherID:   c.AssignedTeacherID,
		Status:              model.Status(c.Status),
		DemandDual1:         c.DemandDual1,
		DemandDualGeneral:   c.DemandDualGeneral,
		DemandDualIntensive: c.DemandDualIntensive,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}
}

type NewTeacher struct {
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	SubstituteName *string `json:"substituteName,omitempty"`
}

// TeacherPatch only sends fields that are set; model.Null clears a column.
type TeacherPatch struct {
	Name           model.Field[string] `json:"name,omitzero"`
	Email          model.Field[string] `json:"email,omitzero"`
	SubstituteName model.Field[string] `json:"substituteName,omitzero"`
}

type NewCompany struct {
	Name                string  `json:"name"`
	Location            *string `json:"location,omitempty"`
	ContactPerson       *string `json:"contactPerson,omitempty"`
	Email               *string `json:"email,omitempty"`
	Phone               *string `json:"phone,omitempty"`
	Website             *string `json:"website,omitempty"`
	AssignedTeacherID   *string `json:"assignedTeacherId,omitempty"`
	Status              string  `json:"status,omitempty"`
	DemandDual1         *int32  `json:"demandDual1,omitempty"`
	DemandDualGeneral   *int32  `json:"demandDualGeneral,omitempty"`
	DemandDualIntensive *int32  `json:"demandDualIntensive,omitempty"`
}

type CompanyPatch struct {
	Name                model.Field[string] `json:"name,omitzero"`
	Location            model.Field[string] `json:"location,omitzero"`
	ContactPerson       model.Field[string] `json:"contactPerson,omitzero"`
	Email               model.Field[string] `json:"email,omitzero"`
	Phone               model.Field[string] `json:"phone,omitzero"`
	Website             model.Field[string] `json:"website,omitzero"`
	AssignedTeacherID   model.Field[string] `json:"assignedTeacherId,omitzero"`
	Status              model.Field[string] `json:"status,omitzero"`
	DemandDual1         model.Field[int32]  `json:"demandDual1,omitzero"`
	DemandDualGeneral   model.Field[int32]  `json:"demandDualGeneral,omitzero"`
	DemandDualIntensive model.Field[int32]  `json:"demandDualIntensive,omitzero"`
}

type CompanyFilter struct {
	Query     string
	TeacherID string
	Status    string
}

type deleted struct {
	Message string `json:"message"`
}

func (c *Client) ListTeachers(ctx context.Context, query string) ([]model.Teacher, error) {
	var params url.Values
	if query != "" {
		params = url.Values{"q": {query}}
	}
	var wire []teacherWire
	if err := c.do(ctx, http.MethodGet, "/teachers", params, nil, &wire); err != nil {
		return nil, err
	}
	out := make([]model.Teacher, 0, len(wire))
	for _, t := range wire {
		out = append(out, t.model())
	}
	return out, nil
}

func (c *Client) CreateTeacher(ctx context.Context, in NewTeacher) (model.Teacher, error) {
	var wire teacherWire
	if err := c.do(ctx, http.MethodPost, "/teachers", nil, in, &wire); err != nil {
		return model.Teacher{}, err
	}
	return wire.model(), nil
}

func (c *Client) UpdateTeacher(ctx context.Context, id string, patch TeacherPatch) (model.Teacher, error) {
	var wire teacherWire
	if err := c.do(ctx, http.MethodPut, "/teachers/"+url.PathEscape(id), nil, patch, &wire); err != nil {
		return model.Teacher{}, err
	}
	return wire.model(), nil
}

func (c *Client) DeleteTeacher(ctx context.Context, id string) (string, error) {
	var out deleted
	err := c.do(ctx, http.MethodDelete, "/teachers/"+url.PathEscape(id), nil, nil, &out)
	return out.Message, err
}

func (c *Client) ListCompanies(ctx context.Context, filter CompanyFilter) ([]model.Company, error) {
	params := url.Values{}
	if filter.Query != "" {
		params.Set("q", filter.Query)
	}
	if filter.TeacherID != "" {
		params.Set("teacher", filter.TeacherID)
	}
	if filter.Status != "" {
		params.Set("status", filter.Status)
	}
	var wire []companyWire
	if err := c.do(ctx, http.MethodGet, "/companies", params, nil, &wire); err != nil {
		return nil, err
	}
	out := make([]model.Company, 0, len(wire))
	for _, company := range wire {
		out = append(out, company.model())
	}
	return out, nil
}

func (c *Client) CreateCompany(ctx context.Context, in NewCompany) (model.Company, error) {
	var wire companyWire
	if err := c.do(ctx, http.MethodPost, "/companies", nil, in, &wire); err != nil {
		return model.Company{}, err
	}
	return wire.model(), nil
}

func (c *Client) UpdateCompany(ctx context.Context, id string, patch CompanyPatch) (model.Company, error) {
	var wire companyWire
	if err := c.do(ctx, http.MethodPut, "/companies/"+url.PathEscape(id), nil, patch, &wire); err != nil {
		return model.Company{}, err
	}
	return wire.model(), nil
}

func (c *Client) DeleteCompany(ctx context.Context, id string) (string, error) {
	var out deleted
	err := c.do(ctx, http.MethodDelete, "/companies/"+url.PathEscape(id), nil, nil, &out)
	return out.Message, err
}

// AssignCompany moves a company to a teacher's column; nil returns it to the
// unassigned pool.
func (c *Client) AssignCompany(ctx context.Context, companyID string, teacherID *string) (model.Company, error) {
	body := struct {
		TeacherID *string `json:"teacherId"`
	}{TeacherID: teacherID}
	var wire companyWire
	if err := c.do(ctx, http.MethodPut, "/companies/"+url.PathEscape(companyID)+"/assignment", nil, body, &wire); err != nil {
		return model.Company{}, err
	}
	return wire.model(), nil
}
