package http

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"mendizabala/dual/internal/model"
	"mendizabala/dual/internal/repository"
)

// memStore mirrors the Postgres store closely enough for handler tests.
type memStore struct {
	mu        sync.Mutex
	users     map[string]model.User
	roles     map[string][]string
	teachers  map[string]model.Teacher
	companies map[string]model.Company
}

func newMemStore() *memStore {
	return &memStore{
		users:     map[string]model.User{},
		roles:     map[string][]string{},
		teachers:  map[string]model.Teacher{},
		companies: map[string]model.Company{},
	}
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (m *memStore) Ping(context.Context) error { return nil }

func (m *memStore) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (m *memStore) GetUserByID(_ context.Context, id string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (m *memStore) CreateUser(_ context.Context, user model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return repository.ErrConflict
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *memStore) AssignRoles(_ context.Context, userID string, names []string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var assigned []string
	for _, name := range names {
		switch name {
		case model.RoleAdmin, model.RoleTeacher, model.RoleCompany:
		default:
			continue
		}
		dup := false
		for _, existing := range m.roles[userID] {
			dup = dup || existing == name
		}
		if !dup {
			m.roles[userID] = append(m.roles[userID], name)
		}
		assigned = append(assigned, name)
	}
	return assigned, nil
}

func (m *memStore) UserRoles(_ context.Context, userID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	roles := append([]string(nil), m.roles[userID]...)
	sort.Strings(roles)
	return roles, nil
}

func (m *memStore) GetTeacher(_ context.Context, id string) (model.Teacher, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.teachers[id]
	if !ok {
		return model.Teacher{}, repository.ErrNotFound
	}
	return t, nil
}

func (m *memStore) FindOrCreateTeacherByEmail(_ context.Context, candidate model.Teacher) (model.Teacher, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.teachers {
		if t.Email == candidate.Email {
			return t, false, nil
		}
	}
	m.teachers[candidate.ID] = candidate
	return candidate, true, nil
}

func (m *memStore) ListTeachers(_ context.Context, query string) ([]model.Teacher, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]model.Teacher, 0, len(m.teachers))
	for _, t := range m.teachers {
		if query == "" || strings.Contains(strings.ToLower(t.Name+" "+t.Email), query) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) CreateTeacher(_ context.Context, teacher model.Teacher) (model.Teacher, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.teachers {
		if t.Email == teacher.Email {
			return model.Teacher{}, repository.ErrConflict
		}
	}
	m.teachers[teacher.ID] = teacher
	return teacher, nil
}

func (m *memStore) UpdateTeacher(_ context.Context, id string, update repository.TeacherUpdate) (model.Teacher, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.teachers[id]
	if !ok || !validID(id) {
		return model.Teacher{}, repository.ErrNotFound
	}
	if update.Empty() {
		return t, nil
	}
	if update.Name != nil {
		t.Name = *update.Name
	}
	if update.Email != nil {
		t.Email = *update.Email
	}
	if update.SubstituteName.Present {
		t.SubstituteName = update.SubstituteName.Ptr()
	}
	t.UpdatedAt = time.Now().UTC()
	m.teachers[id] = t
	return t, nil
}

func (m *memStore) DeleteTeacher(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.teachers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.teachers, id)
	for cid, c := range m.companies {
		if c.AssignedTeacherID != nil && *c.AssignedTeacherID == id {
			c.AssignedTeacherID = nil
			m.companies[cid] = c
		}
	}
	return nil
}

func (m *memStore) ListCompanies(_ context.Context, filter repository.CompanyFilter) ([]model.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	query := strings.ToLower(strings.TrimSpace(filter.Query))
	out := make([]model.Company, 0, len(m.companies))
	for _, c := range m.companies {
		if query != "" && !companyMatches(c, query) {
			continue
		}
		if filter.TeacherID != "" && (c.AssignedTeacherID == nil || *c.AssignedTeacherID != filter.TeacherID) {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func companyMatches(c model.Company, query string) bool {
	fields := []*string{&c.Name, c.Location, c.ContactPerson, c.Email, c.Website}
	for _, field := range fields {
		if field != nil && strings.Contains(strings.ToLower(*field), query) {
			return true
		}
	}
	return false
}

func (m *memStore) CreateCompany(_ context.Context, company model.Company) (model.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if company.AssignedTeacherID != nil {
		if _, ok := m.teachers[*company.AssignedTeacherID]; !ok {
			return model.Company{}, repository.ErrInvalidReference
		}
	}
	m.companies[company.ID] = company
	return company, nil
}

func (m *memStore) UpdateCompany(_ context.Context, id string, update repository.CompanyUpdate) (model.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.companies[id]
	if !ok {
		return model.Company{}, repository.ErrNotFound
	}
	changed := false
	apply := func(dst **string, f model.Field[string]) {
		if f.Present {
			*dst = f.Ptr()
			changed = true
		}
	}
	if update.Name != nil {
		c.Name = *update.Name
		changed = true
	}
	apply(&c.Location, update.Location)
	apply(&c.ContactPerson, update.ContactPerson)
	apply(&c.Email, update.Email)
	apply(&c.Phone, update.Phone)
	apply(&c.Website, update.Website)
	if update.AssignedTeacherID.Present {
		if teacherID := update.AssignedTeacherID.Ptr(); teacherID != nil {
			if _, ok := m.teachers[*teacherID]; !ok {
				return model.Company{}, repository.ErrInvalidReference
			}
		}
		apply(&c.AssignedTeacherID, update.AssignedTeacherID)
	}
	if update.Status != nil {
		c.Status = *update.Status
		changed = true
	}
	for _, d := range []struct {
		dst *int32
		src *int32
	}{
		{&c.DemandDual1, update.DemandDual1},
		{&c.DemandDualGeneral, update.DemandDualGeneral},
		{&c.DemandDualIntensive, update.DemandDualIntensive},
	} {
		if d.src != nil {
			*d.dst = *d.src
			changed = true
		}
	}
	if !changed {
		return c, nil
	}
	c.UpdatedAt = time.Now().UTC()
	m.companies[id] = c
	return c, nil
}

func (m *memStore) DeleteCompany(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.companies[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.companies, id)
	return nil
}

func (m *memStore) SetAssignedTeacher(ctx context.Context, companyID string, teacherID *string) (model.Company, error) {
	return m.UpdateCompany(ctx, companyID, repository.CompanyUpdate{AssignedTeacherID: model.FieldFromPtr(teacherID)})
}
