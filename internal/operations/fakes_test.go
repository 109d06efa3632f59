package operations

import (
	"context"
	"strings"
	"sync"

	"mendizabala/dual/internal/model"
	"mendizabala/dual/internal/repository"
)

type memoryCredentials struct {
	mu        sync.Mutex
	users     map[string]model.User
	userRoles map[string][]string
	teachers  map[string]model.Teacher
	companies map[string]model.Company
}

func newMemoryCredentials() *memoryCredentials {
	return &memoryCredentials{
		users:     map[string]model.User{},
		userRoles: map[string][]string{},
		teachers:  map[string]model.Teacher{},
		companies: map[string]model.Company{},
	}
}

var knownRoles = map[string]bool{model.RoleAdmin: true, model.RoleTeacher: true, model.RoleCompany: true}

func (m *memoryCredentials) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (m *memoryCredentials) GetUserByID(_ context.Context, userID string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (m *memoryCredentials) CreateUser(_ context.Context, user model.User) error {
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

func (m *memoryCredentials) AssignRoles(_ context.Context, userID string, names []string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	assigned := []string{}
	for _, name := range names {
		if !knownRoles[name] {
			continue
		}
		exists := false
		for _, r := range m.userRoles[userID] {
			if r == name {
				exists = true
			}
		}
		if !exists {
			m.userRoles[userID] = append(m.userRoles[userID], name)
		}
		assigned = append(assigned, name)
	}
	return assigned, nil
}

func (m *memoryCredentials) UserRoles(_ context.Context, userID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.userRoles[userID]...), nil
}

func (m *memoryCredentials) GetTeacher(_ context.Context, teacherID string) (model.Teacher, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.teachers[teacherID]
	if !ok {
		return model.Teacher{}, repository.ErrNotFound
	}
	return t, nil
}

func (m *memoryCredentials) FindOrCreateTeacherByEmail(_ context.Context, candidate model.Teacher) (model.Teacher, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.teachers {
		if strings.EqualFold(t.Email, candidate.Email) {
			return t, false, nil
		}
	}
	m.teachers[candidate.ID] = candidate
	return candidate, true, nil
}

func (m *memoryCredentials) SetAssignedTeacher(_ context.Context, companyID string, teacherID *string) (model.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.companies[companyID]
	if !ok {
		return model.Company{}, repository.ErrNotFound
	}
	if teacherID != nil {
		if _, ok := m.teachers[*teacherID]; !ok {
			return model.Company{}, repository.ErrInvalidReference
		}
	}
	c.AssignedTeacherID = teacherID
	m.companies[companyID] = c
	return c, nil
}

type recordingMailer struct {
	mu   sync.Mutex
	sent map[string]string
	err  error
}

func (r *recordingMailer) SendOTP(_ context.Context, email, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if r.sent == nil {
		r.sent = map[string]string{}
	}
	r.sent[email] = code
	return nil
}
