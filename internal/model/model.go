package model

import (
	"strings"
	"time"
)

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Role struct {
	ID   int32
	Name string
}

const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleCompany = "company"
)

type Teacher struct {
	ID             string
	Name           string
	Email          string
	SubstituteName *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DisplayName prefers the substitute when one is covering the teacher.
func (t Teacher) DisplayName() string {
	if t.SubstituteName != nil {
		if name := strings.TrimSpace(*t.SubstituteName); name != "" {
			return name
		}
	}
	return t.Name
}

type Status string

const (
	StatusGreen  Status = "green"
	StatusOrange Status = "orange"
	StatusRed    Status = "red"
)

func (s Status) Valid() bool {
	switch s {
	case StatusGreen, StatusOrange, StatusRed:
		return true
	default:
		return false
	}
}

type Company struct {
	ID                  string
	Name                string
	Location            *string
	ContactPerson       *string
	Email               *string
	Phone               *string
	Website             *string
	AssignedTeacherID   *string
	Status              Status
	DemandDual1         int32
	DemandDualGeneral   int32
	DemandDualIntensive int32
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
