package model

import (
	"time"
)

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

type Branch string

const (
	BranchCSE   Branch = "cse"
	BranchISE   Branch = "ise"
	BranchECE   Branch = "ece"
	BranchEEE   Branch = "eee"
	BranchMech  Branch = "mech"
	BranchCivil Branch = "civil"
	BranchOther Branch = "other"
)

func (b Branch) Valid() bool {
	switch b {
	case BranchCSE, BranchISE, BranchECE, BranchEEE, BranchMech, BranchCivil, BranchOther:
		return true
	}
	return false
}

// User accounts are soft-deactivated via IsActive, never deleted.
type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	USN            string    `json:"usn"`
	College        string    `json:"college"`
	Branch         Branch    `json:"branch"`
	YearOfPassing  int       `json:"year_of_passing"`
	Role           string    `json:"role"`
	HashedPassword string    `json:"-"` // Not exposed
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
