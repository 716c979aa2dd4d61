package models

import "strings"

type Role string

const (
	RoleStaff     Role = "staff"
	RoleStudent   Role = "student"
	RoleVolunteer Role = "volunteer"
	RoleAdmin     Role = "admin"
)

// Roles lists every role in display order.
var Roles = []Role{RoleStaff, RoleStudent, RoleVolunteer, RoleAdmin}

func (r Role) Valid() bool {
	switch r {
	case RoleStaff, RoleStudent, RoleVolunteer, RoleAdmin:
		return true
	}
	return false
}

// ParseRole lowercases and trims s; ok is false for anything outside Roles.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.Valid()
}

// HomePath is the dashboard a signed-in user lands on.
func (r Role) HomePath() string {
	switch r {
	case RoleStaff:
		return "/staff"
	case RoleStudent:
		return "/student"
	case RoleVolunteer:
		return "/volunteer"
	case RoleAdmin:
		return "/admin"
	}
	return "/auth/login"
}
