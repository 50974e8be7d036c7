package user

import (
	"sync"
	"time"

	"github.com/mauv0809/cricket-hub/internal/metrics"
	"github.com/mauv0809/cricket-hub/internal/record"
)

type service struct {
	users   *record.Store[User, *User]
	metrics metrics.Metrics
	now     func() time.Time
	// emailMu keeps emails unique across concurrent writes.
	emailMu sync.Mutex
}

type Role string

const (
	RolePlayer     Role = "player"
	RoleCoach      Role = "coach"
	RoleAdmin      Role = "admin"
	RoleAcademy    Role = "academy"
	RoleTournament Role = "tournament"
)

type User struct {
	record.Meta
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   Role   `json:"role"`
	Avatar string `json:"avatar,omitempty"`
	Phone  string `json:"phone,omitempty"`
}

type NewUser struct {
	Email  string `json:"email" validate:"required,email"`
	Name   string `json:"name" validate:"required"`
	Role   Role   `json:"role" validate:"required,oneof=player coach admin academy tournament"`
	Avatar string `json:"avatar" validate:"omitempty,url"`
	Phone  string `json:"phone"`
}

// ProfilePatch lists the profile fields a user may change. The role has its
// own operation.
type ProfilePatch struct {
	Email           *string `json:"email,omitempty" validate:"omitempty,email"`
	Name            *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Avatar          *string `json:"avatar,omitempty" validate:"omitempty,url"`
	Phone           *string `json:"phone,omitempty"`
	ExpectedVersion int     `json:"expected_version,omitempty"`
}

type RoleInput struct {
	Role Role `json:"role" validate:"required,oneof=player coach admin academy tournament"`
}
