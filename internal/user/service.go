package user

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/cricket-hub/internal/apperr"
	"github.com/mauv0809/cricket-hub/internal/metrics"
	"github.com/mauv0809/cricket-hub/internal/record"
)

const userCollection = "users"

func New(db *sql.DB, m metrics.Metrics) UserService {
	return &service{
		users:   record.New[User](db, userCollection),
		metrics: m,
		now:     time.Now,
	}
}

func (s *service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.users.Get(ctx, id)
}

// GetUserByEmail matches emails case-insensitively.
func (s *service) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	users, err := s.users.List(ctx, "email", normalizeEmail(email))
	if err != nil || len(users) == 0 {
		return nil, err
	}
	return &users[0], nil
}

// GetAllUsers returns every user, or only those with role when it is set.
func (s *service) GetAllUsers(ctx context.Context, role Role) ([]User, error) {
	if role == "" {
		return s.users.All(ctx)
	}
	if err := apperr.Validate(RoleInput{Role: role}); err != nil {
		return nil, s.reject("GetAllUsers", err)
	}
	return s.users.List(ctx, "role", string(role))
}

func (s *service) CreateUser(ctx context.Context, in NewUser) (*User, error) {
	if err := apperr.Validate(in); err != nil {
		return nil, s.reject("CreateUser", err)
	}
	email := normalizeEmail(in.Email)

	s.emailMu.Lock()
	defer s.emailMu.Unlock()
	if err := s.emailFree(ctx, email, ""); err != nil {
		return nil, s.reject("CreateUser", err)
	}

	created, err := s.users.Insert(ctx, &User{
		Email:  email,
		Name:   strings.TrimSpace(in.Name),
		Role:   in.Role,
		Avatar: in.Avatar,
		Phone:  in.Phone,
	})
	if err != nil {
		log.Error("Failed to create user", "error", err, "email", email)
		return nil, err
	}
	s.metrics.IncRecordsCreated(userCollection)
	log.Info("Created user", "userID", created.ID, "role", created.Role)
	return created, nil
}

func (s *service) UpdateProfile(ctx context.Context, id string, patch ProfilePatch) (*User, error) {
	if err := apperr.Validate(patch); err != nil {
		return nil, s.reject("UpdateProfile", err)
	}

	s.emailMu.Lock()
	defer s.emailMu.Unlock()
	if patch.Email != nil {
		if err := s.emailFree(ctx, normalizeEmail(*patch.Email), id); err != nil {
			return nil, s.reject("UpdateProfile", err)
		}
	}

	u, err := s.users.UpdateVersion(ctx, id, patch.ExpectedVersion, func(u *User) error {
		if patch.Email != nil {
			u.Email = normalizeEmail(*patch.Email)
		}
		if patch.Name != nil {
			u.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Avatar != nil {
			u.Avatar = *patch.Avatar
		}
		if patch.Phone != nil {
			u.Phone = *patch.Phone
		}
		if u.Name == "" {
			return apperr.Validation("name must not be blank")
		}
		return nil
	})
	if err != nil {
		return nil, s.reject("UpdateProfile", err)
	}
	log.Info("Updated user profile", "userID", u.ID, "version", u.Version)
	return u, nil
}

func (s *service) UpdateRole(ctx context.Context, id string, role Role) (*User, error) {
	if err := apperr.Validate(RoleInput{Role: role}); err != nil {
		return nil, s.reject("UpdateRole", err)
	}
	var from Role
	u, err := s.users.Update(ctx, id, func(u *User) error {
		from = u.Role
		u.Role = role
		return nil
	})
	if err != nil {
		return nil, s.reject("UpdateRole", err)
	}
	log.Info("Updated user role", "userID", u.ID, "from", from, "to", u.Role)
	return u, nil
}

// DeleteUser succeeds without change when the user does not exist.
func (s *service) DeleteUser(ctx context.Context, id string) error {
	removed, err := s.users.Delete(ctx, id)
	if err != nil {
		log.Error("Failed to delete user", "error", err, "userID", id)
		return err
	}
	if removed {
		log.Info("Deleted user", "userID", id)
	}
	return nil
}

// emailFree rejects email when a user other than self already has it.
func (s *service) emailFree(ctx context.Context, email, self string) error {
	users, err := s.users.List(ctx, "email", email)
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.ID != self {
			return apperr.InvalidState("email %s is already registered", email)
		}
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *service) reject(op string, err error) error {
	if apperr.IsRejection(err) || apperr.Reason(err) == "not_found" {
		s.metrics.IncRejections(apperr.Reason(err))
		log.Warn("Rejected operation", "op", op, "error", err)
	} else {
		log.Error("Operation failed", "op", op, "error", err)
	}
	return err
}
