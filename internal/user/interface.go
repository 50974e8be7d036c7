package user

import "context"

// UserService keeps the profiles that organizer, owner and coach ids point at.
type UserService interface {
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetAllUsers(ctx context.Context, role Role) ([]User, error)
	CreateUser(ctx context.Context, in NewUser) (*User, error)
	UpdateProfile(ctx context.Context, id string, patch ProfilePatch) (*User, error)
	UpdateRole(ctx context.Context, id string, role Role) (*User, error)
	DeleteUser(ctx context.Context, id string) error
}
