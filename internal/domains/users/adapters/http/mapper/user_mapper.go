package mapper

import (
	"time"

	userdomain "github.com/Apurer/go-gin-marketplace/internal/domains/users/domain"
	userports "github.com/Apurer/go-gin-marketplace/internal/domains/users/ports"
)

// RegisterPayload is the sign-up body.
type RegisterPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// LoginPayload is the sign-in body.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is the transport-level user. The password hash never leaves the service.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Session is the login response.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}

// ToRegisterInput converts the sign-up body into the application input.
func ToRegisterInput(payload RegisterPayload) userports.RegisterInput {
	return userports.RegisterInput{
		Email:    payload.Email,
		Password: payload.Password,
		Name:     payload.Name,
		Role:     payload.Role,
	}
}

// FromDomainUser converts a domain user into a transport representation.
func FromDomainUser(user *userdomain.User) User {
	if user == nil {
		return User{}
	}
	return User{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  string(user.Role),
	}
}

// FromSession builds the login response.
func FromSession(session *userdomain.Session, user *userdomain.User) Session {
	if session == nil {
		return Session{User: FromDomainUser(user)}
	}
	return Session{Token: session.Token, ExpiresAt: session.ExpiresAt, User: FromDomainUser(user)}
}
