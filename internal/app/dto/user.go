package dto

import (
	"time"

	domainuser "staybook/internal/domain/user"
)

type UserProfile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

func NewAuthResponse(u *domainuser.User, token string) AuthResponse {
	return AuthResponse{Token: token, User: MapUserProfile(u)}
}

func MapUserProfile(u *domainuser.User) UserProfile {
	roles := make([]string, 0, len(u.Roles))
	for _, role := range u.Roles {
		roles = append(roles, string(role))
	}
	return UserProfile{
		ID:        string(u.ID),
		Email:     u.Email,
		Name:      u.Name,
		Roles:     roles,
		CreatedAt: u.CreatedAt,
	}
}
