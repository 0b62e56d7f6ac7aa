package dto

import "github.com/google/uuid"

type AdminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateAdminRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"idToken"`
}

type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name,omitempty"`
	Role  string    `json:"role"`
}

type AdminLoginResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	Admin   UserResponse `json:"admin"`
}

type CreateAdminResponse struct {
	Message string       `json:"message"`
	Admin   UserResponse `json:"admin"`
}

// GoogleLoginResponse echoes the verified assertion back as the session
// token; no local token is minted for federated users.
type GoogleLoginResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
