package dto

type LoginRequest struct {
	UserName string `json:"user_name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type CallbackRequest struct {
	Code string `json:"code" validate:"required"`
}

type LoginResponse struct {
	SessionID string `json:"session_id"`
	Token     string `json:"token"`
	UserName  string `json:"user_name"`
	Email     string `json:"email,omitempty"`
	Group     string `json:"group,omitempty"`
}

type HostedURLsResponse struct {
	Login          string `json:"login"`
	ForgotPassword string `json:"forgot_password"`
	SignUp         string `json:"sign_up"`
}

type MeResponse struct {
	IsLoggedIn bool     `json:"is_logged_in"`
	UserName   string   `json:"user_name,omitempty"`
	Email      string   `json:"email,omitempty"`
	Group      string   `json:"group,omitempty"`
	Groups     []string `json:"groups,omitempty"`
}
