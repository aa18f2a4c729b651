package dto

type RequestLoginRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyLoginRequest struct {
	Token string `json:"token" validate:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
}
