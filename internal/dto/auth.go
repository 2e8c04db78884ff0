package dto

// AnonymousSessionResponse is returned by POST /api/v1/auth/anonymous
type AnonymousSessionResponse struct {
	UserID      string `json:"user_id"`
	AccessToken string `json:"access_token"`
}
