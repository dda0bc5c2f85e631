package models

// CurrentUser represents the authenticated user as returned by the backend
type CurrentUser struct {
	Reward int64 `json:"reward"`
}

// CurrentUserResponse is the envelope returned by GET /api/users/me
// Example: {"data": {"reward": 10}}
type CurrentUserResponse struct {
	Data CurrentUser `json:"data"`
}
