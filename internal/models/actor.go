package models

// Actor is the verified caller identity handed to every core operation.
// Services trust it as given.
type Actor struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}
