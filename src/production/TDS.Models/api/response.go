package api_models

import "time"

// Response is the envelope every endpoint returns
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Ok wraps data in a success envelope
func Ok(data interface{}) Response {
	return Response{Success: true, Data: data}
}

// Fail wraps an error message in a failure envelope
func Fail(message string) Response {
	return Response{Success: false, Error: message}
}

// AuthData is the payload returned by signup and login
type AuthData struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
