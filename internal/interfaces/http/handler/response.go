package handler

import "github.com/ecclesia/backend/internal/interfaces/http/dto"

// APIResponse documents dto.Response with a typed data field for swag
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

type MessageData struct {
	Message string `json:"message" example:"Logged out successfully"`
}

// ProgressData is the share of lesson dates already past, in percent
type ProgressData struct {
	Progress int `json:"progress" example:"38"`
}
