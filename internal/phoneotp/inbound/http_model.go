package inbound

import "net/http"

type RequestCodeRequest struct {
	Phone string `json:"phone"`
}

type RequestCodeResponse struct {
	Phone     string `json:"phone"`
	ExpiresAt string `json:"expires_at"`
	Code      string `json:"code,omitempty"`
}

func (RequestCodeResponse) Message() string {
	return "Verification code sent"
}

type SubmitCodeRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

type SubmitCodeResponse struct {
	Phone    string `json:"phone"`
	Verified bool   `json:"verified"`
}

func (SubmitCodeResponse) Message() string {
	return "Phone number verified"
}

type StatusResponse struct {
	RemainingSeconds int64 `json:"remaining_seconds"`
}

type RevokeRequest struct {
	Phone string `json:"phone"`
}

type RevokeResponse struct{}

func (RevokeResponse) StatusCode() int {
	return http.StatusNoContent
}
