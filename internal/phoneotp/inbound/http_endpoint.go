package inbound

import (
	"time"

	"github.com/shandysiswandi/phoneotp/internal/phoneotp/usecase"
	"github.com/shandysiswandi/phoneotp/internal/pkg/router"
)

// HTTPEndpoint exposes the phone verification flow over HTTP.
type HTTPEndpoint struct {
	uc uc
}

// RequestCode issues a code for the phone and sends it by SMS.
func (h *HTTPEndpoint) RequestCode(r *router.Request) (any, error) {
	var req RequestCodeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.RequestCode(r.Context(), usecase.RequestCodeInput{Phone: req.Phone})
	if err != nil {
		return nil, err
	}

	return RequestCodeResponse{
		Phone:     resp.Phone,
		ExpiresAt: resp.ExpiresAt.UTC().Format(time.RFC3339),
		Code:      resp.Code,
	}, nil
}

// SubmitCode checks a code against the pending challenge.
func (h *HTTPEndpoint) SubmitCode(r *router.Request) (any, error) {
	var req SubmitCodeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.SubmitCode(r.Context(), usecase.SubmitCodeInput{
		Phone: req.Phone,
		Code:  req.Code,
	})
	if err != nil {
		return nil, err
	}

	return SubmitCodeResponse{Phone: resp.Phone, Verified: true}, nil
}

// Status reports the remaining lifetime of the pending challenge.
func (h *HTTPEndpoint) Status(r *router.Request) (any, error) {
	ttl, err := h.uc.RemainingTTL(r.Context(), usecase.RemainingTTLInput{Phone: r.GetQuery("phone")})
	if err != nil {
		return nil, err
	}

	return StatusResponse{RemainingSeconds: int64(ttl / time.Second)}, nil
}

// Revoke drops the pending challenge.
func (h *HTTPEndpoint) Revoke(r *router.Request) (any, error) {
	var req RevokeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.Revoke(r.Context(), usecase.RevokeInput{Phone: req.Phone}); err != nil {
		return nil, err
	}

	return RevokeResponse{}, nil
}
