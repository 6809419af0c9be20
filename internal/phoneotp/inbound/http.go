package inbound

import (
	"context"
	"time"

	"github.com/shandysiswandi/phoneotp/internal/phoneotp/usecase"
	"github.com/shandysiswandi/phoneotp/internal/pkg/router"
)

type uc interface {
	RequestCode(ctx context.Context, in usecase.RequestCodeInput) (*usecase.RequestCodeOutput, error)
	SubmitCode(ctx context.Context, in usecase.SubmitCodeInput) (*usecase.SubmitCodeOutput, error)
	RemainingTTL(ctx context.Context, in usecase.RemainingTTLInput) (time.Duration, error)
	Revoke(ctx context.Context, in usecase.RevokeInput) error
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/phone-otp/request", end.RequestCode)
	r.POST("/api/v1/phone-otp/verify", end.SubmitCode)
	r.GET("/api/v1/phone-otp/status", end.Status)
	r.POST("/api/v1/phone-otp/revoke", end.Revoke)
}
