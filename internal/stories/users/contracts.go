package users

import (
	"context"

	"smm-storefront/internal/infra/panelapi"
)

type (
	Panel interface {
		Login(ctx context.Context, req panelapi.LoginRequest) (*panelapi.LoginResponse, error)
		Logout(ctx context.Context, token string) error
		UserDetail(ctx context.Context, token string) (*panelapi.User, error)
		LoginHistory(ctx context.Context, token string) ([]panelapi.LoginHistoryItem, error)
		UpdateProfile(ctx context.Context, token string, req panelapi.UpdateProfileRequest) (*panelapi.User, error)
	}
)
