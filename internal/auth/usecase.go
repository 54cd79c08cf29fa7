package auth

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/auth/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type UseCase interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*model.User, error)
	// Login checks the credentials and returns the user with the path the
	// dashboard should open: the first store, or /setup when there is none.
	Login(ctx context.Context, req *dto.LoginRequest) (*model.User, string, error)
	Me(ctx context.Context, id string) (*model.User, error)
}

// StoreLocator finds the store a user lands on after login.
type StoreLocator interface {
	FirstStoreID(ctx context.Context, userID string) (string, error)
}
