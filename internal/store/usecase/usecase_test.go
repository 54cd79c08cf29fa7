package usecase

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/store/dto"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockStoreRepo struct {
	stores []model.Store
}

func (m *MockStoreRepo) Create(_ context.Context, s *model.Store) error {
	for _, existing := range m.stores {
		if existing.Name == s.Name {
			return &pgconn.PgError{Code: "23505", ConstraintName: "stores_name_key"}
		}
	}
	m.stores = append(m.stores, *s)
	return nil
}

func (m *MockStoreRepo) FindByID(_ context.Context, id string) (*model.Store, error) {
	for _, s := range m.stores {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, nil
}

func (m *MockStoreRepo) FindByUser(_ context.Context, userID string) ([]model.Store, error) {
	out := []model.Store{}
	for _, s := range m.stores {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MockStoreRepo) Update(_ context.Context, s *model.Store) error {
	for i := range m.stores {
		if m.stores[i].ID != s.ID && m.stores[i].Name == s.Name {
			return &pgconn.PgError{Code: "23505", ConstraintName: "stores_name_key"}
		}
	}
	for i := range m.stores {
		if m.stores[i].ID == s.ID {
			m.stores[i] = *s
		}
	}
	return nil
}

func (m *MockStoreRepo) Delete(_ context.Context, id, _ string) error {
	for i := range m.stores {
		if m.stores[i].ID == id {
			m.stores = append(m.stores[:i], m.stores[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *MockStoreRepo) Exists(_ context.Context, id, userID string) (bool, error) {
	for _, s := range m.stores {
		if s.ID == id && s.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func TestCreateStoreNameConflict(t *testing.T) {
	uc := NewStoreUseCase(&MockStoreRepo{}, logger.NewNop())

	s, err := uc.CreateStore(context.Background(), &dto.CreateStoreInput{UserID: "u1", CreateStoreRequest: dto.CreateStoreRequest{Name: "Acme"}})
	require.NoError(t, err)
	assert.Equal(t, "u1", s.UserID)

	_, err = uc.CreateStore(context.Background(), &dto.CreateStoreInput{UserID: "u2", CreateStoreRequest: dto.CreateStoreRequest{Name: "Acme"}})
	require.True(t, apperror.Is(err, apperror.KindConflict))
	assert.Equal(t, []string{MsgNameTaken}, apperror.From(err).Fields["name"])
}

func TestOwnershipAndFirstStore(t *testing.T) {
	uc := NewStoreUseCase(&MockStoreRepo{}, logger.NewNop())
	first, err := uc.FirstStoreID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, first)

	s, err := uc.CreateStore(context.Background(), &dto.CreateStoreInput{UserID: "u1", CreateStoreRequest: dto.CreateStoreRequest{Name: "Acme"}})
	require.NoError(t, err)

	first, err = uc.FirstStoreID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, s.ID, first)

	owns, err := uc.Owns(context.Background(), s.ID, "u1")
	require.NoError(t, err)
	assert.True(t, owns)
	owns, _ = uc.Owns(context.Background(), s.ID, "u2")
	assert.False(t, owns)
	owns, _ = uc.Owns(context.Background(), "not-a-uuid", "u1")
	assert.False(t, owns)
}

func TestUpdateAndDeleteRequireOwner(t *testing.T) {
	uc := NewStoreUseCase(&MockStoreRepo{}, logger.NewNop())
	s, err := uc.CreateStore(context.Background(), &dto.CreateStoreInput{UserID: "u1", CreateStoreRequest: dto.CreateStoreRequest{Name: "Acme"}})
	require.NoError(t, err)

	phone := "+62 811"
	updated, err := uc.UpdateStore(context.Background(), &dto.UpdateStoreInput{
		ID: s.ID, UserID: "u1",
		UpdateStoreRequest: dto.UpdateStoreRequest{Name: "Acme Supply", Phone: &phone},
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Supply", updated.Name)
	assert.Equal(t, "+62 811", *updated.Phone)

	_, err = uc.UpdateStore(context.Background(), &dto.UpdateStoreInput{
		ID: s.ID, UserID: "u2", UpdateStoreRequest: dto.UpdateStoreRequest{Name: "Hijacked"},
	})
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	assert.True(t, apperror.Is(uc.DeleteStore(context.Background(), s.ID, "u2"), apperror.KindForbidden))
	require.NoError(t, uc.DeleteStore(context.Background(), s.ID, "u1"))
	_, err = uc.GetStore(context.Background(), s.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}
