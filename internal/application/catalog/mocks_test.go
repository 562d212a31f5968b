package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/stretchr/testify/mock"
)

// MockResourceRepository is a mock implementation of catalog.ResourceRepository
type MockResourceRepository struct {
	mock.Mock
}

func (m *MockResourceRepository) List(ctx context.Context, kind catalog.KindSpec, token string) ([]catalog.Resource, error) {
	args := m.Called(ctx, kind, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Resource), args.Error(1)
}

func (m *MockResourceRepository) Get(ctx context.Context, kind catalog.KindSpec, id int64, token string) (*catalog.Resource, error) {
	args := m.Called(ctx, kind, id, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Resource), args.Error(1)
}

func (m *MockResourceRepository) Create(ctx context.Context, kind catalog.KindSpec, body json.RawMessage, token string) (*catalog.Resource, error) {
	args := m.Called(ctx, kind, body, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Resource), args.Error(1)
}

func (m *MockResourceRepository) Update(ctx context.Context, kind catalog.KindSpec, id int64, body json.RawMessage, token string) (*catalog.Resource, error) {
	args := m.Called(ctx, kind, id, body, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Resource), args.Error(1)
}

func (m *MockResourceRepository) SetStatus(ctx context.Context, kind catalog.KindSpec, id int64, active bool, token string) error {
	return m.Called(ctx, kind, id, active, token).Error(0)
}

func (m *MockResourceRepository) SoftDelete(ctx context.Context, kind catalog.KindSpec, id int64, token string) error {
	return m.Called(ctx, kind, id, token).Error(0)
}

func (m *MockResourceRepository) HardDelete(ctx context.Context, kind catalog.KindSpec, id int64, token string) error {
	return m.Called(ctx, kind, id, token).Error(0)
}

func (m *MockResourceRepository) Restore(ctx context.Context, kind catalog.KindSpec, id int64, token string) error {
	return m.Called(ctx, kind, id, token).Error(0)
}

// MockSearcher is a mock implementation of catalog.Searcher
type MockSearcher struct {
	mock.Mock
}

func (m *MockSearcher) SearchProducts(ctx context.Context, q catalog.SearchQuery) ([]catalog.Resource, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Resource), args.Error(1)
}

func (m *MockSearcher) SearchCategories(ctx context.Context, q catalog.SearchQuery) ([]catalog.Resource, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Resource), args.Error(1)
}

// MockImageStorage is a mock implementation of ImageStorage
type MockImageStorage struct {
	mock.Mock
}

func (m *MockImageStorage) PresignUpload(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, key, contentType, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockImageStorage) PublicURL(key string) string {
	return m.Called(key).String(0)
}

func (m *MockImageStorage) ObjectExists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockImageStorage) DeleteObject(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func employee(position string) identity.Principal {
	return identity.Authenticated("sid-emp", &identity.Session{
		UserName:    "staff",
		AccessToken: "emp-token",
		Employee:    &identity.EmployeeRef{EmployeeID: 3, Position: position},
	})
}

func customer() identity.Principal {
	return identity.Authenticated("sid-cust", &identity.Session{
		UserName:    "shopper",
		AccessToken: "cust-token",
		Customer:    &identity.CustomerRef{CustomerID: 9},
	})
}

// res builds a resource of kind with the kind's status flag set
func res(kind catalog.KindSpec, id int64, name string, inTrash bool, extra map[string]any) catalog.Resource {
	attrs := map[string]any{kind.IDField: id, kind.NameField: name}
	switch kind.StatusField {
	case catalog.StatusDeleted:
		attrs[string(kind.StatusField)] = inTrash
	default:
		attrs[string(kind.StatusField)] = !inTrash
	}
	for k, v := range extra {
		attrs[k] = v
	}
	raw, err := json.Marshal(attrs)
	if err != nil {
		panic(err)
	}
	r, err := catalog.ParseResource(kind, raw)
	if err != nil {
		panic(fmt.Sprintf("bad fixture: %v", err))
	}
	return r
}

func mustKind(k catalog.Kind) catalog.KindSpec {
	spec, ok := catalog.Lookup(k)
	if !ok {
		panic("unknown kind " + string(k))
	}
	return spec
}
