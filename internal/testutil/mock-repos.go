package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"cad-pipeline-service/internal/core/domain"
	ports "cad-pipeline-service/internal/core/ports/output"
)

// MockAssemblyRepo is a mock of AssemblyRepository.
type MockAssemblyRepo struct {
	mock.Mock
}

func (m *MockAssemblyRepo) Create(ctx context.Context, assembly *domain.Assembly) error {
	args := m.Called(ctx, assembly)
	return args.Error(0)
}

func (m *MockAssemblyRepo) GetByID(ctx context.Context, id int64) (*domain.Assembly, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Assembly), args.Error(1)
}

func (m *MockAssemblyRepo) List(ctx context.Context, filter ports.ListFilter) ([]*domain.Assembly, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Assembly), args.Error(1)
}

func (m *MockAssemblyRepo) Update(ctx context.Context, assembly *domain.Assembly) error {
	args := m.Called(ctx, assembly)
	return args.Error(0)
}

func (m *MockAssemblyRepo) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockArtifactRepo is a mock of ArtifactRepository.
type MockArtifactRepo struct {
	mock.Mock
}

func (m *MockArtifactRepo) Upsert(ctx context.Context, artifact *domain.ExportedArtifact) error {
	args := m.Called(ctx, artifact)
	return args.Error(0)
}

func (m *MockArtifactRepo) GetByID(ctx context.Context, id int64) (*domain.ExportedArtifact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExportedArtifact), args.Error(1)
}

func (m *MockArtifactRepo) GetByAssemblyAndFormat(ctx context.Context, assemblyID int64, format domain.Format) (*domain.ExportedArtifact, error) {
	args := m.Called(ctx, assemblyID, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExportedArtifact), args.Error(1)
}
