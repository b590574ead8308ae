package ports

import (
	"context"

	"cad-pipeline-service/internal/core/domain"
)

type ListFilter struct {
	Kind domain.Kind
}

// AssemblyRepository is the persistence port for assemblies. Read operations
// apply the active-only view uniformly: soft-deleted rows are reported as
// absent. The rows themselves are never physically removed.
type AssemblyRepository interface {
	Create(ctx context.Context, assembly *domain.Assembly) error
	GetByID(ctx context.Context, id int64) (*domain.Assembly, error)
	List(ctx context.Context, filter ListFilter) ([]*domain.Assembly, error)
	Update(ctx context.Context, assembly *domain.Assembly) error
	SoftDelete(ctx context.Context, id int64) error
}

type ArtifactRepository interface {
	Upsert(ctx context.Context, artifact *domain.ExportedArtifact) error
	GetByID(ctx context.Context, id int64) (*domain.ExportedArtifact, error)
	GetByAssemblyAndFormat(ctx context.Context, assemblyID int64, format domain.Format) (*domain.ExportedArtifact, error)
}
