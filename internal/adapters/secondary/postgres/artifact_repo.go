package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"cad-pipeline-service/internal/core/domain"
	ports "cad-pipeline-service/internal/core/ports/output"
)

type artifactRepo struct {
	pool *pgxpool.Pool
}

func NewArtifactRepository(pool *pgxpool.Pool) ports.ArtifactRepository {
	return &artifactRepo{pool: pool}
}

// Upsert overwrites the single artifact slot for (assembly, format) and
// fills in the generated id and timestamp.
func (r *artifactRepo) Upsert(ctx context.Context, artifact *domain.ExportedArtifact) error {
	query := `
		INSERT INTO exported_artifact (assembly_id, format, data, assembly_version, generated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (assembly_id, format) DO UPDATE
		SET data = EXCLUDED.data,
			assembly_version = EXCLUDED.assembly_version,
			generated_at = EXCLUDED.generated_at
		RETURNING id, generated_at
	`
	err := r.pool.QueryRow(ctx, query,
		artifact.AssemblyID, string(artifact.Format), artifact.Data, artifact.AssemblyVersion,
	).Scan(&artifact.ID, &artifact.GeneratedAt)
	if err != nil {
		return fmt.Errorf("upsert exported artifact: %w", err)
	}
	return nil
}

func (r *artifactRepo) GetByID(ctx context.Context, id int64) (*domain.ExportedArtifact, error) {
	query := `
		SELECT id, assembly_id, format, data, assembly_version, generated_at
		FROM exported_artifact
		WHERE id = $1
	`
	artifact, err := scanArtifact(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrArtifactNotFound
		}
		return nil, fmt.Errorf("get exported artifact by id: %w", err)
	}
	return artifact, nil
}

func (r *artifactRepo) GetByAssemblyAndFormat(ctx context.Context, assemblyID int64, format domain.Format) (*domain.ExportedArtifact, error) {
	query := `
		SELECT id, assembly_id, format, data, assembly_version, generated_at
		FROM exported_artifact
		WHERE assembly_id = $1 AND format = $2
	`
	artifact, err := scanArtifact(r.pool.QueryRow(ctx, query, assemblyID, string(format)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrArtifactNotFound
		}
		return nil, fmt.Errorf("get exported artifact: %w", err)
	}
	return artifact, nil
}

func scanArtifact(row pgx.Row) (*domain.ExportedArtifact, error) {
	var artifact domain.ExportedArtifact
	var format string
	err := row.Scan(&artifact.ID, &artifact.AssemblyID, &format,
		&artifact.Data, &artifact.AssemblyVersion, &artifact.GeneratedAt)
	if err != nil {
		return nil, err
	}
	artifact.Format = domain.Format(format)
	return &artifact, nil
}
