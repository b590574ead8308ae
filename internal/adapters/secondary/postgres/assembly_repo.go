package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"cad-pipeline-service/internal/core/domain"
	ports "cad-pipeline-service/internal/core/ports/output"
)

type assemblyRepo struct {
	pool *pgxpool.Pool
}

func NewAssemblyRepository(pool *pgxpool.Pool) ports.AssemblyRepository {
	return &assemblyRepo{pool: pool}
}

func (r *assemblyRepo) Create(ctx context.Context, a *domain.Assembly) error {
	paramsJSON, err := json.Marshal(a.Parameters)
	if err != nil {
		return fmt.Errorf("marshal parameters: %w", err)
	}

	query := `
		INSERT INTO assembly
			(name, kind, parent_id, parameters, version, is_deleted, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id
	`
	err = r.pool.QueryRow(ctx, query,
		a.Name, string(a.Kind), a.ParentID, paramsJSON,
		a.Version, a.IsDeleted, a.CreatedAt, a.UpdatedAt,
	).Scan(&a.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrNameConflict
		}
		return fmt.Errorf("create assembly: %w", err)
	}
	return nil
}

func (r *assemblyRepo) GetByID(ctx context.Context, id int64) (*domain.Assembly, error) {
	query := `
		SELECT id, name, kind, parent_id, parameters, version, is_deleted, created_at, updated_at
		FROM assembly
		WHERE id = $1 AND NOT is_deleted
	`
	a, err := scanAssembly(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAssemblyNotFound
		}
		return nil, fmt.Errorf("get assembly by id: %w", err)
	}
	return a, nil
}

func (r *assemblyRepo) List(ctx context.Context, filter ports.ListFilter) ([]*domain.Assembly, error) {
	query := `
		SELECT id, name, kind, parent_id, parameters, version, is_deleted, created_at, updated_at
		FROM assembly
		WHERE NOT is_deleted
	`
	args := []interface{}{}
	if filter.Kind != "" {
		query += ` AND kind = $1`
		args = append(args, string(filter.Kind))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list assemblies: %w", err)
	}
	defer rows.Close()

	assemblies := []*domain.Assembly{}
	for rows.Next() {
		a, err := scanAssembly(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assembly: %w", err)
		}
		assemblies = append(assemblies, a)
	}
	return assemblies, rows.Err()
}

func (r *assemblyRepo) Update(ctx context.Context, a *domain.Assembly) error {
	paramsJSON, err := json.Marshal(a.Parameters)
	if err != nil {
		return fmt.Errorf("marshal parameters: %w", err)
	}

	query := `
		UPDATE assembly
		SET name=$1, kind=$2, parent_id=$3, parameters=$4, version=$5, updated_at=$6
		WHERE id=$7 AND NOT is_deleted
	`
	result, err := r.pool.Exec(ctx, query,
		a.Name, string(a.Kind), a.ParentID, paramsJSON,
		a.Version, a.UpdatedAt, a.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrNameConflict
		}
		return fmt.Errorf("update assembly: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrAssemblyNotFound
	}
	return nil
}

// SoftDelete flips is_deleted on an active row. The row is retained for
// audit; a second delete reports a conflict rather than succeeding silently.
func (r *assemblyRepo) SoftDelete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE assembly SET is_deleted = true, updated_at = NOW() WHERE id = $1 AND NOT is_deleted`, id)
	if err != nil {
		return fmt.Errorf("soft delete assembly: %w", err)
	}
	if result.RowsAffected() > 0 {
		return nil
	}

	var isDeleted bool
	err = r.pool.QueryRow(ctx, `SELECT is_deleted FROM assembly WHERE id = $1`, id).Scan(&isDeleted)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrAssemblyNotFound
	}
	if err != nil {
		return fmt.Errorf("soft delete assembly: %w", err)
	}
	if isDeleted {
		return domain.ErrAlreadyDeleted
	}
	return domain.ErrAssemblyNotFound
}

func scanAssembly(row pgx.Row) (*domain.Assembly, error) {
	var a domain.Assembly
	var kind string
	var paramsJSON []byte

	err := row.Scan(&a.ID, &a.Name, &kind, &a.ParentID, &paramsJSON,
		&a.Version, &a.IsDeleted, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.Kind = domain.Kind(kind)

	a.Parameters = domain.Parameters{}
	if len(paramsJSON) > 0 {
		if err := json.Unmarshal(paramsJSON, &a.Parameters); err != nil {
			return nil, fmt.Errorf("unmarshal parameters: %w", err)
		}
	}
	return &a, nil
}
