package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"cad-pipeline-service/internal/core/domain"
	"cad-pipeline-service/internal/core/geometry"
	ports "cad-pipeline-service/internal/core/ports/output"
)

// AssemblyService owns CRUD, versioning and cache coherence for assemblies.
// The database is the source of truth; the cache key "assembly:<id>" holds the
// JSON-encoded row and is disposable at any time.
type AssemblyService struct {
	repo  ports.AssemblyRepository
	cache ports.Cache
	ttl   time.Duration
}

func NewAssemblyService(repo ports.AssemblyRepository, cache ports.Cache, ttl time.Duration) *AssemblyService {
	return &AssemblyService{repo: repo, cache: cache, ttl: ttl}
}

func assemblyKey(id int64) string {
	return fmt.Sprintf("assembly:%d", id)
}

func (s *AssemblyService) Create(ctx context.Context, name string, kind domain.Kind, parentID *int64, params domain.Parameters) (*domain.Assembly, error) {
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if !kind.Valid() {
		return nil, domain.ErrInvalidKind
	}
	if params == nil {
		params = domain.Parameters{}
	}
	if err := geometry.ValidateParameters(kind, params); err != nil {
		return nil, err
	}
	if parentID != nil {
		if _, err := s.repo.GetByID(ctx, *parentID); err != nil {
			if errors.Is(err, domain.ErrAssemblyNotFound) {
				return nil, domain.ErrParentNotFound
			}
			return nil, err
		}
	}

	now := time.Now().UTC()
	assembly := &domain.Assembly{
		Name:       name,
		Kind:       kind,
		ParentID:   parentID,
		Parameters: params,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Create(ctx, assembly); err != nil {
		return nil, err
	}

	s.cacheSet(ctx, assembly)
	return assembly, nil
}

// Get serves from the cache when a live entry is present and falls back to
// the repository (repopulating the cache) otherwise. Soft-deleted assemblies
// are indistinguishable from absent ones.
func (s *AssemblyService) Get(ctx context.Context, id int64) (*domain.Assembly, error) {
	if raw, ok := s.cacheGet(ctx, id); ok {
		return raw, nil
	}

	assembly, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, assembly)
	return assembly, nil
}

func (s *AssemblyService) List(ctx context.Context, filter ports.ListFilter) ([]*domain.Assembly, error) {
	if filter.Kind != "" && !filter.Kind.Valid() {
		return nil, domain.ErrInvalidKind
	}
	return s.repo.List(ctx, filter)
}

// Update applies only the fields present in updates. The version counter
// increments by exactly one when the new parameters differ by value from the
// stored ones, and is untouched otherwise. The cache entry is evicted before
// the row is committed and repopulated only afterwards, so a concurrent
// reader never observes a state that matches neither the old nor the new row.
func (s *AssemblyService) Update(ctx context.Context, id int64, updates map[string]interface{}) (*domain.Assembly, error) {
	assembly, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if v, ok := updates["name"]; ok && v != nil {
		name := v.(string)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		assembly.Name = name
	}
	if v, ok := updates["kind"]; ok && v != nil {
		kind := domain.Kind(v.(string))
		if !kind.Valid() {
			return nil, domain.ErrInvalidKind
		}
		assembly.Kind = kind
	}
	if v, ok := updates["parent_id"]; ok {
		if v == nil {
			assembly.ParentID = nil
		} else {
			parentID := v.(int64)
			if _, err := s.repo.GetByID(ctx, parentID); err != nil {
				if errors.Is(err, domain.ErrAssemblyNotFound) {
					return nil, domain.ErrParentNotFound
				}
				return nil, err
			}
			assembly.ParentID = &parentID
		}
	}
	if v, ok := updates["parameters"]; ok && v != nil {
		params := v.(domain.Parameters)
		if err := geometry.ValidateParameters(assembly.Kind, params); err != nil {
			return nil, err
		}
		if !assembly.Parameters.Equal(params) {
			assembly.Parameters = params
			assembly.Version++
		}
	} else if v, ok := updates["kind"]; ok && v != nil {
		// Kind changed without new parameters: the stored bag must still
		// satisfy the new kind's schema.
		if err := geometry.ValidateParameters(domain.Kind(v.(string)), assembly.Parameters); err != nil {
			return nil, err
		}
	}
	assembly.UpdatedAt = time.Now().UTC()

	if err := s.cache.Delete(ctx, assemblyKey(id)); err != nil {
		return nil, fmt.Errorf("evict assembly cache: %w", err)
	}
	if err := s.repo.Update(ctx, assembly); err != nil {
		return nil, err
	}

	s.cacheSet(ctx, assembly)
	return assembly, nil
}

// SoftDelete marks the assembly as deleted and evicts its cache entry.
// Deleting an already-deleted assembly is a conflict, not a no-op.
func (s *AssemblyService) SoftDelete(ctx context.Context, id int64) error {
	if err := s.cache.Delete(ctx, assemblyKey(id)); err != nil {
		return fmt.Errorf("evict assembly cache: %w", err)
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *AssemblyService) cacheGet(ctx context.Context, id int64) (*domain.Assembly, bool) {
	raw, ok, err := s.cache.Get(ctx, assemblyKey(id))
	if err != nil {
		log.WithError(err).Warn("assembly cache read failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var assembly domain.Assembly
	if err := json.Unmarshal(raw, &assembly); err != nil {
		log.WithError(err).Warn("assembly cache entry corrupt, discarding")
		return nil, false
	}
	return &assembly, true
}

// cacheSet repopulates the read-through entry. Failures are logged, not
// propagated: the row is already durable and the cache will heal on the next
// read.
func (s *AssemblyService) cacheSet(ctx context.Context, assembly *domain.Assembly) {
	raw, err := json.Marshal(assembly)
	if err != nil {
		log.WithError(err).Warn("marshal assembly for cache failed")
		return
	}
	if err := s.cache.Set(ctx, assemblyKey(assembly.ID), raw, s.ttl); err != nil {
		log.WithError(err).Warn("assembly cache write failed")
	}
}
