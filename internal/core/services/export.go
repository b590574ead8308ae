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

// ExportService avoids recomputing a geometry export when the assembly's
// parameters have not changed since the last one. Freshness is decided by the
// assembly version: the cache key embeds it, and the stored artifact row
// records the version it was generated from.
type ExportService struct {
	assemblies ports.AssemblyRepository
	artifacts  ports.ArtifactRepository
	cache      ports.Cache
	kernel     ports.GeometryKernel
	ttl        time.Duration
}

func NewExportService(assemblies ports.AssemblyRepository, artifacts ports.ArtifactRepository, cache ports.Cache, kernel ports.GeometryKernel, ttl time.Duration) *ExportService {
	return &ExportService{
		assemblies: assemblies,
		artifacts:  artifacts,
		cache:      cache,
		kernel:     kernel,
		ttl:        ttl,
	}
}

// A version bump makes every older key unreachable; the TTL bounds how long
// the orphaned entries live.
func exportKey(assemblyID int64, version int, format domain.Format) string {
	return fmt.Sprintf("export:%d:v%d:%s", assemblyID, version, format)
}

// GetOrBuild returns one artifact per requested format, rebuilding geometry
// only for formats with no fresh artifact. Formats are committed
// independently: a failure aborts the batch, but artifacts already stored for
// earlier formats stay committed.
func (s *ExportService) GetOrBuild(ctx context.Context, assemblyID int64, formats []domain.Format) (map[domain.Format]*domain.ExportedArtifact, error) {
	assembly, err := s.assemblies.GetByID(ctx, assemblyID)
	if err != nil {
		return nil, err
	}

	// The solid is built at most once per call, shared across formats.
	var solid ports.Solid
	buildSolid := func() (ports.Solid, error) {
		if solid != nil {
			return solid, nil
		}
		built, err := geometry.Build(ctx, s.kernel, assembly.Kind, assembly.Parameters)
		if err != nil {
			return nil, err
		}
		solid = built
		return solid, nil
	}

	results := make(map[domain.Format]*domain.ExportedArtifact, len(formats))
	for _, format := range dedupeFormats(formats) {
		if _, err := domain.ParseFormat(string(format)); err != nil {
			return nil, err
		}
		key := exportKey(assembly.ID, assembly.Version, format)

		if artifact, ok := s.cacheGet(ctx, key); ok {
			results[format] = artifact
			continue
		}

		artifact, err := s.artifacts.GetByAssemblyAndFormat(ctx, assembly.ID, format)
		switch {
		case err == nil && artifact.AssemblyVersion == assembly.Version:
			s.cacheSet(ctx, key, artifact)
			results[format] = artifact
			continue
		case err != nil && !errors.Is(err, domain.ErrArtifactNotFound):
			return nil, err
		}

		built, err := buildSolid()
		if err != nil {
			if errors.Is(err, domain.ErrUnsupportedKind) || errors.Is(err, domain.ErrInvalidParameters) || errors.Is(err, domain.ErrUnsupportedPattern) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %v", domain.ErrExportFailed, err)
		}
		data, err := s.kernel.Export(ctx, built, format)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrExportFailed, err)
		}

		artifact = &domain.ExportedArtifact{
			AssemblyID:      assembly.ID,
			Format:          format,
			Data:            data,
			AssemblyVersion: assembly.Version,
		}
		if err := s.artifacts.Upsert(ctx, artifact); err != nil {
			return nil, err
		}
		s.cacheSet(ctx, key, artifact)
		results[format] = artifact
	}
	return results, nil
}

// GetArtifact loads a stored artifact for the binary download endpoint.
// Artifacts of soft-deleted assemblies remain retrievable.
func (s *ExportService) GetArtifact(ctx context.Context, id int64) (*domain.ExportedArtifact, error) {
	return s.artifacts.GetByID(ctx, id)
}

func dedupeFormats(formats []domain.Format) []domain.Format {
	seen := make(map[domain.Format]bool, len(formats))
	out := make([]domain.Format, 0, len(formats))
	for _, f := range formats {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

func (s *ExportService) cacheGet(ctx context.Context, key string) (*domain.ExportedArtifact, bool) {
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		log.WithError(err).Warn("export cache read failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var artifact domain.ExportedArtifact
	if err := json.Unmarshal(raw, &artifact); err != nil {
		log.WithError(err).Warn("export cache entry corrupt, discarding")
		return nil, false
	}
	return &artifact, true
}

func (s *ExportService) cacheSet(ctx context.Context, key string, artifact *domain.ExportedArtifact) {
	raw, err := json.Marshal(artifact)
	if err != nil {
		log.WithError(err).Warn("marshal artifact for cache failed")
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
		log.WithError(err).Warn("export cache write failed")
	}
}
