package dto

import (
	"time"

	"cad-pipeline-service/internal/core/domain"
)

type ExportAssemblyRequest struct {
	Formats []string `json:"formats"`
}

// ArtifactResponse carries artifact metadata; the bytes themselves are served
// by the download endpoint.
type ArtifactResponse struct {
	ID              int64     `json:"id"`
	AssemblyID      int64     `json:"assembly_id"`
	Format          string    `json:"format"`
	SizeBytes       int       `json:"size_bytes"`
	AssemblyVersion int       `json:"assembly_version"`
	GeneratedAt     time.Time `json:"generated_at"`
}

type ExportAssemblyResponse struct {
	Artifacts map[string]ArtifactResponse `json:"artifacts"`
}

func ToArtifactResponse(a *domain.ExportedArtifact) ArtifactResponse {
	return ArtifactResponse{
		ID:              a.ID,
		AssemblyID:      a.AssemblyID,
		Format:          string(a.Format),
		SizeBytes:       len(a.Data),
		AssemblyVersion: a.AssemblyVersion,
		GeneratedAt:     a.GeneratedAt,
	}
}
