package dto

import (
	"time"

	"cad-pipeline-service/internal/core/domain"
)

type CreateAssemblyRequest struct {
	Name       string         `json:"name" binding:"required"`
	Kind       string         `json:"kind" binding:"required"`
	ParentID   *int64         `json:"parent_id"`
	Parameters map[string]any `json:"parameters"`
}

type UpdateAssemblyRequest struct {
	Name       *string         `json:"name"`
	Kind       *string         `json:"kind"`
	ParentID   *int64          `json:"parent_id"`
	Parameters *map[string]any `json:"parameters"`
}

type AssemblyResponse struct {
	ID         int64          `json:"id"`
	Name       string         `json:"name"`
	Kind       string         `json:"kind"`
	ParentID   *int64         `json:"parent_id"`
	Parameters map[string]any `json:"parameters"`
	Version    int            `json:"version"`
	IsDeleted  bool           `json:"is_deleted"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func ToAssemblyResponse(a *domain.Assembly) AssemblyResponse {
	params := a.Parameters
	if params == nil {
		params = domain.Parameters{}
	}
	return AssemblyResponse{
		ID:         a.ID,
		Name:       a.Name,
		Kind:       string(a.Kind),
		ParentID:   a.ParentID,
		Parameters: params,
		Version:    a.Version,
		IsDeleted:  a.IsDeleted,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}
