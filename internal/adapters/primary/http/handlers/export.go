package handlers

import (
	"fmt"
	"net/http"

	"cad-pipeline-service/internal/adapters/primary/http/dto"
	"cad-pipeline-service/internal/core/domain"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// ExportAssembly builds (or serves from cache) the requested formats and
// returns artifact metadata. The default is both supported formats.
func (h *Handler) ExportAssembly(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assembly id"})
		return
	}

	var req dto.ExportAssemblyRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	formats := []domain.Format{domain.FormatSTEP, domain.FormatSTL}
	if len(req.Formats) > 0 {
		formats = formats[:0]
		for _, f := range req.Formats {
			format, err := domain.ParseFormat(f)
			if err != nil {
				mapDomainError(c, err)
				return
			}
			formats = append(formats, format)
		}
	}

	artifacts, err := h.exportSvc.GetOrBuild(c.Request.Context(), id, formats)
	if err != nil {
		log.WithError(err).Error("export assembly failed")
		mapDomainError(c, err)
		return
	}

	resp := dto.ExportAssemblyResponse{Artifacts: make(map[string]dto.ArtifactResponse, len(artifacts))}
	for format, artifact := range artifacts {
		resp.Artifacts[string(format)] = dto.ToArtifactResponse(artifact)
	}
	c.JSON(http.StatusOK, resp)
}

// DownloadArtifact streams a stored artifact's bytes.
func (h *Handler) DownloadArtifact(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid artifact id"})
		return
	}

	artifact, err := h.exportSvc.GetArtifact(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	filename := fmt.Sprintf("assembly_%d.%s", artifact.AssemblyID, artifact.Format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/octet-stream", artifact.Data)
}
