package handlers

import (
	"cad-pipeline-service/internal/core/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	assemblySvc *services.AssemblyService
	exportSvc   *services.ExportService
}

func New(assemblySvc *services.AssemblyService, exportSvc *services.ExportService) *Handler {
	return &Handler{
		assemblySvc: assemblySvc,
		exportSvc:   exportSvc,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// Assemblies
	r.GET("/assemblies", h.ListAssemblies)
	r.POST("/assemblies", h.CreateAssembly)
	r.GET("/assembly/:id", h.GetAssembly)
	r.PUT("/assembly/:id", h.UpdateAssembly)
	r.DELETE("/assembly/:id", h.DeleteAssembly)

	// Exports
	r.POST("/assembly/:id/export", h.ExportAssembly)
	r.GET("/artifacts/:id", h.DownloadArtifact)
}
