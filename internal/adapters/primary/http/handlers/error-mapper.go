package handlers

import (
	"errors"
	"net/http"

	"cad-pipeline-service/internal/core/domain"

	"github.com/gin-gonic/gin"
)

func mapDomainError(c *gin.Context, err error) {
	switch {
	// Not found errors. Soft-deleted assemblies are indistinguishable from
	// absent ones, and a repeated delete reports 404 like an absent row.
	case errors.Is(err, domain.ErrAssemblyNotFound),
		errors.Is(err, domain.ErrArtifactNotFound),
		errors.Is(err, domain.ErrAlreadyDeleted):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	// Bad request / validation errors
	case errors.Is(err, domain.ErrNameConflict),
		errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrInvalidKind),
		errors.Is(err, domain.ErrInvalidParameters),
		errors.Is(err, domain.ErrInvalidFormat),
		errors.Is(err, domain.ErrUnsupportedPattern),
		errors.Is(err, domain.ErrUnsupportedKind),
		errors.Is(err, domain.ErrParentNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	// Kernel failures
	case errors.Is(err, domain.ErrExportFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
