package handlers

import (
	"net/http"
	"strconv"

	"cad-pipeline-service/internal/adapters/primary/http/dto"
	"cad-pipeline-service/internal/core/domain"
	ports "cad-pipeline-service/internal/core/ports/output"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) ListAssemblies(c *gin.Context) {
	filter := ports.ListFilter{
		Kind: domain.Kind(c.Query("kind")),
	}

	assemblies, err := h.assemblySvc.List(c.Request.Context(), filter)
	if err != nil {
		log.WithError(err).Error("list assemblies failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.AssemblyResponse, 0, len(assemblies))
	for _, a := range assemblies {
		items = append(items, dto.ToAssemblyResponse(a))
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) GetAssembly(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assembly id"})
		return
	}

	assembly, err := h.assemblySvc.Get(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAssemblyResponse(assembly))
}

func (h *Handler) CreateAssembly(c *gin.Context) {
	var req dto.CreateAssemblyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assembly, err := h.assemblySvc.Create(
		c.Request.Context(),
		req.Name, domain.Kind(req.Kind), req.ParentID, domain.Parameters(req.Parameters),
	)
	if err != nil {
		log.WithError(err).Error("create assembly failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToAssemblyResponse(assembly))
}

func (h *Handler) UpdateAssembly(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assembly id"})
		return
	}

	var req dto.UpdateAssemblyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Kind != nil {
		updates["kind"] = *req.Kind
	}
	if req.ParentID != nil {
		updates["parent_id"] = *req.ParentID
	}
	if req.Parameters != nil {
		updates["parameters"] = domain.Parameters(*req.Parameters)
	}

	assembly, err := h.assemblySvc.Update(c.Request.Context(), id, updates)
	if err != nil {
		log.WithError(err).Error("update assembly failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAssemblyResponse(assembly))
}

func (h *Handler) DeleteAssembly(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assembly id"})
		return
	}

	if err := h.assemblySvc.SoftDelete(c.Request.Context(), id); err != nil {
		log.WithError(err).Error("delete assembly failed")
		mapDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
