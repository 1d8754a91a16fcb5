package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bienesraices/internal/application"
	"github.com/oksasatya/bienesraices/pkg/response"
)

// PublicHandler serves the browsing pages that need no account.
type PublicHandler struct {
	Svc    PropertyUseCase
	Logger *logrus.Logger
}

func NewPublicHandler(svc PropertyUseCase, logger *logrus.Logger) *PublicHandler {
	return &PublicHandler{Svc: svc, Logger: logger}
}

// Home GET /
func (h *PublicHandler) Home(c *gin.Context) {
	view, err := h.Svc.Home(c.Request.Context())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, view, "Inicio", nil)
}

// Category GET /categorias/:id
func (h *PublicHandler) Category(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, application.ErrCategoryNotFound)
		return
	}
	cat, list, err := h.Svc.ByCategory(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"categoria": cat, "propiedades": list}, "Categoría: "+cat.Name, nil)
}

// Search GET|POST /buscador (field "termino")
func (h *PublicHandler) Search(c *gin.Context) {
	term := strings.TrimSpace(c.PostForm("termino"))
	if term == "" {
		term = strings.TrimSpace(c.Query("termino"))
	}
	if term == "" {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"termino": "is required"})
		return
	}
	list, err := h.Svc.SearchListings(c.Request.Context(), term)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"termino": term, "propiedades": list}, "Resultados de la Búsqueda", gin.H{"total": len(list)})
}

// NotFound is the fallback for unknown routes.
func (h *PublicHandler) NotFound(c *gin.Context) {
	response.Error[any](c, http.StatusNotFound, "Página No Encontrada", nil)
}
