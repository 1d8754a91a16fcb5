package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bienesraices/internal/application"
	"github.com/oksasatya/bienesraices/internal/domain/entity"
	"github.com/oksasatya/bienesraices/internal/infrastructure/storage"
	"github.com/oksasatya/bienesraices/internal/interface/middleware"
	"github.com/oksasatya/bienesraices/pkg/helpers"
	"github.com/oksasatya/bienesraices/pkg/response"
	"github.com/oksasatya/bienesraices/pkg/validation"
)

// PropertyUseCase is the listing workflow used by PropertyHandler and PublicHandler.
type PropertyUseCase interface {
	Dashboard(ctx context.Context, ownerID string, page int) (*application.DashboardPage, error)
	FormOptions(ctx context.Context) (*application.FormOptions, error)
	Create(ctx context.Context, ownerID string, in application.PropertyInput) (*entity.Property, error)
	GetForEdit(ctx context.Context, id, ownerID string) (*entity.Property, error)
	Update(ctx context.Context, id, ownerID string, in application.PropertyInput) (*entity.Property, error)
	Delete(ctx context.Context, id, ownerID string) error
	TogglePublished(ctx context.Context, id, ownerID string) (bool, error)
	ImageTarget(ctx context.Context, id, ownerID string) (*entity.Property, error)
	AttachImage(ctx context.Context, id, ownerID string, r io.Reader) (*entity.Property, error)
	Messages(ctx context.Context, id, ownerID string) (*entity.Property, []entity.Message, error)
	Show(ctx context.Context, id, viewerID string) (*entity.Property, bool, error)
	SendMessage(ctx context.Context, propertyID, senderID, body string) (*entity.Message, error)
	Home(ctx context.Context) (*application.HomeView, error)
	ByCategory(ctx context.Context, categoryID int) (*entity.Category, []entity.Property, error)
	SearchListings(ctx context.Context, term string) ([]entity.Property, error)
}

type PropertyHandler struct {
	Svc           PropertyUseCase
	Logger        *logrus.Logger
	MaxImageBytes int64
}

func NewPropertyHandler(svc PropertyUseCase, logger *logrus.Logger, maxImageBytes int64) *PropertyHandler {
	return &PropertyHandler{Svc: svc, Logger: logger, MaxImageBytes: maxImageBytes}
}

// propertyRequest mirrors the listing form. Numeric fields arrive as strings
// and are checked with the number rule before conversion.
type propertyRequest struct {
	Title       string `form:"titulo" json:"titulo" binding:"required,max=100"`
	Description string `form:"descripcion" json:"descripcion" binding:"required,listdesc"`
	Category    string `form:"categoria" json:"categoria" binding:"number"`
	Price       string `form:"precio" json:"precio" binding:"number"`
	Rooms       string `form:"habitaciones" json:"habitaciones" binding:"number"`
	Parking     string `form:"estacionamientos" json:"estacionamientos" binding:"number"`
	Bathrooms   string `form:"wc" json:"wc" binding:"number"`
	Street      string `form:"calle" json:"calle" binding:"max=60"`
	Lat         string `form:"lat" json:"lat" binding:"required,max=30"`
	Lng         string `form:"lng" json:"lng" binding:"max=30"`
}

func (r propertyRequest) toInput() (application.PropertyInput, map[string]string) {
	in := application.PropertyInput{
		Title:       r.Title,
		Description: r.Description,
		Street:      r.Street,
		Lat:         r.Lat,
		Lng:         r.Lng,
	}
	details := map[string]string{}
	fields := []struct {
		name string
		raw  string
		dst  *int
	}{
		{"categoria", r.Category, &in.CategoryID},
		{"precio", r.Price, &in.PriceID},
		{"habitaciones", r.Rooms, &in.Rooms},
		{"estacionamientos", r.Parking, &in.Parking},
		{"wc", r.Bathrooms, &in.Bathrooms},
	}
	for _, f := range fields {
		n, err := strconv.Atoi(f.raw)
		if err != nil {
			details[f.name] = "must be numeric"
			continue
		}
		*f.dst = n
	}
	if len(details) > 0 {
		return in, details
	}
	return in, nil
}

type messageRequest struct {
	Body string `form:"mensaje" json:"mensaje" binding:"msgbody,max=200"`
}

func userID(c *gin.Context) string { return c.GetString(middleware.CtxUserIDKey) }

// Dashboard GET /mis-propiedades?pagina=N
func (h *PropertyHandler) Dashboard(c *gin.Context) {
	pageNum, err := strconv.Atoi(c.Query("pagina"))
	if err != nil || pageNum < 1 {
		c.Redirect(http.StatusSeeOther, DashboardPath+"?pagina=1")
		return
	}
	res, err := h.Svc.Dashboard(c.Request.Context(), userID(c), pageNum)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, "Mis Propiedades", gin.H{
		"paginaActual":  res.Page,
		"paginas":       res.Pages,
		"total":         res.Total,
		"nombreUsuario": c.GetString(middleware.CtxUserNameKey),
	})
}

// CreateForm GET /propiedades/crear
func (h *PropertyHandler) CreateForm(c *gin.Context) {
	opts, err := h.Svc.FormOptions(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, opts, "Crear Propiedad", nil)
}

// Create POST /propiedades/crear
func (h *PropertyHandler) Create(c *gin.Context) {
	in, req, ok := h.bindProperty(c)
	if !ok {
		return
	}
	p, err := h.Svc.Create(c.Request.Context(), userID(c), in)
	if err != nil {
		h.failForm(c, err, req)
		return
	}
	response.Success(c, http.StatusCreated, p, "Propiedad creada", gin.H{"siguiente": "/propiedades/agregar-imagen/" + p.ID})
}

// EditForm GET /propiedades/editar/:id
func (h *PropertyHandler) EditForm(c *gin.Context) {
	p, err := h.Svc.GetForEdit(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	opts, err := h.Svc.FormOptions(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"propiedad":  p,
		"categorias": opts.Categories,
		"precios":    opts.Prices,
	}, "Editar Propiedad: "+p.Title, nil)
}

// Update POST /propiedades/editar/:id
func (h *PropertyHandler) Update(c *gin.Context) {
	// ownership is checked before the form is validated
	if _, err := h.Svc.GetForEdit(c.Request.Context(), c.Param("id"), userID(c)); err != nil {
		h.fail(c, err)
		return
	}
	in, req, ok := h.bindProperty(c)
	if !ok {
		return
	}
	p, err := h.Svc.Update(c.Request.Context(), c.Param("id"), userID(c), in)
	if err != nil {
		h.failForm(c, err, req)
		return
	}
	response.Success(c, http.StatusOK, p, "Propiedad actualizada", nil)
}

// Delete POST /propiedades/eliminar/:id
func (h *PropertyHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id"), userID(c)); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": c.Param("id")}, "Propiedad eliminada", nil)
}

// Toggle PUT /propiedades/:id
func (h *PropertyHandler) Toggle(c *gin.Context) {
	published, err := h.Svc.TogglePublished(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"resultado": true, "publicado": published}, "Estado actualizado", nil)
}

// ImageForm GET /propiedades/agregar-imagen/:id
func (h *PropertyHandler) ImageForm(c *gin.Context) {
	p, err := h.Svc.ImageTarget(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, p, "Agregar Imagen: "+p.Title, nil)
}

// UploadImage POST /propiedades/agregar-imagen/:id (multipart field "imagen")
func (h *PropertyHandler) UploadImage(c *gin.Context) {
	if _, err := h.Svc.ImageTarget(c.Request.Context(), c.Param("id"), userID(c)); err != nil {
		h.fail(c, err)
		return
	}
	file, err := c.FormFile("imagen")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"imagen": "is required"})
		return
	}
	if h.MaxImageBytes > 0 && file.Size > h.MaxImageBytes {
		response.Error[any](c, http.StatusRequestEntityTooLarge, "image too large", map[string]string{"imagen": "exceeds the size limit"})
		return
	}
	f, err := file.Open()
	if err != nil {
		h.fail(c, err)
		return
	}
	defer func() { _ = f.Close() }()

	p, err := h.Svc.AttachImage(c.Request.Context(), c.Param("id"), userID(c), f)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, p, "Imagen guardada; la propiedad fue publicada", nil)
}

// Show GET /propiedad/:id
func (h *PropertyHandler) Show(c *gin.Context) {
	p, seller, err := h.Svc.Show(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"propiedad":  p,
		"esVendedor": seller,
		"usuario":    userID(c) != "",
	}, p.Title, nil)
}

// SendMessage POST /propiedad/:id
func (h *PropertyHandler) SendMessage(c *gin.Context) {
	if _, _, err := h.Svc.Show(c.Request.Context(), c.Param("id"), userID(c)); err != nil {
		h.fail(c, err)
		return
	}
	var req messageRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ErrorWithData(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err), req)
		return
	}
	m, err := h.Svc.SendMessage(c.Request.Context(), c.Param("id"), userID(c), req.Body)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, m, "Mensaje enviado correctamente", gin.H{"enviado": true})
}

// Messages GET /mensajes/:id
func (h *PropertyHandler) Messages(c *gin.Context) {
	p, msgs, err := h.Svc.Messages(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"propiedad": p, "mensajes": msgs}, "Mensajes", nil)
}

func (h *PropertyHandler) bindProperty(c *gin.Context) (application.PropertyInput, propertyRequest, bool) {
	var req propertyRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ErrorWithData(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err), req)
		return application.PropertyInput{}, req, false
	}
	in, details := req.toInput()
	if details != nil {
		response.ErrorWithData(c, http.StatusBadRequest, "invalid payload", details, req)
		return application.PropertyInput{}, req, false
	}
	return in, req, true
}

func tooLongDetails(e *application.FieldTooLongError) map[string]string {
	return map[string]string{e.Field: "must be at most " + strconv.Itoa(e.Max) + " characters long"}
}

// failForm reports catalog mismatches and over-long fields next to the submitted form values.
func (h *PropertyHandler) failForm(c *gin.Context, err error, req propertyRequest) {
	var tooLong *application.FieldTooLongError
	switch {
	case errors.As(err, &tooLong):
		response.ErrorWithData(c, http.StatusBadRequest, "invalid payload", tooLongDetails(tooLong), req)
	case errors.Is(err, application.ErrUnknownCategory):
		response.ErrorWithData(c, http.StatusBadRequest, "invalid payload", map[string]string{"categoria": "unknown category"}, req)
	case errors.Is(err, application.ErrUnknownPrice):
		response.ErrorWithData(c, http.StatusBadRequest, "invalid payload", map[string]string{"precio": "unknown price"}, req)
	default:
		h.fail(c, err)
	}
}

func (h *PropertyHandler) fail(c *gin.Context, err error) {
	writeError(c, h.Logger, err)
}

// writeError maps service errors to status codes; anything unknown is a 500.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	var tooLong *application.FieldTooLongError
	switch {
	case errors.Is(err, application.ErrPropertyNotFound), errors.Is(err, application.ErrCategoryNotFound):
		response.Error[any](c, http.StatusNotFound, "not found", nil)
	case errors.Is(err, application.ErrNotOwner):
		response.Error[any](c, http.StatusForbidden, "you are not allowed to manage this property", nil)
	case errors.Is(err, application.ErrAlreadyPublished):
		response.Error[any](c, http.StatusConflict, "property already published", nil)
	case errors.Is(err, application.ErrLoginRequired):
		response.Error[any](c, http.StatusUnauthorized, "login required to contact the seller", nil)
	case errors.Is(err, application.ErrOwnProperty):
		response.Error[any](c, http.StatusForbidden, "you cannot message your own property", nil)
	case errors.Is(err, application.ErrMessageTooShort):
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"mensaje": "is empty or too short"})
	case errors.Is(err, application.ErrMessageTooLong):
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"mensaje": "must be at most 200 characters long"})
	case errors.As(err, &tooLong):
		response.Error[any](c, http.StatusBadRequest, "invalid payload", tooLongDetails(tooLong))
	case errors.Is(err, application.ErrUnknownCategory):
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"categoria": "unknown category"})
	case errors.Is(err, application.ErrUnknownPrice):
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"precio": "unknown price"})
	case errors.Is(err, storage.ErrUnsupportedImage):
		response.Error[any](c, http.StatusUnsupportedMediaType, "unsupported image", map[string]string{"imagen": "must be jpeg, png or webp"})
	case errors.Is(err, storage.ErrImageTooLarge):
		response.Error[any](c, http.StatusRequestEntityTooLarge, "image too large", map[string]string{"imagen": "exceeds the size limit"})
	default:
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		})
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
	}
}
