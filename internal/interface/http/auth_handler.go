package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bienesraices/internal/application"
	"github.com/oksasatya/bienesraices/internal/domain/entity"
	"github.com/oksasatya/bienesraices/internal/interface/middleware"
	"github.com/oksasatya/bienesraices/pkg/helpers"
	"github.com/oksasatya/bienesraices/pkg/response"
	"github.com/oksasatya/bienesraices/pkg/validation"
)

// DashboardPath is where a successful login lands.
const DashboardPath = "/mis-propiedades"

// AuthUseCase is the account workflow used by AuthHandler.
type AuthUseCase interface {
	Register(ctx context.Context, in application.RegisterInput) (*entity.User, error)
	Confirm(ctx context.Context, token string) (*entity.User, error)
	Login(ctx context.Context, email, password string) (*entity.User, application.Session, error)
	ForgotPassword(ctx context.Context, email string) error
	CheckResetToken(ctx context.Context, token string) error
	ResetPassword(ctx context.Context, token, password string) error
}

type AuthHandler struct {
	Svc     AuthUseCase
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewAuthHandler(svc AuthUseCase, logger *logrus.Logger, cookies *helpers.Manager) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: cookies}
}

type loginRequest struct {
	Email    string `form:"email" json:"email" binding:"required,email"`
	Password string `form:"password" json:"password" binding:"required"`
}

type registerRequest struct {
	Name     string `form:"nombre" json:"nombre" binding:"required,max=60"`
	Email    string `form:"email" json:"email" binding:"required,email,max=120"`
	Password string `form:"password" json:"password" binding:"required,pwd"`
	Repeat   string `form:"repetir_password" json:"repetir_password" binding:"eqfield=Password"`
}

type emailRequest struct {
	Email string `form:"email" json:"email" binding:"required,email"`
}

type newPasswordRequest struct {
	Password string `form:"password" json:"password" binding:"required,pwd"`
}

// formEcho is the subset of submitted values sent back with validation errors.
type formEcho struct {
	Name  string `json:"nombre,omitempty"`
	Email string `json:"email,omitempty"`
}

func page(title string) gin.H { return gin.H{"pagina": title} }

// LoginForm GET /login
func (h *AuthHandler) LoginForm(c *gin.Context) {
	response.Success(c, http.StatusOK, page("Iniciar Sesión"), "login form", nil)
}

// Login POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ErrorWithData(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err), formEcho{Email: req.Email})
		return
	}

	_, sess, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, application.ErrUserNotFound):
		response.ErrorWithData(c, http.StatusNotFound, "El Usuario No Existe", map[string]string{"email": "not registered"}, formEcho{Email: req.Email})
		return
	case errors.Is(err, application.ErrAccountNotConfirmed):
		response.ErrorWithData(c, http.StatusForbidden, "Tu Cuenta no ha sido Confirmada", map[string]string{"email": "account not confirmed"}, formEcho{Email: req.Email})
		return
	case errors.Is(err, application.ErrWrongPassword):
		response.ErrorWithData(c, http.StatusUnauthorized, "El Password es Incorrecto", map[string]string{"password": "is incorrect"}, formEcho{Email: req.Email})
		return
	default:
		h.internal(c, "login failed", err)
		return
	}

	h.Cookies.SetSession(c, sess.Token, sess.ExpiresAt)
	c.Redirect(http.StatusSeeOther, DashboardPath)
}

// Logout POST /cerrar-sesion
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	c.Redirect(http.StatusSeeOther, middleware.LoginPath)
}

// RegisterForm GET /registro
func (h *AuthHandler) RegisterForm(c *gin.Context) {
	response.Success(c, http.StatusOK, page("Crear Cuenta"), "register form", nil)
}

// Register POST /registro
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ErrorWithData(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err), formEcho{Name: req.Name, Email: req.Email})
		return
	}

	u, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{Name: req.Name, Email: req.Email, Password: req.Password})
	if errors.Is(err, application.ErrUserExists) {
		response.ErrorWithData(c, http.StatusConflict, "El Usuario ya esta Registrado", map[string]string{"email": "already registered"}, formEcho{Name: req.Name, Email: req.Email})
		return
	}
	var tooLong *application.FieldTooLongError
	if errors.As(err, &tooLong) {
		response.ErrorWithData(c, http.StatusBadRequest, "invalid payload", tooLongDetails(tooLong), formEcho{Name: req.Name, Email: req.Email})
		return
	}
	if err != nil {
		h.internal(c, "register failed", err)
		return
	}
	response.Success(c, http.StatusCreated, u, "Cuenta Creada Correctamente; hemos enviado un email de confirmación", nil)
}

// Confirm GET /confirmar/:token
func (h *AuthHandler) Confirm(c *gin.Context) {
	u, err := h.Svc.Confirm(c.Request.Context(), c.Param("token"))
	if errors.Is(err, application.ErrInvalidToken) {
		response.Error[any](c, http.StatusBadRequest, "Hubo un error al confirmar tu cuenta, intenta de nuevo", nil)
		return
	}
	if err != nil {
		h.internal(c, "confirm failed", err)
		return
	}
	response.Success(c, http.StatusOK, u, "La cuenta se confirmó Correctamente", nil)
}

// ForgotForm GET /olvide-password
func (h *AuthHandler) ForgotForm(c *gin.Context) {
	response.Success(c, http.StatusOK, page("Recupera tu acceso a Bienes Raices"), "forgot password form", nil)
}

// Forgot POST /olvide-password
func (h *AuthHandler) Forgot(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ErrorWithData(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err), formEcho{Email: req.Email})
		return
	}
	err := h.Svc.ForgotPassword(c.Request.Context(), req.Email)
	if errors.Is(err, application.ErrUserNotFound) {
		response.ErrorWithData(c, http.StatusNotFound, "El Email no Pertenece a ningún usuario", map[string]string{"email": "not registered"}, formEcho{Email: req.Email})
		return
	}
	if err != nil {
		h.internal(c, "forgot password failed", err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Hemos enviado un email con las instrucciones", nil)
}

// ResetForm GET /olvide-password/:token
func (h *AuthHandler) ResetForm(c *gin.Context) {
	if !h.checkToken(c) {
		return
	}
	response.Success(c, http.StatusOK, page("Reestablece tu Password"), "reset password form", nil)
}

// Reset POST /olvide-password/:token
func (h *AuthHandler) Reset(c *gin.Context) {
	var req newPasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	err := h.Svc.ResetPassword(c.Request.Context(), c.Param("token"), req.Password)
	if errors.Is(err, application.ErrInvalidToken) {
		response.Error[any](c, http.StatusBadRequest, "Hubo un error al validar tu información, intenta de nuevo", nil)
		return
	}
	if err != nil {
		h.internal(c, "reset password failed", err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "El Password se guardó correctamente", nil)
}

func (h *AuthHandler) checkToken(c *gin.Context) bool {
	err := h.Svc.CheckResetToken(c.Request.Context(), c.Param("token"))
	if errors.Is(err, application.ErrInvalidToken) {
		response.Error[any](c, http.StatusBadRequest, "Hubo un error al validar tu información, intenta de nuevo", nil)
		return false
	}
	if err != nil {
		h.internal(c, "check reset token failed", err)
		return false
	}
	return true
}

func (h *AuthHandler) internal(c *gin.Context, msg string, err error) {
	helpers.LogError(h.Logger, msg, err, logrus.Fields{"request_id": c.GetString("request_id")})
	response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
}
