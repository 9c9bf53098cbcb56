package handlers

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"inventory/internal/middleware"
	"inventory/internal/models"
	"inventory/internal/services"
	"inventory/internal/views"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Account routes.
const (
	LoginPath    = "/account/login"
	RegisterPath = "/account/register"
	LogoutPath   = "/account/logout"
)

const defaultReturnURL = "/products"

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService  *services.AuthService
	validate     *validator.Validate
	logger       *slog.Logger
	secureCookie bool
}

// NewAuthHandler creates a new AuthHandler. secureCookie marks the auth
// cookie HTTPS-only.
func NewAuthHandler(authService *services.AuthService, validate *validator.Validate, logger *slog.Logger, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		validate:     validate,
		logger:       logger,
		secureCookie: secureCookie,
	}
}

// RegisterRoutes registers the account routes with the Fiber router.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Get(LoginPath, h.HandleLoginForm)
	router.Post(LoginPath, h.HandleLogin)
	router.Get(RegisterPath, h.HandleRegisterForm)
	router.Post(RegisterPath, h.HandleRegister)
	router.Post(LogoutPath, h.HandleLogout)
}

// LoginRequest represents the submitted login form.
type LoginRequest struct {
	Username  string `form:"username"`
	Password  string `form:"password"`
	ReturnURL string `form:"return_url"`
}

// HandleLoginForm shows the login form.
func (h *AuthHandler) HandleLoginForm(c *fiber.Ctx) error {
	return h.renderLogin(c, LoginRequest{ReturnURL: c.Query("return_url")}, "")
}

// HandleLogin verifies the credentials, sets the auth cookie and redirects
// to the requested local page.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	req.Username = strings.TrimSpace(req.Username)

	token, err := h.authService.LoginUser(c.UserContext(), req.Username, req.Password)
	if err != nil {
		if !errors.Is(err, services.ErrInvalidCredentials) {
			return err
		}
		h.logger.WarnContext(c.UserContext(), "Rejected login", slog.String("username", req.Username))
		return h.renderLogin(c, req, "Invalid username or password.")
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.authService.TokenTTL()),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect(localURL(req.ReturnURL), fiber.StatusSeeOther)
}

// HandleRegisterForm shows the registration form.
func (h *AuthHandler) HandleRegisterForm(c *fiber.Ctx) error {
	return h.renderRegister(c, models.User{}, nil, "")
}

// HandleRegister creates a new account and sends the user to the login page.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var user models.User
	if err := c.BodyParser(&user); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	user.Username = strings.TrimSpace(user.Username)
	user.Email = strings.TrimSpace(user.Email)

	if err := h.validate.Struct(user); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return err
		}
		fieldErrors := make(map[string]string, len(validationErrors))
		for _, e := range validationErrors {
			fieldErrors[e.Field()] = accountFieldMessage(e)
		}
		return h.renderRegister(c, user, fieldErrors, "")
	}

	if err := h.authService.RegisterUser(c.UserContext(), &user); err != nil {
		switch {
		case errors.Is(err, services.ErrUsernameTaken):
			return h.renderRegister(c, user, nil, "Username is already taken.")
		case errors.Is(err, services.ErrEmailTaken):
			return h.renderRegister(c, user, nil, "Email is already registered.")
		default:
			return err
		}
	}

	h.logger.InfoContext(c.UserContext(), "User registered", slog.String("username", user.Username))
	return c.Redirect(LoginPath, fiber.StatusSeeOther)
}

// HandleLogout clears the auth cookie.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect(LoginPath, fiber.StatusSeeOther)
}

func (h *AuthHandler) renderLogin(c *fiber.Ctx, req LoginRequest, message string) error {
	return c.Render("account/login", fiber.Map{
		"title":         "Log in",
		"error":         message,
		"loginUsername": req.Username,
		"returnURL":     req.ReturnURL,
	}, views.Layout)
}

func (h *AuthHandler) renderRegister(c *fiber.Ctx, user models.User, fieldErrors map[string]string, message string) error {
	if fieldErrors == nil {
		fieldErrors = map[string]string{}
	}
	user.Password = ""
	return c.Render("account/register", fiber.Map{
		"title":  "Register",
		"error":  message,
		"form":   user,
		"errors": fieldErrors,
	}, views.Layout)
}

// localURL returns returnURL when it is a path on this site, else the
// product list.
func localURL(returnURL string) string {
	if strings.HasPrefix(returnURL, "/") && !strings.HasPrefix(returnURL, "//") && !strings.HasPrefix(returnURL, "/\\") {
		return returnURL
	}
	return defaultReturnURL
}

func accountFieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "The " + e.Field() + " field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		return "The " + e.Field() + " must be at least " + e.Param() + " characters long."
	case "max":
		return "The " + e.Field() + " must be at most " + e.Param() + " characters long."
	default:
		return "The " + e.Field() + " field is invalid."
	}
}
