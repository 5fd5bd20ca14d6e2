package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lwalter/authgate/internal/domain/user"
	"github.com/lwalter/authgate/internal/utils"
)

type Handler struct {
	authService *Service
	userService user.Service
}

// NewHandler creates a new Handler configured with the provided Service and user.Service.
func NewHandler(s *Service, userService user.Service) *Handler {
	return &Handler{
		authService: s,
		userService: userService,
	}
}

func (h *Handler) Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "invalid_body", fiber.StatusBadRequest)
	}

	profile, err := h.authService.Signup(req)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.SuccessResponse(c, fiber.Map{
		"user": profile,
	}, "User registered successfully", fiber.StatusCreated)
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "invalid_body", fiber.StatusBadRequest)
	}

	res, err := h.authService.Login(req, requestUserAgent(c), requestIP(c))
	if err != nil {
		return utils.HandleError(c, err)
	}

	h.setTokenCookies(c, res)

	return utils.SuccessResponse(c, fiber.Map{
		"user":         res.User,
		"access_token": res.AccessToken,
	}, "Login successful")
}

func (h *Handler) Refresh(c *fiber.Ctx) error {
	refreshToken := c.Cookies(RefreshTokenCookie)
	if refreshToken == "" {
		return utils.ErrorResponse(c, "missing_refresh_token", fiber.StatusUnauthorized)
	}

	res, err := h.authService.Refresh(refreshToken, requestUserAgent(c), requestIP(c))
	if err != nil {
		return utils.HandleError(c, err)
	}

	h.setTokenCookies(c, res)

	return utils.SuccessResponse(c, fiber.Map{
		"user":         res.User,
		"access_token": res.AccessToken,
	}, "Tokens refreshed successfully")
}

func (h *Handler) Logout(c *fiber.Ctx) error {
	identity := GetIdentity(c)

	if refreshToken := c.Cookies(RefreshTokenCookie); refreshToken != "" {
		if err := h.authService.Logout(identity.UserID, refreshToken); err != nil {
			return utils.HandleError(c, err)
		}
	}

	h.clearTokenCookies(c)

	return utils.SuccessResponse(c, nil, "Logged out successfully")
}

func (h *Handler) LogoutAll(c *fiber.Ctx) error {
	identity := GetIdentity(c)

	if err := h.authService.LogoutAll(identity.UserID); err != nil {
		return utils.HandleError(c, err)
	}

	h.clearTokenCookies(c)

	return utils.SuccessResponse(c, nil, "Logged out from all devices successfully")
}

func (h *Handler) ListSessions(c *fiber.Ctx) error {
	identity := GetIdentity(c)

	sessions, err := h.authService.ListSessions(identity.UserID)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.SuccessResponse(c, fiber.Map{
		"sessions": sessions,
	}, "Active sessions retrieved")
}

func (h *Handler) RevokeSession(c *fiber.Ctx) error {
	identity := GetIdentity(c)

	if err := h.authService.RevokeSession(identity.UserID, c.Params("id")); err != nil {
		return utils.HandleError(c, err)
	}

	return utils.SuccessResponse(c, nil, "Session revoked successfully")
}

// Me returns the authenticated caller's profile
func (h *Handler) Me(c *fiber.Ctx) error {
	identity := GetIdentity(c)

	profile, err := h.userService.FindByID(identity.UserID)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.SuccessResponse(c, fiber.Map{
		"user": profile,
	}, "Profile retrieved")
}

// UpdateMe applies profile changes to the authenticated caller's account
func (h *Handler) UpdateMe(c *fiber.Ctx) error {
	identity := GetIdentity(c)

	var in user.UpdateProfileInput
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, "invalid_body", fiber.StatusBadRequest)
	}

	profile, err := h.userService.UpdateProfile(identity.UserID, in)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.SuccessResponse(c, fiber.Map{
		"user": profile,
	}, "Profile updated successfully")
}

// ListUsers returns one page of users. Admin only.
func (h *Handler) ListUsers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	result, err := h.userService.List(page, limit)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.SuccessResponse(c, result, "Users retrieved")
}

// GetUser returns a single user by ID. Admin only.
func (h *Handler) GetUser(c *fiber.Ctx) error {
	profile, err := h.userService.FindByID(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.SuccessResponse(c, fiber.Map{
		"user": profile,
	}, "User retrieved")
}

// UpdateUser applies admin changes to any account. Admin only.
func (h *Handler) UpdateUser(c *fiber.Ctx) error {
	identity := GetIdentity(c)

	var in user.AdminUpdateInput
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, "invalid_body", fiber.StatusBadRequest)
	}

	profile, err := h.userService.AdminUpdate(identity.UserID, c.Params("id"), in)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.SuccessResponse(c, fiber.Map{
		"user": profile,
	}, "User updated successfully")
}

// DeleteUser removes an account and its sessions. Admin only.
func (h *Handler) DeleteUser(c *fiber.Ctx) error {
	identity := GetIdentity(c)

	if err := h.userService.Delete(identity.UserID, c.Params("id")); err != nil {
		return utils.HandleError(c, err)
	}

	return utils.SuccessResponse(c, nil, "User deleted successfully")
}

func (h *Handler) setTokenCookies(c *fiber.Ctx, res *LoginResult) {
	now := time.Now()

	c.Cookie(&fiber.Cookie{
		Name:     AccessTokenCookie,
		Value:    res.AccessToken,
		HTTPOnly: true,
		Secure:   true,
		Path:     "/",
		SameSite: "Strict",
		Expires:  now.Add(h.authService.issuer.accessTTL),
	})

	// The refresh cookie is scoped to the auth endpoints so the long-lived
	// credential is not sent with every request
	c.Cookie(&fiber.Cookie{
		Name:     RefreshTokenCookie,
		Value:    res.RefreshToken,
		HTTPOnly: true,
		Secure:   true,
		Path:     "/v1/auth",
		SameSite: "Strict",
		Expires:  now.Add(h.authService.issuer.refreshTTL),
	})
}

func (h *Handler) clearTokenCookies(c *fiber.Ctx) {
	expired := time.Now().Add(-time.Hour)

	c.Cookie(&fiber.Cookie{
		Name:     AccessTokenCookie,
		Value:    "",
		HTTPOnly: true,
		Secure:   true,
		Path:     "/",
		SameSite: "Strict",
		Expires:  expired,
	})

	c.Cookie(&fiber.Cookie{
		Name:     RefreshTokenCookie,
		Value:    "",
		HTTPOnly: true,
		Secure:   true,
		Path:     "/v1/auth",
		SameSite: "Strict",
		Expires:  expired,
	})
}

func requestUserAgent(c *fiber.Ctx) string {
	if ua := c.Get("User-Agent"); ua != "" {
		return ua
	}
	return "unknown"
}

func requestIP(c *fiber.Ctx) string {
	if ip := c.IP(); ip != "" {
		return ip
	}
	return "unknown"
}
