package http

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hirehub/hirehub-backend/internal/media"
	"github.com/hirehub/hirehub-backend/internal/service"
	"github.com/hirehub/hirehub-backend/internal/util"
)

type AuthHandler struct {
	auth    *service.AuthService
	cookies CookieConfig
}

func NewAuthHandler(auth *service.AuthService, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{auth: auth, cookies: cookies}
}

func RegisterAuth(g *echo.Group, h *AuthHandler, limiter *RateLimiter) {
	limited := limiter.Middleware()

	g.POST("/register", h.register)
	g.POST("/login", h.login, limited)
	g.POST("/google", h.loginWithGoogle, limited)
	g.GET("/logout", h.logout)
	g.POST("/send-otp", h.sendOTP, limited)
	g.POST("/verify-otp", h.verifyOTP, limited)
	g.POST("/resend-otp", h.resendOTP, limited)
	g.POST("/forgot-password", h.forgotPassword, limited)
	g.POST("/verify-reset-otp", h.verifyResetOTP, limited)
	g.POST("/reset-password", h.resetPassword, limited)
}

func (h *AuthHandler) register(c echo.Context) error {
	photo, closePhoto, err := formUpload(c, "file")
	if err != nil {
		return err
	}
	defer closePhoto()

	user, err := h.auth.Register(c.Request().Context(), service.RegisterInput{
		FullName:    c.FormValue("fullname"),
		Email:       c.FormValue("email"),
		PhoneNumber: c.FormValue("phoneNumber"),
		Password:    c.FormValue("password"),
		Role:        c.FormValue("role"),
		Photo:       photo,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, util.Success("Account created successfully", util.Envelope{"user": user}))
}

func (h *AuthHandler) login(c echo.Context) error {
	var req LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	result, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return h.startSession(c, fmt.Sprintf("Welcome back %s", result.User.FullName), result)
}

func (h *AuthHandler) loginWithGoogle(c echo.Context) error {
	var req GoogleLoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	result, err := h.auth.LoginWithGoogle(c.Request().Context(), req.IDToken)
	if err != nil {
		return err
	}
	return h.startSession(c, fmt.Sprintf("Welcome back %s", result.User.FullName), result)
}

func (h *AuthHandler) logout(c echo.Context) error {
	c.SetCookie(h.cookies.cleared())
	return c.JSON(http.StatusOK, util.Success("Logged out successfully", nil))
}

func (h *AuthHandler) sendOTP(c echo.Context) error {
	var req SendOTPRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.auth.SendOTP(c.Request().Context(), req.Email, req.Role); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, util.Success("OTP sent to your email", nil))
}

func (h *AuthHandler) verifyOTP(c echo.Context) error {
	var req VerifyOTPRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	result, err := h.auth.VerifyOTP(c.Request().Context(), req.Email, req.OTP)
	if err != nil {
		return err
	}
	return h.startSession(c, "Email verified successfully", result)
}

func (h *AuthHandler) resendOTP(c echo.Context) error {
	var req EmailRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.auth.ResendOTP(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, util.Success("A new OTP has been sent to your email", nil))
}

func (h *AuthHandler) forgotPassword(c echo.Context) error {
	var req EmailRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.auth.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, util.Success("Password reset OTP sent to your email", nil))
}

func (h *AuthHandler) verifyResetOTP(c echo.Context) error {
	var req VerifyOTPRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.auth.VerifyResetOTP(c.Request().Context(), req.Email, req.OTP); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, util.Success("OTP verified", nil))
}

func (h *AuthHandler) resetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.auth.ResetPassword(c.Request().Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, util.Success("Password reset successfully", nil))
}

func (h *AuthHandler) startSession(c echo.Context, message string, result *service.AuthResult) error {
	c.SetCookie(h.cookies.session(result.Token))
	return c.JSON(http.StatusOK, AuthResponse{
		Success:   true,
		Message:   message,
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      result.User,
	})
}

func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return fmt.Errorf("%w: malformed request body", service.ErrValidation)
	}
	return nil
}

// formUpload opens an optional multipart file. The returned close func is
// always safe to call.
func formUpload(c echo.Context, field string) (*media.Upload, func(), error) {
	noop := func() {}
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, nil
		}
		return nil, noop, fmt.Errorf("%w: unreadable upload: %v", service.ErrValidation, err)
	}
	file, err := header.Open()
	if err != nil {
		return nil, noop, fmt.Errorf("open upload: %w", err)
	}
	return uploadFrom(header, file), func() { _ = file.Close() }, nil
}

func uploadFrom(header *multipart.FileHeader, file multipart.File) *media.Upload {
	return &media.Upload{
		Reader:      file,
		Size:        header.Size,
		FileName:    header.Filename,
		ContentType: header.Header.Get(echo.HeaderContentType),
	}
}
