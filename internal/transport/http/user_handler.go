package http

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hirehub/hirehub-backend/internal/domain"
	"github.com/hirehub/hirehub-backend/internal/service"
	"github.com/hirehub/hirehub-backend/internal/util"
)

type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func RegisterUsers(g *echo.Group, h *UserHandler, requireAuth echo.MiddlewareFunc) {
	requireAdmin := RequireAdmin()

	g.GET("/me", h.me, requireAuth)
	g.POST("/profile/update", h.updateProfile, requireAuth)
	g.GET("/allstudents", h.listStudents, requireAuth, requireAdmin)
	g.GET("/allrecruiters", h.listRecruiters, requireAuth, requireAdmin)
	g.PUT("/block/:id", h.toggleStatus, requireAuth, requireAdmin)
}

func (h *UserHandler) me(c echo.Context) error {
	current, _ := CurrentUser(c)
	user, err := h.users.Get(c.Request().Context(), current.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, util.Success("", util.Envelope{"user": user}))
}

func (h *UserHandler) updateProfile(c echo.Context) error {
	current, _ := CurrentUser(c)
	params, err := c.FormParams()
	if err != nil {
		return fmt.Errorf("%w: malformed form body", service.ErrValidation)
	}
	resume, closeResume, err := formUpload(c, "file")
	if err != nil {
		return err
	}
	defer closeResume()

	user, err := h.users.UpdateProfile(c.Request().Context(), current.ID, service.UpdateProfileInput{
		FullName:    optionalField(params, "fullname"),
		Email:       optionalField(params, "email"),
		PhoneNumber: optionalField(params, "phoneNumber"),
		Bio:         optionalField(params, "bio"),
		Skills:      optionalField(params, "skills"),
		Resume:      resume,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, util.Success("Profile updated successfully", util.Envelope{"user": user}))
}

func (h *UserHandler) listStudents(c echo.Context) error {
	return h.list(c, "students", h.users.ListStudents)
}

func (h *UserHandler) listRecruiters(c echo.Context) error {
	return h.list(c, "recruiters", h.users.ListRecruiters)
}

func (h *UserHandler) list(c echo.Context, key string, fetch func(ctx context.Context, limit, offset int) ([]domain.User, error)) error {
	limit, offset, err := pageParams(c)
	if err != nil {
		return err
	}
	users, err := fetch(c.Request().Context(), limit, offset)
	if err != nil {
		return err
	}
	limit, offset = service.NormalizePage(limit, offset)
	return c.JSON(http.StatusOK, util.Success("", util.Envelope{
		key:    users,
		"meta": PageMeta{Limit: limit, Offset: offset, Count: len(users)},
	}))
}

func (h *UserHandler) toggleStatus(c echo.Context) error {
	user, err := h.users.ToggleStatus(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	message := "User unblocked"
	if user.IsBlocked() {
		message = "User blocked"
	}
	return c.JSON(http.StatusOK, util.Success(message, util.Envelope{"status": user.Status}))
}

// pageParams reads limit and offset; absent values are left for the service
// to default.
func pageParams(c echo.Context) (int, int, error) {
	parse := func(name string) (int, error) {
		raw := strings.TrimSpace(c.QueryParam(name))
		if raw == "" {
			return 0, nil
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("%w: %s must be a non-negative integer", service.ErrValidation, name)
		}
		return v, nil
	}
	limit, err := parse("limit")
	if err != nil {
		return 0, 0, err
	}
	offset, err := parse("offset")
	if err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}

func optionalField(values url.Values, name string) *string {
	vals, ok := values[name]
	if !ok || len(vals) == 0 {
		return nil
	}
	v := vals[0]
	return &v
}
