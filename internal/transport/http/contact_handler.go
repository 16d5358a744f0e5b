package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hirehub/hirehub-backend/internal/service"
	"github.com/hirehub/hirehub-backend/internal/util"
)

type ContactHandler struct {
	contacts *service.ContactService
}

func NewContactHandler(contacts *service.ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

func RegisterContact(g *echo.Group, h *ContactHandler, requireAuth echo.MiddlewareFunc, limiter *RateLimiter) {
	requireAdmin := RequireAdmin()

	g.POST("/submit", h.submit, limiter.Middleware())
	g.GET("/contact-messages", h.list, requireAuth, requireAdmin)
	g.POST("/reply", h.reply, requireAuth, requireAdmin)
	g.DELETE("/delete/:id", h.delete, requireAuth, requireAdmin)
}

func (h *ContactHandler) submit(c echo.Context) error {
	var req ContactSubmitRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	msg, err := h.contacts.Submit(c.Request().Context(), req.Name, req.Email, req.Message)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, util.Success("Message sent successfully", util.Envelope{"contact": msg}))
}

func (h *ContactHandler) list(c echo.Context) error {
	limit, offset, err := pageParams(c)
	if err != nil {
		return err
	}
	msgs, err := h.contacts.List(c.Request().Context(), limit, offset)
	if err != nil {
		return err
	}
	limit, offset = service.NormalizePage(limit, offset)
	return c.JSON(http.StatusOK, util.Success("", util.Envelope{
		"messages": msgs,
		"meta":     PageMeta{Limit: limit, Offset: offset, Count: len(msgs)},
	}))
}

func (h *ContactHandler) reply(c echo.Context) error {
	var req ContactReplyRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.contacts.Reply(c.Request().Context(), req.MessageID, req.Email, req.Reply); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, util.Success("Reply sent successfully", nil))
}

func (h *ContactHandler) delete(c echo.Context) error {
	if err := h.contacts.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, util.Success("Message deleted successfully", nil))
}
