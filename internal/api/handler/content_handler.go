package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ContentHandler serves the four access-level probe endpoints. Each returns
// a fixed string; the interesting behavior is in the middleware chain in
// front of it.
type ContentHandler struct{}

func NewContentHandler() *ContentHandler {
	return &ContentHandler{}
}

// Public requires no authentication.
func (h *ContentHandler) Public(c echo.Context) error {
	return c.String(http.StatusOK, "Public Content")
}

// User requires USER, MODERATOR, or ADMIN.
func (h *ContentHandler) User(c echo.Context) error {
	return c.String(http.StatusOK, "User Content")
}

// Moderator requires MODERATOR or ADMIN.
func (h *ContentHandler) Moderator(c echo.Context) error {
	return c.String(http.StatusOK, "Moderator Content")
}

// Admin requires ADMIN.
func (h *ContentHandler) Admin(c echo.Context) error {
	return c.String(http.StatusOK, "Admin Content")
}
