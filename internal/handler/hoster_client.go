package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// CreateClient handles POST /api/hoster/clients. Clients are plain
// name records; duplicate names are allowed, identity lives in the id.
func (h *HosterHandler) CreateClient(c echo.Context) error {
	if _, err := currentHoster(c); err != nil {
		return err
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "name is required"})
	}

	client, err := h.Clients.Create(c.Request().Context(), name)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "create client failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "client": client})
}

// SearchClients handles GET /api/hoster/clients/search?name=.
func (h *HosterHandler) SearchClients(c echo.Context) error {
	if _, err := currentHoster(c); err != nil {
		return err
	}
	name := strings.TrimSpace(c.QueryParam("name"))
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "name query parameter is required"})
	}

	items, err := h.Clients.SearchByName(c.Request().Context(), name)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "clients": items})
}

// Connect handles POST /api/hoster/clients/connect. It mints a fresh
// connection token binding the client to the authenticated hoster.
// Repeat connects issue a new token and leave older ones valid.
func (h *HosterHandler) Connect(c echo.Context) error {
	hosterID, err := currentHoster(c)
	if err != nil {
		return err
	}
	var body struct {
		ClientID uint64 `json:"client_id"`
	}
	if err := c.Bind(&body); err != nil || body.ClientID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "client_id is required"})
	}

	conn, err := h.Connections.Create(c.Request().Context(), hosterID, body.ClientID)
	if err != nil {
		// Most likely an unknown client id tripping the FK.
		if strings.Contains(err.Error(), "1452") {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "client not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "create connection failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "connection": conn})
}

// ListClients handles GET /api/hoster/:hosterId/clients, returning
// every connected client with its connection token.
func (h *HosterHandler) ListClients(c echo.Context) error {
	hosterID, err := currentHoster(c)
	if err != nil {
		return err
	}
	pathHoster, err := pathID(c, "hosterId")
	if err != nil {
		return err
	}
	if pathHoster != hosterID {
		return c.JSON(http.StatusForbidden, echo.Map{"success": false, "error": "forbidden"})
	}

	items, err := h.Clients.ListByHoster(c.Request().Context(), hosterID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "clients": items})
}
