package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/secure-items-api/internal/api/metrics"
	"github.com/sirpyerre/secure-items-api/internal/core/domain"
	"github.com/sirpyerre/secure-items-api/internal/core/ports"
)

// ItemHandler serves item routes. Reads are open to any session; mutations
// pass the acting user to the service, which applies the ownership rule.
type ItemHandler struct {
	service ports.ItemService
}

func NewItemHandler(service ports.ItemService) *ItemHandler {
	return &ItemHandler{service: service}
}

// List handles GET /api/items. With ?q= it searches names case-insensitively.
//
// @Summary      List or search items
// @Tags         items
// @Produce      json
// @Security     SessionCookie
// @Param        q    query     string  false  "Name substring"
// @Success      200  {array}   ports.ItemOutput
// @Failure      401  {object}  errorResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	var (
		items []*domain.Item
		err   error
	)
	if q := c.QueryParam("q"); q != "" {
		items, err = h.service.Search(ctx, q)
	} else {
		items, err = h.service.FindAll(ctx)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.service.ToOutputList(items))
}

// Mine handles GET /api/items/mine.
//
// @Summary      List the caller's items
// @Tags         items
// @Produce      json
// @Security     SessionCookie
// @Success      200  {array}   ports.ItemOutput
// @Failure      401  {object}  errorResponse
// @Router       /api/items/mine [get]
func (h *ItemHandler) Mine(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	items, err := h.service.FindByOwner(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.service.ToOutputList(items))
}

// Get handles GET /api/items/:id.
//
// @Summary      Get an item
// @Tags         items
// @Produce      json
// @Security     SessionCookie
// @Param        id   path      string  true  "Item id"
// @Success      200  {object}  ports.ItemOutput
// @Failure      404  {object}  errorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) Get(c echo.Context) error {
	item, err := h.service.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.service.ToOutput(item))
}

// Create handles POST /api/items. The caller becomes the owner.
//
// @Summary      Create an item
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        body  body      itemRequest  true  "Item details"
// @Success      201   {object}  ports.ItemOutput
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req itemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	item := h.service.ToDomain(req.toInput())
	item.OwnerID = user.ID

	created, err := h.service.Create(c.Request().Context(), item)
	if err != nil {
		return err
	}

	metrics.ItemMutationsTotal.WithLabelValues("create", ports.OutcomeApplied.String()).Inc()
	return c.JSON(http.StatusCreated, h.service.ToOutput(created))
}

// Update handles PUT /api/items/:id.
//
// @Summary      Update an item
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        id    path      string       true  "Item id"
// @Param        body  body      itemRequest  true  "New item details"
// @Success      200   {object}  ports.ItemOutput
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/items/{id} [put]
func (h *ItemHandler) Update(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req itemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.service.Update(c.Request().Context(), c.Param("id"), req.toInput(), user)
	if err != nil {
		return err
	}

	metrics.ItemMutationsTotal.WithLabelValues("update", res.Outcome.String()).Inc()
	if res.Outcome != ports.OutcomeApplied {
		return res.Outcome.Err()
	}
	return c.JSON(http.StatusOK, h.service.ToOutput(res.Item))
}

// Delete handles DELETE /api/items/:id.
//
// @Summary      Delete an item
// @Tags         items
// @Security     SessionCookie
// @Param        id   path  string  true  "Item id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) Delete(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	outcome, err := h.service.Delete(c.Request().Context(), c.Param("id"), user)
	if err != nil {
		return err
	}

	metrics.ItemMutationsTotal.WithLabelValues("delete", outcome.String()).Inc()
	if outcome != ports.OutcomeApplied {
		return outcome.Err()
	}
	return c.NoContent(http.StatusNoContent)
}
