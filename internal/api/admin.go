package api

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"storefront-bot/internal/entity"
)

func intParam(c echo.Context, name string) (int, error) {
	return strconv.Atoi(c.Param(name))
}

func int64Param(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// ListPendingOrders --> GET /admin/orders/pending
func (h *Handler) ListPendingOrders(c echo.Context) error {
	orders, err := h.admin.ListPending(c.Request().Context())
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(200, orders)
}

// GetOrder --> GET /admin/orders/:id
func (h *Handler) GetOrder(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid order ID"})
	}

	order, err := h.admin.Get(c.Request().Context(), id)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(200, order)
}

// TransitionOrder applies process/contact/cancel --> POST /admin/orders/:id/:action
func (h *Handler) TransitionOrder(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid order ID"})
	}

	order, err := h.admin.Transition(c.Request().Context(), id, entity.OrderAction(c.Param("action")))
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(200, order)
}

type createProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       decimal.Decimal `json:"stock"`
	Category    string          `json:"category"`
	MinOrderQty decimal.Decimal `json:"min_order_qty"`
}

// CreateProduct --> POST /admin/products
func (h *Handler) CreateProduct(c echo.Context) error {
	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	product, err := h.catalog.CreateProduct(c.Request().Context(), &entity.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		IsActive:    true,
		Category:    req.Category,
		MinOrderQty: req.MinOrderQty,
	})
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(200, product)
}

// EnableProduct --> POST /admin/products/:id/enable
func (h *Handler) EnableProduct(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid product ID"})
	}
	if err := h.catalog.EnableProduct(c.Request().Context(), id); err != nil {
		return jsonError(c, err)
	}
	return c.JSON(200, map[string]string{"message": "product enabled"})
}

// DisableProduct --> POST /admin/products/:id/disable
func (h *Handler) DisableProduct(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid product ID"})
	}
	if err := h.catalog.DisableProduct(c.Request().Context(), id); err != nil {
		return jsonError(c, err)
	}
	return c.JSON(200, map[string]string{"message": "product disabled"})
}

// DeleteProduct --> DELETE /admin/products/:id
func (h *Handler) DeleteProduct(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid product ID"})
	}
	if err := h.catalog.DeleteProduct(c.Request().Context(), id); err != nil {
		return jsonError(c, err)
	}
	return c.JSON(200, map[string]string{"message": "product deleted"})
}

type productActionRequest struct {
	AdminID int64  `json:"admin_id"`
	Action  string `json:"action"`
	Text    string `json:"text"`
}

// RequestProductAction starts the typed-product-id flow --> POST /admin/products/action
func (h *Handler) RequestProductAction(c echo.Context) error {
	var req productActionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	prompt, err := h.catalog.RequestProductAction(c.Request().Context(), req.AdminID, req.Action)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(200, map[string]string{"message": prompt})
}

// SubmitProductIDText resolves the typed-product-id flow --> POST /admin/products/id-text
func (h *Handler) SubmitProductIDText(c echo.Context) error {
	var req productActionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	result, err := h.catalog.SubmitProductIDText(c.Request().Context(), req.AdminID, req.Text)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(200, map[string]string{"message": result})
}

// WarmCache pre-loads the product cache --> GET /admin/products/warmup-cache
func (h *Handler) WarmCache(c echo.Context) error {
	if err := h.catalog.WarmCache(c.Request().Context()); err != nil {
		return jsonError(c, err)
	}
	return c.JSON(200, map[string]string{"message": "Cache pre-warmed"})
}
