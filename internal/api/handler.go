// Package api maps the transport layer's commands onto the storefront
// services. The messaging bot framework is the only intended caller.
package api

import (
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"storefront-bot/internal/apperr"
	"storefront-bot/internal/entity"
	"storefront-bot/internal/service"
)

type Handler struct {
	catalog   *service.CatalogService
	cart      *service.CartService
	checkout  *service.CheckoutService
	admin     *service.AdminOrderService
	customers *service.CustomerService
}

// NewHandler creates a new instance of Handler.
func NewHandler(catalog *service.CatalogService, cart *service.CartService, checkout *service.CheckoutService, admin *service.AdminOrderService, customers *service.CustomerService) *Handler {
	return &Handler{
		catalog:   catalog,
		cart:      cart,
		checkout:  checkout,
		admin:     admin,
		customers: customers,
	}
}

func jsonError(c echo.Context, err error) error {
	switch {
	case apperr.IsValidation(err):
		return c.JSON(400, map[string]string{"error": err.Error()})
	case apperr.IsNotFound(err):
		return c.JSON(404, map[string]string{"error": err.Error()})
	case apperr.IsConflict(err):
		return c.JSON(409, map[string]string{"error": err.Error()})
	default:
		return c.JSON(500, map[string]string{"error": "something went wrong, please retry later"})
	}
}

type identity struct {
	UserID    int64  `json:"user_id"`
	FirstName string `json:"first_name"`
	Username  string `json:"username"`
}

func (i identity) customer() entity.Customer {
	return entity.Customer{UserID: i.UserID, FirstName: i.FirstName, Username: i.Username}
}

// Start registers the customer identity on first contact --> POST /start
func (h *Handler) Start(c echo.Context) error {
	var id identity
	if err := c.Bind(&id); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	if err := h.customers.Register(c.Request().Context(), id.customer()); err != nil {
		return jsonError(c, err)
	}
	return c.JSON(200, map[string]string{"message": "welcome"})
}

// Catalog lists active products with their variant options --> GET /catalog
func (h *Handler) Catalog(c echo.Context) error {
	products, err := h.catalog.ListActive(c.Request().Context())
	if err != nil {
		return jsonError(c, err)
	}

	type productView struct {
		*entity.Product
		Variants []entity.Variant `json:"variants,omitempty"`
	}
	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, productView{Product: p, Variants: h.catalog.VariantsFor(p.ID)})
	}
	return c.JSON(200, views)
}

// Product shows one product with its variants --> GET /catalog/:id
func (h *Handler) Product(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid product ID"})
	}

	product, err := h.catalog.GetProduct(c.Request().Context(), id)
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(200, map[string]interface{}{
		"product":  product,
		"variants": h.catalog.VariantsFor(id),
	})
}

// ViewCart returns the cart lines and derived total --> GET /cart/:userID
func (h *Handler) ViewCart(c echo.Context) error {
	userID, err := int64Param(c, "userID")
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid user ID"})
	}

	cart, err := h.cart.View(c.Request().Context(), userID)
	if err != nil {
		return jsonError(c, err)
	}

	// No cart yet and emptied cart get distinct markers so the transport can
	// word its reply accordingly.
	if cart == nil {
		return c.JSON(200, map[string]interface{}{"state": "no_cart"})
	}
	if cart.IsEmpty() {
		return c.JSON(200, map[string]interface{}{"state": "empty", "cart": cart})
	}
	return c.JSON(200, map[string]interface{}{
		"state":         "active",
		"cart":          cart,
		"total":         cart.Total(),
		"discount_tier": service.DiscountTier(cart.TotalQuantity()),
	})
}

type addItemRequest struct {
	UserID    int64           `json:"user_id"`
	ProductID int             `json:"product_id"`
	VariantID string          `json:"variant_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// AddItem adds a product or variant to the cart --> POST /cart/items
func (h *Handler) AddItem(c echo.Context) error {
	var req addItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	cart, confirmation, err := h.cart.AddItem(c.Request().Context(), req.UserID, req.ProductID, req.VariantID, req.Quantity)
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(200, map[string]interface{}{
		"message": confirmation,
		"cart":    cart,
		"total":   cart.Total(),
	})
}

type customQuantityRequest struct {
	UserID    int64  `json:"user_id"`
	ProductID int    `json:"product_id"`
	VariantID string `json:"variant_id"`
}

// RequestCustomQuantity enters the awaiting-quantity state --> POST /cart/custom-quantity
func (h *Handler) RequestCustomQuantity(c echo.Context) error {
	var req customQuantityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	prompt, err := h.cart.RequestCustomQuantity(c.Request().Context(), req.UserID, req.ProductID, req.VariantID)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(200, map[string]string{"message": prompt})
}

type quantityTextRequest struct {
	UserID int64  `json:"user_id"`
	Text   string `json:"text"`
}

// SubmitQuantityText feeds a free-text message into the pending quantity flow
// --> POST /cart/quantity-text
func (h *Handler) SubmitQuantityText(c echo.Context) error {
	var req quantityTextRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	cart, confirmation, err := h.cart.SubmitQuantityText(c.Request().Context(), req.UserID, req.Text)
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(200, map[string]interface{}{
		"message": confirmation,
		"cart":    cart,
		"total":   cart.Total(),
	})
}

// CancelPending aborts whatever input was being awaited --> POST /cart/cancel
func (h *Handler) CancelPending(c echo.Context) error {
	var req quantityTextRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	if err := h.cart.CancelPending(c.Request().Context(), req.UserID); err != nil {
		return jsonError(c, err)
	}
	return c.JSON(200, map[string]string{"message": "cancelled"})
}

// ClearCart empties the cart --> DELETE /cart/:userID
func (h *Handler) ClearCart(c echo.Context) error {
	userID, err := int64Param(c, "userID")
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid user ID"})
	}

	if err := h.cart.Clear(c.Request().Context(), userID); err != nil {
		return jsonError(c, err)
	}
	return c.JSON(200, map[string]string{"message": "cart cleared"})
}

type checkoutRequest struct {
	identity
	PaymentMethod   string `json:"payment_method"`
	DeliveryAddress string `json:"delivery_address"`
}

// Checkout commits the cart into a pending order --> POST /checkout
func (h *Handler) Checkout(c echo.Context) error {
	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	order, err := h.checkout.Commit(c.Request().Context(), req.customer(), entity.PaymentMethod(req.PaymentMethod), req.DeliveryAddress)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(200, order)
}

// RequestDiscount quotes the advisory discount tier --> GET /discount/:userID
func (h *Handler) RequestDiscount(c echo.Context) error {
	userID, err := int64Param(c, "userID")
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid user ID"})
	}

	advisory, err := h.checkout.RequestDiscount(c.Request().Context(), userID)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(200, advisory)
}

// ConfirmDiscountRequest forwards the request to the admins --> POST /discount/confirm
func (h *Handler) ConfirmDiscountRequest(c echo.Context) error {
	var id identity
	if err := c.Bind(&id); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	if err := h.checkout.ConfirmDiscountRequest(c.Request().Context(), id.customer()); err != nil {
		return jsonError(c, err)
	}
	return c.JSON(200, map[string]string{"message": "discount request sent"})
}
