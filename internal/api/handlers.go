package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/example/storefront/internal/api/middleware"
	"github.com/example/storefront/internal/command"
	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/catalog"
	"github.com/example/storefront/internal/domain/checkout"
	"github.com/example/storefront/internal/query"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	commands *command.Handler
	queries  *query.Handler
	checkout *checkout.Service
	logger   *zap.Logger
}

func NewHandlers(commands *command.Handler, queries *query.Handler, checkoutSvc *checkout.Service, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		commands: commands,
		queries:  queries,
		checkout: checkoutSvc,
		logger:   logger.Named("api"),
	}
}

// cartMutation is the response of every cart change: the affected line
// item and the cart as it now stands
type cartMutation struct {
	Item *cart.LineItem  `json:"item,omitempty"`
	Cart *query.CartView `json:"cart"`
}

type errorResponse struct {
	Error  string   `json:"error"`
	Field  string   `json:"field,omitempty"`
	Fields []string `json:"fields,omitempty"`
}

// Health
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Products
func (h *Handlers) ListProducts(c *gin.Context) {
	cr, err := catalog.ParseCriteria(c.Request.URL.Query())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.queries.ListProducts(cr))
}

func (h *Handlers) GetProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid product id", Field: "id"})
		return
	}
	detail, err := h.queries.GetProduct(id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Cart
func (h *Handlers) GetCart(c *gin.Context) {
	view, err := h.queries.GetCart(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handlers) AddToCart(c *gin.Context) {
	var cmd command.AddToCart
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	cmd.SessionID = middleware.SessionID(c)

	item, err := h.commands.AddToCart(c.Request.Context(), cmd)
	h.respondMutation(c, http.StatusCreated, &item, err)
}

func (h *Handlers) QuickAdd(c *gin.Context) {
	var cmd command.QuickAdd
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	cmd.SessionID = middleware.SessionID(c)

	item, err := h.commands.QuickAdd(c.Request.Context(), cmd)
	h.respondMutation(c, http.StatusCreated, &item, err)
}

func (h *Handlers) UpdateQuantity(c *gin.Context) {
	var cmd command.UpdateQuantity
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	cmd.SessionID = middleware.SessionID(c)

	item, err := h.commands.UpdateQuantity(c.Request.Context(), cmd)
	h.respondMutation(c, http.StatusOK, &item, err)
}

func (h *Handlers) RemoveFromCart(c *gin.Context) {
	id, err := strconv.Atoi(c.Query("product_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid product id", Field: "product_id"})
		return
	}
	cmd := command.RemoveFromCart{
		SessionID: middleware.SessionID(c),
		ProductID: id,
		Size:      c.Query("size"),
		Color:     c.Query("color"),
	}

	item, err := h.commands.RemoveFromCart(c.Request.Context(), cmd)
	h.respondMutation(c, http.StatusOK, &item, err)
}

func (h *Handlers) ClearCart(c *gin.Context) {
	err := h.commands.ClearCart(c.Request.Context(), command.ClearCart{SessionID: middleware.SessionID(c)})
	h.respondMutation(c, http.StatusOK, nil, err)
}

// Checkout
func (h *Handlers) Quote(c *gin.Context) {
	summary, err := h.checkout.Quote(c.Request.Context(), middleware.SessionID(c), checkout.ShippingMethod(c.Query("shipping")))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handlers) PlaceOrder(c *gin.Context) {
	var form checkout.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	order, err := h.commands.PlaceOrder(c.Request.Context(), command.PlaceOrder{
		SessionID: middleware.SessionID(c),
		Form:      form,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *Handlers) respondMutation(c *gin.Context, status int, item *cart.LineItem, err error) {
	if err != nil {
		h.respondError(c, err)
		return
	}
	view, err := h.queries.GetCart(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(status, cartMutation{Item: item, Cart: view})
}

func (h *Handlers) respondError(c *gin.Context, err error) {
	var cmdErr *command.ValidationError
	var formErr *checkout.ValidationError

	switch {
	case errors.As(err, &cmdErr):
		c.JSON(http.StatusBadRequest, errorResponse{Error: cmdErr.Message, Field: cmdErr.Field})
	case errors.As(err, &formErr):
		c.JSON(http.StatusBadRequest, errorResponse{Error: formErr.Message, Field: formErr.Field, Fields: formErr.Fields})
	case errors.Is(err, catalog.ErrInvalidPrice),
		errors.Is(err, checkout.ErrUnknownShipping),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrInvalidProduct):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, cart.ErrItemNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		h.logger.Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.String("session_id", middleware.SessionID(c)),
			zap.Error(err),
		)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
