package http

import (
	"net/http"
	"strings"
	"time"

	"comanda/internal/models"
	"comanda/internal/repository"
	"comanda/internal/service"

	"github.com/gin-gonic/gin"
)

type listOrdersResponse struct {
	Data []models.Order `json:"data"`
}

// CreateOrder
// @Summary CreateOrder
// @Description Registers a new order against the currently open shift
// @ID create-order
// @Accept json
// @Produce json
// @Param order body service.CreateOrderRequest true "order to create"
// @Success 201 {object} models.Order
// @Failure 400,409 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/orders [post]
func (h *Handler) CreateOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	order, err := h.svc.CreateOrder(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	ordersCreated.Inc()
	c.JSON(http.StatusCreated, order)
}

// GetOrder
// @Summary GetOrder
// @Description Fetches a single order with items and delivery sub-record
// @ID get-order
// @Produce json
// @Param id path string true "order id"
// @Success 200 {object} models.Order
// @Failure 400,404 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/orders/{id} [get]
func (h *Handler) GetOrder(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		newErrorResponse(c, http.StatusBadRequest, "missing id")
		return
	}

	order, err := h.svc.GetOrder(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// ListOrders
// @Summary ListOrders
// @Description Lists orders filtered by status and/or date (YYYY-MM-DD)
// @ID list-orders
// @Produce json
// @Param status query string false "order status"
// @Param date query string false "calendar date"
// @Success 200 {object} listOrdersResponse
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/orders [get]
func (h *Handler) ListOrders(c *gin.Context) {
	var f repository.OrderFilter

	if st := c.Query("status"); st != "" {
		status := models.OrderStatus(st)
		if !status.Valid() {
			newErrorResponse(c, http.StatusBadRequest, "unknown status "+st)
			return
		}
		f.Status = status
	}
	if d := c.Query("date"); d != "" {
		day, err := time.Parse("2006-01-02", d)
		if err != nil {
			newErrorResponse(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		f.From = day
		f.To = day.AddDate(0, 0, 1)
	}

	orders, err := h.svc.ListOrders(f)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, listOrdersResponse{Data: orders})
}

type transitionRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// TransitionOrder
// @Summary TransitionOrder
// @Description Applies a status transition to an order
// @ID transition-order
// @Accept json
// @Produce json
// @Param id path string true "order id"
// @Param body body transitionRequest true "target status"
// @Success 200 {object} models.Order
// @Failure 400,404,409 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/orders/{id}/status [post]
func (h *Handler) TransitionOrder(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		newErrorResponse(c, http.StatusBadRequest, "missing id")
		return
	}

	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	order, err := h.svc.Transition(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	statusTransitions.WithLabelValues(string(req.Status)).Inc()
	c.JSON(http.StatusOK, order)
}

// RecentCustomer
// @Summary RecentCustomer
// @Description Returns the cached customer snapshot for a phone number
// @ID recent-customer
// @Produce json
// @Param phone path string true "customer phone"
// @Success 200 {object} models.Customer
// @Failure 404 {object} errorResponse
// @Router /api/customers/{phone} [get]
func (h *Handler) RecentCustomer(c *gin.Context) {
	phone := strings.TrimSpace(c.Param("phone"))
	if phone == "" {
		newErrorResponse(c, http.StatusBadRequest, "missing phone")
		return
	}

	customer, err := h.svc.RecentCustomer(phone)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, customer)
}

// ActiveNeighborhoods
// @Summary ActiveNeighborhoods
// @Description Lists neighborhoods currently offered at order entry
// @ID active-neighborhoods
// @Produce json
// @Success 200 {array} models.Neighborhood
// @Failure 500 {object} errorResponse
// @Router /api/neighborhoods [get]
func (h *Handler) ActiveNeighborhoods(c *gin.Context) {
	neighborhoods, err := h.svc.ActiveNeighborhoods()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, neighborhoods)
}
