package http

import (
	"comanda/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "comanda/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var (
	ordersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "comanda_orders_created_total",
		Help: "Orders accepted since start.",
	})
	statusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "comanda_order_transitions_total",
		Help: "Applied order status transitions.",
	}, []string{"to"})
)

type Handler struct {
	svc service.CRM
}

func NewHandler(s service.CRM) *Handler {
	return &Handler{svc: s}
}

func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.Default()

	api := router.Group("/api")
	{
		orders := api.Group("/orders")
		{
			orders.POST("", h.CreateOrder)
			orders.GET("", h.ListOrders)
			orders.GET("/:id", h.GetOrder)
			orders.POST("/:id/status", h.TransitionOrder)
			orders.POST("/:id/delivery/assign", h.AssignCourier)
			orders.POST("/:id/delivery/enroute", h.MarkEnRoute)
			orders.POST("/:id/delivery/delivered", h.MarkDelivered)
			orders.POST("/:id/delivery/incident", h.ReportIncident)
		}

		api.GET("/couriers/:id/pending", h.PendingSettlement)
		api.POST("/couriers/:id/settle", h.SettleCourier)

		shifts := api.Group("/shifts")
		{
			shifts.POST("/open", h.OpenShift)
			shifts.POST("/:id/close", h.CloseShift)
			shifts.GET("/current", h.CurrentShift)
		}

		api.GET("/reports/daily", h.DailyReport)
		api.GET("/neighborhoods", h.ActiveNeighborhoods)
		api.GET("/customers/:phone", h.RecentCustomer)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router
}
