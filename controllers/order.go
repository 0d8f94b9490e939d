// controllers/order.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"aruth-api/logger"
	"aruth-api/metrics"
	"aruth-api/models"
	"aruth-api/store"
	"aruth-api/utils"

	"github.com/gorilla/mux"
)

// emailTimeout bounds a notification sent after the response
const emailTimeout = 15 * time.Second

// OrderController handles order-related requests
type OrderController struct {
	Orders       store.Orders
	Sequence     store.Sequencer
	EmailService *utils.EmailService
}

// NewOrderController creates a new OrderController
func NewOrderController(orders store.Orders, sequence store.Sequencer, emailService *utils.EmailService) *OrderController {
	return &OrderController{
		Orders:       orders,
		Sequence:     sequence,
		EmailService: emailService,
	}
}

// PlaceOrder stores the caller's order under a freshly generated order number
func (oc *OrderController) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var order models.Order
	if !decode(w, r, &order, false) {
		return
	}
	if err := order.Validate(); err != nil {
		invalid(w, err)
		return
	}

	ctx, cancel := dbContext(r)
	defer cancel()

	seq, err := oc.Sequence.Next(ctx, store.OrderSequence)
	if err != nil {
		fail(w, r, err, "Order sequence")
		return
	}
	orderNum, err := utils.OrderNumber(seq)
	if err != nil {
		fail(w, r, err, "Order number")
		return
	}

	order.OrderNum = orderNum
	order.Email = caller(r)
	order.Status = models.StatusPending
	if order.Date == "" {
		order.Date = time.Now().UTC().Format("2006-01-02")
	}

	if err := oc.Orders.Insert(ctx, &order); err != nil {
		fail(w, r, err, "Order")
		return
	}
	metrics.OrdersPlaced.Inc()

	oc.notify(r, order, oc.EmailService.SendOrderConfirmationEmail)
	utils.WriteJSON(w, http.StatusCreated, order)
}

// notify sends an order email in the background; failures are only logged.
func (oc *OrderController) notify(r *http.Request, order models.Order, send func(context.Context, models.Order) error) {
	if oc.EmailService == nil {
		return
	}
	log := logger.WithCtx(r.Context())
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), emailTimeout)
		defer cancel()
		if err := send(ctx, order); err != nil {
			metrics.EmailsFailed.Inc()
			log.Error("order email", "order_num", order.OrderNum, "to", order.Email, "error", err)
		}
	}()
}

// GetMyOrders lists the caller's orders, newest first
func (oc *OrderController) GetMyOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := dbContext(r)
	defer cancel()

	orders, err := oc.Orders.ByEmail(ctx, caller(r), 0)
	if err != nil {
		fail(w, r, err, "Orders")
		return
	}
	utils.WriteJSON(w, http.StatusOK, project(orders, models.Order.Summary))
}

// GetMyRecentOrders lists the caller's last orders, newest first
func (oc *OrderController) GetMyRecentOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := dbContext(r)
	defer cancel()

	orders, err := oc.Orders.ByEmail(ctx, caller(r), recentOrdersLimit)
	if err != nil {
		fail(w, r, err, "Orders")
		return
	}
	utils.WriteJSON(w, http.StatusOK, project(orders, models.Order.Recent))
}

// GetMyOrderDetails returns one of the caller's orders
func (oc *OrderController) GetMyOrderDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := dbContext(r)
	defer cancel()

	order, err := oc.Orders.ByID(ctx, id)
	if err != nil {
		fail(w, r, err, "Order")
		return
	}
	if order.Email != caller(r) {
		utils.WriteError(w, http.StatusForbidden, "Forbidden access")
		return
	}
	utils.WriteJSON(w, http.StatusOK, order)
}

// GetOrders lists every order for the admin table
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := dbContext(r)
	defer cancel()

	orders, err := oc.Orders.All(ctx)
	if err != nil {
		fail(w, r, err, "Orders")
		return
	}
	utils.WriteJSON(w, http.StatusOK, project(orders, models.Order.Row))
}

// GetOrderDetails returns any order (Admin only)
func (oc *OrderController) GetOrderDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := dbContext(r)
	defer cancel()

	order, err := oc.Orders.ByID(ctx, id)
	if err != nil {
		fail(w, r, err, "Order")
		return
	}
	utils.WriteJSON(w, http.StatusOK, order)
}

// UpdateOrderStatus allows admin to update the order status
func (oc *OrderController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var patch models.OrderPatch
	if !decode(w, r, &patch, false) {
		return
	}
	if err := patch.Validate(); err != nil {
		invalid(w, err)
		return
	}

	ctx, cancel := dbContext(r)
	defer cancel()

	if err := oc.Orders.Update(ctx, id, patch); err != nil {
		fail(w, r, err, "Order")
		return
	}
	order, err := oc.Orders.ByID(ctx, id)
	if err != nil {
		fail(w, r, err, "Order")
		return
	}

	oc.notify(r, *order, oc.EmailService.SendOrderStatusEmail)
	utils.WriteJSON(w, http.StatusOK, order)
}

// DeleteOrder removes an order (Admin only)
func (oc *OrderController) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := dbContext(r)
	defer cancel()

	if err := oc.Orders.Delete(ctx, id); err != nil {
		fail(w, r, err, "Order")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]int{"deletedCount": 1})
}

// SearchOrder finds orders by their order number (Admin only)
func (oc *OrderController) SearchOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := dbContext(r)
	defer cancel()

	orders, err := oc.Orders.ByOrderNum(ctx, mux.Vars(r)["orderNum"])
	if err != nil {
		fail(w, r, err, "Orders")
		return
	}
	utils.WriteJSON(w, http.StatusOK, project(orders, models.Order.Row))
}
