package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nocturnelux/storefront/models"
	"github.com/nocturnelux/storefront/utils"
	"gorm.io/gorm"
)

var statusRank = map[string]int{
	models.OrderStatusPending:    0,
	models.OrderStatusProcessing: 1,
	models.OrderStatusShipped:    2,
	models.OrderStatusDelivered:  3,
}

// IsValidOrderStatus reports whether s is a known order status.
func IsValidOrderStatus(s string) bool {
	_, ok := statusRank[s]
	return ok || s == models.OrderStatusCancelled
}

// IsTerminalStatus reports whether no further transition is possible.
func IsTerminalStatus(s string) bool {
	return s == models.OrderStatusDelivered || s == models.OrderStatusCancelled
}

// CanTransition reports whether an order may move from one status to
// another. Fulfilment only moves forward (skipping steps is allowed),
// cancellation is possible until delivery, and shipped may be re-applied to
// change the tracking number.
func CanTransition(from, to string) bool {
	if IsTerminalStatus(from) || !IsValidOrderStatus(to) {
		return false
	}
	if to == models.OrderStatusCancelled {
		return true
	}
	if from == models.OrderStatusShipped && to == models.OrderStatusShipped {
		return true
	}
	return statusRank[to] > statusRank[from]
}

// ListUserOrders returns the user's orders with items, newest first.
func ListUserOrders(db *gorm.DB, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := db.Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// GetUserOrder loads one of the user's orders. Orders of other users are
// reported as not found.
func GetUserOrder(db *gorm.DB, userID, orderID string) (*models.Order, error) {
	var order models.Order
	err := db.Preload("Items").Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &order, nil
}

// GetOrder loads any order with its items.
func GetOrder(db *gorm.DB, orderID string) (*models.Order, error) {
	var order models.Order
	err := db.Preload("Items").First(&order, "id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &order, nil
}

// ListOrders pages through all orders for the admin, optionally filtered by status.
func ListOrders(db *gorm.DB, status string, page *utils.Pagination) ([]models.Order, error) {
	query := db.Model(&models.Order{})
	if status != "" {
		if !IsValidOrderStatus(status) {
			return nil, utils.BadRequestError("Invalid status", nil)
		}
		query = query.Where("status = ?", status)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}
	page.SetTotal(total)

	var orders []models.Order
	err := query.Preload("Items").
		Order("created_at DESC").
		Offset(page.Offset).
		Limit(page.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// UpdateOrderStatus moves an order to status. Entering shipped with a
// tracking number queues the shipping email; every change queues an event.
func UpdateOrderStatus(db *gorm.DB, orderID, status, trackingNumber string) (*models.Order, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	trackingNumber = strings.TrimSpace(trackingNumber)
	if !IsValidOrderStatus(status) {
		return nil, utils.BadRequestError("Invalid status", nil)
	}

	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("load order: %w", err)
		}
		previous := order.Status
		if !CanTransition(previous, status) {
			return ErrInvalidTransition.WithCause(fmt.Errorf("%s -> %s", previous, status))
		}
		if previous == status && trackingNumber == "" {
			return ErrInvalidTransition.WithCause(fmt.Errorf("%s -> %s without tracking number", previous, status))
		}

		updates := map[string]interface{}{"status": status}
		if status == models.OrderStatusShipped && trackingNumber != "" {
			updates["tracking_number"] = trackingNumber
		}
		if err := tx.Model(&order).Updates(updates).Error; err != nil {
			return fmt.Errorf("update order status: %w", err)
		}
		order.Status = status
		if tn, ok := updates["tracking_number"].(string); ok {
			order.TrackingNumber = tn
		}

		if status == models.OrderStatusShipped && trackingNumber != "" && order.UserEmail != "" {
			if err := Enqueue(tx, models.OutboxShippingUpdateEmail, OrderEmailPayload{OrderID: order.ID}); err != nil {
				return err
			}
		}
		return enqueueOrderEvent(tx, EventOrderStatusChanged, &order, previous)
	})
	if err != nil {
		return nil, err
	}
	utils.LogInfo("Order %s moved to %s", order.ID, order.Status)
	return &order, nil
}
