package models

// All returns every persisted model, in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Admin{},
		&BlacklistedToken{},
		&Product{},
		&CartItem{},
		&Coupon{},
		&Order{},
		&OrderItem{},
		&WishlistItem{},
		&ProductReview{},
		&Payment{},
		&OutboxMessage{},
	}
}
