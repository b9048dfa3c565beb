package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleErrorLog = `ERROR: 2025/03/10 12:00:01 payments.go:84: Payment verification failed for gateway order order_9A33
ERROR: 2025/03/10 12:00:02 dispatcher.go:120: Outbox message 17 (email.order_confirmation) attempt 2 failed: smtp timeout
ERROR: 2025/03/10 12:00:09 dispatcher.go:120: Outbox message 18 (email.order_confirmation) attempt 3 failed: smtp timeout
ERROR: 2025/03/10 12:01:00 admin_auth.go:42: Invalid password for admin curator
Stack Trace:
DEBUG: 2025/03/10 12:01:00 auth.go:35: not an error line
`

const sampleInfoLog = `INFO: 2025/03/10 12:00:00 logger.go:74: Request 1f0c: GET /api/products from 10.0.0.1 - Status: 200 - Duration: 1ms
INFO: 2025/03/10 12:00:00 logger.go:74: Request 1f0d: POST /api/orders from 10.0.0.1 - Status: 201 - Duration: 9ms
INFO: 2025/03/10 12:00:00 logger.go:74: Request 1f0e: POST /api/orders from 10.0.0.2 - Status: 422 - Duration: 4ms
INFO: 2025/03/10 12:00:00 checkout.go:173: Order 3f2a9c1e placed by user u1: total=1200.00 coupon="WELCOME20"
INFO: 2025/03/10 12:00:00 checkout_controller.go:72: Checkout rejected for user u2: This coupon has reached its usage limit
INFO: 2025/03/10 12:00:00 coupon_controller.go:70: Coupon WELCOME20 valid for total 1300.00: discount 100.00
INFO: 2025/03/10 12:00:00 coupon_controller.go:74: Coupon NOPE rejected: Invalid coupon code
INFO: 2025/03/10 12:00:00 coupon_controller.go:74: Coupon OLD rejected: This coupon has expired
INFO: 2025/03/10 12:00:00 coupon_controller.go:74: Coupon GONE rejected: Invalid coupon code
INFO: 2025/03/10 12:00:00 payments.go:103: Payment pay_1 verified for gateway order order_1
INFO: 2025/03/10 12:00:00 handlers.go:55: Order confirmation email sent for order 3f2a9c1e
INFO: 2025/03/10 12:00:00 admin_auth.go:66: Admin login successful: curator
INFO: 2025/03/10 12:00:00 ratelimit.go:69: Rate limit exceeded for /api/coupons/validate:10.0.0.9
`

func TestAnalyzeLogs(t *testing.T) {
	stats := newLogStats()
	require.NoError(t, analyzeErrorLog(strings.NewReader(sampleErrorLog), stats))
	require.NoError(t, analyzeInfoLog(strings.NewReader(sampleInfoLog), stats))

	assert.Equal(t, 4, stats.TotalErrors)
	assert.Equal(t, 1, stats.PaymentFailures)
	assert.Equal(t, 2, stats.DeliveryFailures)
	assert.Equal(t, 1, stats.AdminLoginFailures)
	assert.Equal(t, 2, stats.ErrorPatterns["Outbox message N (email.order_confirmation) attempt N failed"])

	assert.Equal(t, map[int]int{200: 1, 201: 1, 422: 1}, stats.StatusCounts)
	assert.Equal(t, 1, stats.OrdersPlaced)
	assert.Equal(t, 1, stats.CheckoutRejections)
	assert.Equal(t, 1, stats.CouponsApplied)
	assert.Equal(t, 3, stats.CouponRejections)
	assert.Equal(t, 2, stats.CouponReasons["Invalid coupon code"])
	assert.Equal(t, 1, stats.PaymentsVerified)
	assert.Equal(t, 1, stats.EmailsSent)
	assert.Equal(t, 1, stats.AdminLogins)
	assert.Equal(t, 1, stats.RateLimited)
}

func TestPrintReport(t *testing.T) {
	stats := newLogStats()
	require.NoError(t, analyzeInfoLog(strings.NewReader(sampleInfoLog), stats))

	var buf bytes.Buffer
	printReport(&buf, stats)
	out := buf.String()
	assert.Contains(t, out, "Orders Placed: 1")
	assert.Contains(t, out, "Invalid coupon code: 2 rejections")
	assert.Less(t, strings.Index(out, "   200: 1"), strings.Index(out, "   422: 1"))
}
