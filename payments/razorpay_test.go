package payments

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSignatureRoundTrip(t *testing.T) {
	sig := Sign("secret", "order_9A33XWu170gUtm", "pay_29QQoUBi66xm2f")
	assert.Len(t, sig, 64)
	assert.True(t, VerifySignature("secret", "order_9A33XWu170gUtm", "pay_29QQoUBi66xm2f", sig))

	assert.False(t, VerifySignature("other", "order_9A33XWu170gUtm", "pay_29QQoUBi66xm2f", sig))
	assert.False(t, VerifySignature("secret", "order_9A33XWu170gUtm", "pay_tampered", sig))
	assert.False(t, VerifySignature("secret", "order_9A33XWu170gUtm", "pay_29QQoUBi66xm2f", ""))
}

func TestToMinorUnits(t *testing.T) {
	tests := map[string]int64{
		"1200":   120000,
		"849.50": 84950,
		"0.015":  2,
		"19.994": 1999,
		"0":      0,
	}
	for in, want := range tests {
		assert.Equal(t, want, ToMinorUnits(decimal.RequireFromString(in)), in)
	}
}

func TestNewRazorpayRequiresCredentials(t *testing.T) {
	assert.Nil(t, NewRazorpay("", "secret"))
	assert.Nil(t, NewRazorpay("rzp_test", ""))

	gw := NewRazorpay("rzp_test", "secret")
	if assert.NotNil(t, gw) {
		assert.Equal(t, "rzp_test", gw.KeyID())
		assert.True(t, gw.VerifySignature("o", "p", Sign("secret", "o", "p")))
	}
}
