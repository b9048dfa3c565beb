package utils

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"

	"github.com/nocturnelux/storefront/models"
	"gopkg.in/gomail.v2"
)

// ErrMailerNotConfigured is returned when no SMTP host or credentials are set.
var ErrMailerNotConfigured = errors.New("smtp not configured")

// Mailer sends HTML email.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// SMTPMailer sends mail through an SMTP relay with gomail.
type SMTPMailer struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Configured reports whether enough settings are present to send mail.
func (m *SMTPMailer) Configured() bool {
	return m != nil && m.Host != "" && m.Username != "" && m.Password != ""
}

// Send delivers one HTML message.
func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	if !m.Configured() {
		return ErrMailerNotConfigured
	}

	msg := gomail.NewMessage()
	from := m.From
	if from == "" {
		from = m.Username
	}
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(m.Host, m.Port, m.Username, m.Password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

const emailLayout = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body style="margin:0;padding:0;background:#000;font-family:'Helvetica Neue',Arial,sans-serif;">
<div style="max-width:600px;margin:0 auto;padding:40px 20px;">
<h1 style="color:#fff;font-size:28px;letter-spacing:8px;text-align:center;">NOCTURNELUX</h1>
{{template "content" .}}
<p style="color:#444;font-size:11px;text-align:center;margin-top:30px;">NocturneLux. All rights reserved.</p>
</div></body></html>`

const confirmationContent = `{{define "content"}}
<div style="border:1px solid #333;padding:30px;margin-bottom:30px;">
<h2 style="color:#fff;margin:0 0 10px 0;">Order Confirmed</h2>
<p style="color:#888;">Thank you for your order, {{.CustomerName}}!</p>
<p style="color:#666;font-size:12px;">Order ID: <span style="color:#fff;">#{{.Reference}}</span></p>
</div>
<table style="width:100%;border-collapse:collapse;color:#fff;">
<tr><th align="left">Product</th><th>Qty</th><th align="right">Price</th></tr>
{{range .Order.Items}}<tr>
<td style="padding:12px;border-bottom:1px solid #333;">{{.ProductName}}<br><span style="color:#888;font-size:12px;">Size: {{if .Size}}{{.Size}}{{else}}N/A{{end}}</span></td>
<td style="padding:12px;border-bottom:1px solid #333;text-align:center;">{{.Quantity}}</td>
<td style="padding:12px;border-bottom:1px solid #333;text-align:right;">${{.Price.StringFixed 2}}</td>
</tr>{{end}}
</table>
<div style="color:#888;margin-top:20px;">
<p>Subtotal: ${{.Order.Subtotal.StringFixed 2}}</p>
{{if .Order.Discount.IsPositive}}<p style="color:#4ade80;">Discount{{if .Order.CouponCode}} ({{.Order.CouponCode}}){{end}}: -${{.Order.Discount.StringFixed 2}}</p>{{end}}
<p style="color:#fff;font-size:18px;font-weight:bold;">Total: ${{.Order.Total.StringFixed 2}}</p>
</div>
<div style="border:1px solid #333;padding:20px;color:#ccc;">
<h3 style="color:#fff;letter-spacing:2px;">SHIPPING TO</h3>
<p>{{.Order.ShippingName}}<br>{{.Order.ShippingAddr}}<br>{{.Order.ShippingCity}}, {{.Order.ShippingState}} {{.Order.ShippingPin}}<br>Phone: {{.Order.ShippingPhone}}</p>
</div>
<p style="color:#666;font-size:12px;text-align:center;">We'll send you another email when your order ships.</p>
{{end}}`

const shippingContent = `{{define "content"}}
<div style="border:1px solid #333;padding:30px;">
<h2 style="color:#fff;margin:0 0 10px 0;">Your Order Has Shipped!</h2>
<p style="color:#888;">Order #{{.Reference}}</p>
<div style="background:#000;padding:20px;border:1px solid #444;">
<p style="color:#888;font-size:12px;margin:0 0 8px 0;">TRACKING NUMBER</p>
<p style="color:#fff;font-size:18px;letter-spacing:2px;margin:0;">{{.Order.TrackingNumber}}</p>
</div>
</div>
{{end}}`

var (
	confirmationTmpl = template.Must(template.Must(template.New("layout").Parse(emailLayout)).Parse(confirmationContent))
	shippingTmpl     = template.Must(template.Must(template.New("layout").Parse(emailLayout)).Parse(shippingContent))
)

type orderEmailData struct {
	Title        string
	Reference    string
	CustomerName string
	Order        *models.Order
}

func newOrderEmailData(title string, order *models.Order) orderEmailData {
	name := order.UserName
	if name == "" {
		name = "Valued Customer"
	}
	return orderEmailData{Title: title, Reference: order.Reference(), CustomerName: name, Order: order}
}

// OrderConfirmationEmail renders the subject and body sent after checkout.
// The order's Items must be loaded.
func OrderConfirmationEmail(order *models.Order) (string, string, error) {
	var buf bytes.Buffer
	if err := confirmationTmpl.Execute(&buf, newOrderEmailData("Order Confirmation - NocturneLux", order)); err != nil {
		return "", "", fmt.Errorf("render confirmation email: %w", err)
	}
	return fmt.Sprintf("Order Confirmed #%s - NocturneLux", order.Reference()), buf.String(), nil
}

// ShippingUpdateEmail renders the subject and body sent when an order ships.
func ShippingUpdateEmail(order *models.Order) (string, string, error) {
	var buf bytes.Buffer
	if err := shippingTmpl.Execute(&buf, newOrderEmailData("Your Order Has Shipped - NocturneLux", order)); err != nil {
		return "", "", fmt.Errorf("render shipping email: %w", err)
	}
	return fmt.Sprintf("Your Order Has Shipped! #%s - NocturneLux", order.Reference()), buf.String(), nil
}
