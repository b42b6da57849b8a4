package notifications

import (
	"fmt"
	"html"
	"net/url"
	"strings"
)

// Request describes one order confirmation email.
type Request struct {
	Email       string `json:"email" validate:"required,email"`
	OrderID     string `json:"orderId" validate:"required"`
	Name        string `json:"name,omitempty"`
	OrderNumber string `json:"orderNumber,omitempty"`
	Origin      string `json:"origin,omitempty"`
}

func (r Request) normalized() Request {
	return Request{
		Email:       strings.TrimSpace(r.Email),
		OrderID:     strings.TrimSpace(r.OrderID),
		Name:        strings.TrimSpace(r.Name),
		OrderNumber: strings.TrimSpace(r.OrderNumber),
		Origin:      strings.TrimSpace(r.Origin),
	}
}

// OrderLink returns <origin>/orders/<orderId>, or "" when origin is not an absolute http(s) URL.
func OrderLink(origin, orderID string) string {
	origin = strings.TrimSpace(origin)
	orderID = strings.TrimSpace(orderID)
	if origin == "" || orderID == "" {
		return ""
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return fmt.Sprintf("%s://%s/orders/%s", u.Scheme, u.Host, url.PathEscape(orderID))
}

// Message is a rendered email ready for a provider.
type Message struct {
	ToEmail string
	ToName  string
	Subject string
	Text    string
	HTML    string
}

func renderConfirmation(req Request) Message {
	reference := req.OrderID
	if req.OrderNumber != "" {
		reference = req.OrderNumber
	}
	greeting := "Hi"
	if req.Name != "" {
		greeting = "Hi " + req.Name
	}
	link := OrderLink(req.Origin, req.OrderID)

	var text strings.Builder
	fmt.Fprintf(&text, "%s,\n\nThank you for your order %s. We have received it and will be in touch about delivery.\n", greeting, reference)
	if link != "" {
		fmt.Fprintf(&text, "\nView your order: %s\n", link)
	}

	var markup strings.Builder
	fmt.Fprintf(&markup, "<p>%s,</p><p>Thank you for your order <strong>%s</strong>. We have received it and will be in touch about delivery.</p>",
		html.EscapeString(greeting), html.EscapeString(reference))
	if link != "" {
		fmt.Fprintf(&markup, `<p><a href="%s">View your order</a></p>`, html.EscapeString(link))
	}

	return Message{
		ToEmail: req.Email,
		ToName:  req.Name,
		Subject: fmt.Sprintf("Order confirmation %s", reference),
		Text:    text.String(),
		HTML:    markup.String(),
	}
}
