package notifications

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
)

type stubProvider struct {
	sent []Message
	err  error
}

func (s *stubProvider) Send(_ context.Context, msg Message) error {
	s.sent = append(s.sent, msg)
	return s.err
}

func newTestService(t *testing.T, provider EmailProvider) Service {
	t.Helper()
	svc, err := NewService(provider, logger.New(logger.Options{ServiceName: "notifications-test", Output: io.Discard}))
	require.NoError(t, err)
	return svc
}

func TestSendOrderConfirmationRequiresEmailAndOrderID(t *testing.T) {
	provider := &stubProvider{}
	svc := newTestService(t, provider)

	for _, req := range []Request{
		{OrderID: "order-1"},
		{Email: "a@example.com"},
		{Email: "   ", OrderID: "order-1"},
	} {
		err := svc.SendOrderConfirmation(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	}
	assert.Empty(t, provider.sent)
}

func TestSendOrderConfirmationRejectsMalformedEmail(t *testing.T) {
	provider := &stubProvider{}
	svc := newTestService(t, provider)

	for _, email := range []string{"abc", "a@", "@example.com"} {
		err := svc.SendOrderConfirmation(context.Background(), Request{Email: email, OrderID: "order-1"})
		require.Error(t, err, email)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		assert.Equal(t, map[string]string{"email": "email"}, typed.Details())
	}
	assert.Empty(t, provider.sent)
}

func TestSendOrderConfirmationWithoutProvider(t *testing.T) {
	svc := newTestService(t, nil)

	err := svc.SendOrderConfirmation(context.Background(), Request{Email: "a@example.com", OrderID: "order-1"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConfiguration, pkgerrors.As(err).Code())
}

func TestSendOrderConfirmationSurfacesProviderError(t *testing.T) {
	provider := &stubProvider{err: &ProviderError{StatusCode: 400, Body: `{"errors":[{"message":"bad from"}]}`}}
	svc := newTestService(t, provider)

	err := svc.SendOrderConfirmation(context.Background(), Request{Email: "a@example.com", OrderID: "order-1"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUpstream, typed.Code())
	assert.Equal(t, map[string]string{"provider_error": `{"errors":[{"message":"bad from"}]}`}, typed.Details())

	provider.err = errors.New("dial tcp: timeout")
	err = svc.SendOrderConfirmation(context.Background(), Request{Email: "a@example.com", OrderID: "order-1"})
	assert.Equal(t, map[string]string{"provider_error": "dial tcp: timeout"}, pkgerrors.As(err).Details())
}

func TestSendOrderConfirmationRendersMessage(t *testing.T) {
	provider := &stubProvider{}
	svc := newTestService(t, provider)

	err := svc.SendOrderConfirmation(context.Background(), Request{
		Email:       " a@example.com ",
		OrderID:     "order-1",
		Name:        "Ana <Cruz>",
		OrderNumber: "SF-000007",
		Origin:      "https://shop.example.com/checkout",
	})
	require.NoError(t, err)
	require.Len(t, provider.sent, 1)

	msg := provider.sent[0]
	assert.Equal(t, "a@example.com", msg.ToEmail)
	assert.Equal(t, "Order confirmation SF-000007", msg.Subject)
	assert.Contains(t, msg.Text, "https://shop.example.com/orders/order-1")
	assert.Contains(t, msg.HTML, "Ana &lt;Cruz&gt;")
}

func TestRenderConfirmationEscapesMarkup(t *testing.T) {
	msg := renderConfirmation(Request{
		Email:       "a@example.com",
		OrderID:     "order-1",
		Name:        `O'Neil & "Sons"`,
		OrderNumber: "<b>SF-1</b>",
	})
	assert.Contains(t, msg.HTML, "Hi O&#39;Neil &amp; &#34;Sons&#34;")
	assert.Contains(t, msg.HTML, "<strong>&lt;b&gt;SF-1&lt;/b&gt;</strong>")
	assert.NotContains(t, msg.HTML, "<b>")
	assert.Contains(t, msg.Text, "Hi O'Neil & \"Sons\"")
}

func TestOrderLink(t *testing.T) {
	cases := map[string]string{
		"https://shop.example.com":       "https://shop.example.com/orders/abc",
		"http://localhost:3000/cart?x=1": "http://localhost:3000/orders/abc",
		"shop.example.com":               "",
		"ftp://shop.example.com":         "",
		"javascript:alert(1)":            "",
		"":                               "",
	}
	for origin, want := range cases {
		assert.Equal(t, want, OrderLink(origin, "abc"), origin)
	}
	assert.Empty(t, OrderLink("https://shop.example.com", " "))
}

func TestRenderWithoutLinkOrNumber(t *testing.T) {
	msg := renderConfirmation(Request{Email: "a@example.com", OrderID: "order-9", Origin: "not a url"})
	assert.Equal(t, "Order confirmation order-9", msg.Subject)
	assert.NotContains(t, msg.Text, "View your order")
	assert.Contains(t, msg.Text, "Hi,")
}

func TestNewSendGridProviderRequiresKey(t *testing.T) {
	assert.Nil(t, NewSendGridProvider(config.SendgridConfig{APIKey: "  "}))
	assert.NotNil(t, NewSendGridProvider(config.SendgridConfig{APIKey: "SG.test", DefaultFrom: "orders@example.com"}))
}

func TestSendGridProviderMapsStatus(t *testing.T) {
	var captured *mail.SGMailV3
	provider := &SendGridProvider{
		fromEmail: "orders@example.com",
		fromName:  "Shop",
		send: func(_ context.Context, email *mail.SGMailV3) (int, string, error) {
			captured = email
			return 202, "", nil
		},
	}
	require.NoError(t, provider.Send(context.Background(), Message{ToEmail: "a@example.com", Subject: "hi", Text: "t", HTML: "<p>t</p>"}))
	require.NotNil(t, captured)
	assert.Equal(t, "orders@example.com", captured.From.Address)
	assert.Equal(t, "hi", captured.Subject)

	provider.send = func(context.Context, *mail.SGMailV3) (int, string, error) {
		return 401, "unauthorized", nil
	}
	err := provider.Send(context.Background(), Message{ToEmail: "a@example.com"})
	var providerErr *ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, 401, providerErr.StatusCode)
	assert.Equal(t, "unauthorized", providerErr.Body)
}
