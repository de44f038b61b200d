package cryptobot

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{
		APIBase:  server.URL + "/api/",
		APIToken: "token-123",
		Timeout:  time.Second,
	}, nil)
}

func TestFindPaidInvoiceSendsTokenAndQuery(t *testing.T) {
	var gotPath, gotToken string
	var gotQuery url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		gotToken = r.Header.Get(TokenHeader)
		_, _ = w.Write([]byte(`{"ok":true,"result":[{"id":987,"status":"paid","payload":"logo_ab_1"}]}`))
	})

	inv, err := client.FindPaidInvoice(context.Background(), "logo_ab_1")
	if err != nil {
		t.Fatalf("find paid invoice failed: %v", err)
	}
	if inv == nil || inv.Ref() != "987" {
		t.Fatalf("unexpected invoice: %+v", inv)
	}
	if gotPath != "/api/getInvoices" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotToken != "token-123" {
		t.Fatalf("unexpected token header: %s", gotToken)
	}
	if gotQuery.Get("status") != "paid" || gotQuery.Get("order_ids") != "logo_ab_1" {
		t.Fatalf("unexpected query: %v", gotQuery)
	}
}

func TestFindPaidInvoiceAcceptsItemsObject(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true,"result":{"items":[{"invoice_id":"555","status":"paid"}]}}`))
	})
	inv, err := client.FindPaidInvoice(context.Background(), "review_cd_2")
	if err != nil {
		t.Fatalf("find paid invoice failed: %v", err)
	}
	if inv == nil || inv.Ref() != "555" {
		t.Fatalf("unexpected invoice: %+v", inv)
	}
}

func TestFindPaidInvoiceEmptyResultIsNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true,"result":[]}`))
	})
	inv, err := client.FindPaidInvoice(context.Background(), "logo_ab_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv != nil {
		t.Fatalf("expected no invoice, got %+v", inv)
	}
}

func TestFindPaidInvoiceSkipsForeignPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true,"result":[{"id":1,"status":"paid","payload":"logo_other_1"}]}`))
	})
	inv, err := client.FindPaidInvoice(context.Background(), "logo_ab_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv != nil {
		t.Fatalf("expected foreign invoice to be skipped, got %+v", inv)
	}
}

func TestFindPaidInvoiceFailures(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{
			name: "http status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			want: ErrRequestFailed,
		},
		{
			name: "ok false",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"ok":false,"error":{"code":401,"name":"UNAUTHORIZED"}}`))
			},
			want: ErrResponseInvalid,
		},
		{
			name: "malformed",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`<html>`))
			},
			want: ErrResponseInvalid,
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(1500 * time.Millisecond)
				_, _ = w.Write([]byte(`{"ok":true,"result":[]}`))
			},
			want: ErrRequestFailed,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, tc.handler)
			inv, err := client.FindPaidInvoice(context.Background(), "logo_ab_1")
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if inv != nil {
				t.Fatalf("expected nil invoice on failure")
			}
		})
	}
}

func TestFindPaidInvoiceRequiresToken(t *testing.T) {
	client := NewClient(Config{}, nil)
	if _, err := client.FindPaidInvoice(context.Background(), "logo_ab_1"); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestBuildPayURL(t *testing.T) {
	raw := BuildPayURL("@CryptoBot", PayLinkInput{
		Amount:         "1.00",
		Currency:       "USD",
		Description:    "Add logo for Acme on CryptoLogoWall",
		Payload:        "logo_ab_1",
		PaidButtonName: "viewLogo",
		PaidButtonURL:  "https://wall.example/projects/42",
	})
	if !strings.HasPrefix(raw, "https://t.me/CryptoBot/pay?") {
		t.Fatalf("unexpected pay url: %s", raw)
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse pay url failed: %v", err)
	}
	q := parsed.Query()
	if q.Get("payload") != "logo_ab_1" || q.Get("amount") != "1.00" || q.Get("currency") != "USD" {
		t.Fatalf("unexpected query: %v", q)
	}
	if q.Get("allow_anonymous") != "true" || q.Get("allow_comments") != "false" {
		t.Fatalf("unexpected flags: %v", q)
	}
	if q.Get("paid_btn_url") != "https://wall.example/projects/42" {
		t.Fatalf("unexpected paid button url: %s", q.Get("paid_btn_url"))
	}
}

func TestParseWebhook(t *testing.T) {
	update, err := ParseWebhook([]byte(`{"update_type":"invoice_paid","payload":"logo_ab_1","invoice_id":"77"}`))
	if err != nil {
		t.Fatalf("parse webhook failed: %v", err)
	}
	if update.UpdateType != UpdateInvoicePaid || update.PaymentID != "logo_ab_1" || update.InvoiceID != "77" {
		t.Fatalf("unexpected update: %+v", update)
	}

	nested, err := ParseWebhook([]byte(`{"update_type":"invoice_paid","payload":{"invoice_id":88,"status":"paid","payload":"review_cd_2"}}`))
	if err != nil {
		t.Fatalf("parse nested webhook failed: %v", err)
	}
	if nested.PaymentID != "review_cd_2" || nested.InvoiceID != "88" {
		t.Fatalf("unexpected nested update: %+v", nested)
	}

	for _, body := range []string{"", "not json", `{"payload":"logo_ab_1"}`, `{"update_type":"invoice_paid"}`} {
		if _, err := ParseWebhook([]byte(body)); !errors.Is(err, ErrPayloadInvalid) {
			t.Fatalf("expected payload error for %q, got %v", body, err)
		}
	}
}

func TestVerifySecret(t *testing.T) {
	if !VerifySecret("s3cret", "s3cret") {
		t.Fatalf("expected matching secret to pass")
	}
	if VerifySecret("s3cret", "S3cret") || VerifySecret("s3cret", "") {
		t.Fatalf("expected mismatching secret to fail")
	}
	if VerifySecret("", "") {
		t.Fatalf("empty configured secret must reject")
	}
}
