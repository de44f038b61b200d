package cryptobot

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrConfigInvalid   = errors.New("cryptobot config invalid")
	ErrRequestFailed   = errors.New("cryptobot request failed")
	ErrResponseInvalid = errors.New("cryptobot response invalid")
	ErrPayloadInvalid  = errors.New("cryptobot webhook payload invalid")
)

const (
	// UpdateInvoicePaid 发票已支付事件
	UpdateInvoicePaid = "invoice_paid"
	// SecretHeader webhook 共享密钥请求头
	SecretHeader = "X-Telegram-Bot-Api-Secret-Token"
	// TokenHeader API 鉴权请求头
	TokenHeader = "Crypto-Pay-API-Token"

	invoiceStatusPaid = "paid"
	defaultAPIBase    = "https://pay.crypt.bot/api"
	defaultTimeout    = 10 * time.Second
	maxResponseBytes  = 1 << 20
)

// Config CryptoBot 配置
type Config struct {
	APIBase     string
	APIToken    string
	BotUsername string
	Timeout     time.Duration
}

func (c *Config) normalize() {
	c.APIBase = strings.TrimRight(strings.TrimSpace(c.APIBase), "/")
	c.APIToken = strings.TrimSpace(c.APIToken)
	c.BotUsername = strings.TrimPrefix(strings.TrimSpace(c.BotUsername), "@")
	if c.APIBase == "" {
		c.APIBase = defaultAPIBase
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Client CryptoBot 查询客户端
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient 创建客户端，httpClient 为空时使用带超时的默认客户端
func NewClient(cfg Config, httpClient *http.Client) *Client {
	cfg.normalize()
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{cfg: cfg, httpClient: httpClient}
}

// BotUsername 返回收款机器人用户名
func (c *Client) BotUsername() string {
	return c.cfg.BotUsername
}

// Invoice CryptoBot 发票（仅保留用到的字段）
type Invoice struct {
	ID        json.RawMessage `json:"id"`
	InvoiceID json.RawMessage `json:"invoice_id"`
	Status    string          `json:"status"`
	Payload   string          `json:"payload"`
	Amount    string          `json:"amount"`
	Asset     string          `json:"asset"`
	PaidAt    string          `json:"paid_at"`
}

// Ref 返回发票号，兼容 id / invoice_id 两种字段与数字 / 字符串两种格式
func (i Invoice) Ref() string {
	if ref := rawScalar(i.InvoiceID); ref != "" {
		return ref
	}
	return rawScalar(i.ID)
}

type envelope struct {
	OK     bool            `json:"ok"`
	Result json.RawMessage `json:"result"`
	Error  json.RawMessage `json:"error"`
}

// FindPaidInvoice 按订单号查询已支付发票
// 未找到时返回 nil, nil；任何网络、状态码或格式问题都返回错误，由调用方视为未支付
func (c *Client) FindPaidInvoice(ctx context.Context, paymentID string) (*Invoice, error) {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return nil, fmt.Errorf("%w: payment id is empty", ErrConfigInvalid)
	}
	if c.cfg.APIToken == "" {
		return nil, fmt.Errorf("%w: api token is required", ErrConfigInvalid)
	}

	query := url.Values{}
	query.Set("status", invoiceStatusPaid)
	query.Set("order_ids", paymentID)
	endpoint := c.cfg.APIBase + "/getInvoices?" + query.Encode()

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	var resp envelope
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	if !resp.OK {
		return nil, fmt.Errorf("%w: ok=false %s", ErrResponseInvalid, strings.TrimSpace(string(resp.Error)))
	}
	invoices, err := decodeInvoices(resp.Result)
	if err != nil {
		return nil, err
	}

	for idx := range invoices {
		inv := invoices[idx]
		if inv.Status != "" && inv.Status != invoiceStatusPaid {
			continue
		}
		if inv.Payload != "" && inv.Payload != paymentID {
			continue
		}
		if inv.Ref() == "" {
			continue
		}
		return &inv, nil
	}
	return nil, nil
}

func decodeInvoices(raw json.RawMessage) ([]Invoice, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	switch trimmed[0] {
	case '[':
		var list []Invoice
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrResponseInvalid, err)
		}
		return list, nil
	case '{':
		var wrapped struct {
			Items []Invoice `json:"items"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrResponseInvalid, err)
		}
		return wrapped.Items, nil
	default:
		return nil, fmt.Errorf("%w: unexpected result", ErrResponseInvalid)
	}
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(TokenHeader, c.cfg.APIToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, fmt.Errorf("http status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
}

// PayLinkInput 支付链接参数
type PayLinkInput struct {
	Amount         string
	Currency       string
	Description    string
	Payload        string
	PaidButtonName string
	PaidButtonURL  string
}

// BuildPayURL 生成 Telegram 支付深链
func BuildPayURL(botUsername string, input PayLinkInput) string {
	botUsername = strings.TrimPrefix(strings.TrimSpace(botUsername), "@")
	params := url.Values{}
	params.Set("amount", input.Amount)
	params.Set("currency", input.Currency)
	params.Set("description", input.Description)
	params.Set("allow_anonymous", "true")
	params.Set("allow_comments", "false")
	params.Set("payload", input.Payload)
	if input.PaidButtonName != "" {
		params.Set("paid_btn_name", input.PaidButtonName)
	}
	if input.PaidButtonURL != "" {
		params.Set("paid_btn_url", input.PaidButtonURL)
	}
	return "https://t.me/" + url.PathEscape(botUsername) + "/pay?" + params.Encode()
}

// WebhookUpdate webhook 推送内容
type WebhookUpdate struct {
	UpdateType string
	PaymentID  string
	InvoiceID  string
}

type rawWebhook struct {
	UpdateType string          `json:"update_type"`
	Payload    json.RawMessage `json:"payload"`
	InvoiceID  json.RawMessage `json:"invoice_id"`
}

// ParseWebhook 解析 webhook 请求体
// payload 既可以是支付标识字符串，也可以是包含 payload / invoice_id 的发票对象
func ParseWebhook(body []byte) (*WebhookUpdate, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrPayloadInvalid)
	}
	var raw rawWebhook
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPayloadInvalid, err)
	}

	update := &WebhookUpdate{
		UpdateType: strings.TrimSpace(raw.UpdateType),
		InvoiceID:  rawScalar(raw.InvoiceID),
	}
	payload := bytes.TrimSpace(raw.Payload)
	if len(payload) > 0 && payload[0] == '{' {
		var inv Invoice
		if err := json.Unmarshal(payload, &inv); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPayloadInvalid, err)
		}
		update.PaymentID = strings.TrimSpace(inv.Payload)
		if update.InvoiceID == "" {
			update.InvoiceID = inv.Ref()
		}
	} else {
		update.PaymentID = rawScalar(payload)
	}

	if update.UpdateType == "" || update.PaymentID == "" {
		return nil, fmt.Errorf("%w: update_type and payload are required", ErrPayloadInvalid)
	}
	return update, nil
}

// VerifySecret 常量时间比较共享密钥，未配置密钥时一律拒绝
func VerifySecret(expected, provided string) bool {
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(provided)) == 1
}

func rawScalar(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return ""
		}
		return strings.TrimSpace(s)
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return ""
	}
	return string(trimmed)
}
