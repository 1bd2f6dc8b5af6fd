package payment

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"course-market/internal/config"
)

const (
	sandboxBaseURL = "https://api-m.sandbox.paypal.com"
	liveBaseURL    = "https://api-m.paypal.com"
)

// Error 网关返回的业务错误，带上 debug_id 方便向 PayPal 排查
type Error struct {
	StatusCode int
	Name       string
	Message    string
	DebugID    string
}

func (e *Error) Error() string {
	if e.DebugID != "" {
		return fmt.Sprintf("paypal: %s (%s, debug_id=%s)", e.Message, e.Name, e.DebugID)
	}
	return fmt.Sprintf("paypal: %s (%s)", e.Message, e.Name)
}

// Client PayPal Orders v2 客户端
type Client struct {
	BaseURL    string
	ClientID   string
	Secret     string
	HTTPClient *http.Client

	accessToken string
	tokenExpiry time.Time
}

// NewClient 根据配置创建客户端，mode 为 sandbox 或 live
func NewClient(clientID, secret, mode string) *Client {
	baseURL := sandboxBaseURL
	if mode == "live" {
		baseURL = liveBaseURL
	}
	return &Client{
		BaseURL:  baseURL,
		ClientID: clientID,
		Secret:   secret,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewClientFromConfig 从全局配置创建客户端
func NewClientFromConfig() (*Client, error) {
	if config.GlobalConfig == nil {
		return nil, errors.New("配置未初始化")
	}
	cfg := config.GlobalConfig.PayPal
	if cfg.ClientID == "" || cfg.Secret == "" {
		return nil, errors.New("PayPal client_id 或 secret 未配置")
	}
	return NewClient(cfg.ClientID, cfg.Secret, cfg.Mode), nil
}

// getAccessToken 获取访问令牌，带简单的过期缓存
func (c *Client) getAccessToken() (string, error) {
	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequest(http.MethodPost, c.BaseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.ClientID, c.Secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("请求PayPal令牌接口失败: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", c.parseError(resp.StatusCode, body)
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("解析PayPal令牌响应失败: %v", err)
	}

	c.accessToken = token.AccessToken
	// 提前一分钟过期，避免临界点用到失效令牌
	c.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn-60) * time.Second)
	return c.accessToken, nil
}

// CreateOrder 统一下单
func (c *Client) CreateOrder(params CreateOrderParams) (*OrderResult, error) {
	reqBody := orderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []purchaseUnit{
			{
				Amount: unitAmount{
					CurrencyCode: params.Currency,
					Value:        fmt.Sprintf("%.2f", params.Amount),
				},
				Description: params.Description,
				CustomID:    params.CustomID,
				InvoiceID:   params.InvoiceID,
			},
		},
		ApplicationContext: &applicationContext{
			ShippingPreference: "NO_SHIPPING",
			UserAction:         "PAY_NOW",
			ReturnURL:          params.ReturnURL,
			CancelURL:          params.CancelURL,
		},
	}

	body, err := c.post("/v2/checkout/orders", reqBody)
	if err != nil {
		return nil, err
	}

	var order orderResponse
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("解析PayPal下单响应失败: %v", err)
	}

	result := &OrderResult{
		OrderID: order.ID,
		Status:  order.Status,
	}
	for _, link := range order.Links {
		if link.Rel == "approve" {
			result.ApprovalURL = link.Href
			break
		}
	}
	return result, nil
}

// CaptureOrder 对已确认的订单扣款
func (c *Client) CaptureOrder(orderID string) (*CaptureResult, error) {
	body, err := c.post("/v2/checkout/orders/"+orderID+"/capture", struct{}{})
	if err != nil {
		return nil, err
	}

	var capture captureResponse
	if err := json.Unmarshal(body, &capture); err != nil {
		return nil, fmt.Errorf("解析PayPal扣款响应失败: %v", err)
	}

	result := &CaptureResult{
		Status: capture.Status,
		Raw:    json.RawMessage(body),
	}
	// 扣款凭证编号在 purchase_units[0].payments.captures[0]
	for _, unit := range capture.PurchaseUnits {
		if len(unit.Payments.Captures) > 0 {
			result.CaptureID = unit.Payments.Captures[0].ID
			break
		}
	}
	return result, nil
}

// post 发送带认证的JSON请求
func (c *Client) post(path string, payload interface{}) ([]byte, error) {
	token, err := c.getAccessToken()
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, c.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Prefer", "return=representation")
	// 幂等键，网络重试不会产生重复订单
	req.Header.Set("PayPal-Request-Id", uuid.NewString())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求PayPal接口失败: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.parseError(resp.StatusCode, body)
	}
	return body, nil
}

// parseError 解析网关错误响应
func (c *Client) parseError(statusCode int, body []byte) error {
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Message == "" {
		return &Error{
			StatusCode: statusCode,
			Name:       "UNKNOWN",
			Message:    string(body),
		}
	}
	return &Error{
		StatusCode: statusCode,
		Name:       errResp.Name,
		Message:    errResp.Message,
		DebugID:    errResp.DebugID,
	}
}
