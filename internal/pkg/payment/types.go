package payment

import "encoding/json"

// CreateOrderParams 创建订单参数
type CreateOrderParams struct {
	Amount      float64
	Currency    string
	Description string
	InvoiceID   string
	CustomID    string
	ReturnURL   string
	CancelURL   string
}

// OrderResult 创建订单结果
type OrderResult struct {
	OrderID     string
	Status      string
	ApprovalURL string // 买家确认支付的跳转链接
}

// CaptureResult 扣款结果
type CaptureResult struct {
	CaptureID string
	Status    string
	Raw       json.RawMessage // 网关返回的原始报文，落库备查
}

// tokenResponse OAuth2 令牌响应
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// orderRequest 创建订单请求体，见 PayPal Orders v2 文档
type orderRequest struct {
	Intent             string              `json:"intent"`
	PurchaseUnits      []purchaseUnit      `json:"purchase_units"`
	ApplicationContext *applicationContext `json:"application_context,omitempty"`
}

type purchaseUnit struct {
	Amount      unitAmount `json:"amount"`
	Description string     `json:"description,omitempty"`
	CustomID    string     `json:"custom_id,omitempty"`
	InvoiceID   string     `json:"invoice_id,omitempty"`
}

type unitAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type applicationContext struct {
	ShippingPreference string `json:"shipping_preference,omitempty"`
	UserAction         string `json:"user_action,omitempty"`
	ReturnURL          string `json:"return_url,omitempty"`
	CancelURL          string `json:"cancel_url,omitempty"`
}

// orderResponse 创建订单响应体
type orderResponse struct {
	ID     string      `json:"id"`
	Status string      `json:"status"`
	Links  []orderLink `json:"links"`
}

type orderLink struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

// captureResponse 扣款响应体，只解析需要的字段，原始报文整体保留
type captureResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PurchaseUnits []struct {
		Payments struct {
			Captures []struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			} `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

// errorResponse 网关错误响应体
type errorResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	DebugID string `json:"debug_id"`
}
