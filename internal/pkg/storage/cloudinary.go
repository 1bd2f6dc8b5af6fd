package storage

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Cloudinary 图片上传客户端，使用签名上传接口
type Cloudinary struct {
	CloudName  string
	APIKey     string
	APISecret  string
	HTTPClient *http.Client
}

// NewCloudinary 创建客户端
func NewCloudinary(cloudName, apiKey, apiSecret string) *Cloudinary {
	return &Cloudinary{
		CloudName: cloudName,
		APIKey:    apiKey,
		APISecret: apiSecret,
		HTTPClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload 上传图片，返回可公开访问的地址
func (c *Cloudinary) Upload(fileName string, file io.Reader) (string, error) {
	if c.CloudName == "" || c.APIKey == "" || c.APISecret == "" {
		return "", errors.New("Cloudinary 未配置")
	}

	timestamp := fmt.Sprintf("%d", time.Now().Unix())

	// 签名规则：参与签名的参数按字母序拼接后追加 api_secret，取 SHA1
	toSign := "timestamp=" + timestamp + c.APISecret
	digest := sha1.Sum([]byte(toSign))
	signature := hex.EncodeToString(digest[:])

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", err
	}
	_ = writer.WriteField("api_key", c.APIKey)
	_ = writer.WriteField("timestamp", timestamp)
	_ = writer.WriteField("signature", signature)
	if err := writer.Close(); err != nil {
		return "", err
	}

	uploadURL := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/upload", c.CloudName)
	req, err := http.NewRequest(http.MethodPost, uploadURL, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("请求Cloudinary接口失败: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var result uploadResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("解析Cloudinary响应失败: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("图片上传失败: %s", result.Error.Message)
	}
	return result.SecureURL, nil
}
