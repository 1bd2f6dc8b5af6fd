package mailer

import (
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"course-market/internal/config"
)

// Enabled 是否配置了邮件发送
func Enabled() bool {
	return config.GlobalConfig != nil && config.GlobalConfig.SMTP.Host != ""
}

// Send 发送HTML邮件
// 调用方自行决定失败是否致命，购买通知类邮件只记日志不回滚业务
func Send(to []string, subject, htmlBody string) error {
	if !Enabled() {
		return errors.New("邮件服务未配置")
	}
	cfg := config.GlobalConfig.SMTP

	from := cfg.From
	if from == "" {
		from = cfg.Username
	}

	var msg strings.Builder
	msg.WriteString("From: " + from + "\r\n")
	msg.WriteString("To: " + strings.Join(to, ",") + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	auth := smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	return smtp.SendMail(addr, auth, from, to, []byte(msg.String()))
}
