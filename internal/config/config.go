package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// LogConfig 日志配置
type LogConfig struct {
	Level      string `yaml:"level"`       // 日志级别: debug, info, warn, error
	Format     string `yaml:"format"`      // 日志格式: json, text
	Output     string `yaml:"output"`      // 输出方式: console, file, both
	FilePath   string `yaml:"file_path"`   // 日志文件路径
	MaxSize    int    `yaml:"max_size"`    // 单个日志文件最大大小(MB)
	MaxBackups int    `yaml:"max_backups"` // 保留的旧日志文件数量
	MaxAge     int    `yaml:"max_age"`     // 日志文件保留天数
	Compress   bool   `yaml:"compress"`    // 是否压缩旧日志文件
}

type Config struct {
	Server struct {
		Port string `yaml:"port"`
		Mode string `yaml:"mode"`
	} `yaml:"server"`

	Database struct {
		Driver   string `yaml:"driver"`
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		DBName   string `yaml:"dbname"`
	} `yaml:"database"`

	JWT struct {
		Secret     string `yaml:"secret"`
		ExpireTime int    `yaml:"expire_time"`
	} `yaml:"jwt"`

	Log LogConfig `yaml:"log"`

	// PayPal 支付配置
	PayPal struct {
		ClientID string `yaml:"client_id"`
		Secret   string `yaml:"secret"`
		Mode     string `yaml:"mode"`     // sandbox 或 live
		Currency string `yaml:"currency"` // 结算货币，默认 USD
	} `yaml:"paypal"`

	// 前端地址，用于拼接支付成功/取消后的跳转链接
	Frontend struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"frontend"`

	// Cloudinary 图片托管配置
	Cloudinary struct {
		CloudName string `yaml:"cloud_name"`
		APIKey    string `yaml:"api_key"`
		APISecret string `yaml:"api_secret"`
	} `yaml:"cloudinary"`

	// 邮件通知配置（可选，不配置则不发送邮件）
	SMTP struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		From     string `yaml:"from"`
	} `yaml:"smtp"`

	// 购买流程配置
	Purchase struct {
		PendingTTLMinutes int `yaml:"pending_ttl_minutes"` // pending 订单多久未支付视为失败
	} `yaml:"purchase"`
}

var GlobalConfig *Config

func Load() (*Config, error) {
	if GlobalConfig != nil {
		return GlobalConfig, nil
	}

	// 获取配置文件路径
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		// 如果环境变量中没有配置路径，则使用默认路径
		workDir, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("获取工作目录失败: %v", err)
		}

		// 尝试默认配置路径
		configPath = filepath.Join(workDir, "config", "config.yaml")

		// 如果默认配置不存在，尝试根目录下的配置文件
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = filepath.Join(workDir, "config.yaml")
		}
	}

	// 读取配置文件
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败 %s: %v", configPath, err)
	}

	// 解析配置文件
	config := &Config{}
	err = yaml.Unmarshal(configFile, config)
	if err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %v", err)
	}

	// 设置默认值
	// 日志配置默认值
	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "text"
	}
	if config.Log.Output == "" {
		config.Log.Output = "console"
	}
	if config.Log.FilePath == "" {
		config.Log.FilePath = "logs/app.log"
	}
	if config.Log.MaxSize == 0 {
		config.Log.MaxSize = 100 // 100MB
	}
	if config.Log.MaxBackups == 0 {
		config.Log.MaxBackups = 3
	}
	if config.Log.MaxAge == 0 {
		config.Log.MaxAge = 28 // 28天
	}

	// PayPal 配置默认值
	if config.PayPal.Mode == "" {
		config.PayPal.Mode = "sandbox"
	}
	if config.PayPal.Currency == "" {
		config.PayPal.Currency = "USD"
	}

	// 购买流程默认值
	if config.Purchase.PendingTTLMinutes == 0 {
		config.Purchase.PendingTTLMinutes = 60
	}

	GlobalConfig = config
	return config, nil
}
