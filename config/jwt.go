package config

// Jwt 令牌配置
type Jwt struct {
	Secret      string `json:"secret" yaml:"secret"`
	ExpiresTime int64  `json:"expires_time" yaml:"expires_time"` // 秒
}
