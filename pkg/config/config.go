package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/bguard"
	ConfigFileName    = "bguard.yml"
)

// ValidAIProviders lists the LLM providers the scanner can talk to.
var ValidAIProviders = []string{"anthropic", "openai"}

// ValidReportStorage lists the supported report storage backends.
var ValidReportStorage = []string{"local", "s3"}

// BGuardConfig holds all BGuard server configuration settings
type BGuardConfig struct {
	// SessionTTL is the absolute session lifetime in minutes
	SessionTTL int `yaml:"session_ttl" json:"session_ttl"`

	// SessionIdleTimeout is the idle timeout in minutes
	SessionIdleTimeout int `yaml:"session_idle_timeout" json:"session_idle_timeout"`

	// CookieSecure marks the session cookie as Secure
	CookieSecure *bool `yaml:"cookie_secure" json:"cookie_secure"`

	// TrustedProxies is a list of CIDR ranges for trusted proxies
	TrustedProxies []string `yaml:"trusted_proxies" json:"trusted_proxies"`

	// CORSAllowedOrigins lists the browser origins allowed to call the API
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins" json:"cors_allowed_origins"`

	// ListLimitMax is the maximum page size for listing requests
	ListLimitMax int `yaml:"list_limit_max" json:"list_limit_max"`

	// LoginRateLimit is the number of login attempts allowed per minute per IP and email
	LoginRateLimit int `yaml:"login_rate_limit" json:"login_rate_limit"`

	AIProvider string `yaml:"ai_provider" json:"ai_provider"`
	AIModel    string `yaml:"ai_model" json:"ai_model"`
	AIBaseURL  string `yaml:"ai_base_url" json:"ai_base_url"`

	// AIRateLimit is the number of AI scans allowed per minute per organization
	AIRateLimit int `yaml:"ai_rate_limit" json:"ai_rate_limit"`

	// AIPromptDir overrides the built-in prompt templates
	AIPromptDir string `yaml:"ai_prompt_dir" json:"ai_prompt_dir"`

	ReportStorage    string `yaml:"report_storage" json:"report_storage"`
	ReportDir        string `yaml:"report_dir" json:"report_dir"`
	S3Bucket         string `yaml:"s3_bucket" json:"s3_bucket"`
	S3Region         string `yaml:"s3_region" json:"s3_region"`
	S3Endpoint       string `yaml:"s3_endpoint" json:"s3_endpoint"`
	ChromePath       string `yaml:"chrome_path" json:"chrome_path"`
	ReportSigningKey string `yaml:"report_signing_key" json:"report_signing_key"`

	MetricsEnabled  *bool  `yaml:"metrics_enabled" json:"metrics_enabled"`
	TracingEndpoint string `yaml:"tracing_endpoint" json:"tracing_endpoint"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *BGuardConfig
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *BGuardConfig {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

func boolPtr(b bool) *bool { return &b }

func newDefault() *BGuardConfig {
	return &BGuardConfig{
		SessionTTL:         480,
		SessionIdleTimeout: 30,
		CookieSecure:       boolPtr(true),
		TrustedProxies:     []string{},
		CORSAllowedOrigins: []string{},
		ListLimitMax:       1000,
		LoginRateLimit:     10,
		AIProvider:         "anthropic",
		AIModel:            "claude-sonnet-4-5",
		AIRateLimit:        6,
		ReportStorage:      "local",
		ReportDir:          "/var/lib/bguard/reports",
		MetricsEnabled:     boolPtr(true),
		sources:            make(map[string]string),
	}
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*BGuardConfig, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("BGUARD_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig BGuardConfig
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"session_ttl", "session_idle_timeout", "cookie_secure",
		"trusted_proxies", "cors_allowed_origins", "list_limit_max", "login_rate_limit",
		"ai_provider", "ai_model", "ai_base_url", "ai_rate_limit",
		"ai_prompt_dir", "report_storage", "report_dir", "s3_bucket",
		"s3_region", "s3_endpoint", "chrome_path", "report_signing_key",
		"metrics_enabled", "tracing_endpoint",
	}
}

func (c *BGuardConfig) applyFileConfig(file *BGuardConfig) {
	setInt := func(name string, dst *int, v int) {
		if v != 0 {
			*dst = v
			c.sources[name] = "file"
		}
	}
	setString := func(name string, dst *string, v string) {
		if v != "" {
			*dst = v
			c.sources[name] = "file"
		}
	}

	setInt("session_ttl", &c.SessionTTL, file.SessionTTL)
	setInt("session_idle_timeout", &c.SessionIdleTimeout, file.SessionIdleTimeout)
	if file.CookieSecure != nil {
		c.CookieSecure = file.CookieSecure
		c.sources["cookie_secure"] = "file"
	}
	if len(file.TrustedProxies) > 0 {
		c.TrustedProxies = file.TrustedProxies
		c.sources["trusted_proxies"] = "file"
	}
	if len(file.CORSAllowedOrigins) > 0 {
		c.CORSAllowedOrigins = file.CORSAllowedOrigins
		c.sources["cors_allowed_origins"] = "file"
	}
	setInt("list_limit_max", &c.ListLimitMax, file.ListLimitMax)
	setInt("login_rate_limit", &c.LoginRateLimit, file.LoginRateLimit)
	setString("ai_provider", &c.AIProvider, file.AIProvider)
	setString("ai_model", &c.AIModel, file.AIModel)
	setString("ai_base_url", &c.AIBaseURL, file.AIBaseURL)
	setInt("ai_rate_limit", &c.AIRateLimit, file.AIRateLimit)
	setString("ai_prompt_dir", &c.AIPromptDir, file.AIPromptDir)
	setString("report_storage", &c.ReportStorage, file.ReportStorage)
	setString("report_dir", &c.ReportDir, file.ReportDir)
	setString("s3_bucket", &c.S3Bucket, file.S3Bucket)
	setString("s3_region", &c.S3Region, file.S3Region)
	setString("s3_endpoint", &c.S3Endpoint, file.S3Endpoint)
	setString("chrome_path", &c.ChromePath, file.ChromePath)
	setString("report_signing_key", &c.ReportSigningKey, file.ReportSigningKey)
	if file.MetricsEnabled != nil {
		c.MetricsEnabled = file.MetricsEnabled
		c.sources["metrics_enabled"] = "file"
	}
	setString("tracing_endpoint", &c.TracingEndpoint, file.TracingEndpoint)
}

func (c *BGuardConfig) applyEnvConfig() {
	envInt := func(name string, dst *int) {
		val := os.Getenv("BGUARD_" + strings.ToUpper(name))
		if val == "" {
			return
		}
		if i, err := strconv.Atoi(val); err == nil {
			*dst = i
			c.sources[name] = "environment"
		}
	}
	envString := func(name string, dst *string) {
		if val := os.Getenv("BGUARD_" + strings.ToUpper(name)); val != "" {
			*dst = val
			c.sources[name] = "environment"
		}
	}
	envBool := func(name string, dst **bool) {
		if val := os.Getenv("BGUARD_" + strings.ToUpper(name)); val != "" {
			*dst = boolPtr(val == "true" || val == "1")
			c.sources[name] = "environment"
		}
	}

	envInt("session_ttl", &c.SessionTTL)
	envInt("session_idle_timeout", &c.SessionIdleTimeout)
	envBool("cookie_secure", &c.CookieSecure)
	if val := os.Getenv("BGUARD_TRUSTED_PROXIES"); val != "" {
		c.TrustedProxies = splitAndTrim(val)
		c.sources["trusted_proxies"] = "environment"
	}
	if val := os.Getenv("BGUARD_CORS_ALLOWED_ORIGINS"); val != "" {
		c.CORSAllowedOrigins = splitAndTrim(val)
		c.sources["cors_allowed_origins"] = "environment"
	}
	envInt("list_limit_max", &c.ListLimitMax)
	envInt("login_rate_limit", &c.LoginRateLimit)
	envString("ai_provider", &c.AIProvider)
	envString("ai_model", &c.AIModel)
	envString("ai_base_url", &c.AIBaseURL)
	envInt("ai_rate_limit", &c.AIRateLimit)
	envString("ai_prompt_dir", &c.AIPromptDir)
	envString("report_storage", &c.ReportStorage)
	envString("report_dir", &c.ReportDir)
	envString("s3_bucket", &c.S3Bucket)
	envString("s3_region", &c.S3Region)
	envString("s3_endpoint", &c.S3Endpoint)
	envString("chrome_path", &c.ChromePath)
	envString("report_signing_key", &c.ReportSigningKey)
	envBool("metrics_enabled", &c.MetricsEnabled)
	envString("tracing_endpoint", &c.TracingEndpoint)
}

// ConfigFilePath returns the path to the config file
func (c *BGuardConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *BGuardConfig) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// SessionLifetime returns the absolute session lifetime
func (c *BGuardConfig) SessionLifetime() time.Duration {
	return time.Duration(c.SessionTTL) * time.Minute
}

// IdleTimeout returns the session idle timeout
func (c *BGuardConfig) IdleTimeout() time.Duration {
	return time.Duration(c.SessionIdleTimeout) * time.Minute
}

func (c *BGuardConfig) SecureCookies() bool {
	return c.CookieSecure == nil || *c.CookieSecure
}

func (c *BGuardConfig) MetricsOn() bool {
	return c.MetricsEnabled == nil || *c.MetricsEnabled
}

// IsTrustedProxy checks if an IP is from a trusted proxy
func (c *BGuardConfig) IsTrustedProxy(ip string) bool {
	if len(c.TrustedProxies) == 0 {
		return false
	}

	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return false
	}

	for _, cidr := range c.TrustedProxies {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			if net.ParseIP(cidr) != nil && cidr == ip {
				return true
			}
			continue
		}
		if network.Contains(parsedIP) {
			return true
		}
	}
	return false
}

// Validate validates the configuration
func (c *BGuardConfig) Validate() error {
	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			if net.ParseIP(cidr) == nil {
				return fmt.Errorf("invalid trusted_proxies value: %s", cidr)
			}
		}
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be positive, got %d", c.SessionTTL)
	}
	if c.SessionIdleTimeout <= 0 {
		return fmt.Errorf("session_idle_timeout must be positive, got %d", c.SessionIdleTimeout)
	}
	if c.ListLimitMax <= 0 {
		return fmt.Errorf("list_limit_max must be positive, got %d", c.ListLimitMax)
	}

	if !contains(ValidAIProviders, c.AIProvider) {
		return fmt.Errorf("invalid ai_provider: %s", c.AIProvider)
	}
	if !contains(ValidReportStorage, c.ReportStorage) {
		return fmt.Errorf("invalid report_storage: %s", c.ReportStorage)
	}
	if c.ReportStorage == "s3" && c.S3Bucket == "" {
		return fmt.Errorf("s3_bucket is required when report_storage is s3")
	}

	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *BGuardConfig) Attributes() []Attribute {
	attr := func(name, value string) Attribute {
		return Attribute{Name: name, Value: value, Source: c.Source(name)}
	}
	return []Attribute{
		attr("session_ttl", strconv.Itoa(c.SessionTTL)),
		attr("session_idle_timeout", strconv.Itoa(c.SessionIdleTimeout)),
		attr("cookie_secure", strconv.FormatBool(c.SecureCookies())),
		attr("trusted_proxies", strings.Join(c.TrustedProxies, ",")),
		attr("cors_allowed_origins", strings.Join(c.CORSAllowedOrigins, ",")),
		attr("list_limit_max", strconv.Itoa(c.ListLimitMax)),
		attr("login_rate_limit", strconv.Itoa(c.LoginRateLimit)),
		attr("ai_provider", c.AIProvider),
		attr("ai_model", c.AIModel),
		attr("ai_base_url", c.AIBaseURL),
		attr("ai_rate_limit", strconv.Itoa(c.AIRateLimit)),
		attr("ai_prompt_dir", c.AIPromptDir),
		attr("report_storage", c.ReportStorage),
		attr("report_dir", c.ReportDir),
		attr("s3_bucket", c.S3Bucket),
		attr("s3_region", c.S3Region),
		attr("s3_endpoint", c.S3Endpoint),
		attr("chrome_path", c.ChromePath),
		attr("report_signing_key", c.ReportSigningKey),
		attr("metrics_enabled", strconv.FormatBool(c.MetricsOn())),
		attr("tracing_endpoint", c.TracingEndpoint),
	}
}

// FormatText returns a text representation of the configuration
func (c *BGuardConfig) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-24s %-36s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-24s %-36s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-24s %-36s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *BGuardConfig) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
