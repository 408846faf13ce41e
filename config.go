package nominatim

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/viper"
)

// DefaultBaseURL - публичный эндпоинт поиска Nominatim
const DefaultBaseURL = "https://nominatim.openstreetmap.org/search"

const (
	defaultRequestTimeout = 10
	defaultLogLevel       = "info"
)

// Config - настройки клиента Nominatim
type Config struct {
	// Адрес эндпоинта /search. Абсолютный http(s) URL.
	BaseURL string
	// Значение заголовка User-Agent. При пустой строке заголовок не задается.
	UserAgent string
	// Контактный email по политике использования Nominatim.
	// Хранится в конфигурации, в запросы не добавляется.
	Email string
	// Таймаут запроса в секундах
	RequestTimeout int
	// Уровень встроенного логгера. NewClient строит по нему логгер,
	// когда логгер не передан; пустое значение отключает логирование.
	LogLevel string
}

// LoadConfig читает настройки из переменных окружения и файла .env,
// если он есть в рабочей директории
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("NOMINATIM_BASE_URL", DefaultBaseURL)
	v.SetDefault("NOMINATIM_REQUEST_TIMEOUT", defaultRequestTimeout)
	v.SetDefault("NOMINATIM_LOG_LEVEL", defaultLogLevel)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return &Config{
		BaseURL:        v.GetString("NOMINATIM_BASE_URL"),
		UserAgent:      v.GetString("NOMINATIM_USER_AGENT"),
		Email:          v.GetString("NOMINATIM_EMAIL"),
		RequestTimeout: v.GetInt("NOMINATIM_REQUEST_TIMEOUT"),
		LogLevel:       v.GetString("NOMINATIM_LOG_LEVEL"),
	}, nil
}

// validateBaseURL проверяет, что адрес является абсолютным http(s) URL
func validateBaseURL(baseURL string) error {
	u, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid base URL %q: must be an absolute http(s) URL", baseURL)
	}
	return nil
}
