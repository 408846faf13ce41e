// Package nominatim - клиент геокодирования для Nominatim API.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	pkglogger "github.com/location-microservice/go-nominatim/internal/pkg/logger"
)

// Client - клиент Nominatim API
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     *zap.Logger
}

// NewClient создает новый клиент Nominatim API.
// Нулевые поля конфигурации заменяются значениями по умолчанию.
// Вместо nil-логгера при заданном cfg.LogLevel строится встроенный
// логгер (internal/pkg/logger), иначе используется zap.NewNop().
func NewClient(cfg *Config, logger *zap.Logger) (*Client, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if err := validateBaseURL(baseURL); err != nil {
		return nil, err
	}

	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = defaultRequestTimeout
	}

	if logger == nil {
		if cfg.LogLevel != "" {
			bundled, err := pkglogger.New(cfg.LogLevel)
			if err != nil {
				return nil, fmt.Errorf("failed to create logger: %w", err)
			}
			logger = bundled
		} else {
			logger = zap.NewNop()
		}
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
		baseURL:   baseURL,
		userAgent: cfg.UserAgent,
		logger:    logger,
	}, nil
}

// Search выполняет прямое геокодирование. Запрос принимается в одном из
// трех видов: Text, Fields или готовый *SearchParams. Возвращает все
// найденные локации; ошибка разбора любого элемента ответа делает
// невалидным весь результат.
func (c *Client) Search(ctx context.Context, q Query) ([]Location, error) {
	if q == nil {
		return nil, ErrNilQuery
	}
	params, err := q.searchParams()
	if err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		c.logger.Debug("Search params validation failed", zap.Error(err))
		return nil, err
	}

	body, err := c.get(ctx, c.baseURL, params.Values())
	if err != nil {
		return nil, err
	}
	defer body.Close()

	locations, err := decodeLocations(body)
	if err != nil {
		c.logger.Error("Failed to decode response", zap.Error(err))
		return nil, err
	}

	c.logger.Debug("Search completed", zap.Int("results", len(locations)))
	return locations, nil
}

// BatchResult - результат одного запроса из пакета.
// Слот с индексом i соответствует queries[i].
type BatchResult struct {
	Index     int        `json:"index"`
	Locations []Location `json:"locations,omitempty"`
	Err       error      `json:"-"`
}

// SearchBatch выполняет пакет поисковых запросов параллельно.
//
// Архитектура:
// - На каждый запрос запускается отдельная горутина, все стартуют сразу
// - Горутина пишет только в свой слот результата, без общего состояния
// - Метод ждет завершения всех горутин через sync.WaitGroup
//
// Поведение при ошибках:
// - Ошибка одного запроса попадает в Err его слота и не прерывает остальные
// - В Err лежит ровно та ошибка, которую вернул бы одиночный Search
func (c *Client) SearchBatch(ctx context.Context, queries []Query) []BatchResult {
	results := make([]BatchResult, len(queries))
	if len(queries) == 0 {
		return results
	}

	batchID := uuid.New()
	c.logger.Info("SearchBatch started",
		zap.String("batch_id", batchID.String()),
		zap.Int("total_queries", len(queries)))

	var wg sync.WaitGroup
	for i, q := range queries {
		wg.Add(1)
		go func(i int, q Query) {
			defer wg.Done()
			locations, err := c.Search(ctx, q)
			results[i] = BatchResult{Index: i, Locations: locations, Err: err}
		}(i, q)
	}
	wg.Wait()

	successCount := 0
	errorCount := 0
	for _, r := range results {
		if r.Err == nil {
			successCount++
		} else {
			errorCount++
		}
	}

	c.logger.Info("SearchBatch completed",
		zap.String("batch_id", batchID.String()),
		zap.Int("total", len(queries)),
		zap.Int("success", successCount),
		zap.Int("errors", errorCount))

	return results
}

// Reverse выполняет обратное геокодирование точки
func (c *Client) Reverse(ctx context.Context, params ReverseParams) (*Location, error) {
	if err := params.Validate(); err != nil {
		c.logger.Debug("Reverse params validation failed", zap.Error(err))
		return nil, err
	}

	body, err := c.get(ctx, c.endpoint("reverse"), params.Values())
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var raw locationJSON
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		c.logger.Error("Failed to decode response", zap.Error(err))
		return nil, &ParseError{Index: -1, Err: err}
	}
	// Если объект не найден, Nominatim отвечает 200 с полем error
	if raw.Error != "" {
		return nil, ErrLocationNotFound
	}
	loc, err := raw.toLocation()
	if err != nil {
		c.logger.Error("Failed to decode response", zap.Error(err))
		return nil, &ParseError{Index: -1, Err: err}
	}

	c.logger.Debug("Reverse completed", zap.Int64("place_id", loc.PlaceID))
	return &loc, nil
}

// Lookup возвращает локации по идентификаторам OSM (N123,W456,R789)
func (c *Client) Lookup(ctx context.Context, params LookupParams) ([]Location, error) {
	if err := params.Validate(); err != nil {
		c.logger.Debug("Lookup params validation failed", zap.Error(err))
		return nil, err
	}

	body, err := c.get(ctx, c.endpoint("lookup"), params.Values())
	if err != nil {
		return nil, err
	}
	defer body.Close()

	locations, err := decodeLocations(body)
	if err != nil {
		c.logger.Error("Failed to decode response", zap.Error(err))
		return nil, err
	}

	c.logger.Debug("Lookup completed", zap.Int("results", len(locations)))
	return locations, nil
}

// ServerStatus - состояние сервера Nominatim
type ServerStatus struct {
	Status      int    `json:"status"`
	Message     string `json:"message"`
	DataUpdated string `json:"data_updated,omitempty"`
}

// Status проверяет доступность сервера через /status
func (c *Client) Status(ctx context.Context) (*ServerStatus, error) {
	query := url.Values{}
	query.Set("format", "json")

	body, err := c.get(ctx, c.endpoint("status"), query)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var status ServerStatus
	if err := json.NewDecoder(body).Decode(&status); err != nil {
		c.logger.Error("Failed to decode response", zap.Error(err))
		return nil, &ParseError{Index: -1, Err: err}
	}
	return &status, nil
}

// get выполняет GET-запрос и возвращает тело ответа со статусом 200.
// Любой другой статус превращается в *HTTPError без повторных попыток.
// Параметры из базового URL (например, ключ прокси) сохраняются в запросе,
// но не переопределяют вычисленные параметры.
func (c *Client) get(ctx context.Context, endpoint string, query url.Values) (io.ReadCloser, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid request URL %q: %w", endpoint, err)
	}
	for key, vals := range u.Query() {
		if query.Has(key) {
			continue
		}
		for _, val := range vals {
			query.Add(key, val)
		}
	}
	u.RawQuery = query.Encode()
	reqURL := u.String()

	c.logger.Debug("Calling Nominatim API", zap.String("url", reqURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		c.logger.Error("Failed to create request", zap.Error(err))
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	// Заголовок User-Agent задается только если указан в конфигурации
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to execute request", zap.Error(err))
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		c.logger.Error("Nominatim API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("url", reqURL),
			zap.String("body", string(body)))
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			URL:        reqURL,
			Header:     resp.Header,
			Body:       string(body),
		}
	}

	return resp.Body, nil
}

// endpoint возвращает адрес соседнего эндпоинта API (reverse, lookup,
// status). Суффикс /search в пути базового URL заменяется на операцию;
// нестандартный путь дополняется ею. Параметры базового URL сохраняются.
func (c *Client) endpoint(op string) string {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		// Базовый URL проверен в NewClient
		return c.baseURL
	}
	path := strings.TrimRight(u.Path, "/")
	path = strings.TrimSuffix(path, "/search")
	u.Path = path + "/" + op
	return u.String()
}

// decodeLocations разбирает массив результатов jsonv2.
// Ошибка в любом элементе делает невалидным весь ответ.
func decodeLocations(r io.Reader) ([]Location, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, &ParseError{Index: -1, Err: err}
	}

	locations := make([]Location, len(raw))
	for i, item := range raw {
		if err := json.Unmarshal(item, &locations[i]); err != nil {
			return nil, &ParseError{Index: i, Err: err}
		}
	}
	return locations, nil
}
