package facilityservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// FacilityCache кэш справочных данных каталога
// Реализуется pkg/rediscache, nil-кэш допустим (кэширование выключено)
type FacilityCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
}

// Client клиент для работы с FacilityService
// Данные каталога читаются на каждой проверке доступности, поэтому
// GetFacility ходит через read-through кэш, если он сконфигурирован
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      FacilityCache
	log        Logger
}

// NewClient создает новый экземпляр клиента FacilityService
func NewClient(baseURL string, timeout time.Duration, cache FacilityCache, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		cache: cache,
		log:   log,
	}
}

// GetFacility получает объект из каталога по ID
func (c *Client) GetFacility(ctx context.Context, facilityID int64) (*Facility, error) {
	cacheKey := fmt.Sprintf("facility:%d", facilityID)

	if c.cache != nil {
		var cached Facility
		hit, err := c.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			// Недоступность кэша не фатальна - идем в сервис напрямую
			c.log.Warn("GetFacility: cache read failed for facility id=%d: %v", facilityID, err)
		} else if hit {
			return &cached, nil
		}
	}

	facility, err := c.fetchFacility(ctx, facilityID)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey, facility); err != nil {
			c.log.Warn("GetFacility: cache write failed for facility id=%d: %v", facilityID, err)
		}
	}

	return facility, nil
}

func (c *Client) fetchFacility(ctx context.Context, facilityID int64) (*Facility, error) {
	url := fmt.Sprintf("%s/internal/facilities/%d", c.baseURL, facilityID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: invalid facility ID format", ErrInvalidResponse)
	case http.StatusNotFound:
		return nil, ErrFacilityNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var facility Facility
	if err := json.NewDecoder(resp.Body).Decode(&facility); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &facility, nil
}
