package businessservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

const cacheKeyPrefix = "availability:business:"

// Client клиент для работы с BusinessService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
	metrics    Metrics

	redis    *redis.Client
	cacheTTL time.Duration

	group singleflight.Group
}

// NewClient создает новый экземпляр клиента BusinessService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// UseRedisCache включает кэширование снимков бизнеса в Redis
func (c *Client) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	c.redis = redisClient
	c.cacheTTL = ttl
}

// UseMetrics включает учёт попаданий в кэш
func (c *Client) UseMetrics(m Metrics) {
	c.metrics = m
}

// UseTransport подменяет транспорт HTTP клиента (например, otelhttp)
func (c *Client) UseTransport(rt http.RoundTripper) {
	c.httpClient.Transport = rt
}

// GetBusiness получает бизнес по ID или slug.
// Сначала проверяется кэш, параллельные запросы одного бизнеса объединяются.
func (c *Client) GetBusiness(ctx context.Context, idOrSlug string) (*domain.Business, error) {
	cacheKey := cacheKeyPrefix + idOrSlug

	var dto Business
	if c.readCache(ctx, cacheKey, &dto) {
		return c.toDomain(&dto), nil
	}

	// Результат разделяется между ожидающими, поэтому запрос не должен
	// отменяться вместе с контекстом первого вызвавшего
	detached := context.WithoutCancel(ctx)
	v, err, _ := c.group.Do(cacheKey, func() (interface{}, error) {
		fetched, err := c.fetch(detached, idOrSlug)
		if err != nil {
			return nil, err
		}
		c.writeCache(detached, cacheKey, fetched)
		return fetched, nil
	})
	if err != nil {
		return nil, err
	}

	return c.toDomain(v.(*Business)), nil
}

// GetBusinessWithGracefulDegradation получает бизнес с graceful degradation.
// При недоступности BusinessService возвращает ErrServiceDegraded, что позволяет
// построить запасную сетку слотов
func (c *Client) GetBusinessWithGracefulDegradation(ctx context.Context, idOrSlug string) (*domain.Business, error) {
	business, err := c.GetBusiness(ctx, idOrSlug)
	if err != nil {
		// Бизнес не существует: это ошибка запроса, а не недоступность
		if errors.Is(err, ErrBusinessNotFound) {
			c.log.Info("Business not found: %s", idOrSlug)
			return nil, err
		}

		c.log.Error("BusinessService unavailable, applying graceful degradation for business=%s: %v", idOrSlug, err)
		return nil, fmt.Errorf("%w: business=%s, error=%v", ErrServiceDegraded, idOrSlug, err)
	}

	return business, nil
}

func (c *Client) fetch(ctx context.Context, idOrSlug string) (*Business, error) {
	endpoint := fmt.Sprintf("%s/internal/businesses/%s", c.baseURL, url.PathEscape(idOrSlug))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return nil, ErrBusinessNotFound
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var business Business
	if err := json.NewDecoder(resp.Body).Decode(&business); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &business, nil
}

func (c *Client) toDomain(dto *Business) *domain.Business {
	business, problems := dto.ToDomain()
	for _, p := range problems {
		c.log.Warn("Business %s has malformed hours: %v", dto.ID, p)
	}
	return business
}

func (c *Client) readCache(ctx context.Context, key string, out interface{}) bool {
	if c.redis == nil || c.cacheTTL <= 0 {
		return false
	}
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("Business cache read failed for %s: %v", key, err)
			c.incCache("error")
		} else {
			c.incCache("miss")
		}
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		c.incCache("error")
		return false
	}
	c.incCache("hit")
	return true
}

func (c *Client) writeCache(ctx context.Context, key string, val interface{}) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, data, c.cacheTTL).Err(); err != nil {
		c.log.Warn("Business cache write failed for %s: %v", key, err)
	}
}

func (c *Client) incCache(result string) {
	if c.metrics != nil {
		c.metrics.IncBusinessCache(result)
	}
}
