package businessservice

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

const businessJSON = `{
	"id": "biz-1",
	"slug": "barber-shop",
	"name": "Barber Shop",
	"timezone": "Europe/Istanbul",
	"businessHours": {
		"friday": {"isOpen": true, "openTime": "09:00", "closeTime": "17:00",
			"breaks": [{"startTime": "13:00", "endTime": "14:00", "description": "lunch"}]},
		"sunday": {"isOpen": false},
		"funday": {"isOpen": true, "openTime": "09:00", "closeTime": "17:00"}
	},
	"reservationSettings": {"maxAdvanceBookingDays": 30, "minNotificationHours": 2, "maxDailyAppointments": 10},
	"services": [{"id": "svc-1", "name": "Haircut", "duration": 30, "isActive": true}],
	"managerIds": [100, 200]
}`

type cacheCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

func (c *cacheCounter) IncBusinessCache(result string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	c.counts[result]++
}

func newBusinessServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		switch r.URL.Path {
		case "/internal/businesses/biz-1", "/internal/businesses/barber-shop":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(businessJSON))
		case "/internal/businesses/broken":
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream down"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_GetBusiness(t *testing.T) {
	var hits int32
	srv := newBusinessServer(t, &hits)
	client := NewClient(srv.URL, time.Second, logger.NewNop())

	business, err := client.GetBusiness(context.Background(), "biz-1")
	require.NoError(t, err)

	assert.Equal(t, "barber-shop", business.Slug)
	assert.Equal(t, "Europe/Istanbul", business.Timezone)
	assert.Len(t, business.Hours, 2, "unknown weekday key is skipped")

	friday := business.Hours[domain.Friday]
	assert.True(t, friday.IsOpen)
	assert.Equal(t, types.TimeString("09:00"), friday.OpenTime)
	require.Len(t, friday.Breaks, 1)
	assert.Equal(t, "lunch", friday.Breaks[0].Description)
	assert.False(t, business.Hours[domain.Sunday].IsOpen)

	assert.Equal(t, 2, business.Settings.MinNotificationHours)
	svc, ok := business.FindService("svc-1")
	require.True(t, ok)
	assert.Equal(t, 30, svc.DurationMinutes)
	assert.True(t, business.IsManager(200))
}

func TestClient_GetBusiness_Errors(t *testing.T) {
	var hits int32
	srv := newBusinessServer(t, &hits)
	client := NewClient(srv.URL, time.Second, logger.NewNop())

	_, err := client.GetBusiness(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrBusinessNotFound)

	_, err = client.GetBusiness(context.Background(), "broken")
	assert.ErrorIs(t, err, ErrInvalidResponse)

	_, err = client.GetBusinessWithGracefulDegradation(context.Background(), "broken")
	assert.ErrorIs(t, err, ErrServiceDegraded)

	_, err = client.GetBusinessWithGracefulDegradation(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrBusinessNotFound)
	assert.False(t, errors.Is(err, ErrServiceDegraded))
}

func TestClient_GetBusiness_Unreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 200*time.Millisecond, logger.NewNop())

	_, err := client.GetBusinessWithGracefulDegradation(context.Background(), "biz-1")
	assert.ErrorIs(t, err, ErrServiceDegraded)
}

func TestClient_RedisCache(t *testing.T) {
	var hits int32
	srv := newBusinessServer(t, &hits)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	counter := &cacheCounter{}
	client := NewClient(srv.URL, time.Second, logger.NewNop())
	client.UseRedisCache(rdb, time.Minute)
	client.UseMetrics(counter)

	ctx := context.Background()
	first, err := client.GetBusiness(ctx, "biz-1")
	require.NoError(t, err)
	second, err := client.GetBusiness(ctx, "biz-1")
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "second call is served from cache")
	assert.Equal(t, first, second)
	assert.Equal(t, 1, counter.counts["miss"])
	assert.Equal(t, 1, counter.counts["hit"])
	assert.True(t, mr.Exists(cacheKeyPrefix+"biz-1"))

	mr.FastForward(2 * time.Minute)
	_, err = client.GetBusiness(ctx, "biz-1")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits), "expired entry is refetched")
	assert.True(t, mr.Exists(cacheKeyPrefix+"biz-1"))
}

func TestClient_RedisDown(t *testing.T) {
	var hits int32
	srv := newBusinessServer(t, &hits)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	client := NewClient(srv.URL, time.Second, logger.NewNop())
	client.UseRedisCache(rdb, time.Minute)

	business, err := client.GetBusiness(context.Background(), "biz-1")
	require.NoError(t, err, "cache failure falls through to the service")
	assert.Equal(t, "biz-1", business.ID)
}

func TestClient_SingleflightCollapsesConcurrentFetches(t *testing.T) {
	var hits int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		<-release
		_, _ = w.Write([]byte(businessJSON))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, 5*time.Second, logger.NewNop())

	const callers = 8
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.GetBusiness(context.Background(), "biz-1")
			errs <- err
		}()
	}

	// даём горутинам встать в очередь singleflight
	require.Eventually(t, func() bool { return atomic.LoadInt32(&hits) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}
