package handlers_integrated_test_suite

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rogerio-castellano/vendor-inventory/internal/client"
	"github.com/rogerio-castellano/vendor-inventory/internal/config"
	"github.com/rogerio-castellano/vendor-inventory/internal/http/handlers"
	mw "github.com/rogerio-castellano/vendor-inventory/internal/http/middleware"
	rl "github.com/rogerio-castellano/vendor-inventory/internal/http/rate_limiter"
	"github.com/rogerio-castellano/vendor-inventory/internal/http/router"
	"github.com/rogerio-castellano/vendor-inventory/internal/images"
	"github.com/rogerio-castellano/vendor-inventory/internal/obs"
	"github.com/rogerio-castellano/vendor-inventory/internal/redissvc"
	"github.com/rogerio-castellano/vendor-inventory/internal/session"
	"github.com/rogerio-castellano/vendor-inventory/internal/stock"
	"github.com/rogerio-castellano/vendor-inventory/internal/views"
)

// stack is the gateway wired the way api/main.go wires it, against an
// httptest upstream and a miniredis instance.
type stack struct {
	router  http.Handler
	metrics *obs.Metrics
	redis   *miniredis.Miniredis
	token   string
}

func newStack(t *testing.T, upstream http.Handler) *stack {
	t.Helper()

	api := httptest.NewServer(upstream)
	t.Cleanup(api.Close)
	mr := miniredis.RunT(t)

	t.Chdir(t.TempDir())
	t.Setenv("VENDOR_API_BASE_URL", api.URL+"/")
	t.Setenv("VENDOR_REDIS_ADDR", mr.Addr())
	t.Setenv("VENDOR_RATE_LIMIT_RPS", "1")
	t.Setenv("VENDOR_RATE_LIMIT_BURST", "3")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("error loading config: %v", err)
	}

	redisService, err := redissvc.Connect(context.Background(), cfg.RedisAddr)
	if err != nil {
		t.Fatalf("error connecting to redis: %v", err)
	}
	t.Cleanup(func() { redisService.Close() })

	metrics := obs.NewMetrics()
	accessor := session.NewAccessor(session.ContextProvider{}, cfg.IDP.VendorClaim)
	c := client.New(cfg.APIBaseURL, accessor, client.WithObserver(metrics.ObserveUpstream))
	products := client.NewProducts(c)
	inventory := client.NewInventory(c)

	handlers.SetClient(c)
	handlers.SetIdentity(accessor)
	handlers.SetAdjuster(stock.NewAdjuster(accessor, inventory).WithObserver(metrics.ObserveAdjustment))
	handlers.SetUploader(images.NewUploader(accessor, products))
	handlers.SetDashboard(views.NewDashboard(inventory, products))
	handlers.SetTracker(views.NewTracker(redisService))
	mw.SetMetrics(metrics)
	router.SetRateLimiter(rl.New(cfg.RateLimitRPS, cfg.RateLimitBurst))
	router.SetMetricsHandler(metrics.Handler())
	router.SetTrustProxy(cfg.TrustProxy)
	t.Cleanup(func() {
		mw.SetMetrics(nil)
		router.SetRateLimiter(nil)
		router.SetMetricsHandler(nil)
		router.SetTrustProxy(false)
	})

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":                      "user-1",
		session.DefaultVendorClaim: "vendor-1",
		"exp":                      time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("error signing token: %v", err)
	}

	return &stack{router: router.NewRouter(), metrics: metrics, redis: mr, token: token}
}

func (s *stack) post(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+s.token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *stack) get(path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+s.token)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}
