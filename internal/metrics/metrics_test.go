package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "/api/v1/products/{id}/image", normalizePath("/api/v1/products/65f1c0ffee0000000000abcd/image"))
	assert.Equal(t, "/api/v1/cart", normalizePath("/api/v1/cart"))
}

func TestMiddlewareCountsRequests(t *testing.T) {
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("201", http.MethodPost, "/api/v1/orders"))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/orders", nil))

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("201", http.MethodPost, "/api/v1/orders"))
	assert.Equal(t, before+1, after)
}

func TestDomainCounters(t *testing.T) {
	before := testutil.ToFloat64(deviceBlocksTotal)
	RecordDeviceBlock()
	assert.Equal(t, before+1, testutil.ToFloat64(deviceBlocksTotal))

	RecordCartOperation("increment", "removed")
	assert.Equal(t, 1.0, testutil.ToFloat64(cartOperationsTotal.WithLabelValues("increment", "removed")))

	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.True(t, strings.Contains(rr.Body.String(), "cart_operations_total"))
}
