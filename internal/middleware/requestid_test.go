package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serveWithRequestID runs one request through the middleware and returns the
// ID seen by the inner handler plus the response recorder.
func serveWithRequestID(t *testing.T, headerID string) (string, *httptest.ResponseRecorder) {
	t.Helper()

	var capturedID string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedID = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if headerID != "" {
		req.Header.Set("X-Request-ID", headerID)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	return capturedID, rec
}

func TestRequestID_GeneratesNewID(t *testing.T) {
	capturedID, rec := serveWithRequestID(t, "")

	require.NotEmpty(t, capturedID)
	assert.Equal(t, capturedID, rec.Header().Get("X-Request-ID"))
}

func TestRequestID_PreservesValidID(t *testing.T) {
	capturedID, rec := serveWithRequestID(t, "custom-id-123")

	assert.Equal(t, "custom-id-123", capturedID)
	assert.Equal(t, "custom-id-123", rec.Header().Get("X-Request-ID"))
}

func TestRequestID_ReplacesUnsafeIDs(t *testing.T) {
	tests := []struct {
		name     string
		headerID string
		wantNew  bool
	}{
		{
			name:     "alphanumeric with hyphens and underscores",
			headerID: "abc-123_DEF",
			wantNew:  false,
		},
		{
			name:     "log forging with newline",
			headerID: "fake-id\nINJECTED: malicious",
			wantNew:  true,
		},
		{
			name:     "log forging with carriage return",
			headerID: "fake-id\rINJECTED: malicious",
			wantNew:  true,
		},
		{
			name:     "contains spaces",
			headerID: "id with spaces",
			wantNew:  true,
		},
		{
			name:     "contains markup characters",
			headerID: "id<script>alert(1)</script>",
			wantNew:  true,
		},
		{
			name:     "over the length cap",
			headerID: strings.Repeat("a", maxRequestIDLen+1),
			wantNew:  true,
		},
		{
			name:     "exactly at the length cap",
			headerID: strings.Repeat("a", maxRequestIDLen),
			wantNew:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			capturedID, rec := serveWithRequestID(t, tt.headerID)

			require.NotEmpty(t, capturedID)
			assert.Equal(t, capturedID, rec.Header().Get("X-Request-ID"))

			if tt.wantNew {
				assert.NotEqual(t, tt.headerID, capturedID, "unsafe ID must be replaced with a fresh UUID")
			} else {
				assert.Equal(t, tt.headerID, capturedID, "safe ID must be preserved")
			}
		})
	}
}

func TestRequestIDFromContext_EmptyWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, RequestIDFromContext(req.Context()))
}
