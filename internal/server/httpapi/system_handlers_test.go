package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/crtrstudio/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleHealth_Timestamp(t *testing.T) {
	h := NewSystemHandler("development")
	h.now = func() time.Time {
		return time.Date(2026, 5, 6, 7, 8, 9, 123456789, time.FixedZone("X", 3600))
	}

	rec := httptest.NewRecorder()
	require.NoError(t, h.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","environment":"development","timestamp":"2026-05-06T06:08:09.123Z"}`, rec.Body.String())
}

func TestClaimsFromContext(t *testing.T) {
	_, ok := ClaimsFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithClaims(context.Background(), &auth.Claims{UserID: "u-1"})
	claims, ok := ClaimsFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "u-1", claims.UserID)

	_, ok = ClaimsFromContext(WithClaims(context.Background(), nil))
	assert.False(t, ok)
}
