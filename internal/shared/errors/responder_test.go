package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSoldOut = errors.New("product sold out")

func TestChainedResponder_MapsSentinelWithDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	responder := NewChainedResponder("", MapSentinels(ErrConflict, errSoldOut))

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/me/cart/items", nil)

	responder.RespondError(c, fmt.Errorf("adding item: %w", errSoldOut))

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	var body ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, TypeConflict, body.Type)
	assert.Equal(t, "adding item: product sold out", body.Detail)
	assert.Equal(t, "/api/me/cart/items", body.Instance)
}

func TestChainedResponder_FallsBackToInternal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	responder := NewChainedResponder("https://cbt.example")

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/products", nil)

	responder.RespondError(c, errors.New("rpc unavailable"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "https://cbt.example"+TypeInternal, body.Type)
	assert.Equal(t, "rpc unavailable", body.Detail)
}

func TestWithExtension_DoesNotShareMaps(t *testing.T) {
	base := ErrForbidden.WithExtension("wallet", "0xabc")
	derived := base.WithExtension("role", "merchant")

	assert.Len(t, base.Extensions, 1)
	assert.Len(t, derived.Extensions, 2)
	assert.Equal(t, http.StatusForbidden, HTTPStatusFromError(derived))
}
