package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yashrajoria/pharmacy-storefront/logger"
)

func TestRequestIDFromContext(t *testing.T) {
	assert.Empty(t, logger.RequestIDFromContext(context.Background()))
	assert.Equal(t, "abc", logger.RequestIDFromContext(logger.WithRequestID(context.Background(), "abc")))

	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set(logger.RequestIDKey, "from-gin")
	assert.Equal(t, "from-gin", logger.RequestIDFromContext(c))
}

func TestInitializeWithWriter_TeesJSON(t *testing.T) {
	var remote bytes.Buffer
	log := logger.InitializeWithWriter("production", &remote)

	log.Info("order placed")
	_ = log.Sync()

	line := strings.TrimSpace(remote.String())
	require.NotEmpty(t, line)
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "order placed", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Contains(t, entry, "timestamp")
}
