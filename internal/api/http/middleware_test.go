package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/miniticket/internal/observability"
	apperrors "github.com/spec-kit/miniticket/pkg/util"
)

func newObservedApp(t *testing.T) (*fiber.App, *observer.ObservedLogs, *observability.Metrics) {
	t.Helper()
	core, logs := observer.New(zapcore.InfoLevel)
	metrics := observability.NewMetrics()
	app := fiber.New()
	RegisterMiddlewares(app, zap.New(core), metrics, 5*time.Second)
	return app, logs, metrics
}

func requestLogFields(t *testing.T, logs *observer.ObservedLogs) map[string]any {
	t.Helper()
	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	return entries[0].ContextMap()
}

func TestRequestLogger_SeesTranslatedErrorStatus(t *testing.T) {
	app, logs, metrics := newObservedApp(t)
	app.Get("/widgets/:id", func(c *fiber.Ctx) error {
		return apperrors.NewNotFound("widget", nil)
	})

	req, err := http.NewRequest(http.MethodGet, "/widgets/42", nil)
	require.NoError(t, err)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	fields := requestLogFields(t, logs)
	assert.Equal(t, int64(http.StatusNotFound), fields["status"],
		"the access log must carry the status the client received")
	assert.Equal(t, int64(1), metrics.RequestCount("/widgets/42", http.MethodGet, http.StatusNotFound))
	assert.Equal(t, int64(0), metrics.RequestCount("/widgets/42", http.MethodGet, http.StatusOK))
}

func TestRequestLogger_SeesPanicStatus(t *testing.T) {
	app, logs, metrics := newObservedApp(t)
	app.Get("/boom", func(c *fiber.Ctx) error {
		panic("kaboom")
	})

	req, err := http.NewRequest(http.MethodGet, "/boom", nil)
	require.NoError(t, err)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	fields := requestLogFields(t, logs)
	assert.Equal(t, int64(http.StatusInternalServerError), fields["status"])
	assert.Equal(t, int64(1), metrics.RequestCount("/boom", http.MethodGet, http.StatusInternalServerError))
}
