package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type tracedRow struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:100"`
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedRow{}))
	return db
}

func TestDefaultDBTracingConfig(t *testing.T) {
	cfg := DefaultDBTracingConfig()

	assert.False(t, cfg.Enabled)
	assert.False(t, cfg.LogFullSQL)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)
	assert.Equal(t, "postgresql", cfg.DBSystem)
}

func TestDBTracingPlugin_Disabled(t *testing.T) {
	db := setupTestDB(t)

	plugin := NewDBTracingPlugin(DefaultDBTracingConfig(), nil)
	require.NoError(t, plugin.Register(db))

	_, ok := db.Config.Plugins["otelgorm"]
	assert.False(t, ok)
}

func findSpan(spans []sdktrace.ReadOnlySpan, match func(sdktrace.ReadOnlySpan) bool) sdktrace.ReadOnlySpan {
	for _, s := range spans {
		if match(s) {
			return s
		}
	}
	return nil
}

func TestDBTracingPlugin_Enabled(t *testing.T) {
	db := setupTestDB(t)

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	plugin := NewDBTracingPlugin(DBTracingConfig{
		Enabled:  true,
		DBSystem: "sqlite",
		// Every query counts as slow
		SlowQueryThresh: time.Nanosecond,
		TracerProvider:  tp,
	}, zap.NewNop())
	require.NoError(t, plugin.Register(db))

	ctx := context.Background()
	require.NoError(t, db.WithContext(ctx).Create(&tracedRow{Name: "a"}).Error)
	assert.Error(t, db.WithContext(ctx).Exec("SELECT * FROM no_such_table").Error)

	spans := recorder.Ended()
	require.NotEmpty(t, spans)

	slow := findSpan(spans, func(s sdktrace.ReadOnlySpan) bool {
		for _, kv := range s.Attributes() {
			if kv == attribute.Bool("db.slow_query", true) {
				return true
			}
		}
		return false
	})
	assert.NotNil(t, slow, "slow query flag should be set")

	failed := findSpan(spans, func(s sdktrace.ReadOnlySpan) bool {
		return s.Status().Code == codes.Error
	})
	assert.NotNil(t, failed, "failed statement should mark its span")
}

func TestDBTracingPlugin_RecordNotFoundIsNotAnError(t *testing.T) {
	db := setupTestDB(t)

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true, DBSystem: "sqlite", TracerProvider: tp}, zap.NewNop())
	require.NoError(t, plugin.Register(db))

	var missing tracedRow
	err := db.WithContext(context.Background()).First(&missing, 1).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	spans := recorder.Ended()
	require.NotEmpty(t, spans)
	for _, s := range spans {
		assert.NotEqual(t, codes.Error, s.Status().Code, s.Name())
	}
}
