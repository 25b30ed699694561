package logsvc

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/trezcool/rapor/core/user"
	testutil "github.com/trezcool/rapor/tests"
)

func newObservedLogger(t *testing.T) (*RollbarLogger, *observer.ObservedLogs) {
	zapCore, logs := observer.New(zapcore.DebugLevel)
	logger := NewRollbarLogger(zap.New(zapCore), testutil.NewConfig())
	logger.Enable(false)
	return logger, logs
}

func TestRollbarLogger_Error(t *testing.T) {
	logger, logs := newObservedLogger(t)
	usr := user.User{ID: "u1", Name: "Bu Sari", Email: "sari@sman1.sch.id", Role: user.RoleTeacher}
	other := user.User{ID: "u2", Role: user.RoleAdmin}

	logger.Error("Internal Server Error", errors.New("boom"), map[string]interface{}{"path": "/api/subjects"}, usr, other)

	entries := logs.All()
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.Equal(t, "Internal Server Error", entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, "boom", fields["error"])
	assert.Contains(t, fields["errorVerbose"], "boom")
	assert.Equal(t, "/api/subjects", fields["path"])
	assert.Equal(t, "u1", fields["user_id"], "only the first user is the acting user")
	assert.Equal(t, "TEACHER", fields["user_role"])
	assert.NotContains(t, fields, "email")
}

func TestRollbarLogger_levels(t *testing.T) {
	logger, logs := newObservedLogger(t)

	logger.Debug("debug")
	logger.Info("info", 42)
	logger.Warn("warn")

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, int64(42), entries[1].ContextMap()["arg0"])
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
}

func TestNewZapLogger(t *testing.T) {
	zl := NewZapLogger("API", "warn", "")
	assert.False(t, zl.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, zl.Core().Enabled(zapcore.WarnLevel))

	zl = NewZapLogger("API", "nonsense", "")
	assert.True(t, zl.Core().Enabled(zapcore.InfoLevel), "defaults to info")
	assert.False(t, zl.Core().Enabled(zapcore.DebugLevel))
}
