package logging_test

import (
	"os"
	"testing"

	"github.com/lzxindustries/vmprog-go/pkg/logging"
	"github.com/stretchr/testify/require"
)

func TestResolveLevelPrecedence(t *testing.T) {
	os.Unsetenv("VMPROG_PACK_LOG_LEVEL")
	os.Unsetenv("VMPROG_LOG_LEVEL")

	level, source := logging.ResolveLevel("", "")
	require.Equal(t, "info", level)
	require.Equal(t, "default", source)

	require.NoError(t, os.Setenv("VMPROG_LOG_LEVEL", "warn"))
	defer os.Unsetenv("VMPROG_LOG_LEVEL")
	level, source = logging.ResolveLevel("", "")
	require.Equal(t, "warn", level)
	require.Equal(t, "VMPROG_LOG_LEVEL", source)

	require.NoError(t, os.Setenv("VMPROG_PACK_LOG_LEVEL", "debug"))
	defer os.Unsetenv("VMPROG_PACK_LOG_LEVEL")
	level, source = logging.ResolveLevel("", "VMPROG_PACK_LOG_LEVEL")
	require.Equal(t, "debug", level)
	require.Equal(t, "VMPROG_PACK_LOG_LEVEL", source)

	level, source = logging.ResolveLevel("trace", "VMPROG_PACK_LOG_LEVEL")
	require.Equal(t, "trace", level)
	require.Equal(t, "CLI --log-level", source)
}

func TestNewLoggerDoesNotPanic(t *testing.T) {
	logger := logging.NewLogger("vmprog-test", "info", nil)
	require.NotNil(t, logger)
	logger.Info("hello")
}
