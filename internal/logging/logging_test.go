package logging_test

import (
	"testing"

	"github.com/ezachrisen/cohort/internal/config"
	"github.com/ezachrisen/cohort/internal/logging"
	"github.com/matryer/is"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	is := is.New(t)

	l, err := logging.New(config.LogConfig{Level: "debug", Format: "production"})
	is.NoErr(err)
	is.True(l.Core().Enabled(zap.DebugLevel))

	l, err = logging.New(config.LogConfig{Level: "warn", Format: "development"})
	is.NoErr(err)
	is.True(!l.Core().Enabled(zap.InfoLevel))
	is.True(l.Core().Enabled(zap.WarnLevel))

	_, err = logging.New(config.LogConfig{Level: "loud"})
	is.True(err != nil)
}
