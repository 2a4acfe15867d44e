package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewBuildsAWorkingLogger(t *testing.T) {
	log, err := New(false)
	require.NoError(t, err)
	require.NotNil(t, log)

	// These must not panic; formatting and level filtering are the
	// only behavior worth asserting without capturing zap's output.
	log.Infof("hello %s", "world")
	log.Warnf("warn %d", 1)
	log.Errorf("error")
	log.Debugf("debug, filtered out at info level")
	log.Sync()
}

func TestNopDiscardsEverything(t *testing.T) {
	log := Nop()
	log.Infof("anything")
}
