package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestInitSelectsFormatterAndLevel(t *testing.T) {
	Init("warn", "json")
	_, ok := logrus.StandardLogger().Formatter.(*logrus.JSONFormatter)
	assert.True(t, ok)
	assert.Equal(t, logrus.WarnLevel, logrus.GetLevel())

	Init("debug", "text")
	_, ok = logrus.StandardLogger().Formatter.(*logrus.TextFormatter)
	assert.True(t, ok)
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
}

func TestInitFallsBackToInfoOnBadLevel(t *testing.T) {
	Init("not-a-level", "text")
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
}
