package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/womat/debug"
)

func TestNewConfig(t *testing.T) {
	c := NewConfig()
	c.setDurations()

	assert.Equal(t, 70*time.Millisecond, c.Encoder.BounceTime)
	assert.Equal(t, uint(24), c.Encoder.Detents)
	assert.Equal(t, uint(360), c.Encoder.MaxAngle)
	assert.Equal(t, time.Millisecond, c.PollInterval)
	assert.Equal(t, 200*time.Millisecond, c.Velocity.Window)

	p := c.EncoderParams()
	assert.Equal(t, 17, p.PinA)
	assert.Equal(t, 27, p.PinB)
	assert.Equal(t, 15.0, p.ScaleFactor())
}

func TestDecode(t *testing.T) {
	c := NewConfig()
	yaml := `
encoder:
  pina: 5
  pinb: 6
  bouncetime: 20
  detents: 20
  strategy: edge
gpio:
  driver: gpiomem
pollinterval: 2
velocity:
  window: 300
  fastspin: 6
mqtt:
  connection: tcp://10.0.0.1:1883
`
	require.NoError(t, c.decode(strings.NewReader(yaml)))
	c.setDurations()

	assert.Equal(t, 5, c.Encoder.PinA)
	assert.Equal(t, 6, c.Encoder.PinB)
	assert.Equal(t, 20*time.Millisecond, c.Encoder.BounceTime)
	assert.Equal(t, uint(20), c.Encoder.Detents)
	assert.Equal(t, uint(360), c.Encoder.MaxAngle, "default is kept")
	assert.Equal(t, "edge", c.Encoder.Strategy)
	assert.Equal(t, "pullup", c.Encoder.Pull)
	assert.Equal(t, "gpiomem", c.Gpio.Driver)
	assert.Equal(t, 2*time.Millisecond, c.PollInterval)
	assert.Equal(t, 300*time.Millisecond, c.Velocity.Window)
	assert.Equal(t, 6, c.Velocity.FastSpin)
	assert.Equal(t, "tcp://10.0.0.1:1883", c.MQTT.Connection)
	assert.Equal(t, "/rotenc/position", c.MQTT.Topic)
	assert.Equal(t, 18.0, c.EncoderParams().ScaleFactor())
}

func TestDecodeEmpty(t *testing.T) {
	c := NewConfig()
	assert.NoError(t, c.decode(strings.NewReader("")))
}

func TestPollIntervalFloor(t *testing.T) {
	c := NewConfig()
	c.PollIntervalInt = 0
	c.setDurations()
	assert.Equal(t, time.Millisecond, c.PollInterval)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "rotenc.yaml")
	logFile := filepath.Join(dir, "rotenc.log")
	require.NoError(t, os.WriteFile(file, []byte("debug:\n  file: "+logFile+"\n"), 0o600))

	c := NewConfig()
	c.Flag.ConfigFile = file
	c.Flag.Debug = "debug"
	require.NoError(t, c.LoadConfig())
	defer func() { _ = c.Debug.File.Close() }()

	assert.Equal(t, logFile, c.Debug.FileString)
	assert.Equal(t, debug.Warning|debug.Info|debug.Error|debug.Fatal|debug.Debug, c.Debug.Flag)
	assert.Equal(t, 70*time.Millisecond, c.Encoder.BounceTime)
}

func TestLoadConfigErrors(t *testing.T) {
	c := NewConfig()
	c.Flag.ConfigFile = filepath.Join(t.TempDir(), "missing.yaml")
	assert.Error(t, c.LoadConfig())

	file := filepath.Join(t.TempDir(), "rotenc.yaml")
	require.NoError(t, os.WriteFile(file, []byte("debug:\n  flag: verbose\n"), 0o600))
	c = NewConfig()
	c.Flag.ConfigFile = file
	assert.Error(t, c.LoadConfig())
}
