package configure

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rm-hull/inteliver/internal/imaging"
	"github.com/rm-hull/inteliver/internal/tenant"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("config", filepath.Join(t.TempDir(), "missing.yaml"), "")
	flags.String("level", "info", "")
	flags.Int("port", 8080, "")
	flags.Bool("debug", false, "")
	require.NoError(t, flags.Parse(args))
	return flags
}

func TestNew_Defaults(t *testing.T) {
	c, err := New(testFlags(t))
	require.NoError(t, err)

	assert.Equal(t, "info", c.Level)
	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, "/v1", c.Server.BasePath)
	assert.Equal(t, 10*time.Second, c.HTTPTimeout())
	assert.Equal(t, 30*time.Second, c.ProbeInterval())
	assert.Equal(t, int64(20<<20), c.HTTP.MaxBytes)
	assert.Empty(t, c.Tenants)
	assert.Equal(t, imaging.DefaultLimits, c.ImageLimits())
	assert.False(t, c.Face.Disabled)
}

func TestNew_Flags(t *testing.T) {
	c, err := New(testFlags(t, "--port", "9090", "--debug", "--level", "debug"))
	require.NoError(t, err)
	assert.Equal(t, 9090, c.Server.Port)
	assert.True(t, c.Server.Debug)
	assert.Equal(t, "debug", c.Level)
}

func TestNew_Environment(t *testing.T) {
	t.Setenv("INTELIVER_S3_REGION", "eu-west-2")
	t.Setenv("INTELIVER_HTTP_TIMEOUT_SECONDS", "3")
	t.Setenv("INTELIVER_IMAGE_MAX_SIDE", "2048")
	t.Setenv("INTELIVER_FACE_DISABLED", "true")

	c, err := New(testFlags(t))
	require.NoError(t, err)
	assert.Equal(t, "eu-west-2", c.S3.Region)
	assert.Equal(t, 3*time.Second, c.HTTPTimeout())
	assert.Equal(t, "eu-west-2", c.S3Options().Region)
	assert.Equal(t, imaging.Limits{MaxSide: 2048, MaxPixels: imaging.DefaultLimits.MaxPixels}, c.ImageLimits())
	assert.True(t, c.Face.Disabled)
}

func TestNew_File(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
level: warn
server:
  port: 7070
face:
  cascade_file: /etc/inteliver/facefinder
  min_size: 40
tenants:
  - cloudname: acme
    bucket: acme-images
monitoring:
  labels:
    - key: pod
      value: inteliver-0
`), 0o600))

	c, err := New(testFlags(t, "--config", file))
	require.NoError(t, err)
	assert.Equal(t, "warn", c.Level)
	assert.Equal(t, 7070, c.Server.Port)
	assert.Equal(t, []tenant.Tenant{{Cloudname: "acme", Bucket: "acme-images"}}, c.Tenants)
	assert.Equal(t, prometheus.Labels{"pod": "inteliver-0"}, c.Monitoring.Labels.ToPrometheus())
	assert.Equal(t, 40, c.FaceOptions().MinSize)
	assert.Equal(t, "/etc/inteliver/facefinder", c.Face.CascadeFile)
}

func TestNew_Invalid(t *testing.T) {
	t.Run("level", func(t *testing.T) {
		_, err := New(testFlags(t, "--level", "loud"))
		assert.ErrorContains(t, err, "invalid config")
	})

	t.Run("image limit", func(t *testing.T) {
		t.Setenv("INTELIVER_IMAGE_MAX_SIDE", "100000")
		_, err := New(testFlags(t))
		assert.ErrorContains(t, err, "MaxSide")
	})

	t.Run("tenant", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(file, []byte("tenants:\n  - cloudname: acme\n"), 0o600))
		_, err := New(testFlags(t, "--config", file))
		assert.ErrorContains(t, err, "Bucket")
	})

	t.Run("unreadable file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(file, []byte("server: [port"), 0o600))
		_, err := New(testFlags(t, "--config", file))
		assert.ErrorContains(t, err, "failed to read config file")
	})
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("debug")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(-1))

	_, err = NewLogger("chatty")
	assert.Error(t, err)
}
