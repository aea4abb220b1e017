package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimal = `
[database]
user = "dental"
dbname = "dental"
`

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(minimal)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, StorageDriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, "host=localhost port=5432 user=dental password= dbname=dental sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, int64(300), int64(cfg.Cache.TTL().Seconds()))
	assert.Equal(t, 20, cfg.Scheduling.DefaultPageLimit)
	assert.Equal(t, 100, cfg.Scheduling.MaxPageLimit)
	assert.Equal(t, 15, cfg.Scheduling.SlotStepMinutes)
	assert.Equal(t, "0 8 * * *", cfg.Reminders.Spec)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Kafka.Enabled)
}

func TestParse_MemoryDriverNeedsNoDatabase(t *testing.T) {
	cfg, err := Parse(`
[storage]
driver = "memory"
`)
	require.NoError(t, err)
	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "syntax", data: `[server`},
		{name: "unknown key", data: minimal + "\n[cache]\nttl = 5\n"},
		{name: "unknown driver", data: "[storage]\ndriver = \"sqlite\"\n"},
		{name: "postgres without dbname", data: "[storage]\ndriver = \"postgres\"\n"},
		{name: "default page above max", data: minimal + "\n[scheduling]\ndefault_page_limit = 50\nmax_page_limit = 10\n"},
		{name: "bad port", data: minimal + "\n[server]\nhttp_port = 70000\n"},
		{name: "kafka without brokers", data: minimal + "\n[kafka]\nenabled = true\nbrokers = \" , \"\n"},
		{name: "bad cron spec", data: minimal + "\n[reminders]\nenabled = true\nspec = \"daily at 8\"\n"},
		{name: "negative notice", data: minimal + "\n[scheduling]\nmin_booking_notice_minutes = -5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(minimal+"\n[redis]\nenabled = true\naddr = \"redis:6379\"\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, ErrReadConfig)
}

func TestLoad_RepositoryConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config.toml"))
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Database.DSN())
}
