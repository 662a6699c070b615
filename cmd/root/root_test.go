package root

import (
	"io"
	"log/slog"
	"testing"

	"github.com/ZainyAct/browser-memory/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	cfg := &config.Config{DB: config.DatabaseConfig{Host: "localhost", Port: "5432"}}
	cmd := GetRootCmd(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	serve, _, err := cmd.Find([]string{"serve"})
	require.NoError(t, err)
	assert.Equal(t, "serve", serve.Name())

	migrate, _, err := cmd.Find([]string{"migrate"})
	require.NoError(t, err)
	assert.Equal(t, "migrate", migrate.Name())
	assert.NotNil(t, migrate.Flags().Lookup("down"))
	assert.Equal(t, "file://migrations", migrate.Flags().Lookup("source").DefValue)
}
