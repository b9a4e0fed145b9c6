package charges_test

import (
	"io"
	"net/http"
	"testing"

	"github.com/alovak/pixflow-playground/charges"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func TestApp_StartShutdown(t *testing.T) {
	cfg := charges.DefaultConfig()
	cfg.HTTPAddr = "127.0.0.1:0"

	app := charges.NewApp(slog.New(slog.NewTextHandler(io.Discard, nil)), cfg)
	require.NoError(t, app.Start())
	defer app.Shutdown()

	for _, path := range []string{"/-/live", "/-/ready"} {
		resp, err := http.Get("http://" + app.Addr + path)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestApp_UnsupportedBackend(t *testing.T) {
	cfg := charges.DefaultConfig()
	cfg.RepoBackend = "mongo"

	app := charges.NewApp(slog.New(slog.NewTextHandler(io.Discard, nil)), cfg)
	require.Error(t, app.Start())

	cfg.RepoBackend = "pg"
	cfg.DBDSN = ""
	require.Error(t, app.Start())
}
