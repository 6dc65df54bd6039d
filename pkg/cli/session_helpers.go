package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"quackview/internal/service/analyze"
	"quackview/internal/session"
)

// openLocalSession imports a spreadsheet into a fresh in-memory database
// and returns the task ID plus the services bound to it. The caller must
// invoke the returned cleanup function.
func openLocalSession(cmd *cobra.Command, path string) (string, *analyze.Service, func(), error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	f, err := os.Open(path)
	if err != nil {
		return "", nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	registry := session.NewRegistry(0, "", logger)
	sess, err := registry.Create(cmd.Context(), filepath.Base(path), f)
	if err != nil {
		registry.CloseAll()
		return "", nil, nil, err
	}

	svc := analyze.NewService(registry, nil, logger)
	return sess.TaskID, svc, registry.CloseAll, nil
}
