//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"github.com/scizor/server/internal/shared/config"
)

// InitializeApp creates the application with all dependencies wired. The
// returned cleanup must run after the HTTP server has shut down.
func InitializeApp(cfg *config.Config) (*App, func(), error) {
	wire.Build(AppSet)
	return nil, nil, nil
}
