package config

import (
	"context"

	"github.com/pacswatch/pacswatch/pkg/confutil"
)

// Watch logs when the config file changes; a restart applies it.
func Watch(ctx context.Context, path string) error {
	return confutil.Watch(ctx, path, func(p string) error {
		_, err := Load(p)
		return err
	})
}
