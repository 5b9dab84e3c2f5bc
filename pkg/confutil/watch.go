package confutil

import (
	"context"
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// Watch monitors path and logs whenever the file changes and check
// accepts it. The running exporter keeps its loaded config either way;
// applying a change still requires a restart. The log line tells the
// operator a restart would pick something new up.
func Watch(ctx context.Context, path string, check func(path string) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	slog.Info("config: watching for changes", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Editors often write via rename (atomic save), so also
			// catch fsnotify.Create.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			if err := check(path); err != nil {
				slog.Error("config: changed file does not parse", "path", path, "err", err)
			} else {
				slog.Info("config: file changed; restart to apply", "path", path)
			}

			// Re-add the file in case an atomic save replaced the inode.
			_ = watcher.Add(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("config: watcher error", "err", err)
		}
	}
}
