// Command taskgraph-lint validates workflow documents (JSON or YAML) and
// exits non-zero when any of them is invalid. With -watch it keeps running
// and re-checks a file whenever it changes.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"

	"github.com/Strob0t/taskgraph/internal/config"
	"github.com/Strob0t/taskgraph/internal/logger"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("taskgraph-lint", flag.ContinueOnError)
	format := fs.String("format", "text", "output format: text|json")
	order := fs.Bool("order", false, "print the execution order of valid workflows")
	watch := fs.Bool("watch", false, "re-check files when they change")
	logLevel := fs.String("log-level", "warn", "debug|info|warn|error")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: taskgraph-lint [flags] <file>...\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	paths := fs.Args()
	if len(paths) == 0 {
		fs.Usage()
		return 2
	}
	if *format != "text" && *format != "json" {
		fmt.Fprintf(os.Stderr, "unknown format %q\n", *format)
		return 2
	}

	log, closer := logger.NewWithWriter(config.Logging{Level: *logLevel, Service: "taskgraph-lint"}, os.Stderr)
	defer closer.Close()
	slog.SetDefault(log)

	results, failed := lintAll(paths, *order)
	if err := emit(out, *format, results); err != nil {
		slog.Error("write results", "error", err)
		return 2
	}
	if !*watch {
		if failed {
			return 1
		}
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := watchFiles(ctx, paths, func(p string) {
		r := lintFile(p, *order)
		if err := emit(out, *format, []result{r}); err != nil {
			slog.Error("write results", "error", err)
		}
	}); err != nil {
		slog.Error("watch", "error", err)
		return 2
	}
	return 0
}

func emit(out io.Writer, format string, results []result) error {
	if format == "json" {
		return writeJSON(out, results)
	}
	writeText(out, results)
	return nil
}

// watchFiles calls onChange for every write or create of a watched file
// until ctx is done. The parent directories are watched so editors that
// replace files on save are still seen.
func watchFiles(ctx context.Context, paths []string, onChange func(path string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	wanted := make(map[string]string, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", p, err)
		}
		wanted[abs] = p
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}
	slog.Info("watching", "files", len(wanted), "dirs", len(dirs))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if p, ok := wanted[abs]; ok {
				slog.Debug("file changed", "op", event.Op.String(), "file", p)
				onChange(p)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("fsnotify error", "error", err)
		}
	}
}
