package logs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/schmitthub/recur/internal/cmdutil"
	"github.com/schmitthub/recur/internal/config"
	"github.com/schmitthub/recur/internal/iostreams"
	"github.com/schmitthub/recur/internal/logger"
	"github.com/schmitthub/recur/internal/signals"
	"github.com/spf13/cobra"
)

// tailBlockSize is the read granularity when scanning a log file backwards.
const tailBlockSize = 8192

// LogsOptions holds options for the logs command.
type LogsOptions struct {
	IOStreams *iostreams.IOStreams

	Follow bool
	Tail   int
}

// NewCmdLogs creates the logs command.
func NewCmdLogs(f *cmdutil.Factory, runF func(context.Context, *LogsOptions) error) *cobra.Command {
	opts := &LogsOptions{
		IOStreams: f.IOStreams,
	}

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recur's own diagnostic log",
		Long: `Prints the tail of the recur log file.

The stop hook and every recur command write diagnostics to a rotated log
file under the recur home (~/.recur/logs/recur.log), keeping stdout clean
for hook responses. This command is the quickest way to see what the hook
decided on recent stops.`,
		Example: `  # Show the last 20 log lines
  recur logs

  # Show the last 100 lines
  recur logs --tail 100

  # Stream new entries as the hook writes them
  recur logs --follow`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if runF != nil {
				return runF(cmd.Context(), opts)
			}
			return logsRun(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Follow, "follow", "f", false, "Stream new log entries as they are written")
	cmd.Flags().IntVarP(&opts.Tail, "tail", "n", 20, "Number of lines to show from the end")

	return cmd
}

func logsRun(ctx context.Context, opts *LogsOptions) error {
	ios := opts.IOStreams
	cs := ios.ColorScheme()

	path, err := logFilePath()
	if err != nil {
		return err
	}

	offset, err := printTail(ios.Out, path, opts.Tail)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("reading log file: %w", err)
		}
		fmt.Fprintf(ios.ErrOut, "%s No log file yet at %s\n", cs.WarningIcon(), path)
		if !opts.Follow {
			fmt.Fprintln(ios.ErrOut, "It appears once the stop hook or a recur command writes a diagnostic.")
			return nil
		}
	}

	if !opts.Follow {
		return nil
	}

	ctx, cancel := signals.SetupSignalContext(ctx)
	defer cancel()
	logger.Debug().Str("path", path).Msg("following log file")
	return followFile(ctx, ios.Out, path, offset)
}

// logFilePath returns the path the rotating file writer uses, preferring the
// live writer when one is active in this process.
func logFilePath() (string, error) {
	if p := logger.GetLogFilePath(); p != "" {
		return p, nil
	}
	dir, err := config.LogsDir()
	if err != nil {
		return "", fmt.Errorf("resolving log directory: %w", err)
	}
	return filepath.Join(dir, logger.LogFileName), nil
}

// printTail writes the last n lines of the file to w and returns the file
// size, which follow mode uses as its starting offset.
func printTail(w io.Writer, path string, n int) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}

	lines, err := tailLines(f, info.Size(), n)
	if err != nil {
		return 0, err
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return 0, err
		}
	}
	return info.Size(), nil
}

// tailLines returns the last n lines without loading the whole file,
// scanning backwards in fixed-size blocks.
func tailLines(r io.ReaderAt, size int64, n int) ([]string, error) {
	if n <= 0 || size == 0 {
		return nil, nil
	}

	var (
		buf   []byte
		off   = size
		block = make([]byte, tailBlockSize)
	)
	for off > 0 && bytes.Count(buf, []byte{'\n'}) <= n {
		readLen := int64(len(block))
		if off < readLen {
			readLen = off
		}
		off -= readLen
		if _, err := r.ReadAt(block[:readLen], off); err != nil {
			return nil, err
		}
		buf = append(append([]byte{}, block[:readLen]...), buf...)
	}

	lines := strings.Split(strings.TrimSuffix(string(buf), "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}

// followFile streams appended bytes to w until ctx is canceled. It watches
// the directory rather than the file: rotation replaces the file, and a
// watch on the old inode would go quiet.
func followFile(ctx context.Context, w io.Writer, path string, offset int64) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting log watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	// Catch anything appended between the initial tail and the watch start.
	if offset, err = copyNew(w, path, offset); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != path {
				continue
			}
			if event.Has(fsnotify.Create) {
				// Rotation: a fresh file replaced the one we were reading.
				offset = 0
			} else if !event.Has(fsnotify.Write) {
				continue
			}
			if offset, err = copyNew(w, path, offset); err != nil {
				return err
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("log watcher: %w", err)
		}
	}
}

// copyNew copies bytes from offset to the end of the file and returns the
// new offset. A missing file is not an error: mid-rotation the path briefly
// has no file, and the next create event restarts from zero.
func copyNew(w io.Writer, path string, offset int64) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return offset, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return offset, err
	}
	if info.Size() < offset {
		// Truncated in place. Start over.
		offset = 0
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return offset, err
	}
	n, err := io.Copy(w, f)
	if err != nil {
		return offset, err
	}
	return offset + n, nil
}
