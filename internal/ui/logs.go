package ui

import (
	"context"
	"fmt"
	"io"

	"github.com/nxadm/tail"
)

// TailLog streams the installer log to out. With follow set it keeps
// watching for new lines until the context is cancelled; otherwise it
// prints the existing content and returns.
func TailLog(ctx context.Context, path string, out io.Writer, follow bool) error {
	t, err := tail.TailFile(path, tail.Config{
		Follow:    follow,
		ReOpen:    follow,
		MustExist: true,
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return fmt.Errorf("open log %s: %w", path, err)
	}
	defer t.Cleanup()

	for {
		select {
		case <-ctx.Done():
			_ = t.Stop()
			return nil
		case line, ok := <-t.Lines:
			if !ok {
				return nil
			}
			if line.Err != nil {
				return line.Err
			}
			fmt.Fprintln(out, line.Text)
		}
	}
}
