package watch

import (
	"context"
	"errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_Run(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "2019_d2_boys.txt")
	require.NoError(t, os.WriteFile(path, []byte("1 1234 Smith John 12 Central 5:21.0 16:42.3 1\n"), 0o644))

	calls := make(chan struct{}, 10)
	w := New(zaptest.NewLogger(t), path, 20*time.Millisecond, func(context.Context) error {
		calls <- struct{}{}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx)
	}()

	waitCall(t, calls)

	require.NoError(t, os.WriteFile(path, []byte("2 1301 Doe Jane 11 Central 5:25.4 16:55.1 2\n"), 0o644))
	waitCall(t, calls)

	// other files in the directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "other.txt"), []byte("x"), 0o644))
	select {
	case <-calls:
		t.Fatal("unexpected call for another file")
	case <-time.After(100 * time.Millisecond):
	}

	cancel()
	require.NoError(t, <-done)
}

func TestWatcher_FnErrorKeepsWatching(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "in.txt")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

	calls := make(chan struct{}, 10)
	w := New(zaptest.NewLogger(t), path, 10*time.Millisecond, func(context.Context) error {
		calls <- struct{}{}
		return errors.New("bad input")
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx)
	}()

	waitCall(t, calls)
	require.NoError(t, os.WriteFile(path, []byte("b"), 0o644))
	waitCall(t, calls)

	cancel()
	require.NoError(t, <-done)
}

func TestWatcher_MissingDir(t *testing.T) {
	w := New(zaptest.NewLogger(t), filepath.Join(t.TempDir(), "nope", "in.txt"), 0, func(context.Context) error {
		return nil
	})
	require.Error(t, w.Run(context.Background()))
}

func waitCall(t *testing.T, calls <-chan struct{}) {
	t.Helper()

	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not call")
	}
}
