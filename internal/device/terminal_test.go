package device

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses POSIX commands")
	}
}

func stubLookPath(t *testing.T, found ...string) {
	t.Helper()
	orig := lookPath
	t.Cleanup(func() { lookPath = orig })
	lookPath = func(file string) (string, error) {
		for _, f := range found {
			if f == file {
				return "/usr/bin/" + file, nil
			}
		}
		return "", errors.New("not found")
	}
}

func TestPermission_String(t *testing.T) {
	assert.Equal(t, "camera", PermissionCamera.String())
	assert.Equal(t, "media library", PermissionMediaLibrary.String())
}

func TestTerminalPermissions(t *testing.T) {
	ctx := context.Background()
	stubLookPath(t, "fswebcam")

	p := TerminalPermissions{PickerDir: t.TempDir(), CameraCommand: "fswebcam -r 640x480"}
	ok, err := p.Request(ctx, PermissionMediaLibrary)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Request(ctx, PermissionCamera)
	require.NoError(t, err)
	assert.True(t, ok)

	denied := TerminalPermissions{PickerDir: filepath.Join(t.TempDir(), "missing"), CameraCommand: ""}
	ok, err = denied.Request(ctx, PermissionMediaLibrary)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = denied.Request(ctx, PermissionCamera)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTerminalPicker(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cat.png"), []byte("x"), 0o600))

	answer := func(s string) AskFunc {
		return func(context.Context, string) (string, error) { return s, nil }
	}

	t.Run("relative path resolved against dir", func(t *testing.T) {
		uri, ok, err := TerminalPicker{Dir: dir, Ask: answer(" cat.png \n")}.PickImage(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, filepath.Join(dir, "cat.png"), uri)
	})

	t.Run("empty answer cancels", func(t *testing.T) {
		_, ok, err := TerminalPicker{Dir: dir, Ask: answer("")}.PickImage(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := TerminalPicker{Dir: dir, Ask: answer("dog.png")}.PickImage(ctx)
		assert.Error(t, err)
	})

	t.Run("directory", func(t *testing.T) {
		_, _, err := TerminalPicker{Dir: dir, Ask: answer(".")}.PickImage(ctx)
		assert.Error(t, err)
	})

	t.Run("input error", func(t *testing.T) {
		boom := func(context.Context, string) (string, error) { return "", errors.New("eof") }
		_, _, err := TerminalPicker{Dir: dir, Ask: boom}.PickImage(ctx)
		assert.EqualError(t, err, "eof")
	})
}

func TestCommandCamera(t *testing.T) {
	skipOnWindows(t)
	ctx := context.Background()

	src := filepath.Join(t.TempDir(), "shot.jpeg")
	require.NoError(t, os.WriteFile(src, []byte("frame"), 0o600))
	out := t.TempDir()

	t.Run("captures into out dir", func(t *testing.T) {
		uri, ok, err := CommandCamera{Command: "cp " + src, OutDir: out}.Capture(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		assert.True(t, strings.HasPrefix(uri, out))
		assert.True(t, strings.HasSuffix(uri, ".jpeg"))
		b, err := os.ReadFile(uri)
		require.NoError(t, err)
		assert.Equal(t, "frame", string(b))
	})

	t.Run("no file written is a cancel", func(t *testing.T) {
		_, ok, err := CommandCamera{Command: "true", OutDir: out}.Capture(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("failing command", func(t *testing.T) {
		_, _, err := CommandCamera{Command: "false", OutDir: out}.Capture(ctx)
		assert.ErrorContains(t, err, "camera command failed")
	})

	t.Run("no command", func(t *testing.T) {
		_, _, err := CommandCamera{OutDir: out}.Capture(ctx)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})
}

func TestDirMediaLibrary(t *testing.T) {
	src := filepath.Join(t.TempDir(), "a.jpeg")
	require.NoError(t, os.WriteFile(src, []byte("img"), 0o600))
	lib := filepath.Join(t.TempDir(), "Pictures")

	require.NoError(t, DirMediaLibrary{Dir: lib}.SaveToLibrary(context.Background(), src))

	b, err := os.ReadFile(filepath.Join(lib, "a.jpeg"))
	require.NoError(t, err)
	assert.Equal(t, "img", string(b))
}

func TestCommandSharer(t *testing.T) {
	skipOnWindows(t)
	ctx := context.Background()

	stubLookPath(t, "true")
	assert.True(t, CommandSharer{Command: "true"}.IsAvailable(ctx))
	assert.False(t, CommandSharer{Command: "xdg-open"}.IsAvailable(ctx))
	assert.False(t, CommandSharer{}.IsAvailable(ctx))

	require.NoError(t, CommandSharer{Command: "true"}.Share(ctx, "/tmp/x.jpeg"))
	assert.ErrorContains(t, CommandSharer{Command: "false"}.Share(ctx, "/tmp/x.jpeg"), "share command failed")
	assert.Error(t, CommandSharer{}.Share(ctx, "/tmp/x.jpeg"))
}

func TestWriterNotifier_Concurrent(t *testing.T) {
	var buf bytes.Buffer
	n := &WriterNotifier{W: &buf}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n.Notify("done")
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, strings.Count(buf.String(), "done\n"))
}

func TestSentinelErrors(t *testing.T) {
	for _, err := range []error{ErrPermissionDenied, ErrUnsupportedFileType} {
		msg := err.Error()
		assert.Equal(t, strings.ToLower(msg[:1]), msg[:1], "error strings start lower-case: %q", msg)
	}
	assert.ErrorIs(t, errors.Join(errors.New("save"), ErrUnsupportedFileType), ErrUnsupportedFileType)
}
