package device

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dmitrijs2005/imgvault/internal/common"
	"github.com/dmitrijs2005/imgvault/internal/filex"
	"github.com/google/uuid"
)

// AskFunc reads one line of user input after showing prompt.
type AskFunc func(ctx context.Context, prompt string) (string, error)

// commandContext is a seam for tests.
var commandContext = exec.CommandContext

// lookPath is a seam for tests.
var lookPath = exec.LookPath

// TerminalPermissions grants the media library when the picker directory is
// readable and the camera when a capture command is configured and found.
type TerminalPermissions struct {
	PickerDir     string
	CameraCommand string
}

func (p TerminalPermissions) Request(ctx context.Context, perm Permission) (bool, error) {
	switch perm {
	case PermissionCamera:
		return commandAvailable(p.CameraCommand), nil
	default:
		fi, err := os.Stat(p.PickerDir)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) || errors.Is(err, os.ErrPermission) {
				return false, nil
			}
			return false, err
		}
		return fi.IsDir(), nil
	}
}

// TerminalPicker asks for a file path, resolved against Dir. An empty answer
// cancels.
type TerminalPicker struct {
	Dir string
	Ask AskFunc
}

func (p TerminalPicker) PickImage(ctx context.Context) (string, bool, error) {
	answer, err := p.Ask(ctx, "Image path (empty to cancel): ")
	if err != nil {
		return "", false, err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", false, nil
	}

	path := answer
	if !filepath.IsAbs(path) {
		path = filepath.Join(p.Dir, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false, err
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return "", false, fmt.Errorf("cannot open %s: %w", answer, err)
	}
	if fi.IsDir() {
		return "", false, fmt.Errorf("%s is a directory", answer)
	}
	return abs, true, nil
}

// CommandCamera runs Command with an output path appended and returns that
// path. A command that exits cleanly without writing the file counts as a
// cancel.
type CommandCamera struct {
	Command string
	OutDir  string
}

func (c CommandCamera) Capture(ctx context.Context) (string, bool, error) {
	args := strings.Fields(c.Command)
	if len(args) == 0 {
		return "", false, ErrPermissionDenied
	}
	dir, err := filex.EnsureDir(c.OutDir)
	if err != nil {
		return "", false, err
	}
	out := filepath.Join(dir, uuid.NewString()+common.ImageExtension)

	cmd := commandContext(ctx, args[0], append(args[1:], out)...)
	if b, err := cmd.CombinedOutput(); err != nil {
		return "", false, fmt.Errorf("camera command failed: %w: %s", err, strings.TrimSpace(string(b)))
	}

	ok, err := filex.Exists(out)
	if err != nil || !ok {
		return "", false, err
	}
	return out, true, nil
}

// DirMediaLibrary saves assets by copying them into Dir.
type DirMediaLibrary struct {
	Dir string
}

func (m DirMediaLibrary) SaveToLibrary(ctx context.Context, path string) error {
	dir, err := filex.EnsureDir(m.Dir)
	if err != nil {
		return err
	}
	return filex.CopyFile(path, filepath.Join(dir, filepath.Base(path)))
}

// CommandSharer hands the file to an external program, e.g. xdg-open.
type CommandSharer struct {
	Command string
}

func (s CommandSharer) IsAvailable(ctx context.Context) bool {
	return commandAvailable(s.Command)
}

func (s CommandSharer) Share(ctx context.Context, path string) error {
	args := strings.Fields(s.Command)
	if len(args) == 0 {
		return errors.New("no share command configured")
	}
	cmd := commandContext(ctx, args[0], append(args[1:], path)...)
	if b, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("share command failed: %w: %s", err, strings.TrimSpace(string(b)))
	}
	return nil
}

// WriterNotifier prints each message on its own line. Safe for concurrent
// use; upload goroutines notify in parallel.
type WriterNotifier struct {
	mu sync.Mutex
	W  io.Writer
}

func (n *WriterNotifier) Notify(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.W, msg)
}

func commandAvailable(command string) bool {
	args := strings.Fields(command)
	if len(args) == 0 {
		return false
	}
	_, err := lookPath(args[0])
	return err == nil
}
