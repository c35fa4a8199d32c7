package upload

import (
	"context"
	"errors"
	"image/color"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/dmitrijs2005/imgvault/internal/blobstore"
	"github.com/dmitrijs2005/imgvault/internal/device"
	"github.com/dmitrijs2005/imgvault/internal/docstore"
	"github.com/dmitrijs2005/imgvault/internal/logging"
	"github.com/dmitrijs2005/imgvault/internal/models"
	"github.com/stretchr/testify/require"
)

type fakePerms struct {
	granted map[device.Permission]bool
	err     error
}

func (f fakePerms) Request(_ context.Context, p device.Permission) (bool, error) {
	return f.granted[p], f.err
}

// fakeSource serves as both Picker and Camera.
type fakeSource struct {
	uri   string
	ok    bool
	err   error
	calls int
}

func (f *fakeSource) PickImage(context.Context) (string, bool, error) {
	f.calls++
	return f.uri, f.ok, f.err
}

func (f *fakeSource) Capture(ctx context.Context) (string, bool, error) {
	return f.PickImage(ctx)
}

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (n *recordingNotifier) Notify(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
}

func (n *recordingNotifier) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.msgs...)
}

// fakeBlobs records puts. fail rejects the n-th Put call; gate, if set,
// blocks every Put until closed.
type fakeBlobs struct {
	mu     sync.Mutex
	keys   []string
	fail   func(n int) bool
	gate   chan struct{}
	inPut  chan struct{}
	called int
}

func (f *fakeBlobs) Put(ctx context.Context, key string, r io.Reader, size int64, progress blobstore.ProgressFunc) (string, error) {
	f.mu.Lock()
	f.called++
	n := f.called
	f.mu.Unlock()

	if f.inPut != nil {
		f.inPut <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if int64(len(b)) != size {
		return "", errors.New("size mismatch")
	}
	if progress != nil {
		progress(size, size)
	}
	if f.fail != nil && f.fail(n) {
		return "", errors.New("storage/unauthorized")
	}

	f.mu.Lock()
	f.keys = append(f.keys, key)
	f.mu.Unlock()
	return "mem://" + key, nil
}

func (f *fakeBlobs) KeyFromLocator(loc string) (string, error) {
	return strings.TrimPrefix(loc, "mem://"), nil
}

func (f *fakeBlobs) Delete(context.Context, string) error { return nil }

func (f *fakeBlobs) Fetch(context.Context, string, io.Writer) error { return nil }

func (f *fakeBlobs) putKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.keys...)
}

type fakeDocs struct {
	docstore.Store
	mu      sync.Mutex
	records []models.ImageRecord
	err     error
}

func (f *fakeDocs) AddImage(_ context.Context, uid, url string) (*models.ImageRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	rec := models.ImageRecord{ID: url, UserID: uid, DownloadURL: url}
	f.records = append(f.records, rec)
	return &rec, nil
}

func (f *fakeDocs) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

type fixture struct {
	o      *Orchestrator
	perms  fakePerms
	picker *fakeSource
	camera *fakeSource
	blobs  *fakeBlobs
	docs   *fakeDocs
	notes  *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		perms: fakePerms{granted: map[device.Permission]bool{
			device.PermissionMediaLibrary: true,
			device.PermissionCamera:       true,
		}},
		picker: &fakeSource{ok: true},
		camera: &fakeSource{ok: true},
		blobs:  &fakeBlobs{},
		docs:   &fakeDocs{},
		notes:  &recordingNotifier{},
	}
	f.o = New(Deps{
		Permissions: f.perms,
		Picker:      f.picker,
		Camera:      f.camera,
		Blobs:       f.blobs,
		Docs:        f.docs,
		Notifier:    f.notes,
		Logger:      logging.Discard(),
	})
	return f
}

// writeImage saves a small PNG and returns its path.
func writeImage(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	img := imaging.New(8, 6, color.NRGBA{R: 200, G: 30, B: 30, A: 255})
	require.NoError(t, imaging.Save(img, path))
	return path
}

// enqueue picks each path through the fake picker.
func (f *fixture) enqueue(t *testing.T, paths ...string) {
	t.Helper()
	for _, p := range paths {
		f.picker.uri = p
		ok, err := f.o.Pick(context.Background())
		require.NoError(t, err)
		require.True(t, ok)
	}
}
