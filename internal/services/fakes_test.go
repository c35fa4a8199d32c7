package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/dmitrijs2005/imgvault/internal/auth"
	"github.com/dmitrijs2005/imgvault/internal/blobstore"
	"github.com/dmitrijs2005/imgvault/internal/common"
	"github.com/dmitrijs2005/imgvault/internal/models"
)

type signInCall struct{ email, password string }

type fakeProvider struct {
	auth.Provider

	signInCalls []signInCall
	createCalls []signInCall
	signOuts    int

	signInErr  error
	createErr  error
	signOutErr error
	createdID  string
}

func (f *fakeProvider) SignIn(_ context.Context, email, password string) (*models.User, error) {
	f.signInCalls = append(f.signInCalls, signInCall{email, password})
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return &models.User{ID: "u1", Email: email}, nil
}

func (f *fakeProvider) CreateAccount(_ context.Context, email, password string) (*models.User, error) {
	f.createCalls = append(f.createCalls, signInCall{email, password})
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.User{ID: f.createdID, Email: email}, nil
}

func (f *fakeProvider) SignOut(context.Context) error {
	f.signOuts++
	return f.signOutErr
}

type fakeDocs struct {
	profiles map[string]models.Profile
	images   []models.ImageRecord

	setProfileErr error
	getProfileErr error
	listErr       error
	findErr       error
	deleteErr     error

	listCalls int
	deleted   []string
}

func newFakeDocs() *fakeDocs {
	return &fakeDocs{profiles: map[string]models.Profile{}}
}

func (f *fakeDocs) GetProfile(_ context.Context, uid string) (*models.Profile, error) {
	if f.getProfileErr != nil {
		return nil, f.getProfileErr
	}
	p, ok := f.profiles[uid]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &p, nil
}

func (f *fakeDocs) SetProfile(_ context.Context, p *models.Profile) error {
	if f.setProfileErr != nil {
		return f.setProfileErr
	}
	f.profiles[p.UserID] = *p
	return nil
}

func (f *fakeDocs) AddImage(_ context.Context, uid, url string) (*models.ImageRecord, error) {
	r := models.ImageRecord{ID: url, UserID: uid, DownloadURL: url}
	f.images = append(f.images, r)
	return &r, nil
}

func (f *fakeDocs) ListImages(_ context.Context, uid string) ([]models.ImageRecord, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.ImageRecord
	for _, r := range f.images {
		if r.UserID == uid {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeDocs) FindImagesByURL(_ context.Context, uid, url string) ([]models.ImageRecord, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []models.ImageRecord
	for _, r := range f.images {
		if r.UserID == uid && r.DownloadURL == url {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeDocs) DeleteImage(_ context.Context, uid, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	kept := f.images[:0]
	for _, r := range f.images {
		if r.UserID == uid && r.ID == id {
			f.deleted = append(f.deleted, id)
			continue
		}
		kept = append(kept, r)
	}
	f.images = kept
	return nil
}

type fakeBlobs struct {
	deleted   []string
	deleteErr error
}

func (f *fakeBlobs) Put(context.Context, string, io.Reader, int64, blobstore.ProgressFunc) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeBlobs) KeyFromLocator(loc string) (string, error) {
	if !strings.HasPrefix(loc, "mem://") {
		return "", common.ErrInvalidLocator
	}
	return strings.TrimPrefix(loc, "mem://"), nil
}

func (f *fakeBlobs) Delete(_ context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeBlobs) Fetch(context.Context, string, io.Writer) error { return nil }

type fakeCache struct {
	resolved []string
	released []string
	err      error
}

func (f *fakeCache) Resolve(_ context.Context, loc string) (*models.LocalCacheEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.resolved = append(f.resolved, loc)
	return &models.LocalCacheEntry{Path: "/cache/" + strings.TrimPrefix(loc, "mem://")}, nil
}

func (f *fakeCache) Release(_ context.Context, e *models.LocalCacheEntry) error {
	f.released = append(f.released, e.Path)
	return nil
}

type fakeLibrary struct {
	saved []string
	err   error
}

func (f *fakeLibrary) SaveToLibrary(_ context.Context, path string) error {
	f.saved = append(f.saved, path)
	return f.err
}

type fakeSharer struct {
	available bool
	shared    []string
	err       error
}

func (f *fakeSharer) IsAvailable(context.Context) bool { return f.available }

func (f *fakeSharer) Share(_ context.Context, path string) error {
	f.shared = append(f.shared, path)
	return f.err
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
