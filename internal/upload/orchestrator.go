// Package upload queues locally picked or captured images and uploads them
// as a batch: every item is converted to JPEG, stored as a blob and recorded
// in the user's image collection.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/imgvault/internal/blobstore"
	"github.com/dmitrijs2005/imgvault/internal/common"
	"github.com/dmitrijs2005/imgvault/internal/device"
	"github.com/dmitrijs2005/imgvault/internal/docstore"
	"github.com/dmitrijs2005/imgvault/internal/logging"
	"github.com/dmitrijs2005/imgvault/internal/models"
	"github.com/google/uuid"
)

// User-facing messages.
const (
	MsgGalleryPermission = "Permissions are required to access your image gallery. Please enable them and retry."
	MsgCameraPermission  = "Permissions are required to access your camera. Please enable them and retry."
	MsgEmptyQueue        = "You must have at least one Image chosen before uploading."
	MsgBatchFinished     = "Images have been uploaded to the cloud! If there were any errors, please try uploading those images again."
	msgItemFailed        = "Image %s was not uploaded successfully."
)

var (
	ErrEmptyQueue = errors.New("upload queue is empty")
	ErrBusy       = errors.New("an upload is already in progress")
)

// State of the orchestrator as a whole.
type State int

const (
	StateIdle State = iota
	StateUploading
)

func (s State) String() string {
	if s == StateUploading {
		return "uploading"
	}
	return "idle"
}

type queued struct {
	id  uint64
	img models.PendingImage
}

// Deps are the collaborators of an Orchestrator.
type Deps struct {
	Permissions device.Permissions
	Picker      device.Picker
	Camera      device.Camera
	Blobs       blobstore.Store
	Docs        docstore.Store
	Notifier    device.Notifier
	Logger      logging.Logger
}

type Orchestrator struct {
	deps    Deps
	convert func(path string) ([]byte, error)

	mu     sync.Mutex
	queue  []queued
	nextID uint64
	state  State
}

func New(deps Deps) *Orchestrator {
	return &Orchestrator{deps: deps, convert: jpegPayload}
}

// Pick asks for gallery permission and appends the chosen image. A denial
// is notified and returned as device.ErrPermissionDenied; a cancel is a
// no-op.
func (o *Orchestrator) Pick(ctx context.Context) (bool, error) {
	return o.enqueue(ctx, device.PermissionMediaLibrary, MsgGalleryPermission, o.deps.Picker.PickImage)
}

// Capture is Pick for the camera.
func (o *Orchestrator) Capture(ctx context.Context) (bool, error) {
	return o.enqueue(ctx, device.PermissionCamera, MsgCameraPermission, o.deps.Camera.Capture)
}

func (o *Orchestrator) enqueue(ctx context.Context, perm device.Permission, deniedMsg string,
	launch func(context.Context) (string, bool, error)) (bool, error) {

	granted, err := o.deps.Permissions.Request(ctx, perm)
	if err != nil {
		return false, fmt.Errorf("request %s permission: %w", perm, err)
	}
	if !granted {
		o.deps.Notifier.Notify(deniedMsg)
		return false, device.ErrPermissionDenied
	}

	uri, ok, err := launch(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	o.mu.Lock()
	o.nextID++
	o.queue = append(o.queue, queued{id: o.nextID, img: models.PendingImage{LocalURI: uri}})
	o.mu.Unlock()

	o.deps.Logger.Debug(ctx, "image queued", "uri", uri)
	return true, nil
}

// Clear drops every queued image. Nothing remote is touched.
func (o *Orchestrator) Clear() {
	o.mu.Lock()
	o.queue = nil
	o.mu.Unlock()
}

// Queue returns a copy of the pending images in queue order.
func (o *Orchestrator) Queue() []models.PendingImage {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]models.PendingImage, len(o.queue))
	for i, q := range o.queue {
		out[i] = q.img
	}
	return out
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// UploadAll uploads every queued image concurrently for userID and blocks
// until the batch settles. Failed items are notified individually; the
// batch always ends Idle with the completion message.
func (o *Orchestrator) UploadAll(ctx context.Context, userID string) (models.BatchResult, error) {
	o.mu.Lock()
	if o.state == StateUploading {
		o.mu.Unlock()
		return models.BatchResult{}, ErrBusy
	}
	if len(o.queue) == 0 {
		o.mu.Unlock()
		o.deps.Notifier.Notify(MsgEmptyQueue)
		return models.BatchResult{}, ErrEmptyQueue
	}
	items := append([]queued(nil), o.queue...)
	o.state = StateUploading
	o.mu.Unlock()

	o.deps.Logger.Info(ctx, "upload started", "items", len(items))

	b := newBatch(len(items))
	for _, it := range items {
		go o.uploadOne(ctx, userID, it, b)
	}
	<-b.done

	ids := make(map[uint64]struct{}, len(items))
	for _, it := range items {
		ids[it.id] = struct{}{}
	}
	o.mu.Lock()
	o.removeLocked(ids)
	o.state = StateIdle
	o.mu.Unlock()

	res := b.result()
	o.deps.Logger.Info(ctx, "upload finished", "succeeded", res.Succeeded, "failed", res.Failed)
	o.deps.Notifier.Notify(MsgBatchFinished)
	return res, nil
}

func (o *Orchestrator) uploadOne(ctx context.Context, userID string, it queued, b *batch) {
	log := o.deps.Logger.With("uri", it.img.LocalURI)

	payload, err := o.convert(it.img.LocalURI)
	if err != nil {
		o.fail(ctx, it, b, err)
		return
	}

	key := userID + "/" + uuid.NewString() + common.ImageExtension
	locator, err := o.deps.Blobs.Put(ctx, key, bytes.NewReader(payload), int64(len(payload)), func(sent, total int64) {
		log.Debug(ctx, "upload progress", "key", key, "sent", sent, "total", total)
	})
	if err != nil {
		o.fail(ctx, it, b, err)
		return
	}

	if _, err := o.deps.Docs.AddImage(ctx, userID, locator); err != nil {
		o.fail(ctx, it, b, fmt.Errorf("record %s: %w", locator, err))
		return
	}

	log.Info(ctx, "image uploaded", "key", key)
	b.record(true)
}

// fail notifies the user, drops the item from the queue and counts it.
func (o *Orchestrator) fail(ctx context.Context, it queued, b *batch, err error) {
	o.deps.Logger.Error(ctx, "image upload failed", "uri", it.img.LocalURI, "error", err)
	o.deps.Notifier.Notify(itemFailedMessage(it.img.LocalURI))

	o.mu.Lock()
	o.removeLocked(map[uint64]struct{}{it.id: {}})
	o.mu.Unlock()

	b.record(false)
}

func (o *Orchestrator) removeLocked(ids map[uint64]struct{}) {
	kept := o.queue[:0]
	for _, q := range o.queue {
		if _, drop := ids[q.id]; !drop {
			kept = append(kept, q)
		}
	}
	// clear the tail so dropped items can be collected
	for i := len(kept); i < len(o.queue); i++ {
		o.queue[i] = queued{}
	}
	o.queue = kept
}

// itemFailedMessage renders the per-item failure notice for uri.
func itemFailedMessage(uri string) string {
	return fmt.Sprintf(msgItemFailed, uri)
}
