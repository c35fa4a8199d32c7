package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/imgvault/internal/device"
	"github.com/dmitrijs2005/imgvault/internal/models"
	"github.com/dmitrijs2005/imgvault/internal/services"
	"github.com/dmitrijs2005/imgvault/internal/upload"
)

const (
	msgNoImages = "You have not uploaded any images yet. Use pick or camera, then upload."
	msgLoading  = "Loading..."
)

// List refetches and prints the image list. Every visit refetches.
func (a *App) List(ctx context.Context) error {
	uid, ok := a.userID(ctx)
	if !ok {
		return nil
	}
	if err := a.listing.Refresh(ctx, uid); err != nil {
		a.log.Error(ctx, "list images failed", "error", err)
		fmt.Fprintf(a.out, "Could not load images: %v\n", err)
	}
	a.printListing()
	return nil
}

func (a *App) printListing() {
	v := a.listing.View()
	switch {
	case v.Empty:
		fmt.Fprintln(a.out, msgNoImages)
	case v.Loading:
		fmt.Fprintln(a.out, msgLoading)
	default:
		for i, t := range v.Tiles {
			fmt.Fprintf(a.out, "%3d. %-5s %s  %s\n", i+1, t.Side, t.Record.DateUploaded.Local().Format(time.DateTime), t.Record.DownloadURL)
		}
	}
}

// pickRecord selects the image named by args[0] (1-based list position) or,
// without arguments, the one shown last.
func (a *App) pickRecord(args []string) (models.ImageRecord, bool) {
	if len(args) == 0 {
		if a.selected == nil {
			fmt.Fprintln(a.out, "Usage: <command> <n>; run list first")
			return models.ImageRecord{}, false
		}
		return *a.selected, true
	}

	n, err := strconv.Atoi(args[0])
	recs := a.listing.Records()
	if err != nil || n < 1 || n > len(recs) {
		fmt.Fprintf(a.out, "No image %q; run list to see the numbers\n", args[0])
		return models.ImageRecord{}, false
	}
	rec := recs[n-1]
	a.selected = &rec
	return rec, true
}

func (a *App) Show(ctx context.Context, args []string) error {
	if _, ok := a.userID(ctx); !ok {
		return nil
	}
	rec, ok := a.pickRecord(args)
	if !ok {
		return nil
	}

	fmt.Fprintf(a.out, "URL:      %s\n", rec.DownloadURL)
	fmt.Fprintf(a.out, "Uploaded: %s\n", rec.DateUploaded.Local().Format(time.DateTime))

	dl, sh := a.detail.Offers()
	actions := "delete"
	if dl {
		actions += ", download"
	}
	if sh {
		actions += ", share"
	}
	fmt.Fprintf(a.out, "Actions:  %s\n", actions)
	if !dl {
		a.printViewURL(ctx, rec)
	}
	return nil
}

// printViewURL tells a web user how to save the image and prints a link
// that opens even when the bucket is private.
func (a *App) printViewURL(ctx context.Context, rec models.ImageRecord) {
	fmt.Fprintln(a.out, services.MsgWebSaveYourself)
	url, err := a.detail.ViewURL(ctx, rec)
	if err != nil {
		a.log.Error(ctx, "view url failed", "url", rec.DownloadURL, "error", err)
		fmt.Fprintf(a.out, "Could not create a link: %v\n", err)
		return
	}
	fmt.Fprintln(a.out, url)
}

// Delete removes the image and returns to the refreshed list.
func (a *App) Delete(ctx context.Context, args []string) error {
	if _, ok := a.userID(ctx); !ok {
		return nil
	}
	rec, ok := a.pickRecord(args)
	if !ok {
		return nil
	}
	if err := a.detail.Delete(ctx, rec); err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}
	a.selected = nil
	return a.List(ctx)
}

func (a *App) Download(ctx context.Context, args []string) error {
	if _, ok := a.userID(ctx); !ok {
		return nil
	}
	rec, ok := a.pickRecord(args)
	if !ok {
		return nil
	}
	err := a.detail.Download(ctx, rec)
	a.reportDetailError(ctx, "download", rec, err)
	return err
}

func (a *App) Share(ctx context.Context, args []string) error {
	if _, ok := a.userID(ctx); !ok {
		return nil
	}
	rec, ok := a.pickRecord(args)
	if !ok {
		return nil
	}
	err := a.detail.Share(ctx, rec)
	a.reportDetailError(ctx, "share", rec, err)
	return err
}

func (a *App) reportDetailError(ctx context.Context, action string, rec models.ImageRecord, err error) {
	switch {
	case err == nil, errors.Is(err, services.ErrShareUnavailable):
		// success or already notified
	case errors.Is(err, services.ErrNotOffered):
		a.printViewURL(ctx, rec)
	default:
		a.log.Error(ctx, action+" failed", "error", err)
		fmt.Fprintf(a.out, "Could not %s the image: %v\n", action, err)
	}
}

func (a *App) Pick(ctx context.Context) error {
	return a.enqueue(ctx, a.uploads.Pick)
}

func (a *App) Camera(ctx context.Context) error {
	return a.enqueue(ctx, a.uploads.Capture)
}

func (a *App) enqueue(ctx context.Context, fn func(context.Context) (bool, error)) error {
	ok, err := fn(ctx)
	switch {
	case errors.Is(err, device.ErrPermissionDenied):
		return err
	case err != nil:
		a.log.Error(ctx, "enqueue failed", "error", err)
		fmt.Fprintln(a.out, err.Error())
		return err
	case ok:
		fmt.Fprintf(a.out, "%d image(s) queued\n", len(a.uploads.Queue()))
	}
	return nil
}

func (a *App) Queue(ctx context.Context) error {
	q := a.uploads.Queue()
	if len(q) == 0 {
		fmt.Fprintln(a.out, "The upload queue is empty.")
		return nil
	}
	for i, p := range q {
		fmt.Fprintf(a.out, "%3d. %s\n", i+1, p.LocalURI)
	}
	return nil
}

func (a *App) Clear(ctx context.Context) error {
	a.uploads.Clear()
	fmt.Fprintln(a.out, "The upload queue is empty.")
	return nil
}

func (a *App) Upload(ctx context.Context) error {
	uid, ok := a.userID(ctx)
	if !ok {
		return nil
	}
	res, err := a.uploads.UploadAll(ctx, uid)
	switch {
	case errors.Is(err, upload.ErrEmptyQueue):
		return err
	case err != nil:
		fmt.Fprintln(a.out, err.Error())
		return err
	}
	a.log.Info(ctx, "batch settled", "total", res.Total, "succeeded", res.Succeeded, "failed", res.Failed)
	return nil
}
