package editor

import (
	"context"
	"sync"

	"github.com/yanizio/viyakaptan/internal/apiclient"
	"github.com/yanizio/viyakaptan/internal/content"
	"github.com/yanizio/viyakaptan/internal/errs"
	"github.com/yanizio/viyakaptan/internal/message"
)

// Media page copy.
const (
	TooLargeMessage     = "Dosya boyutu 10MB'dan küçük olmalıdır"
	uploadedMessage     = "Dosya başarıyla yüklendi"
	mediaDeletedMessage = "Dosya başarıyla silindi"
	MediaConfirm        = "Bu dosyayı silmek istediğinize emin misiniz?"
)

// MediaStore is the write side of the media page.
type MediaStore interface {
	Upload(ctx context.Context, u apiclient.Upload) (content.Media, error)
	Delete(ctx context.Context, id int64) error
}

// Uploader drives the media page: one upload or delete at a time.
type Uploader struct {
	store MediaStore

	mu     sync.Mutex
	busy   bool
	notice message.Notice
}

func NewUploader(store MediaStore) *Uploader { return &Uploader{store: store} }

func (u *Uploader) Notice() message.Notice {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.notice
}

// Upload rejects files over the size ceiling without contacting the API.
func (u *Uploader) Upload(ctx context.Context, in apiclient.Upload) (content.Media, error) {
	if len(in.Data) > apiclient.MaxUploadBytes {
		u.mu.Lock()
		u.notice = message.Error(TooLargeMessage)
		u.mu.Unlock()
		return content.Media{}, errs.PayloadTooLarge(TooLargeMessage)
	}
	if !u.begin() {
		return content.Media{}, ErrBusy
	}

	row, err := u.store.Upload(ctx, in)
	u.end(err, uploadedMessage)
	return row, err
}

// Delete removes id once confirm accepts MediaConfirm.
func (u *Uploader) Delete(ctx context.Context, id int64, confirm func(prompt string) bool) error {
	if confirm == nil || !confirm(MediaConfirm) {
		return ErrNotConfirmed
	}
	if !u.begin() {
		return ErrBusy
	}
	err := u.store.Delete(ctx, id)
	u.end(err, mediaDeletedMessage)
	return err
}

func (u *Uploader) begin() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.busy {
		return false
	}
	u.busy = true
	return true
}

func (u *Uploader) end(err error, ok string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.busy = false
	if err != nil {
		u.notice = message.Error(errs.Message(err))
		return
	}
	u.notice = message.Success(ok)
}
