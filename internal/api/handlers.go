package api

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/yanizio/viyakaptan/internal/content"
	"github.com/yanizio/viyakaptan/internal/errs"
	"github.com/yanizio/viyakaptan/internal/metrics"
	"github.com/yanizio/viyakaptan/internal/storage"
)

// MaxUploadBytes is the decoded size ceiling for one media upload.
const MaxUploadBytes = 10 << 20

// requireAdmin accepts only an "Authorization: Bearer" admin token.
// Cookies are ignored so a browser on another origin cannot ride a session.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			writeStatus(w, http.StatusUnauthorized, "UNAUTHORIZED", "oturum gerekli")
			return
		}
		id, err := s.sessions.Parse(strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")))
		if err != nil {
			writeStatus(w, http.StatusUnauthorized, "UNAUTHORIZED", "oturum geçersiz")
			return
		}
		if !id.IsAdmin() {
			writeStatus(w, http.StatusForbidden, "FORBIDDEN", "yönetici yetkisi gerekli")
			return
		}
		next.ServeHTTP(w, r)
	})
}

//
// posts
//

func (s *Server) recordView(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if err := s.store.Posts.RecordView(r.Context(), id); err != nil {
		writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

//
// settings
//

func (s *Server) listSettings(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.Settings.List(r.Context())
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) upsertSettings(w http.ResponseWriter, r *http.Request) {
	var entries []content.SiteSetting
	if err := decodeBody(w, r, &entries); err != nil {
		writeErr(w, r, err)
		return
	}
	err := s.store.Settings.BulkUpsert(r.Context(), entries)
	countMutation(content.EntitySettings, "upsert", err)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

//
// media
//

func (s *Server) listMedia(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.Media.List(r.Context())
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// upload stores the blob first and the row second; a failed insert removes
// the blob again.
func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	var in content.UploadInput
	if err := decodeBody(w, r, &in); err != nil {
		s.uploadFailed(w, r, err)
		return
	}
	// Size check before validation: the base64 tag scans the whole string.
	if base64.StdEncoding.DecodedLen(len(in.Base64)) > MaxUploadBytes+2 {
		s.uploadFailed(w, r, tooLarge())
		return
	}
	if err := content.Validate(in); err != nil {
		s.uploadFailed(w, r, err)
		return
	}
	body, err := base64.StdEncoding.DecodeString(in.Base64)
	if err != nil {
		s.uploadFailed(w, r, errs.Validation("base64", "geçersiz base64 verisi"))
		return
	}
	if len(body) > MaxUploadBytes {
		s.uploadFailed(w, r, tooLarge())
		return
	}

	key := storage.NewKey(in.Filename, s.now())
	url, err := s.blobs.Put(r.Context(), key, body, in.MimeType)
	if err != nil {
		s.uploadFailed(w, r, err)
		return
	}
	m, err := s.store.Media.Create(r.Context(), content.Media{
		ObjectKey:    key,
		URL:          url,
		OriginalName: in.Filename,
		MimeType:     in.MimeType,
		Size:         int64(len(body)),
		Alt:          in.Alt,
		Caption:      in.Caption,
	})
	if err != nil {
		if derr := s.blobs.Delete(r.Context(), key); derr != nil {
			zap.L().Warn("orphaned blob", zap.String("key", key), zap.Error(derr))
		}
		s.uploadFailed(w, r, err)
		return
	}
	countMutation(content.EntityMedia, "upload", nil)
	writeJSON(w, http.StatusCreated, m)
}

func tooLarge() error {
	return errs.PayloadTooLarge(fmt.Sprintf("Dosya boyutu %dMB'dan küçük olmalıdır", MaxUploadBytes>>20))
}

func (s *Server) uploadFailed(w http.ResponseWriter, r *http.Request, err error) {
	countMutation(content.EntityMedia, "upload", err)
	if errs.Code(err) == "PAYLOAD_TOO_LARGE" {
		metrics.UploadRejections.Inc()
	}
	writeErr(w, r, err)
}

func (s *Server) deleteMedia(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	m, err := s.store.Media.Delete(r.Context(), id)
	countMutation(content.EntityMedia, "delete", err)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if err := s.blobs.Delete(r.Context(), m.ObjectKey); err != nil {
		zap.L().Warn("blob delete", zap.String("key", m.ObjectKey), zap.Error(err))
	}
	w.WriteHeader(http.StatusNoContent)
}

//
// aggregates
//

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	st, err := s.store.Stats(r.Context())
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) homepage(w http.ResponseWriter, r *http.Request) {
	hp, err := s.store.Homepage(r.Context())
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hp)
}
