// internal/web/admin.go
//
// Admin screens outside the generic CRUD pages: the gate, the dashboard,
// site settings and the media library.
//
// Notes
// -----
// • Media uploads arrive as multipart forms.  The body is capped with
//   http.MaxBytesReader and parsed before acquire, which then finds the
//   CSRF token in r.PostForm.
// • Every write ends in a redirect carrying a flash notice, except a failed
//   settings save which re-renders the posted draft.

package web

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/viyakaptan/internal/acl"
	"github.com/yanizio/viyakaptan/internal/apiclient"
	"github.com/yanizio/viyakaptan/internal/auth"
	"github.com/yanizio/viyakaptan/internal/content"
	"github.com/yanizio/viyakaptan/internal/editor"
	"github.com/yanizio/viyakaptan/internal/errs"
	"github.com/yanizio/viyakaptan/internal/message"
	"github.com/yanizio/viyakaptan/internal/metrics"
	"github.com/yanizio/viyakaptan/internal/view"
)

// multipartSlack is the allowance for multipart framing and the small
// text fields on top of the file itself.
const multipartSlack = 1 << 20

// textAreaSettings render as a textarea on the settings page.
var textAreaSettings = map[string]bool{
	"site_description": true,
	"contact_address":  true,
	"footer_text":      true,
}

func atoi(s string) (int, error) { return strconv.Atoi(s) }

/*──────────────────────────── gate & dashboard ─────────────────────────────*/

type gateData struct {
	State    string
	LoginURL string
}

// gateScreen answers every non-admin state of /admin.
func (h *Handler) gateScreen(w http.ResponseWriter, r *http.Request, st acl.State) {
	f := h.frame(w, r)
	f.Head.Page("Admin Paneli")
	f.Data = gateData{State: st.String(), LoginURL: auth.LoginURL(h.authCfg, origin(r))}
	h.views.Render(w, st.Status(), view.Admin, "gate", f)
}

type dashboardData struct {
	Stats   content.Stats
	Error   string
	Version string
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.q.Stats(r.Context())
	data := dashboardData{Stats: stats, Version: Version}
	if err != nil {
		data.Error = errs.Message(err)
	}
	f := h.adminFrame(w, r, "Dashboard")
	f.Data = data
	h.views.Render(w, http.StatusOK, view.Admin, "dashboard", f)
}

/*──────────────────────────── settings ─────────────────────────────────────*/

type settingsTab struct {
	ID     string
	Label  string
	Fields []fieldView
}

type settingsData struct {
	Tabs      []settingsTab
	LoadError string
}

func (h *Handler) settingsPage(w http.ResponseWriter, r *http.Request) {
	se := editor.NewSettings(h.q.Settings)
	rows, err := h.q.Settings.List(r.Context(), content.Filter{})
	se.Load(rows)
	h.renderSettings(w, r, http.StatusOK, se, err)
}

func (h *Handler) saveSettings(w http.ResponseWriter, r *http.Request) {
	release, ok := h.acquire(w, r)
	if !ok {
		return
	}
	defer release()

	ctx := r.Context()
	se := editor.NewSettings(h.q.Settings)
	rows, loadErr := h.q.Settings.List(ctx, content.Filter{})
	se.Load(rows)
	se.Apply(r.PostForm)

	if err := se.Save(ctx); err != nil {
		zap.L().Warn("settings save", zap.Error(err))
		h.renderSettings(w, r, errs.Status(err), se, loadErr)
		return
	}
	message.Flash(w, se.Notice())
	http.Redirect(w, r, adminPrefix+"/settings", http.StatusSeeOther)
}

func (h *Handler) renderSettings(w http.ResponseWriter, r *http.Request, status int, se *editor.SettingsEditor, loadErr error) {
	f := h.adminFrame(w, r, "Site Ayarları")
	if n := se.Notice(); !n.IsZero() {
		f.Notice = n
	}
	d := se.Draft()
	data := settingsData{}
	if loadErr != nil {
		data.LoadError = errs.Message(loadErr)
	}
	for _, tab := range se.Tabs() {
		st := settingsTab{ID: tab.ID, Label: tab.Label}
		for _, key := range tab.Keys {
			fld := editor.Field{Name: key, Label: editor.SettingLabel(key), Kind: editor.Text}
			if textAreaSettings[key] {
				fld.Kind = editor.TextArea
				fld.Wide = true
			}
			st.Fields = append(st.Fields, fieldView{Field: fld, Value: d[key]})
		}
		data.Tabs = append(data.Tabs, st)
	}
	f.Data = data
	h.views.Render(w, status, view.Admin, "settings", f)
}

/*──────────────────────────── media ────────────────────────────────────────*/

type mediaData struct {
	MaxBytes  int
	Items     []content.Media
	LoadError string
}

func (h *Handler) mediaPage(w http.ResponseWriter, r *http.Request) {
	items, err := h.q.Media.List(r.Context(), content.Filter{})
	data := mediaData{MaxBytes: apiclient.MaxUploadBytes, Items: items}
	if err != nil {
		data.LoadError = errs.Message(err)
	}
	f := h.adminFrame(w, r, "Medya Kütüphanesi")
	f.Data = data
	h.views.Render(w, http.StatusOK, view.Admin, "media", f)
}

func (h *Handler) uploadMedia(w http.ResponseWriter, r *http.Request) {
	back := adminPrefix + "/media"
	r.Body = http.MaxBytesReader(w, r.Body, apiclient.MaxUploadBytes+multipartSlack)
	if err := r.ParseMultipartForm(multipartSlack); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			metrics.UploadRejections.Inc()
			message.Flash(w, message.Error(editor.TooLargeMessage))
			http.Redirect(w, r, back, http.StatusSeeOther)
			return
		}
		http.Error(w, "geçersiz form", http.StatusBadRequest)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	release, ok := h.acquire(w, r)
	if !ok {
		return
	}
	defer release()

	file, hdr, err := r.FormFile("file")
	if err != nil {
		message.Flash(w, message.Error("Dosya seçilmedi"))
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "dosya okunamadı", http.StatusBadRequest)
		return
	}

	up := editor.NewUploader(h.q.Media)
	_, err = up.Upload(r.Context(), apiclient.Upload{
		Filename: hdr.Filename,
		MimeType: hdr.Header.Get("Content-Type"),
		Data:     data,
		Alt:      r.PostFormValue("alt"),
		Caption:  r.PostFormValue("caption"),
	})
	if errors.Is(err, errs.ErrPayloadTooLarge) {
		metrics.UploadRejections.Inc()
	}
	message.Flash(w, up.Notice())
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func (h *Handler) confirmMediaDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	subject := "#" + id
	if items, err := h.q.Media.List(r.Context(), content.Filter{}); err == nil {
		for _, m := range items {
			if strconv.FormatInt(m.ID, 10) == id {
				subject = m.OriginalName
				break
			}
		}
	}
	f := h.adminFrame(w, r, "Medya Kütüphanesi")
	f.Data = confirmData{
		Prompt:  editor.MediaConfirm,
		Subject: subject,
		Action:  adminPrefix + "/media/" + id + "/delete",
		Back:    adminPrefix + "/media",
	}
	h.views.Render(w, http.StatusOK, view.Admin, "confirm", f)
}

func (h *Handler) deleteMedia(w http.ResponseWriter, r *http.Request) {
	back := adminPrefix + "/media"
	release, ok := h.acquire(w, r)
	if !ok {
		return
	}
	defer release()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.notFound(w, r)
		return
	}
	up := editor.NewUploader(h.q.Media)
	err = up.Delete(r.Context(), id, func(string) bool { return r.PostForm.Get("confirm") == "yes" })
	if errors.Is(err, editor.ErrNotConfirmed) {
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	message.Flash(w, up.Notice())
	http.Redirect(w, r, back, http.StatusSeeOther)
}
