package editor

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/yanizio/viyakaptan/internal/content"
	"github.com/yanizio/viyakaptan/internal/errs"
	"github.com/yanizio/viyakaptan/internal/message"
)

// SettingsLabels are the settings page's field labels.
var SettingsLabels = map[string]string{
	"site_title":          "Site Başlığı",
	"site_description":    "Site Açıklaması",
	"site_keywords":       "Anahtar Kelimeler",
	"logo_url":            "Logo URL",
	"favicon_url":         "Favicon URL",
	"contact_email":       "E-posta",
	"contact_phone":       "Telefon",
	"contact_address":     "Adres",
	"social_instagram":    "Instagram",
	"social_youtube":      "YouTube",
	"social_twitter":      "Twitter",
	"social_facebook":     "Facebook",
	"footer_text":         "Footer Metni",
	"footer_copyright":    "Telif Hakkı Metni",
	"google_analytics_id": "Google Analytics ID",
	"meta_author":         "Meta Author",
}

// SettingLabel is the label for key.  Keys without an entry in
// SettingsLabels read as their words title-cased: "footer_text" → "Footer Text".
func SettingLabel(key string) string {
	if l, ok := SettingsLabels[key]; ok {
		return l
	}
	return cases.Title(language.Turkish).String(strings.ReplaceAll(key, "_", " "))
}

// SettingsStore is the write side of the settings page.
type SettingsStore interface {
	BulkUpsert(ctx context.Context, entries []content.SiteSetting) error
}

// SettingsEditor keeps one draft value per known settings key.
type SettingsEditor struct {
	store SettingsStore

	mu     sync.Mutex
	saving bool
	draft  Draft
	notice message.Notice
}

// NewSettings returns an editor whose draft holds every known key, blank.
func NewSettings(store SettingsStore) *SettingsEditor {
	d := make(Draft, len(content.SettingKeys))
	for _, k := range content.SettingKeys {
		d[k] = ""
	}
	return &SettingsEditor{store: store, draft: d}
}

// Load fills the draft from stored rows.  Unknown keys are ignored.
func (s *SettingsEditor) Load(rows []content.SiteSetting) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rows {
		if content.IsKnownSetting(r.Key) {
			s.draft[r.Key] = r.Value
		}
	}
}

// Apply copies submitted known keys into the draft.
func (s *SettingsEditor) Apply(form url.Values) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range content.SettingKeys {
		if vs, ok := form[k]; ok && len(vs) > 0 {
			s.draft[k] = vs[0]
		}
	}
}

func (s *SettingsEditor) Draft() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Clone()
}

func (s *SettingsEditor) Notice() message.Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notice
}

// Tabs is the page layout.
func (s *SettingsEditor) Tabs() []content.SettingsTab { return content.SettingsTabs }

// Save upserts every known key in one call.
func (s *SettingsEditor) Save(ctx context.Context) error {
	s.mu.Lock()
	if s.saving {
		s.mu.Unlock()
		return ErrBusy
	}
	s.saving = true
	entries := make([]content.SiteSetting, 0, len(content.SettingKeys))
	for _, k := range content.SettingKeys {
		entries = append(entries, content.NewSetting(k, s.draft[k]))
	}
	s.mu.Unlock()

	err := s.store.BulkUpsert(ctx, entries)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false
	if err != nil {
		s.notice = message.Error(errs.Message(err))
		return err
	}
	s.notice = message.Success("Ayarlar başarıyla kaydedildi")
	return nil
}
