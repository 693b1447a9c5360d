// internal/content/settings.go
//
// Site settings are a closed set of known keys.  Bulk upserts are checked
// against this set at the API boundary so malformed calls cannot grow the
// table.  Group, label, and type are derived from the key.

package content

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/yanizio/viyakaptan/internal/errs"
)

// SettingKeys lists every key the settings page edits, in display order.
var SettingKeys = []string{
	"site_title",
	"site_description",
	"site_keywords",
	"logo_url",
	"favicon_url",
	"contact_email",
	"contact_phone",
	"contact_address",
	"social_instagram",
	"social_youtube",
	"social_twitter",
	"social_facebook",
	"footer_text",
	"footer_copyright",
	"google_analytics_id",
	"meta_author",
}

var knownSettings = func() map[string]struct{} {
	m := make(map[string]struct{}, len(SettingKeys))
	for _, k := range SettingKeys {
		m[k] = struct{}{}
	}
	return m
}()

// IsKnownSetting reports whether key belongs to the closed set.
func IsKnownSetting(key string) bool {
	_, ok := knownSettings[key]
	return ok
}

// SettingsTab groups keys on the settings page.
type SettingsTab struct {
	ID    string
	Label string
	Keys  []string
}

// SettingsTabs is the settings page layout.
var SettingsTabs = []SettingsTab{
	{"general", "Genel", []string{"site_title", "site_description", "logo_url", "favicon_url"}},
	{"contact", "İletişim", []string{"contact_email", "contact_phone", "contact_address"}},
	{"social", "Sosyal Medya", []string{"social_instagram", "social_youtube", "social_twitter", "social_facebook"}},
	{"footer", "Footer", []string{"footer_text", "footer_copyright"}},
	{"seo", "SEO", []string{"site_keywords", "meta_author", "google_analytics_id"}},
}

// Default contact address used when contact_email is unset.
const DefaultContactEmail = "info@viyakaptan.com"

// SettingGroup is the key prefix before the first "_".
func SettingGroup(key string) string {
	g, _, _ := strings.Cut(key, "_")
	return g
}

// SettingLabel turns "contact_email" into "Contact Email".
func SettingLabel(key string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(key, "_", " "))
}

// NewSetting builds a bulk-upsert entry with derived metadata.
func NewSetting(key, value string) SiteSetting {
	return SiteSetting{
		Key:   key,
		Value: value,
		Type:  "text",
		Group: SettingGroup(key),
		Label: SettingLabel(key),
	}
}

// ValidateSettings rejects unknown or duplicate keys.
func ValidateSettings(entries []SiteSetting) error {
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if !IsKnownSetting(e.Key) {
			return errs.Validation("key", "bilinmeyen ayar anahtarı: "+e.Key)
		}
		if _, dup := seen[e.Key]; dup {
			return errs.Validation("key", "ayar anahtarı birden fazla kez gönderildi: "+e.Key)
		}
		seen[e.Key] = struct{}{}
	}
	return nil
}

// SettingsMap flattens rows into key → value, skipping empty values.
func SettingsMap(rows []SiteSetting) map[string]string {
	m := make(map[string]string, len(rows))
	for _, r := range rows {
		if r.Value != "" {
			m[r.Key] = r.Value
		}
	}
	return m
}
