// internal/content/lists.go
//
// Ordered string lists and the social-links mapping.
//
// Both persist as JSON columns.  Lists are edited through a single text
// area (comma-joined for locations, newline-joined for highlights, tips, and
// gallery) and re-split on submit; SplitList(JoinList(xs, sep), sep)
// returns xs minus blank entries, in order.

package content

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// List separators used by the admin text areas.
const (
	SepComma   = ","
	SepNewline = "\n"
)

// StringList is an ordered sequence stored as a JSON array.
type StringList []string

// Value implements driver.Valuer.  nil is stored as [].
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	return string(b), err
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	raw, err := jsonBytes(src)
	if err != nil || raw == nil {
		*l = nil
		return err
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("scan string list: %w", err)
	}
	*l = out
	return nil
}

// SplitList parses a joined text representation.  Every part is trimmed and
// empty parts are dropped.  "\r\n" is accepted for the newline separator.
func SplitList(text, sep string) StringList {
	if sep == SepNewline {
		text = strings.ReplaceAll(text, "\r\n", "\n")
	}
	var out StringList
	for _, part := range strings.Split(text, sep) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinList renders xs for a text area.  Comma lists use ", " for
// readability; SplitList trims the space back off.
func JoinList(xs []string, sep string) string {
	if sep == SepComma {
		return strings.Join(xs, ", ")
	}
	return strings.Join(xs, sep)
}

//
// Social links
//

// SocialPlatforms are the four inputs on the team form, in display order.
var SocialPlatforms = []string{"instagram", "twitter", "youtube", "linkedin"}

// SocialLinks maps platform → URL.  Keys are not restricted to
// SocialPlatforms; rows created elsewhere may carry others.
type SocialLinks map[string]string

// BuildSocialLinks keeps only non-blank inputs.  All-blank input yields an
// empty, non-nil map.
func BuildSocialLinks(inputs map[string]string) SocialLinks {
	out := SocialLinks{}
	for k, v := range inputs {
		if v = strings.TrimSpace(v); v != "" {
			out[k] = v
		}
	}
	return out
}

func (s SocialLinks) Value() (driver.Value, error) {
	b, err := json.Marshal(BuildSocialLinks(s))
	return string(b), err
}

func (s *SocialLinks) Scan(src any) error {
	raw, err := jsonBytes(src)
	if err != nil {
		return err
	}
	out := SocialLinks{}
	if raw != nil {
		if err := json.Unmarshal(raw, &out); err != nil {
			return fmt.Errorf("scan social links: %w", err)
		}
	}
	*s = out
	return nil
}

func jsonBytes(src any) ([]byte, error) {
	switch v := src.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported JSON column type %T", src)
	}
}
