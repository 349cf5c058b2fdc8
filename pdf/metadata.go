package pdf

import (
	"path/filepath"
	"strings"
)

// Overrides holds the user-supplied metadata applied to every file of a batch.
// Empty fields leave the document's existing values untouched.
type Overrides struct {
	Title      string `json:"title,omitempty" form:"title"`
	Author     string `json:"author,omitempty" form:"author"`
	Subject    string `json:"subject,omitempty" form:"subject"`
	CreatedAt  string `json:"created,omitempty" form:"created"`
	ModifiedAt string `json:"modified,omitempty" form:"modified"`
	Password   string `json:"-" form:"password"`
}

// HasAnyOverride reports whether at least one field was supplied.
func (o Overrides) HasAnyOverride() bool {
	for _, v := range []string{o.Title, o.Author, o.Subject, o.CreatedAt, o.ModifiedAt, o.Password} {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

// NeedsRewrite reports whether the metadata pass has anything to do for a
// document: either an override was supplied or the title must fall back to
// the filename stem.
func NeedsRewrite(existing map[string]string, o Overrides) bool {
	return o.HasAnyOverride() || strings.TrimSpace(existing[KeyTitle]) == ""
}

// MergeMetadata combines the document's existing Info entries with the
// overrides. Existing keys are always carried over; only non-empty overrides
// replace them.
func MergeMetadata(existing map[string]string, o Overrides, filename string) map[string]string {
	merged := make(map[string]string, len(existing)+5)
	for k, v := range existing {
		merged[k] = v
	}

	setIfPresent(merged, KeyTitle, o.Title)
	setIfPresent(merged, KeyAuthor, o.Author)
	setIfPresent(merged, KeySubject, o.Subject)

	if strings.TrimSpace(merged[KeyTitle]) == "" {
		if stem := FilenameStem(filename); stem != "" {
			merged[KeyTitle] = stem
		}
	}

	if d, ok := NormalizeDate(o.CreatedAt); ok {
		merged[KeyCreationDate] = d
	}
	if d, ok := NormalizeDate(o.ModifiedAt); ok {
		merged[KeyModDate] = d
	}

	return merged
}

// FilenameStem strips directories and the last extension: "Report Final.pdf"
// becomes "Report Final".
func FilenameStem(filename string) string {
	base := filepath.Base(filename)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func setIfPresent(m map[string]string, key, value string) {
	if strings.TrimSpace(value) != "" {
		m[key] = value
	}
}
