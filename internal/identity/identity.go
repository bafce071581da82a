// Package identity derives canonical identity keys from media filenames so
// copies of the same asset imported from different sources collapse to one
// key regardless of attribution suffixes, edit markers, and extension damage.
package identity

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Key identifies a logical media asset. It is a pure function of the
// filename: directory, attribution decorations, and edit suffixes never
// influence it. Edited variants keep a distinct key so an edit and its
// original coexist in the archive.
type Key struct {
	Base   string
	Ext    string
	Edited bool
}

// String renders the key for logs and review reasons.
func (k Key) String() string {
	s := k.Base + k.Ext
	if k.Edited {
		s += " (edited)"
	}
	return s
}

// Identity is the full normalization result for one filename.
type Identity struct {
	Key Key
	// Attribution is the contributor token stripped from the filename,
	// empty when the name carried none.
	Attribution string
}

// attributionPattern matches a trailing contributor token such as
// "IMG_1234_Clif": a single capitalized word after the final underscore.
var attributionPattern = regexp.MustCompile(`^(.+)_([A-Z][a-z]+)$`)

var editedSuffixes = []string{"-edited", "_edited", " (edited)", " edited"}

// truncatedExtensions maps extension artifacts left by filename length
// limits (and the .jpeg/.jpg split) to their canonical form.
var truncatedExtensions = map[string]string{
	".mp":   ".mp4",
	".mo":   ".mov",
	".jp":   ".jpg",
	".jpe":  ".jpg",
	".jpeg": ".jpg",
	".pn":   ".png",
	".hei":  ".heic",
}

// Normalize derives the canonical identity for a filename. extraTokens lists
// configured contributor names recognized in addition to the capitalized-word
// heuristic. Normalize is total and idempotent.
func Normalize(filename string, extraTokens []string) Identity {
	name := filepath.Base(filename)

	ext := strings.ToLower(filepath.Ext(name))
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if canonical, ok := truncatedExtensions[ext]; ok {
		ext = canonical
	}

	id := Identity{}

	// Strip decorations until a fixpoint so re-normalizing a canonical
	// name never changes it.
	for {
		stripped, edited := stripEditedSuffix(base)
		if edited {
			base = stripped
			id.Key.Edited = true
			continue
		}
		stripped, token := stripAttribution(base, extraTokens)
		if token != "" {
			base = stripped
			if id.Attribution == "" {
				id.Attribution = token
			}
			continue
		}
		break
	}

	id.Key.Base = base
	id.Key.Ext = ext
	return id
}

func stripEditedSuffix(base string) (string, bool) {
	lower := strings.ToLower(base)
	for _, suffix := range editedSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return strings.TrimSpace(base[:len(base)-len(suffix)]), true
		}
	}
	return base, false
}

func stripAttribution(base string, extraTokens []string) (string, string) {
	for _, token := range extraTokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if strings.HasSuffix(base, "_"+token) && len(base) > len(token)+1 {
			return base[:len(base)-len(token)-1], token
		}
	}
	if match := attributionPattern.FindStringSubmatch(base); match != nil {
		return match[1], match[2]
	}
	return base, ""
}
