package metadata

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"shoebox/internal/fileutil"
)

// Extensions that name the same format. Comparison happens on the
// canonical form so IMG.jpeg is never "fixed" to IMG.jpg.
var equivalentExtensions = map[string]string{
	".jpeg": ".jpg",
	".jpe":  ".jpg",
}

var heicBrands = [][]byte{
	[]byte("heic"),
	[]byte("heix"),
	[]byte("mif1"),
	[]byte("msf1"),
}

// Sniff identifies a media format from the first bytes of a file and
// returns the matching extension. The header must hold at least 12 bytes.
func Sniff(header []byte) (string, bool) {
	if len(header) < 12 {
		return "", false
	}

	if bytes.Equal(header[0:4], []byte("RIFF")) && bytes.Equal(header[8:12], []byte("WEBP")) {
		return ".webp", true
	}
	if bytes.HasPrefix(header, []byte{0xff, 0xd8, 0xff}) {
		return ".jpg", true
	}
	if bytes.HasPrefix(header, []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}) {
		return ".png", true
	}
	if bytes.HasPrefix(header, []byte("GIF87a")) || bytes.HasPrefix(header, []byte("GIF89a")) {
		return ".gif", true
	}
	if bytes.Equal(header[4:8], []byte("ftyp")) {
		brand := header[8:12]
		for _, b := range heicBrands {
			if bytes.Equal(brand, b) {
				return ".heic", true
			}
		}
		// Any other ftyp brand is an ISO media container.
		return ".mp4", true
	}
	return "", false
}

// DetectExtension sniffs the format of the file at path. It returns false
// when the format is unrecognized or the file cannot be read.
func DetectExtension(path string) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	header := make([]byte, 16)
	n, err := f.Read(header)
	if err != nil || n < 12 {
		return "", false
	}
	return Sniff(header[:n])
}

// FixExtension renames a file whose extension contradicts its content,
// returning the (possibly new) path and whether a rename happened. Files
// with unrecognized content are left alone.
func FixExtension(path string) (string, bool, error) {
	actual, ok := DetectExtension(path)
	if !ok {
		return path, false, nil
	}

	current := strings.ToLower(filepath.Ext(path))
	if canonicalExt(current) == canonicalExt(actual) {
		return path, false, nil
	}

	target := strings.TrimSuffix(path, filepath.Ext(path)) + actual
	target, err := fileutil.UniquePath(target)
	if err != nil {
		return path, false, err
	}
	if err := os.Rename(path, target); err != nil {
		return path, false, err
	}
	return target, true, nil
}

func canonicalExt(ext string) string {
	if canonical, ok := equivalentExtensions[ext]; ok {
		return canonical
	}
	return ext
}
