package ids

import (
	mathrand "math/rand"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// New returns a lexicographically sortable identifier suitable for storage keys.
func New() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// UploadName derives a stored filename for an uploaded image:
// "<unix-ms>-<sanitized original name>". Not content-addressed, no
// deduplication; two uploads of the same file get distinct names.
func UploadName(original string) string {
	base := filepath.Base(strings.TrimSpace(original))
	if base == "." || base == string(filepath.Separator) || base == "" {
		base = "upload"
	}
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	name := b.String()
	if strings.Trim(name, "._-") == "" {
		name = "upload"
	}
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + name
}
