package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"sort"
	"strings"
)

// PackageID derives the binary package identifier from the host settings
// and the effective options. Equal inputs always give the same id.
func PackageID(settings, options map[string]string) string {
	var b strings.Builder
	writeSection(&b, "settings", settings)
	writeSection(&b, "options", options)

	sum := sha1.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func writeSection(b *strings.Builder, name string, values map[string]string) {
	b.WriteString("[" + name + "]\n")

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		b.WriteString(k + "=" + values[k] + "\n")
	}
}
