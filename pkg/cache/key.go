package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// Hash returns the hex SHA-256 of data. A report is cached under the Hash of
// the edge list bytes it was computed from.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// reportKey formats "report:<source hash>:top=<n>". Options are spelled out
// rather than hashed so keys stay readable in redis-cli.
func reportKey(sourceHash string, opts ReportKeyOpts) string {
	var b strings.Builder
	b.Grow(len("report::top=") + len(sourceHash) + 4)
	b.WriteString("report:")
	b.WriteString(sourceHash)
	b.WriteString(":top=")
	b.WriteString(strconv.Itoa(opts.Top))
	return b.String()
}
