package restapi

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"
)

// Single-stop schedule views stay under compressionMinSize; vehicle lists and
// favorites with many buttons do not.
const (
	compressionMinSize = 1024
	compressionLevel   = 6
)

var gzipWrapper = newGzipWrapper(compressionMinSize, compressionLevel)

func newGzipWrapper(minSize, level int) func(http.Handler) http.Handler {
	wrapper, err := gzhttp.NewWrapper(gzhttp.MinSize(minSize), gzhttp.CompressionLevel(level))
	if err != nil {
		// Only reachable with an out-of-range level; fall back to the library defaults.
		return func(next http.Handler) http.Handler { return gzhttp.GzipHandler(next) }
	}
	return func(next http.Handler) http.Handler { return wrapper(next) }
}

// CompressionMiddleware gzips responses for clients that accept it.
func CompressionMiddleware(next http.Handler) http.Handler {
	return gzipWrapper(next)
}
