// internal/cache/keys.go
package cache

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

const keyNamespace = "catalog:"

// Listing-shaped key prefixes, one per cached listing operation. Bulk
// invalidation walks these; product detail keys are evicted individually.
const (
	PrefixProductsIndex    = keyNamespace + "products:index:"
	PrefixProductsRegion   = keyNamespace + "products:region:"
	PrefixProductsCheapest = keyNamespace + "products:cheapest:"
)

// ListingPrefixes returns every prefix under which listing results are cached.
func ListingPrefixes() []string {
	return []string{PrefixProductsIndex, PrefixProductsRegion, PrefixProductsCheapest}
}

// ProductDetailKey is the cache key for a single product detail read.
func ProductDetailKey(id uint) string {
	return fmt.Sprintf("%sproduct:detail:%d", keyNamespace, id)
}

// Key builds a deterministic cache key from an operation prefix and its
// effective parameters. Parameters are serialized in sorted name order before
// hashing, so two calls with the same parameter set always hit the same key
// no matter how the map was assembled.
func Key(prefix string, params map[string]any) string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "%s=%v;", name, params[name])
	}

	sum := md5.Sum([]byte(b.String()))
	return prefix + hex.EncodeToString(sum[:])
}
