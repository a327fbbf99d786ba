package cache

import (
	"strings"
	"testing"

	"github.com/mobimart/search-service/pkg/config"
)

// TestBuildKeyNormalization verifies case and whitespace wrinkles collapse
// to one key while word order stays significant.
func TestBuildKeyNormalization(t *testing.T) {
	c := New(nil, config.RedisConfig{})

	base := c.buildKey("galaxy s24", 10)

	same := []string{"Galaxy S24", "  galaxy   s24  ", "GALAXY\tS24"}
	for _, q := range same {
		if got := c.buildKey(q, 10); got != base {
			t.Errorf("buildKey(%q) = %s, want %s", q, got, base)
		}
	}

	different := map[string]string{
		"reordered words": c.buildKey("s24 galaxy", 10),
		"other limit":     c.buildKey("galaxy s24", 20),
		"other query":     c.buildKey("galaxy s23", 10),
	}
	for name, key := range different {
		if key == base {
			t.Errorf("%s: key collides with base", name)
		}
	}
}

// TestBuildKeyPrefix verifies every key carries the namespace prefix that
// Invalidate flushes by.
func TestBuildKeyPrefix(t *testing.T) {
	c := New(nil, config.RedisConfig{})

	for _, q := range []string{"galaxy", "", "iphone 15 pro max"} {
		if key := c.buildKey(q, 10); !strings.HasPrefix(key, keyPrefix) {
			t.Errorf("buildKey(%q) = %s, missing prefix %s", q, key, keyPrefix)
		}
	}
}
