package cache

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/solutions-catalog/internal/platform/logger"
)

func TestEscapeGlob(t *testing.T) {
	cases := map[string]string{
		"catalog:":         "catalog:",
		"catalog:*":        `catalog:\*`,
		"a?b[c]":           `a\?b\[c\]`,
		`back\slash`:       `back\\slash`,
		"catalog:filters:": "catalog:filters:",
	}
	for in, want := range cases {
		if got := escapeGlob(in); got != want {
			t.Fatalf("escapeGlob(%q)=%q want %q", in, got, want)
		}
	}
}

func TestNewClientRequiresAddr(t *testing.T) {
	if _, err := NewClient(context.Background(), Options{Addr: "  "}); err == nil || !strings.Contains(err.Error(), "REDIS_ADDR") {
		t.Fatalf("expected missing addr error, got %v", err)
	}
}

// TestJSONCacheRoundTrip needs a live redis; set CACHE_TEST_REDIS_ADDR to run it.
func TestJSONCacheRoundTrip(t *testing.T) {
	addr := strings.TrimSpace(os.Getenv("CACHE_TEST_REDIS_ADDR"))
	if addr == "" {
		t.Skip("CACHE_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	rdb, err := NewClient(ctx, Options{Addr: addr})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })

	c := NewJSONCache(logger.Nop(), rdb)
	prefix := "cachetest:" + time.Now().Format("150405.000000") + ":"

	type payload struct {
		Total int64 `json:"total"`
	}
	if err := c.SetJSON(ctx, prefix+"stats", payload{Total: 7}, time.Minute); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}
	var got payload
	hit, err := c.GetJSON(ctx, prefix+"stats", &got)
	if err != nil || !hit || got.Total != 7 {
		t.Fatalf("GetJSON: hit=%v err=%v got=%+v", hit, err, got)
	}

	if err := c.DeletePrefix(ctx, prefix); err != nil {
		t.Fatalf("DeletePrefix: %v", err)
	}
	hit, err = c.GetJSON(ctx, prefix+"stats", &got)
	if err != nil || hit {
		t.Fatalf("expected miss after invalidation: hit=%v err=%v", hit, err)
	}
}
