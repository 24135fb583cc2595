package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := Connect(context.Background(), "redis://"+mr.Addr()+"/0")
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer c.Close()

	if err := c.Set(context.Background(), "k", "v", 0).Err(); err != nil {
		t.Errorf("Set: %v", err)
	}
}

func TestConnect_BadURL(t *testing.T) {
	if _, err := Connect(context.Background(), "not a url"); err == nil {
		t.Error("expected error for malformed URL")
	}
}
