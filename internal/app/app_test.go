package app

import (
	"strings"
	"testing"
	"time"

	"github.com/starlet/starlet/internal/config"
)

func TestStoreConfig_Local(t *testing.T) {
	rc := StoreConfig(config.SearchConfig{
		Addrs:     []string{"localhost:6379"},
		Username:  "starlet",
		Password:  "pw",
		TimeoutMs: 1500,
	})

	if rc.TLS {
		t.Error("local store must not use TLS")
	}
	if rc.Username != "" {
		t.Errorf("username: got %q, want empty", rc.Username)
	}
	if rc.Password != "pw" {
		t.Errorf("password: got %q, want pw", rc.Password)
	}
	if rc.Timeout != 1500*time.Millisecond {
		t.Errorf("timeout: got %v, want 1.5s", rc.Timeout)
	}
}

func TestStoreConfig_Deployed(t *testing.T) {
	rc := StoreConfig(config.SearchConfig{
		Addrs:    []string{"search.internal:6380"},
		Username: "starlet",
		Password: "pw",
		Deployed: true,
	})

	if !rc.TLS {
		t.Error("deployed store must use TLS")
	}
	if rc.Username != "starlet" || rc.Password != "pw" {
		t.Errorf("credentials: got %q/%q", rc.Username, rc.Password)
	}
	if len(rc.Addrs) != 1 || rc.Addrs[0] != "search.internal:6380" {
		t.Errorf("addrs: got %v", rc.Addrs)
	}
}

func TestNewIndexStore_UnknownDriver(t *testing.T) {
	_, err := NewIndexStore(config.SearchConfig{Driver: "memcached", Addrs: []string{"localhost:11211"}})
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
	if !strings.Contains(err.Error(), "memcached") {
		t.Errorf("error should name the driver: %v", err)
	}
}

func TestNewIndexStore_NoAddrs(t *testing.T) {
	for _, driver := range []string{config.DriverRedis, config.DriverValkey} {
		if _, err := NewIndexStore(config.SearchConfig{Driver: driver}); err == nil {
			t.Errorf("%s: expected error without addrs", driver)
		}
	}
}
