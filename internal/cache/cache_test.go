package cache

import (
	"testing"
	"time"
)

func TestMemory_RoundTrip(t *testing.T) {
	c := NewMemory(time.Minute, time.Minute)
	key := Key("https://example.com/list")

	if _, ok := c.Get(key); ok {
		t.Fatal("Expected miss on empty cache")
	}
	if err := c.Set(key, []byte("payload"), 0); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	v, ok := c.Get(key)
	if !ok || string(v) != "payload" {
		t.Errorf("Expected hit with payload, got %q ok=%v", v, ok)
	}
	if err := c.Delete(key); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, ok := c.Get(key); ok {
		t.Error("Expected miss after delete")
	}
}

func TestDisk_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	key := Key("https://example.com/list")

	d := NewDisk(dir, time.Minute)
	if err := d.Set(key, []byte("payload"), 0); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	reopened := NewDisk(dir, time.Minute)
	v, ok := reopened.Get(key)
	if !ok || string(v) != "payload" {
		t.Errorf("Expected persisted entry, got %q ok=%v", v, ok)
	}
}

func TestDisk_ExpiredEntryMisses(t *testing.T) {
	d := NewDisk(t.TempDir(), time.Millisecond)
	key := Key("https://example.com/list")
	if err := d.Set(key, []byte("payload"), time.Millisecond); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, ok := d.Get(key); ok {
		t.Error("Expected expired entry to miss")
	}
}

func TestLayered_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	key := Key("https://example.com/list")

	// Seed the disk layer only, as if from a previous process.
	if err := NewDisk(dir, time.Minute).Set(key, []byte("payload"), 0); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	l := NewLayered(time.Minute, dir, time.Minute)
	v, ok := l.Get(key)
	if !ok || string(v) != "payload" {
		t.Fatalf("Expected disk hit through the layered cache, got ok=%v", ok)
	}
	if _, ok := l.memory.Get(key); !ok {
		t.Error("Expected disk hit promoted into memory")
	}
}

func TestKey_StableAndDistinct(t *testing.T) {
	a := Key("https://example.com/a")
	if a != Key("https://example.com/a") {
		t.Error("Expected stable keys for equal URLs")
	}
	if a == Key("https://example.com/b") {
		t.Error("Expected distinct keys for distinct URLs")
	}
}
