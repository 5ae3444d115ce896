package cache

import (
	"strings"
	"testing"
)

func TestSerializeKey_NoSegments(t *testing.T) {
	s := NewDefaultKeySerializer()

	key := s.SerializeKey("orders")
	if key != "orders" {
		t.Errorf("expected bare namespace, got %q", key)
	}
}

func TestSerializeKey_Deterministic(t *testing.T) {
	s := NewDefaultKeySerializer()

	key1 := s.SerializeKey("orders", "brand-1", "user-1", 0, 25)
	key2 := s.SerializeKey("orders", "brand-1", "user-1", 0, 25)

	if key1 != key2 {
		t.Errorf("same inputs produced different keys: %q vs %q", key1, key2)
	}
	if !strings.HasPrefix(key1, "orders"+KeySeparator) {
		t.Errorf("key should start with namespace prefix, got %q", key1)
	}
}

func TestSerializeKey_DifferentInputsDiffer(t *testing.T) {
	s := NewDefaultKeySerializer()

	key1 := s.SerializeKey("orders", "brand-1", 0)
	key2 := s.SerializeKey("orders", "brand-1", 1)
	key3 := s.SerializeKey("orders", "brand-2", 0)

	if key1 == key2 {
		t.Errorf("different pages produced same key: %q", key1)
	}
	if key1 == key3 {
		t.Errorf("different brands produced same key: %q", key1)
	}
}

func TestSerializeKey_MapOrderIndependent(t *testing.T) {
	s := NewDefaultKeySerializer()

	// Maps have random iteration order; the serializer must sort pairs so
	// logically equal maps always hash to the same key.
	for i := 0; i < 20; i++ {
		m1 := map[string]string{"status": "shipped", "customer_id": "c1", "payment": "paid"}
		m2 := map[string]string{"payment": "paid", "customer_id": "c1", "status": "shipped"}

		key1 := s.SerializeKey("orders", m1)
		key2 := s.SerializeKey("orders", m2)
		if key1 != key2 {
			t.Fatalf("equal maps produced different keys: %q vs %q", key1, key2)
		}
	}
}

func TestSerializeKey_NilAndPointers(t *testing.T) {
	s := NewDefaultKeySerializer()

	if key := s.SerializeKey("ns", nil); key != "ns"+KeySeparator+"nil" {
		t.Errorf("nil segment: got %q", key)
	}

	value := "hello"
	ptrKey := s.SerializeKey("ns", &value)
	valKey := s.SerializeKey("ns", value)
	if ptrKey != valKey {
		t.Errorf("pointer should serialize like its element: %q vs %q", ptrKey, valKey)
	}

	var nilPtr *string
	if key := s.SerializeKey("ns", nilPtr); key != "ns"+KeySeparator+"nil" {
		t.Errorf("nil pointer segment: got %q", key)
	}
}

func TestSerializeKey_Structs(t *testing.T) {
	s := NewDefaultKeySerializer()

	type scope struct {
		BrandID string
		UserID  string
	}

	key1 := s.SerializeKey("orders", scope{BrandID: "b1", UserID: "u1"})
	key2 := s.SerializeKey("orders", scope{BrandID: "b1", UserID: "u1"})
	key3 := s.SerializeKey("orders", scope{BrandID: "b2", UserID: "u1"})

	if key1 != key2 {
		t.Errorf("equal structs produced different keys: %q vs %q", key1, key2)
	}
	if key1 == key3 {
		t.Errorf("different structs produced same key: %q", key1)
	}
	if !strings.Contains(key1, "BrandID:b1") {
		t.Errorf("struct fields should appear by name, got %q", key1)
	}
}

func TestSerializeKey_LongSegmentsDigested(t *testing.T) {
	s := NewDefaultKeySerializer()

	long := strings.Repeat("a", 500)
	key := s.SerializeKey("orders", long)

	if !strings.HasPrefix(key, "orders"+KeySeparator) {
		t.Fatalf("digesting must not touch the namespace prefix, got %q", key)
	}
	segment := strings.TrimPrefix(key, "orders"+KeySeparator)
	if len(segment) > maxSegmentLength {
		t.Errorf("long segment was not digested: %d chars", len(segment))
	}
	if !strings.HasPrefix(segment, "x") {
		t.Errorf("digest segment should be marked, got %q", segment)
	}

	// Same long input must digest to the same key.
	if again := s.SerializeKey("orders", long); again != key {
		t.Errorf("digest is not deterministic: %q vs %q", again, key)
	}

	// Different long inputs must digest differently.
	other := strings.Repeat("b", 500)
	if s.SerializeKey("orders", other) == key {
		t.Error("different long segments digested to the same key")
	}
}

func TestSerializeKey_Slices(t *testing.T) {
	s := NewDefaultKeySerializer()

	key1 := s.SerializeKey("ns", []string{"a", "b"})
	key2 := s.SerializeKey("ns", []string{"b", "a"})
	if key1 == key2 {
		t.Error("slice order should be significant")
	}

	var nilSlice []string
	if key := s.SerializeKey("ns", nilSlice); !strings.Contains(key, "slice:nil") {
		t.Errorf("nil slice segment: got %q", key)
	}
}
