package config

import "testing"

func TestRepoValueOverridesGlobal(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	docPath := t.TempDir()

	if err := SetGlobalValue(KeySyncRetryLimit, "5"); err != nil {
		t.Fatal(err)
	}
	v := GetValueDefault(docPath, KeySyncRetryLimit, "0")
	if v != "5" {
		t.Fatalf("expected global value 5, got %q", v)
	}

	if err := SetRepoValue(docPath, KeySyncRetryLimit, "9"); err != nil {
		t.Fatal(err)
	}
	v = GetValueDefault(docPath, KeySyncRetryLimit, "0")
	if v != "9" {
		t.Fatalf("expected repo value to override global, got %q", v)
	}
}

func TestGetValueDefaultFallsBackWhenUnset(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	docPath := t.TempDir()
	v := GetValueDefault(docPath, "nonexistent.key", "fallback")
	if v != "fallback" {
		t.Fatalf("expected fallback, got %q", v)
	}
}

func TestGetValueWithNoDocPathUsesGlobalOnly(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	if err := SetGlobalValue(KeyActorID, "global-actor"); err != nil {
		t.Fatal(err)
	}
	v, err := GetValue("", KeyActorID)
	if err != nil {
		t.Fatal(err)
	}
	if v != "global-actor" {
		t.Fatalf("expected %q, got %q", "global-actor", v)
	}
}
