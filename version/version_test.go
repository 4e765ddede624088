package version

import (
	"encoding/json"
	"runtime"
	"strings"
	"testing"
)

func TestGetVersionInfoUsesLinkerValues(t *testing.T) {
	prev := Version
	Version = "v1.2.3"
	t.Cleanup(func() { Version = prev })

	info := GetVersionInfo()
	if info.Version != "v1.2.3" {
		t.Errorf("expected v1.2.3, got %q", info.Version)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("expected %q, got %q", runtime.Version(), info.GoVersion)
	}
	if !strings.HasPrefix(info.String(), "v1.2.3 (") {
		t.Errorf("unexpected summary %q", info.String())
	}
}

func TestInfoJSON(t *testing.T) {
	out, err := Info{Version: "v1", Branch: "main"}.JSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var m map[string]string
	if err := json.Unmarshal([]byte(out), &m); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if m["version"] != "v1" || m["branch"] != "main" {
		t.Errorf("unexpected JSON %v", m)
	}
}

func TestShortRevision(t *testing.T) {
	if got := shortRevision("0123456789abcdef"); got != "0123456" {
		t.Errorf("expected short hash, got %q", got)
	}
	if got := shortRevision("abc"); got != "abc" {
		t.Errorf("expected unchanged, got %q", got)
	}
}
