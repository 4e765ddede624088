package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ncobase/queryindex/logging/logger"
	"github.com/ncobase/queryindex/model"
	"github.com/sirupsen/logrus"
)

const testConfig = `
app_name: queryindex
run_mode: test
data:
  search:
    default_engine: memory
    bulk_size: 1
`

func writeConfig(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(testConfig), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return p
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

func scopeArgs() []string {
	app := model.NewId("application")
	owner := model.NewId("organization")
	return []string{"--app", app.String(), "--owner", owner.String(), "--name", "users"}
}

func TestInitTypeCommand(t *testing.T) {
	conf := writeConfig(t)

	out, err := run(t, "", append([]string{"--conf", conf, "init-type"}, scopeArgs()...)...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "registered type") || !strings.Contains(out, "^users in index ") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestIndexCommand(t *testing.T) {
	conf := writeConfig(t)
	input := `{"id":{"type":"user"},"fields":{"name":"Ada","age":36}}
{"id":{"type":"user"},"fields":{"name":"Grace","tags":["navy","cobol"]}}
`

	args := append([]string{"--conf", conf, "index", "--refresh"}, scopeArgs()...)
	out, err := run(t, input, args...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "indexed 2 entities into ") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestIndexCommandInvalidInput(t *testing.T) {
	conf := writeConfig(t)

	args := append([]string{"--conf", conf, "index"}, scopeArgs()...)
	_, err := run(t, "not json\n", args...)
	if err == nil || !strings.Contains(err.Error(), "line 1") {
		t.Errorf("expected line 1 error, got %v", err)
	}
}

func TestIndexCommandInvalidScope(t *testing.T) {
	conf := writeConfig(t)

	_, err := run(t, "", "--conf", conf, "index", "--app", "nope", "--owner", "nope", "--name", "users")
	if err == nil || !strings.Contains(err.Error(), "--app") {
		t.Errorf("expected --app error, got %v", err)
	}
}

func TestIndexCommandMissingConfig(t *testing.T) {
	args := append([]string{"--conf", filepath.Join(t.TempDir(), "missing.yaml"), "index"}, scopeArgs()...)
	if _, err := run(t, "", args...); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestDeindexCommand(t *testing.T) {
	conf := writeConfig(t)
	id := model.NewId("user")
	version := model.NewVersion()

	args := append([]string{"--conf", conf, "deindex", "--id", id.String(), "--version", version.String()}, scopeArgs()...)
	out, err := run(t, "", args...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "deindexed "+id.String()) {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestDeindexCommandInvalidId(t *testing.T) {
	conf := writeConfig(t)

	args := append([]string{"--conf", conf, "deindex", "--id", "user", "--version", model.NewVersion().String()}, scopeArgs()...)
	if _, err := run(t, "", args...); err == nil || !strings.Contains(err.Error(), "--id") {
		t.Errorf("expected --id error, got %v", err)
	}
}

func TestHealthCommand(t *testing.T) {
	conf := writeConfig(t)

	out, err := run(t, "", "--conf", conf, "health")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "memory: ok") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "", "version", "--json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `"goVersion"`) {
		t.Errorf("expected JSON version info, got %q", out)
	}
}

func TestFollowLogLevel(t *testing.T) {
	p := writeConfig(t)
	withLevel := func(level string) []byte {
		return []byte(testConfig + "logger:\n  level: " + level + "\n")
	}
	if err := os.WriteFile(p, withLevel("info"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	e, err := newEnv(ctx, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() {
		e.close(ctx)
		logger.StdLogger().SetLevel(logrus.InfoLevel)
	})
	if logger.StdLogger().IsDebug() {
		t.Fatal("expected info level before the edit")
	}

	e.followLogLevel(ctx)
	if err := os.WriteFile(p, withLevel("debug"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for !logger.StdLogger().IsDebug() {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for the debug level")
		}
		time.Sleep(20 * time.Millisecond)
	}
}
