package command

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigSetAndShow(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "cli.yaml")

	res := runCLI(t, nil, cfgPath, "", "config", "set", "line_ending", "LF")
	if res.err != nil {
		t.Fatalf("config set error = %v", res.err)
	}
	if !strings.Contains(res.stdout, "✓ Set line_ending") {
		t.Errorf("stdout = %q", res.stdout)
	}

	if res := runCLI(t, nil, cfgPath, "", "config", "set", "api_token", "s3cret"); res.err != nil {
		t.Fatal(res.err)
	}

	data, err := os.ReadFile(cfgPath)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if !strings.Contains(string(data), "line_ending: LF") {
		t.Errorf("config file:\n%s", data)
	}

	res = runCLI(t, nil, cfgPath, "", "-o", "yaml", "config", "show")
	if res.err != nil {
		t.Fatalf("config show error = %v", res.err)
	}
	if !strings.Contains(res.stdout, "line_ending: LF") {
		t.Errorf("show output:\n%s", res.stdout)
	}
	if strings.Contains(res.stdout, "s3cret") || !strings.Contains(res.stdout, "***") {
		t.Errorf("token not masked:\n%s", res.stdout)
	}
}

func TestConfigSet_Invalid(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "cli.yaml")

	tests := []struct {
		name string
		args []string
	}{
		{"unknown key", []string{"config", "set", "colour", "red"}},
		{"bad value", []string{"config", "set", "output", "xml"}},
		{"missing value", []string{"config", "set", "agent"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if res := runCLI(t, nil, cfgPath, "", tt.args...); res.err == nil {
				t.Error("expected error")
			}
		})
	}
	if _, err := os.Stat(cfgPath); !os.IsNotExist(err) {
		t.Error("invalid set must not create the config file")
	}
}

func TestConfigSet_IgnoresFlagOverrides(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "cli.yaml")

	res := runCLI(t, nil, cfgPath, "", "--agent", "http://override:1", "config", "set", "prepend", ">")
	if res.err != nil {
		t.Fatal(res.err)
	}
	data, _ := os.ReadFile(cfgPath)
	if strings.Contains(string(data), "override") {
		t.Errorf("flag override leaked into file:\n%s", data)
	}
}

func TestConfigPath(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "cli.yaml")
	res := runCLI(t, nil, cfgPath, "", "config", "path")
	if res.err != nil || !strings.Contains(res.stdout, cfgPath+" (not created yet)") {
		t.Errorf("config path = %q, %v", res.stdout, res.err)
	}
}
