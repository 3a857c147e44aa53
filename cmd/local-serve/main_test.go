package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kainlite/local-serve/internal/config"
)

func TestLoadPrecedence(t *testing.T) {
	fileDir := t.TempDir()
	envDir := t.TempDir()
	flagDir := t.TempDir()

	cfgFile := filepath.Join(t.TempDir(), "local-serve.toml")
	content := "dir = \"" + filepath.ToSlash(fileDir) + "\"\nport = 7000\nhost = \"10.0.0.1\"\n"
	if err := os.WriteFile(cfgFile, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	tests := []struct {
		name     string
		args     []string
		env      map[string]string
		wantDir  string
		wantHost string
		wantPort int
	}{
		{
			name:     "File only",
			args:     []string{"--config", cfgFile},
			wantDir:  fileDir,
			wantHost: "10.0.0.1",
			wantPort: 7000,
		},
		{
			name:     "Environment over file",
			args:     []string{"-c", cfgFile},
			env:      map[string]string{config.EnvDir: envDir, config.EnvPort: "7100"},
			wantDir:  envDir,
			wantHost: "10.0.0.1",
			wantPort: 7100,
		},
		{
			name:     "Flags over environment",
			args:     []string{"-c", cfgFile, "-d", flagDir, "-p", "7200", "--host", "127.0.0.1"},
			env:      map[string]string{config.EnvDir: envDir, config.EnvPort: "7100"},
			wantDir:  flagDir,
			wantHost: "127.0.0.1",
			wantPort: 7200,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			c := &serveCommand{}
			cmd := c.command()
			if err := cmd.Flags().Parse(tt.args); err != nil {
				t.Fatalf("parse flags: %v", err)
			}

			cfg, err := c.load(cmd)
			if err != nil {
				t.Fatalf("load() error = %v", err)
			}

			want, err := filepath.EvalSymlinks(tt.wantDir)
			if err != nil {
				t.Fatalf("EvalSymlinks: %v", err)
			}
			if cfg.Dir != want {
				t.Errorf("Dir = %q, want %q", cfg.Dir, want)
			}
			if cfg.Host != tt.wantHost {
				t.Errorf("Host = %q, want %q", cfg.Host, tt.wantHost)
			}
			if cfg.Port != tt.wantPort {
				t.Errorf("Port = %d, want %d", cfg.Port, tt.wantPort)
			}
		})
	}
}

func TestLoadRejectsMissingRoot(t *testing.T) {
	c := &serveCommand{}
	cmd := c.command()
	missing := filepath.Join(t.TempDir(), "nope")
	if err := cmd.Flags().Parse([]string{"--dir", missing}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	if _, err := c.load(cmd); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("load() error = %v, want not-exist", err)
	}
}

func TestLoadRejectsFileRoot(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	c := &serveCommand{}
	cmd := c.command()
	if err := cmd.Flags().Parse([]string{"--dir", file}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	if _, err := c.load(cmd); !errors.Is(err, config.ErrNotDirectory) {
		t.Errorf("load() error = %v, want ErrNotDirectory", err)
	}
}

func TestRootCommandFlags(t *testing.T) {
	cmd := newRootCommand()
	for _, name := range []string{"config", "dir", "host", "port"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("flag --%s not defined", name)
		}
	}
	if got := cmd.Flags().ShorthandLookup("p"); got == nil || got.Name != "port" {
		t.Errorf("-p should map to --port")
	}
	if got := cmd.Flags().ShorthandLookup("d"); got == nil || got.Name != "dir" {
		t.Errorf("-d should map to --dir")
	}
}
