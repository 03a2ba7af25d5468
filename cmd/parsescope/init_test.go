package main

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/parsescope/parsescope/internal/config"
)

// TestNewInitCmd tests the init command creation.
func TestNewInitCmd(t *testing.T) {
	t.Parallel()

	cmd := NewInitCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "init" {
			t.Errorf("expected use 'init', got %q", cmd.Use)
		}
	})

	t.Run("has output flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("output")
		if flag == nil {
			t.Fatal("expected output flag")
		}
		if flag.Shorthand != "o" {
			t.Errorf("expected shorthand 'o', got %q", flag.Shorthand)
		}
		if flag.DefValue != configFileName {
			t.Errorf("expected default %q, got %q", configFileName, flag.DefValue)
		}
	})

	t.Run("has force flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("force")
		if flag == nil {
			t.Fatal("expected force flag")
		}
		if flag.Shorthand != "f" {
			t.Errorf("expected shorthand 'f', got %q", flag.Shorthand)
		}
	})
}

func runInit(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewInitCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// TestRunInitCmd tests the init command execution.
func TestRunInitCmd(t *testing.T) {
	t.Parallel()

	t.Run("creates a loadable config file", func(t *testing.T) {
		t.Parallel()
		outputPath := filepath.Join(t.TempDir(), ".parsescope")

		out, err := runInit(t, "-o", outputPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, outputPath) {
			t.Errorf("expected output to mention %q, got %q", outputPath, out)
		}

		data, err := os.ReadFile(outputPath)
		if err != nil {
			t.Fatalf("failed to read config file: %v", err)
		}
		var f config.File
		if err := yaml.Unmarshal(data, &f); err != nil {
			t.Fatalf("template is not valid YAML: %v", err)
		}
		if f.Defaults.Port != config.DefaultPort {
			t.Errorf("expected default port %d, got %d", config.DefaultPort, f.Defaults.Port)
		}
		if _, ok := f.Profiles["local"]; !ok {
			t.Error("expected a local profile")
		}

		loaded, err := config.LoadConfigFile(outputPath)
		if err != nil {
			t.Fatalf("failed to load config file: %v", err)
		}
		p, err := loaded.GetProfile("local")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Timeout != config.DefaultTimeout {
			t.Errorf("expected timeout %s, got %s", config.DefaultTimeout, p.Timeout)
		}
	})

	t.Run("writes owner-only file", func(t *testing.T) {
		t.Parallel()
		if runtime.GOOS == "windows" {
			t.Skip("file permissions differ on windows")
		}
		outputPath := filepath.Join(t.TempDir(), ".parsescope")
		if _, err := runInit(t, "-o", outputPath); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		info, err := os.Stat(outputPath)
		if err != nil {
			t.Fatal(err)
		}
		if perm := info.Mode().Perm(); perm != 0600 {
			t.Errorf("expected permissions 0600, got %o", perm)
		}
	})

	t.Run("creates parent directories", func(t *testing.T) {
		t.Parallel()
		outputPath := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")
		if _, err := runInit(t, "-o", outputPath); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := os.Stat(outputPath); err != nil {
			t.Errorf("expected config file to be created: %v", err)
		}
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		t.Parallel()
		outputPath := filepath.Join(t.TempDir(), ".parsescope")
		if err := os.WriteFile(outputPath, []byte("existing"), 0600); err != nil {
			t.Fatal(err)
		}

		_, err := runInit(t, "-o", outputPath)
		if err == nil {
			t.Fatal("expected error for existing file")
		}
		if !strings.Contains(err.Error(), "already exists") {
			t.Errorf("expected 'already exists' error, got %v", err)
		}
		data, _ := os.ReadFile(outputPath)
		if string(data) != "existing" {
			t.Errorf("expected file to be unchanged, got %q", data)
		}
	})

	t.Run("overwrites with force", func(t *testing.T) {
		t.Parallel()
		outputPath := filepath.Join(t.TempDir(), ".parsescope")
		if err := os.WriteFile(outputPath, []byte("existing"), 0600); err != nil {
			t.Fatal(err)
		}

		if _, err := runInit(t, "-o", outputPath, "-f"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		data, _ := os.ReadFile(outputPath)
		if string(data) == "existing" {
			t.Error("expected file to be overwritten")
		}
	})
}
