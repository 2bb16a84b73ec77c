package security

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCheckOutputPath(t *testing.T) {
	tmpDir := t.TempDir()

	safeDir := filepath.Join(tmpDir, "safe")
	unsafeDir := filepath.Join(tmpDir, "unsafe")
	for _, d := range []string{safeDir, unsafeDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", d, err)
		}
	}
	link := filepath.Join(safeDir, "elsewhere")
	if err := os.Symlink(unsafeDir, link); err != nil {
		t.Fatalf("Failed to create symlink: %v", err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"file in root", filepath.Join(safeDir, "atlas.html"), false},
		{"new nested file", filepath.Join(safeDir, "out", "prices.png"), false},
		{"root itself", safeDir, false},
		{"dot dot escape", filepath.Join(safeDir, "..", "unsafe", "x.json"), true},
		{"sibling directory", filepath.Join(unsafeDir, "x.json"), true},
		{"through symlink", filepath.Join(link, "x.json"), true},
		{"absolute system path", "/etc/passwd", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckOutputPath(tt.path, safeDir)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckOutputPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrOutsideRoots) {
				t.Errorf("expected ErrOutsideRoots, got %v", err)
			}
		})
	}
}

func TestCheckOutputPath_DefaultRoots(t *testing.T) {
	if err := CheckOutputPath(filepath.Join(t.TempDir(), "summary.json")); err != nil {
		t.Errorf("temp directory should be allowed: %v", err)
	}
	if err := CheckOutputPath("summary.json"); err != nil {
		t.Errorf("working directory should be allowed: %v", err)
	}
}
