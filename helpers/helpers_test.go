package helpers_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nedpals/hlasmls/helpers"
)

func TestGetDataDirPath_Env(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	t.Setenv(helpers.DataDirEnv, dir)

	if got := helpers.GetDataDirPath(); got != dir {
		t.Errorf("Expected %s, got %s", dir, got)
	}

	got, err := helpers.GetOrInitializeDataDir()
	if err != nil {
		t.Fatal(err)
	}

	if info, err := os.Stat(got); err != nil || !info.IsDir() {
		t.Errorf("Expected %s to be created", got)
	}
}

func TestSharedFS_ReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.asm")
	if err := os.WriteFile(path, []byte("LABEL1   EQU  1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	sfs := helpers.NewSharedFS()
	content, err := sfs.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if string(content) != "LABEL1   EQU  1\n" {
		t.Errorf("Expected file content, got %q", content)
	}

	t.Run("Cached", func(t *testing.T) {
		// the in-memory copy outlives the file on disk
		if err := os.Remove(path); err != nil {
			t.Fatal(err)
		}

		content, err := sfs.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}

		if string(content) != "LABEL1   EQU  1\n" {
			t.Errorf("Expected cached content, got %q", content)
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		if err := sfs.WriteFile(path, []byte("NEW      DSECT\n")); err != nil {
			t.Fatal(err)
		}

		content, err := sfs.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}

		if string(content) != "NEW      DSECT\n" {
			t.Errorf("Expected overwritten content, got %q", content)
		}
	})

	t.Run("Missing", func(t *testing.T) {
		if _, err := sfs.ReadFile(filepath.Join(t.TempDir(), "missing.asm")); err == nil {
			t.Errorf("Expected an error for a missing file")
		}
	})
}
