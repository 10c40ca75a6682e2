package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandArgsListFile(t *testing.T) {
	dir := t.TempDir()
	list := filepath.Join(dir, "files.txt")
	content := "a.fits\n\n  b.fits  \n"
	if err := os.WriteFile(list, []byte(content), 0644); err != nil {
		t.Fatalf("write list: %v", err)
	}
	files, err := expandArgs([]string{"@" + list})
	if err != nil {
		t.Fatalf("expandArgs: %v", err)
	}
	if len(files) != 2 || files[0] != "a.fits" || files[1] != "b.fits" {
		t.Fatalf("files = %v", files)
	}
}

func TestExpandArgsWildcard(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"x.fits", "y.fits", "z.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("data"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	files, err := expandArgs([]string{filepath.Join(dir, "*.fits")})
	if err != nil {
		t.Fatalf("expandArgs: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("files = %v", files)
	}
}

func TestExpandArgsPlainName(t *testing.T) {
	files, err := expandArgs([]string{"plain.fits"})
	if err != nil {
		t.Fatalf("expandArgs: %v", err)
	}
	if len(files) != 1 || files[0] != "plain.fits" {
		t.Fatalf("files = %v", files)
	}
}

func TestExpandArgsMissingList(t *testing.T) {
	if _, err := expandArgs([]string{"@/no/such/list.txt"}); err == nil {
		t.Fatal("expected error for a missing list file")
	}
}
