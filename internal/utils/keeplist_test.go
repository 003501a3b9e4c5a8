package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadKeepList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keep.txt")
	content := "# favourites\nThe Matrix\n\n  breaking bad  \n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write keep list: %v", err)
	}

	kl, err := LoadKeepList(path)
	if err != nil {
		t.Fatalf("Failed to load keep list: %v", err)
	}
	if kl.Len() != 2 {
		t.Fatalf("Expected 2 terms, got %d", kl.Len())
	}

	if ok, term := kl.IsProtected("Breaking Bad"); !ok || term != "breaking bad" {
		t.Errorf("Expected Breaking Bad to be protected, got %v %q", ok, term)
	}
	if ok, _ := kl.IsProtected("The Matrix Reloaded"); !ok {
		t.Error("Expected substring match to be protected")
	}
	if ok, _ := kl.IsProtected("Inception"); ok {
		t.Error("Inception should not be protected")
	}
}

func TestLoadKeepListMissingFile(t *testing.T) {
	kl, err := LoadKeepList(filepath.Join(t.TempDir(), "missing.txt"))
	if err != nil {
		t.Fatalf("Missing file should not fail: %v", err)
	}
	if ok, _ := kl.IsProtected("anything"); ok {
		t.Error("Empty keep list should protect nothing")
	}
}

func TestNilKeepList(t *testing.T) {
	var kl *KeepList
	if ok, _ := kl.IsProtected("anything"); ok {
		t.Error("Nil keep list should protect nothing")
	}
}
