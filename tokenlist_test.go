package trustlist

import (
	"os"
	"path/filepath"
	"testing"
)

func writeList(t *testing.T, body string) *CuratedList {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tokens.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	return NewCuratedList(path)
}

func TestCuratedListLoad(t *testing.T) {
	l := writeList(t, `{
		"schema": 1,
		"chains": {
			"`+ethChain+`": {
				"`+daiAsset+`": {"symbol": "DAI", "name": "Dai"}
			}
		}
	}`)

	if err := l.Load(); err != nil {
		t.Fatal(err)
	}

	if l.Size() != 1 {
		t.Fatalf("expected 1 token, got %d", l.Size())
	}

	if !l.IsKnown(NewAssetKey(ethChain, daiAsset)) {
		t.Fatal("curated asset not found")
	}

	if l.IsKnown(NewAssetKey(ethChain, bananaHex)) {
		t.Fatal("unknown asset reported as curated")
	}
}

func TestCuratedListMissingFile(t *testing.T) {
	l := NewCuratedList(filepath.Join(t.TempDir(), "absent.json"))

	if err := l.Load(); err == nil {
		t.Fatal("expected load error")
	}

	// a failed reload keeps the previous membership usable
	if l.IsKnown(NewAssetKey(ethChain, daiAsset)) {
		t.Fatal("empty list should know nothing")
	}
}

func TestCuratedListBadJSON(t *testing.T) {
	l := writeList(t, `{"chains": [`)

	if err := l.Load(); err == nil {
		t.Fatal("expected unmarshal error")
	}
}
