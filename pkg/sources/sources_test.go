package sources

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write sources file: %v", err)
	}
	return path
}

func TestLoadRegistryYAML(t *testing.T) {
	path := writeFile(t, "sources.yaml", `
sources:
  - id: national
    name: National dailies
    codes: [POL, bma, " pol "]
    window_hours: 48
  - id: online
    codes: [4f1]
    enabled: false
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if len(reg.All()) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(reg.All()))
	}

	national, ok := reg.ByID("national")
	if !ok {
		t.Fatalf("expected national to be loaded")
	}
	if !reflect.DeepEqual(national.Codes, []string{"bma", "pol"}) {
		t.Fatalf("codes not normalised: %v", national.Codes)
	}
	if national.Window(24*time.Hour) != 48*time.Hour {
		t.Fatalf("unexpected window %v", national.Window(24*time.Hour))
	}

	online, _ := reg.ByID("online")
	if online.Name != "online" {
		t.Fatalf("expected name to default to id, got %q", online.Name)
	}
	if online.Window(24*time.Hour) != 24*time.Hour {
		t.Fatalf("expected fallback window")
	}

	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "national" {
		t.Fatalf("expected only national enabled, got %#v", enabled)
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	path := writeFile(t, "sources.json", `{"sources":[{"id":"pol","codes":["pol"]}]}`)
	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if _, ok := reg.ByID("pol"); !ok {
		t.Fatalf("expected pol source")
	}
}

func TestLoadRegistryRejectsInvalidEntries(t *testing.T) {
	cases := map[string]string{
		"duplicate": `
sources:
  - id: a
    codes: [pol]
  - id: a
    codes: [bma]
`,
		"no codes": `
sources:
  - id: a
    codes: [" "]
`,
		"empty": `sources: []`,
	}
	for name, content := range cases {
		path := writeFile(t, "sources.yaml", content)
		if _, err := LoadRegistry(path); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
