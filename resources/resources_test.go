package resources

import (
	"bytes"
	"testing"
)

func TestGetLocaleMessageFiles(t *testing.T) {
	files, err := GetLocaleMessageFiles()
	if err != nil {
		t.Fatalf("GetLocaleMessageFiles: %v", err)
	}
	if len(files) != len(localeFiles) {
		t.Fatalf("len = %d, want %d", len(files), len(localeFiles))
	}
	for _, f := range files {
		if !bytes.Contains(f.Content, []byte("panel_status_ready")) {
			t.Errorf("%s is missing panel_status_ready", f.Name)
		}
	}
}
