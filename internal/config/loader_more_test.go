package config

import (
	"testing"
)

func TestLoad_MalformedFiles(t *testing.T) {
	cases := []struct {
		name, file, body string
	}{
		{"yaml", "bad.yaml", "addr: :8080\n: broken\n"},
		{"json", "bad.json", `{ "addr": ":8080", "cache_dir": }`},
		{"toml", "bad.toml", "addr=:8080\ncache_dir\n"},
		{"yaml type mismatch", "types.yml", "max_queue_depth: lots\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := writeTempFile(t, t.TempDir(), tc.file, tc.body)
			if _, err := Load(p); err == nil {
				t.Fatalf("expected unmarshal error for %s", tc.file)
			}
		})
	}
}

func TestLoad_NonexistentFile(t *testing.T) {
	if _, err := Load("/definitely/not/a/real/synapd-12345.yaml"); err == nil {
		t.Fatalf("expected error for nonexistent file")
	}
}
