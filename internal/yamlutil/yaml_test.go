package yamlutil_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-blogmark/internal/yamlutil"
)

type icon struct {
	Src string `yaml:"src"`
	Alt string `yaml:"alt"`
}

type testConfig struct {
	Name   string          `yaml:"name"`
	Depth  int             `yaml:"depth"`
	Langs  []string        `yaml:"langs"`
	Icons  map[string]icon `yaml:"icons"`
	Strict bool            `yaml:"strict"`
}

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
		check   func(t *testing.T, cfg *testConfig)
	}{
		{
			name: "valid YAML",
			data: []byte("name: blog\ndepth: 3\nlangs: [go, sh]\n"),
			dest: &testConfig{},
			check: func(t *testing.T, cfg *testConfig) {
				if cfg.Name != "blog" || cfg.Depth != 3 || len(cfg.Langs) != 2 {
					t.Errorf("decoded = %+v", cfg)
				}
			},
		},
		{
			name: "nested map",
			data: []byte("icons:\n  github.com:\n    src: /g.svg\n    alt: GitHub\n"),
			dest: &testConfig{},
			check: func(t *testing.T, cfg *testConfig) {
				if cfg.Icons["github.com"].Alt != "GitHub" {
					t.Errorf("Icons = %+v", cfg.Icons)
				}
			},
		},
		{name: "nil data", data: nil, dest: &testConfig{}, wantErr: yamlutil.ErrNilData},
		{name: "nil destination", data: []byte("name: x"), dest: nil, wantErr: yamlutil.ErrNilDestination},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.UnmarshalStrict(tt.data, tt.dest)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("UnmarshalStrict() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("UnmarshalStrict() error = %v", err)
			}
			tt.check(t, tt.dest.(*testConfig))
		})
	}
}

func TestUnmarshalStrict_UnknownField(t *testing.T) {
	t.Parallel()

	err := yamlutil.UnmarshalStrict([]byte("name: x\nnmae: y\n"), &testConfig{})
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
	if !strings.HasPrefix(err.Error(), "yamlutil:") {
		t.Errorf("error = %q, want prefix 'yamlutil:'", err)
	}
	if desc := yamlutil.Describe(err); !strings.Contains(desc, "nmae") {
		t.Errorf("Describe() = %q, want the offending key", desc)
	}
}

func TestUnmarshalStrict_Overlay(t *testing.T) {
	t.Parallel()

	cfg := &testConfig{Name: "default", Depth: 3, Langs: []string{"go"}}
	if err := yamlutil.UnmarshalStrict([]byte("depth: 2\n"), cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "default" || cfg.Depth != 2 || len(cfg.Langs) != 1 {
		t.Errorf("overlay = %+v", cfg)
	}
}

func TestMarshal_RoundTrip(t *testing.T) {
	t.Parallel()

	original := testConfig{Name: "blog", Depth: 2, Langs: []string{"go"}, Icons: map[string]icon{"x.com": {Src: "/x.svg", Alt: "X"}}}
	data, err := yamlutil.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var decoded testConfig
	if err := yamlutil.UnmarshalStrict(data, &decoded); err != nil {
		t.Fatalf("UnmarshalStrict() error = %v", err)
	}
	if decoded.Name != original.Name || decoded.Depth != original.Depth || decoded.Icons["x.com"] != original.Icons["x.com"] {
		t.Errorf("round trip = %+v, want %+v", decoded, original)
	}
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	if got := yamlutil.Describe(nil); got != "" {
		t.Errorf("Describe(nil) = %q", got)
	}
	if got := yamlutil.Describe(errors.New("plain")); got != "plain" {
		t.Errorf("Describe() = %q, want plain", got)
	}
}

// Note: This test modifies the global MaxInputSize variable, so it cannot
// run in parallel with other tests.
func TestInputSizeLimit(t *testing.T) {
	originalMax := yamlutil.MaxInputSize
	t.Cleanup(func() { yamlutil.MaxInputSize = originalMax })

	yamlutil.MaxInputSize = 50
	data := make([]byte, 100)
	copy(data, "name: x")
	err := yamlutil.UnmarshalStrict(data, &testConfig{})
	if !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Fatalf("errors.Is(err, ErrInputTooLarge) = false, got: %v", err)
	}
	if !strings.Contains(err.Error(), "100 bytes") || !strings.Contains(err.Error(), "max 50") {
		t.Errorf("error should contain sizes, got: %s", err)
	}
}
