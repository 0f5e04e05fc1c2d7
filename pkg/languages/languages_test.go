package languages

import (
	"testing"

	"github.com/matzehuels/blockgen/pkg/generator"
)

func TestAllLanguagesValid(t *testing.T) {
	for _, lang := range All {
		if err := lang.Validate(); err != nil {
			t.Errorf("%s: %v", lang.Name, err)
		}
		if _, err := generator.New(lang); err != nil {
			t.Errorf("generator.New(%s): %v", lang.Name, err)
		}
	}
}

func TestFind(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"python", "python"},
		{"PY", "python"},
		{" javascript ", "javascript"},
		{"node", "javascript"},
		{"cobol", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Find(tt.name)
			if tt.want == "" {
				if got != nil {
					t.Errorf("Find(%q) = %s, want nil", tt.name, got.Name)
				}
				return
			}
			if got == nil || got.Name != tt.want {
				t.Errorf("Find(%q) = %v, want %s", tt.name, got, tt.want)
			}
		})
	}
}

func TestNames(t *testing.T) {
	got := Names()
	if len(got) != len(All) || got[0] != "python" || got[1] != "javascript" {
		t.Errorf("Names() = %v", got)
	}
}
