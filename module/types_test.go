package module

import "testing"

func TestValidName(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"git", true},
		{"git-prompt", true},
		{"git_prompt", true},
		{"a", true},
		{"Zsh9", true},
		{"", false},
		{"9git", false},
		{"-git", false},
		{"git prompt", false},
		{"git/prompt", false},
	}
	for _, c := range cases {
		if got := ValidName(c.name); got != c.want {
			t.Errorf("ValidName(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestModuleValidate(t *testing.T) {
	m := &Module{Name: "git", Version: "1.0.0"}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate() on well-formed module: %v", err)
	}

	noName := &Module{Version: "1.0.0"}
	if err := noName.Validate(); err == nil {
		t.Error("Validate() with empty name should error")
	}

	badName := &Module{Name: "9git", Version: "1.0.0"}
	if err := badName.Validate(); err == nil {
		t.Error("Validate() with name violating grammar should error")
	}

	noVersion := &Module{Name: "git"}
	if err := noVersion.Validate(); err == nil {
		t.Error("Validate() with empty version should error")
	}
}

func TestDefaultPriority(t *testing.T) {
	if DefaultPriority != 100 {
		t.Errorf("DefaultPriority = %d, want 100", DefaultPriority)
	}
}
