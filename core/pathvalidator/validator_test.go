package pathvalidator

import (
	"testing"

	"github.com/agrama-db/agrama/pkg/errors"
	"github.com/agrama-db/agrama/pkg/types"
)

func TestValidateAllowsInPrefix(t *testing.T) {
	v := New([]string{"/workspace/project"})
	if err := v.Validate(types.Key("workspace/project/src/main.go")); err != nil {
		t.Fatalf("Validate() error = %v, want nil", err)
	}
}

func TestValidateRejectsTraversal(t *testing.T) {
	v := New([]string{"/workspace/project"})

	cases := []types.Key{
		"../etc/passwd",
		"workspace/project/../../etc/passwd",
		"workspace/project/%2e%2e/secret",
	}
	for _, key := range cases {
		err := v.Validate(key)
		if err == nil {
			t.Errorf("Validate(%q) = nil, want error", key)
			continue
		}
		if !errors.IsValidation(err) {
			t.Errorf("Validate(%q) error category = %v, want validation", key, err)
		}
	}
}

func TestValidateRejectsAbsolute(t *testing.T) {
	v := New([]string{"/"})
	if err := v.Validate(types.Key("/etc/passwd")); err == nil {
		t.Error("Validate() = nil for absolute path, want error")
	}
}

func TestValidateRejectsOutsideAllowList(t *testing.T) {
	v := New([]string{"/workspace/project"})
	if err := v.Validate(types.Key("somewhere/else")); err == nil {
		t.Error("Validate() = nil for key outside allow-list, want error")
	}
}

func TestValidateRejectsOversize(t *testing.T) {
	v := New([]string{"/workspace"})
	big := make([]byte, types.MaxKeyBytes+1)
	for i := range big {
		big[i] = 'a'
	}
	if err := v.Validate(types.Key("workspace/" + string(big))); err == nil {
		t.Error("Validate() = nil for oversize key, want error")
	}
}

func TestValidateRejectsNullByte(t *testing.T) {
	v := New([]string{"/workspace"})
	if err := v.Validate(types.Key("workspace/a\x00b")); err == nil {
		t.Error("Validate() = nil for key with null byte, want error")
	}
}

func TestValidateEmptyAllowListFailsClosed(t *testing.T) {
	v := New(nil)
	if err := v.Validate(types.Key("anything")); err == nil {
		t.Error("Validate() = nil with empty allow-list, want error")
	}
}
