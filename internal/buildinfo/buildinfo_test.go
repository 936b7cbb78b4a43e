package buildinfo_test

import (
	"strings"
	"testing"

	"github.com/snakelang/snakec/internal/buildinfo"
)

func TestNewBuildID_IsUniqueEachCall(t *testing.T) {
	a := buildinfo.NewBuildID()
	b := buildinfo.NewBuildID()
	if a == b {
		t.Fatalf("expected distinct build IDs, both were %q", a)
	}
}

func TestComment_WrapsIDAsANASMLineComment(t *testing.T) {
	id := "abc-123"
	got := buildinfo.Comment(id)
	if !strings.HasPrefix(got, "; ") {
		t.Fatalf("expected a NASM comment prefix, got %q", got)
	}
	if !strings.Contains(got, id) {
		t.Fatalf("expected the build id embedded in the comment, got %q", got)
	}
	if !strings.HasSuffix(got, "\n") {
		t.Fatalf("expected the comment to end with a newline, got %q", got)
	}
}
