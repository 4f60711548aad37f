package release_test

import (
	"testing"

	"github.com/nedpals/hlasmls/release"
)

func TestVersion(t *testing.T) {
	if v := release.Version(); len(v) == 0 {
		t.Errorf("Expected a version string, got %q", v)
	}
}
