package release

import (
	"fmt"

	"github.com/carlmjohnson/versioninfo"
)

// Version reports the module version, followed by the short VCS revision
// when the binary was built from a checkout.
func Version() string {
	if versioninfo.Revision == "unknown" {
		return versioninfo.Version
	}
	return fmt.Sprintf("%s (%s)", versioninfo.Version, versioninfo.Short())
}
