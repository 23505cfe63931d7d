// Package blender runs generated scripts through the host executable and
// collects the image and camera matrices it leaves behind.
package blender

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"
)

// ErrNoVersion is returned when version output names no release
var ErrNoVersion = errors.New("no host version in output")

var versionPattern = regexp.MustCompile(`(?m)^Blender\s+(\d+\.\d+(?:\.\d+)?)`)

// ParseVersion extracts the release from `blender --version` output, whose
// first line reads like "Blender 4.2.1 LTS"
func ParseVersion(output string) (*semver.Version, error) {
	m := versionPattern.FindStringSubmatch(output)
	if m == nil {
		return nil, ErrNoVersion
	}
	v, err := semver.NewVersion(m[1])
	if err != nil {
		return nil, fmt.Errorf("invalid host version %q: %w", m[1], err)
	}
	return v, nil
}
