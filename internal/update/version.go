package update

import "github.com/Masterminds/semver/v3"

// IsNewerVersion reports whether newVersion is strictly greater than
// oldVersion. Versions that are not valid semver compare as strings.
func IsNewerVersion(newVersion, oldVersion string) bool {
	newSemver, errNew := semver.NewVersion(newVersion)
	oldSemver, errOld := semver.NewVersion(oldVersion)
	if errNew != nil || errOld != nil {
		return newVersion > oldVersion
	}
	return newSemver.GreaterThan(oldSemver)
}
