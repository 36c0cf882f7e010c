package version

// Version is the current cicd-utils release. Release builds override it with
// -ldflags "-X github.com/Tomas-vilte/cicd-utils/internal/version.Version=1.2.3".
var Version = "0.1.0"

// FullVersion returns the version with the v prefix.
func FullVersion() string {
	return "v" + Version
}
