// Package target resolves Rust target triples from user supplied aliases.
package target

// Triple is a Rust target triple such as "x86_64-unknown-linux-gnu".
type Triple string

// String implements fmt.Stringer.
func (t Triple) String() string { return string(t) }

// Empty reports whether no target was requested.
func (t Triple) Empty() bool { return t == "" }

// Well-known triples referenced outside the alias table.
const (
	X86_64LinuxGNU  Triple = "x86_64-unknown-linux-gnu"
	Aarch64LinuxGNU Triple = "aarch64-unknown-linux-gnu"
	X86_64Darwin    Triple = "x86_64-apple-darwin"
	Aarch64Darwin   Triple = "aarch64-apple-darwin"
)

// aliases maps platform (GOOS) -> short alias -> triple.
var aliases = map[string]map[string]Triple{
	"darwin": {
		"x64":     X86_64Darwin,
		"x86_64":  X86_64Darwin,
		"aarch64": Aarch64Darwin,
	},
	"linux": {
		"x64":     X86_64LinuxGNU,
		"x86_64":  X86_64LinuxGNU,
		"i686":    "i686-unknown-linux-gnu",
		"x86":     "i686-unknown-linux-gnu",
		"aarch64": Aarch64LinuxGNU,
		"armv7":   "armv7-unknown-linux-gnueabihf",
		"armv7l":  "armv7-unknown-linux-gnueabihf",
		"ppc64le": "powerpc64le-unknown-linux-gnu",
		"ppc64":   "powerpc64-unknown-linux-gnu",
		"s390x":   "s390x-unknown-linux-gnu",
	},
	"windows": {
		"x64":     "x86_64-pc-windows-msvc",
		"x86_64":  "x86_64-pc-windows-msvc",
		"i686":    "i686-pc-windows-msvc",
		"x86":     "i686-pc-windows-msvc",
		"aarch64": "aarch64-pc-windows-msvc",
	},
}

// Resolve expands an explicit target for the given platform.
//
// Known aliases are replaced with their full triple. Anything else is
// returned unchanged and treated as already canonical. An empty explicit
// target resolves to the empty triple, meaning the host default applies.
func Resolve(explicit, platform string) Triple {
	if explicit == "" {
		return ""
	}
	if t, ok := aliases[platform][explicit]; ok {
		return t
	}
	return Triple(explicit)
}

// HostDefault returns the Linux triple used for container selection when the
// requested target is not present in the selection table. arch is a GOARCH.
func HostDefault(arch string) Triple {
	if arch == "arm64" {
		return Aarch64LinuxGNU
	}
	return X86_64LinuxGNU
}

// AssetArch returns the architecture component used in maturin release
// asset names for a GOARCH.
func AssetArch(arch string) string {
	if arch == "arm64" {
		return "aarch64"
	}
	return "x86_64"
}
