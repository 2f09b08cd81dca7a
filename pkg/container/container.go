// Package container selects the build container image for a target triple
// and compatibility tier.
package container

import (
	"regexp"
	"sort"
	"strings"

	"github.com/gridctl/maturinctl/pkg/target"
)

// Tier is a normalized compatibility tier keyword, e.g. "2014" or "musllinux_1_2".
type Tier string

// Sentinel tiers.
const (
	TierAuto Tier = "auto"
	TierOff  Tier = "off"
)

// Off is the value that disables containerized builds when passed as either
// the tier or the container override.
const Off = "off"

// LegacyImage is the image family that ships without per-release tags baked
// into the selection and with an entrypoint incompatible with the build script.
const LegacyImage = "konstin2/maturin"

var tierPrefix = regexp.MustCompile(`^manylinux_?`)

// NormalizeTier strips a leading "manylinux" or "manylinux_" from raw.
func NormalizeTier(raw string) Tier {
	return Tier(tierPrefix.ReplaceAllString(raw, ""))
}

// table maps target triple -> tier -> image reference. Every row has an
// "auto" entry.
var table = map[target.Triple]map[Tier]string{
	"x86_64-unknown-linux-gnu": {
		TierAuto: "quay.io/pypa/manylinux2010_x86_64:latest",
		"2010":   "quay.io/pypa/manylinux2010_x86_64:latest",
		"2_12":   "quay.io/pypa/manylinux2010_x86_64:latest",
		"2014":   "quay.io/pypa/manylinux2014_x86_64:latest",
		"2_17":   "quay.io/pypa/manylinux2014_x86_64:latest",
		"2_24":   "quay.io/pypa/manylinux_2_24_x86_64:latest",
	},
	"x86_64-unknown-linux-musl": {
		TierAuto:        "messense/rust-musl-cross:x86_64-musl",
		"musllinux_1_2": "messense/rust-musl-cross:x86_64-musl",
	},
	"i686-unknown-linux-gnu": {
		TierAuto: "quay.io/pypa/manylinux2010_i686:latest",
		"2010":   "quay.io/pypa/manylinux2010_i686:latest",
		"2_12":   "quay.io/pypa/manylinux2010_i686:latest",
		"2014":   "quay.io/pypa/manylinux2014_i686:latest",
		"2_17":   "quay.io/pypa/manylinux2014_i686:latest",
		"2_24":   "quay.io/pypa/manylinux_2_24_i686:latest",
	},
	"i686-unknown-linux-musl": {
		TierAuto:        "messense/rust-musl-cross:i686-musl",
		"musllinux_1_2": "messense/rust-musl-cross:i686-musl",
	},
	"aarch64-unknown-linux-gnu": {
		TierAuto: "messense/manylinux2014-cross:aarch64",
		"2014":   "messense/manylinux2014-cross:aarch64",
		"2_17":   "messense/manylinux2014-cross:aarch64",
		"2_24":   "messense/manylinux_2_24-cross:aarch64",
	},
	"aarch64-unknown-linux-musl": {
		TierAuto:        "messense/rust-musl-cross:aarch64-musl",
		"musllinux_1_2": "messense/rust-musl-cross:aarch64-musl",
	},
	"armv7-unknown-linux-gnueabihf": {
		TierAuto: "messense/manylinux2014-cross:armv7",
		"2014":   "messense/manylinux2014-cross:armv7",
		"2_17":   "messense/manylinux2014-cross:armv7",
		"2_24":   "messense/manylinux_2_24-cross:armv7",
	},
	"armv7-unknown-linux-musleabihf": {
		TierAuto:        "messense/rust-musl-cross:armv7-musleabihf",
		"musllinux_1_2": "messense/rust-musl-cross:armv7-musleabihf",
	},
	"powerpc64-unknown-linux-gnu": {
		TierAuto: "messense/manylinux2014-cross:ppc64",
		"2014":   "messense/manylinux2014-cross:ppc64",
		"2_17":   "messense/manylinux2014-cross:ppc64",
	},
	"powerpc64le-unknown-linux-gnu": {
		TierAuto: "messense/manylinux2014-cross:ppc64le",
		"2014":   "messense/manylinux2014-cross:ppc64le",
		"2_17":   "messense/manylinux2014-cross:ppc64le",
		"2_24":   "messense/manylinux_2_24-cross:ppc64le",
	},
	"powerpc64le-unknown-linux-musl": {
		TierAuto:        "messense/rust-musl-cross:powerpc64le-musl",
		"musllinux_1_2": "messense/rust-musl-cross:powerpc64le-musl",
	},
	"s390x-unknown-linux-gnu": {
		TierAuto: "messense/manylinux2014-cross:s390x",
		"2014":   "messense/manylinux2014-cross:s390x",
		"2_17":   "messense/manylinux2014-cross:s390x",
		"2_24":   "messense/manylinux_2_24-cross:s390x",
	},
}

// Select returns the image reference for a build.
//
// A non-empty override always wins. Otherwise the tier row of the target is
// used, falling back to the target's "auto" entry. Targets missing from the
// table fall back to the row of the host default target for hostArch (a
// GOARCH); this may not match the requested architecture. The boolean is
// false when nothing could be selected.
func Select(t target.Triple, tierRaw, override, hostArch string) (string, bool) {
	if override != "" {
		return override, true
	}
	tier := NormalizeTier(tierRaw)

	if row, ok := table[t]; ok {
		return lookup(row, tier)
	}
	if row, ok := table[target.HostDefault(hostArch)]; ok {
		return lookup(row, tier)
	}
	return "", false
}

func lookup(row map[Tier]string, tier Tier) (string, bool) {
	if ref, ok := row[tier]; ok {
		return ref, true
	}
	ref, ok := row[TierAuto]
	return ref, ok
}

// Image is a fully resolved image reference plus how it must be run.
type Image struct {
	Ref string
	// OverrideEntrypoint is set for legacy images whose entrypoint would
	// swallow the build script; run them with --entrypoint /bin/bash.
	OverrideEntrypoint bool
}

// ResolveImage pins legacy untagged images to the maturin release tag.
// Any reference that already carries a tag, or is not from the legacy
// family, is used as-is.
func ResolveImage(ref, releaseTag string) Image {
	if strings.Contains(ref, ":") || !strings.HasPrefix(ref, LegacyImage) {
		return Image{Ref: ref}
	}
	return Image{
		Ref:                ref + ":" + releaseTag,
		OverrideEntrypoint: true,
	}
}

// Entry is one row of the selection table, flattened for display.
type Entry struct {
	Target target.Triple
	Tier   Tier
	Image  string
}

// Entries returns the selection table sorted by target then tier, with
// "auto" first within each target.
func Entries() []Entry {
	var out []Entry
	for t, row := range table {
		for tier, ref := range row {
			out = append(out, Entry{Target: t, Tier: tier, Image: ref})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Target != out[j].Target {
			return out[i].Target < out[j].Target
		}
		if (out[i].Tier == TierAuto) != (out[j].Tier == TierAuto) {
			return out[i].Tier == TierAuto
		}
		return out[i].Tier < out[j].Tier
	})
	return out
}
