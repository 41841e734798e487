package workspace

import "github.com/zjrosen/releasetrain/internal/config"

// Tier groups packages by publish stage.
type Tier int

// Publish tiers in order.
const (
	TierCore Tier = iota
	TierBackend
	TierExtensionSys
	TierExtensionHighLevel
	TierApplication
)

// Tiers lists every tier in publish order.
var Tiers = []Tier{TierCore, TierBackend, TierExtensionSys, TierExtensionHighLevel, TierApplication}

// TierOf maps a package kind to its tier. Unknown kinds land in the application tier.
func TierOf(kind string) Tier {
	switch kind {
	case config.KindCore:
		return TierCore
	case config.KindBackend:
		return TierBackend
	case config.KindExtensionSys:
		return TierExtensionSys
	case config.KindExtensionHighLevel:
		return TierExtensionHighLevel
	}
	return TierApplication
}

func (t Tier) String() string {
	switch t {
	case TierCore:
		return "core"
	case TierBackend:
		return "backends"
	case TierExtensionSys:
		return "extension sys crates"
	case TierExtensionHighLevel:
		return "extension high-level crates"
	case TierApplication:
		return "application"
	}
	return "unknown"
}
