package vtile

// Extent is the MVT tile grid resolution: a tile spans Extent x Extent
// integer units. 4096 is the value used throughout this codebase; it is a
// construction-time constant, not runtime configuration (Section 6).
const Extent = 4096

// Size is the width/height, in floating point tile-local units, that input
// coordinates are expected to already be scaled into: [0, Size].
const Size = 256.0

// Scale converts a Size-space coordinate into Extent-space: Extent/Size.
const Scale = Extent / Size

// Warn receives a one-line notice when EncodeGeometry silently skips a
// geometry it does not recognize. The codec itself never imports a logging
// package (Section 5: logging is an external-collaborator concern); callers
// that want these notices surfaced assign Warn, typically to an adapter
// around their own structured logger.
var Warn func(format string, args ...interface{})

func warnf(format string, args ...interface{}) {
	if Warn != nil {
		Warn(format, args...)
	}
}
