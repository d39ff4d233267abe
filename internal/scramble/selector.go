package scramble

import (
	"strings"

	"rubik-viewer/internal/scenegraph"
)

// Selector decides whether a cubie belongs to the layer a phase turns.
// These are heuristics tied to a particular model's naming and scale, not derived geometry.
type Selector interface {
	Match(c *scenegraph.Node) bool
}

// SelectorFunc adapts a function to Selector.
type SelectorFunc func(c *scenegraph.Node) bool

// Match calls f(c).
func (f SelectorFunc) Match(c *scenegraph.Node) bool {
	return f(c)
}

// NamePrefix matches cubies whose lower-cased name starts with the lower-cased tag.
func NamePrefix(tag string) Selector {
	tag = strings.ToLower(tag)
	return SelectorFunc(func(c *scenegraph.Node) bool {
		return strings.HasPrefix(strings.ToLower(c.Name), tag)
	})
}

// NameContains matches cubies whose name contains sub.
func NameContains(sub string) Selector {
	return SelectorFunc(func(c *scenegraph.Node) bool {
		return strings.Contains(c.Name, sub)
	})
}

// WorldAbove matches cubies whose world-space origin exceeds threshold on axis.
func WorldAbove(axis scenegraph.Axis, threshold float32) Selector {
	return SelectorFunc(func(c *scenegraph.Node) bool {
		return c.WorldPosition()[axis] > threshold
	})
}

// BoundsAbove matches cubies whose world-space bounding-box center exceeds threshold on axis.
// Cubies without geometry never match.
func BoundsAbove(axis scenegraph.Axis, threshold float32) Selector {
	return SelectorFunc(func(c *scenegraph.Node) bool {
		box, ok := c.WorldBounds()
		return ok && box.Center()[axis] > threshold
	})
}

// AnyOf matches cubies accepted by at least one of sel.
func AnyOf(sel ...Selector) Selector {
	return SelectorFunc(func(c *scenegraph.Node) bool {
		for _, s := range sel {
			if s.Match(c) {
				return true
			}
		}
		return false
	})
}
