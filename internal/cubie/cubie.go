// Package cubie discovers the individual cube pieces in a loaded model.
package cubie

import (
	"fmt"
	"regexp"

	"rubik-viewer/internal/scenegraph"
)

// Extract returns every node under root (root included) that is a mesh with a non-empty name,
// in depth-first pre-order. It never mutates the graph. A nil root yields an empty list.
func Extract(root *scenegraph.Node) []*scenegraph.Node {
	if root == nil {
		return nil
	}
	var out []*scenegraph.Node
	root.Traverse(func(n *scenegraph.Node) bool {
		if n.IsMesh() && n.Name != "" {
			out = append(out, n)
		}
		return true
	})
	return out
}

// CoreName is the name of the hidden center piece.
const CoreName = "cube_center"

// Naming convention for the cube model: "cube_" followed by one letter per visible face color.
var (
	centerName = regexp.MustCompile(`^cube_[a-z]$`)
	edgeName   = regexp.MustCompile(`^cube_[a-z]{2}$`)
	cornerName = regexp.MustCompile(`^cube_[a-z]{3,}$`)
)

// Kind classifies a cubie by its name.
type Kind int

const (
	Unknown Kind = iota
	Center
	Edge
	Corner
	Core
)

func (k Kind) String() string {
	switch k {
	case Center:
		return "center"
	case Edge:
		return "edge"
	case Corner:
		return "corner"
	case Core:
		return "core"
	}
	return "unknown"
}

// Classify returns the kind encoded in a cubie name.
func Classify(name string) Kind {
	switch {
	case name == CoreName:
		return Core
	case centerName.MatchString(name):
		return Center
	case edgeName.MatchString(name):
		return Edge
	case cornerName.MatchString(name):
		return Corner
	}
	return Unknown
}

// Breakdown counts cubies per kind.
type Breakdown struct {
	Centers int
	Edges   int
	Corners int
	Core    int
	Unknown int
}

// Total returns the number of cubies counted.
func (b Breakdown) Total() int {
	return b.Centers + b.Edges + b.Corners + b.Core + b.Unknown
}

func (b Breakdown) String() string {
	return fmt.Sprintf("%d centers, %d edges, %d corners, %d core, %d other", b.Centers, b.Edges, b.Corners, b.Core, b.Unknown)
}

// Count classifies every cubie in the list.
func Count(cubies []*scenegraph.Node) Breakdown {
	var b Breakdown
	for _, c := range cubies {
		switch Classify(c.Name) {
		case Center:
			b.Centers++
		case Edge:
			b.Edges++
		case Corner:
			b.Corners++
		case Core:
			b.Core++
		default:
			b.Unknown++
		}
	}
	return b
}

// Placement is a snapshot of where a cubie sits, used for diagnostics when tuning
// position thresholds against a new model.
type Placement struct {
	Name    string
	WorldY  float32
	LocalY  float32
	BoundsY float32
}

// Describe reports the cubie's world, local and bounding-box-center heights.
func Describe(c *scenegraph.Node) Placement {
	p := Placement{
		Name:   c.Name,
		WorldY: c.WorldPosition()[1],
		LocalY: c.Translation[1],
	}
	if box, ok := c.WorldBounds(); ok {
		p.BoundsY = box.Center()[1]
	}
	return p
}

func (p Placement) String() string {
	return fmt.Sprintf("cubie %s world Y %.2f, local Y %.2f, bbox Y %.2f", p.Name, p.WorldY, p.LocalY, p.BoundsY)
}
