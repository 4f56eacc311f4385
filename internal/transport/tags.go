package transport

import "github.com/gocave/cavegen/internal/mesh"

// directionTags maps each of the eight mesh directions to the tag its
// halo-exchange messages carry: one tag per direction, sender and
// receiver always agree on the same tag.
var directionTags = map[mesh.Direction]Tag{
	mesh.West:      TagLeft,
	mesh.East:      TagRight,
	mesh.North:     TagTop,
	mesh.South:     TagBottom,
	mesh.NorthWest: TagTopLeft,
	mesh.NorthEast: TagTopRight,
	mesh.SouthWest: TagBottomLeft,
	mesh.SouthEast: TagBottomRight,
}

// opposite maps a direction to the direction its neighbor sees the
// same exchange from: a rank's West send is its western neighbor's
// East-direction receive. HaloExchange uses this to recv on the tag the
// *sender* used: a rank's right-halo fill comes from its right
// neighbor's West-tagged send.
var opposite = map[mesh.Direction]mesh.Direction{
	mesh.West:      mesh.East,
	mesh.East:      mesh.West,
	mesh.North:     mesh.South,
	mesh.South:     mesh.North,
	mesh.NorthWest: mesh.SouthEast,
	mesh.NorthEast: mesh.SouthWest,
	mesh.SouthWest: mesh.NorthEast,
	mesh.SouthEast: mesh.NorthWest,
}
