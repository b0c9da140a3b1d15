package zone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yskaart/sentry/internal/model"
)

func TestNewBaseZone_Validation(t *testing.T) {
	tests := []struct {
		name string
		geom Geometry
	}{
		{"unknown shape", Geometry{Shape: "sphere"}},
		{"inverted y", Geometry{Shape: ShapeCuboid, Min: model.NewVec3(0, 5, 0), Max: model.NewVec3(1, 0, 1)}},
		{"inverted cuboid", Geometry{Shape: ShapeCuboid, Min: model.NewVec3(5, 0, 5), Max: model.NewVec3(0, 1, 0)}},
		{"zero radius", Geometry{Shape: ShapeCylinder, Max: model.NewVec3(0, 1, 0)}},
		{"two nodes", Geometry{Shape: ShapeNPoly, Nodes: []model.Vec3{{}, {X: 1}}, Max: model.NewVec3(0, 1, 0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBaseZone("z", "zone", tt.geom)
			assert.Error(t, err)
		})
	}
}

func TestBaseZone_Contains(t *testing.T) {
	cuboid, err := NewBaseZone("c", "crates", Geometry{
		Shape: ShapeCuboid,
		Min:   model.NewVec3(0, 0, 0),
		Max:   model.NewVec3(4, 3, 4),
	})
	require.NoError(t, err)

	cylinder, err := NewBaseZone("cy", "bush", Geometry{
		Shape:  ShapeCylinder,
		Center: model.NewVec3(10, 0, 10),
		Radius: 2,
		Max:    model.NewVec3(0, 2, 0),
	})
	require.NoError(t, err)

	triangle, err := NewBaseZone("t", "shadow", Geometry{
		Shape: ShapeNPoly,
		Nodes: []model.Vec3{{X: 0, Z: 0}, {X: 10, Z: 0}, {X: 0, Z: 10}},
		Min:   model.NewVec3(0, -1, 0),
		Max:   model.NewVec3(0, 5, 0),
	})
	require.NoError(t, err)

	tests := []struct {
		name string
		zone *BaseZone
		p    model.Vec3
		want bool
	}{
		{"cuboid inside", cuboid, model.NewVec3(2, 1, 2), true},
		{"cuboid on face", cuboid, model.NewVec3(4, 1, 2), true},
		{"cuboid outside x", cuboid, model.NewVec3(5, 1, 2), false},
		{"cuboid above", cuboid, model.NewVec3(2, 4, 2), false},
		{"cylinder center", cylinder, model.NewVec3(10, 1, 10), true},
		{"cylinder rim", cylinder, model.NewVec3(12, 1, 10), true},
		{"cylinder outside", cylinder, model.NewVec3(12, 1, 12), false},
		{"cylinder below", cylinder, model.NewVec3(10, -1, 10), false},
		{"polygon inside", triangle, model.NewVec3(2, 0, 2), true},
		{"polygon on edge", triangle, model.NewVec3(5, 0, 0), true},
		{"polygon hypotenuse side", triangle, model.NewVec3(6, 0, 6), false},
		{"polygon outside", triangle, model.NewVec3(-1, 0, 2), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.zone.Contains(tt.p))
		})
	}
}

func TestBaseZone_RevalidateFiresOnEdges(t *testing.T) {
	z, err := NewBaseZone("c", "crates", Geometry{
		Shape: ShapeCuboid,
		Max:   model.NewVec3(4, 3, 4),
	})
	require.NoError(t, err)

	var enters, exits int
	z.onEnterFn = func(string) { enters++ }
	z.onExitFn = func(string) { exits++ }

	inside := model.NewVec3(1, 1, 1)
	outside := model.NewVec3(9, 1, 9)

	z.RevalidateInZone("player", outside)
	assert.Equal(t, 0, enters)
	assert.Equal(t, 0, exits)

	z.RevalidateInZone("player", inside)
	z.RevalidateInZone("player", inside)
	assert.Equal(t, 1, enters, "staying inside must not re-enter")
	assert.True(t, z.IsInside("player"))
	assert.Equal(t, 1, z.EntityCount())

	z.RevalidateInZone("player", outside)
	z.RevalidateInZone("player", outside)
	assert.Equal(t, 1, exits)
	assert.False(t, z.IsInside("player"))

	z.RevalidateInZone("player", inside)
	z.RemoveEntity("player")
	assert.Equal(t, 2, enters)
	assert.Equal(t, 2, exits)
	assert.Equal(t, 0, z.EntityCount())
}
