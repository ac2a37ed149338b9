package types

import (
	"math"
	"strings"
)

// Point3Value is a 3D point or vector
type Point3Value struct {
	X, Y, Z float64
}

// NewPoint3 creates a new Point3Value
func NewPoint3(x, y, z float64) Point3Value {
	return Point3Value{X: x, Y: y, Z: z}
}

// Type returns the type code for points
func (p Point3Value) Type() TypeCode {
	return TYPE_POINT3
}

// String returns the brace form {x y z}
func (p Point3Value) String() string {
	return formatTuple(p.X, p.Y, p.Z)
}

// Equal compares within 1e-6
func (p Point3Value) Equal(other Value) bool {
	return AreEqual(p, other)
}

// Truthy is true for vectors longer than 1e-4
func (p Point3Value) Truthy() bool {
	return AsBoolean(p)
}

// Length returns the vector length
func (p Point3Value) Length() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
}

// Distance returns the distance to q
func (p Point3Value) Distance(q Point3Value) float64 {
	return p.Sub(q).Length()
}

// Add returns p+q
func (p Point3Value) Add(q Point3Value) Point3Value {
	return Point3Value{p.X + q.X, p.Y + q.Y, p.Z + q.Z}
}

// Sub returns p-q
func (p Point3Value) Sub(q Point3Value) Point3Value {
	return Point3Value{p.X - q.X, p.Y - q.Y, p.Z - q.Z}
}

// Scale returns p*f
func (p Point3Value) Scale(f float64) Point3Value {
	return Point3Value{p.X * f, p.Y * f, p.Z * f}
}

// Dot returns the scalar product
func (p Point3Value) Dot(q Point3Value) float64 {
	return p.X*q.X + p.Y*q.Y + p.Z*q.Z
}

// Cross returns the vector product
func (p Point3Value) Cross(q Point3Value) Point3Value {
	return Point3Value{
		p.Y*q.Z - p.Z*q.Y,
		p.Z*q.X - p.X*q.Z,
		p.X*q.Y - p.Y*q.X,
	}
}

// Component returns the i-th coordinate (0-based), or NaN
func (p Point3Value) Component(i int) float64 {
	switch i {
	case 0:
		return p.X
	case 1:
		return p.Y
	case 2:
		return p.Z
	}
	return math.NaN()
}

// WithComponent returns a copy with the i-th coordinate replaced
func (p Point3Value) WithComponent(i int, v float64) Point3Value {
	switch i {
	case 0:
		p.X = v
	case 1:
		p.Y = v
	case 2:
		p.Z = v
	}
	return p
}

// Point4Value is a plane (ax+by+cz+d=0) or a quaternion
type Point4Value struct {
	X, Y, Z, W float64
}

// NewPoint4 creates a new Point4Value
func NewPoint4(x, y, z, w float64) Point4Value {
	return Point4Value{X: x, Y: y, Z: z, W: w}
}

// Type returns the type code for planes
func (p Point4Value) Type() TypeCode {
	return TYPE_POINT4
}

// String returns the brace form {x y z w}
func (p Point4Value) String() string {
	return formatTuple(p.X, p.Y, p.Z, p.W)
}

// Equal compares within 1e-6
func (p Point4Value) Equal(other Value) bool {
	return AreEqual(p, other)
}

// Truthy is true when the plane lies farther than 1e-4 from the origin
func (p Point4Value) Truthy() bool {
	return AsBoolean(p)
}

// Normal returns the xyz part
func (p Point4Value) Normal() Point3Value {
	return Point3Value{p.X, p.Y, p.Z}
}

// DistanceTo returns the signed distance from pt to the plane
func (p Point4Value) DistanceTo(pt Point3Value) float64 {
	n := p.Normal().Length()
	if n == 0 {
		return math.NaN()
	}
	return (p.X*pt.X + p.Y*pt.Y + p.Z*pt.Z + p.W) / n
}

func (p Point4Value) distance4(q Point4Value) float64 {
	dx, dy, dz, dw := p.X-q.X, p.Y-q.Y, p.Z-q.Z, p.W-q.W
	return math.Sqrt(dx*dx + dy*dy + dz*dz + dw*dw)
}

// Component returns the i-th coordinate (0-based), or NaN
func (p Point4Value) Component(i int) float64 {
	switch i {
	case 3:
		return p.W
	default:
		return p.Normal().Component(i)
	}
}

// WithComponent returns a copy with the i-th coordinate replaced
func (p Point4Value) WithComponent(i int, v float64) Point4Value {
	switch i {
	case 0:
		p.X = v
	case 1:
		p.Y = v
	case 2:
		p.Z = v
	case 3:
		p.W = v
	}
	return p
}

func formatTuple(vals ...float64) string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, v := range vals {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(formatFloat(v))
	}
	sb.WriteByte('}')
	return sb.String()
}
