package types

import "strings"

// Matrix3Value is a 3x3 matrix, row-major
type Matrix3Value struct {
	M [3][3]float64
}

// Matrix4Value is a 4x4 matrix, row-major; column 3 holds the translation
type Matrix4Value struct {
	M [4][4]float64
}

// Identity3 returns the 3x3 identity
func Identity3() Matrix3Value {
	var m Matrix3Value
	for i := 0; i < 3; i++ {
		m.M[i][i] = 1
	}
	return m
}

// Identity4 returns the 4x4 identity
func Identity4() Matrix4Value {
	var m Matrix4Value
	for i := 0; i < 4; i++ {
		m.M[i][i] = 1
	}
	return m
}

func (m Matrix3Value) Type() TypeCode { return TYPE_MATRIX3 }
func (m Matrix3Value) Truthy() bool { return AsBoolean(m) }
func (m Matrix3Value) Equal(o Value) bool { return AreEqual(m, o) }

// String returns [[a,b,c],[d,e,f],[g,h,i]]
func (m Matrix3Value) String() string {
	rows := make([][]float64, 3)
	for i := range rows {
		rows[i] = m.M[i][:]
	}
	return formatRows(rows)
}

// Transform applies the matrix to p
func (m Matrix3Value) Transform(p Point3Value) Point3Value {
	return Point3Value{
		m.M[0][0]*p.X + m.M[0][1]*p.Y + m.M[0][2]*p.Z,
		m.M[1][0]*p.X + m.M[1][1]*p.Y + m.M[1][2]*p.Z,
		m.M[2][0]*p.X + m.M[2][1]*p.Y + m.M[2][2]*p.Z,
	}
}

// Mul returns m*n
func (m Matrix3Value) Mul(n Matrix3Value) Matrix3Value {
	var r Matrix3Value
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				r.M[i][j] += m.M[i][k] * n.M[k][j]
			}
		}
	}
	return r
}

// Transpose returns the transposed matrix
func (m Matrix3Value) Transpose() Matrix3Value {
	var r Matrix3Value
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r.M[i][j] = m.M[j][i]
		}
	}
	return r
}

// Determinant returns the determinant
func (m Matrix3Value) Determinant() float64 {
	a := m.M
	return a[0][0]*(a[1][1]*a[2][2]-a[1][2]*a[2][1]) -
		a[0][1]*(a[1][0]*a[2][2]-a[1][2]*a[2][0]) +
		a[0][2]*(a[1][0]*a[2][1]-a[1][1]*a[2][0])
}

func (m Matrix4Value) Type() TypeCode { return TYPE_MATRIX4 }
func (m Matrix4Value) Truthy() bool { return AsBoolean(m) }
func (m Matrix4Value) Equal(o Value) bool { return AreEqual(m, o) }

// String returns the nested row form
func (m Matrix4Value) String() string {
	rows := make([][]float64, 4)
	for i := range rows {
		rows[i] = m.M[i][:]
	}
	return formatRows(rows)
}

// Transform rotates and translates p
func (m Matrix4Value) Transform(p Point3Value) Point3Value {
	return Point3Value{
		m.M[0][0]*p.X + m.M[0][1]*p.Y + m.M[0][2]*p.Z + m.M[0][3],
		m.M[1][0]*p.X + m.M[1][1]*p.Y + m.M[1][2]*p.Z + m.M[1][3],
		m.M[2][0]*p.X + m.M[2][1]*p.Y + m.M[2][2]*p.Z + m.M[2][3],
	}
}

// Mul returns m*n
func (m Matrix4Value) Mul(n Matrix4Value) Matrix4Value {
	var r Matrix4Value
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			for k := 0; k < 4; k++ {
				r.M[i][j] += m.M[i][k] * n.M[k][j]
			}
		}
	}
	return r
}

// Transpose returns the transposed matrix
func (m Matrix4Value) Transpose() Matrix4Value {
	var r Matrix4Value
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r.M[i][j] = m.M[j][i]
		}
	}
	return r
}

// matrixDim returns the dimension of a matrix value, or 0
func matrixDim(v Value) int {
	switch v.(type) {
	case Matrix3Value:
		return 3
	case Matrix4Value:
		return 4
	}
	return 0
}

// MatrixElement returns element (row, col), 0-based
func MatrixElement(v Value, row, col int) float64 {
	switch m := v.(type) {
	case Matrix3Value:
		return m.M[row][col]
	case Matrix4Value:
		return m.M[row][col]
	}
	return 0
}

// MatrixRow returns row r (0-based) as a float list
func MatrixRow(v Value, r int) []float64 {
	n := matrixDim(v)
	out := make([]float64, n)
	for j := 0; j < n; j++ {
		out[j] = MatrixElement(v, r, j)
	}
	return out
}

// MatrixColumn returns column c (0-based) as a float list
func MatrixColumn(v Value, c int) []float64 {
	n := matrixDim(v)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = MatrixElement(v, i, c)
	}
	return out
}

// WithMatrixElement returns a copy of the matrix with (row, col) replaced
func WithMatrixElement(v Value, row, col int, f float64) Value {
	switch m := v.(type) {
	case Matrix3Value:
		m.M[row][col] = f
		return m
	case Matrix4Value:
		m.M[row][col] = f
		return m
	}
	return v
}

func formatRows(rows [][]float64) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, row := range rows {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('[')
		for j, f := range row {
			if j > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(formatFloat(f))
		}
		sb.WriteByte(']')
	}
	sb.WriteByte(']')
	return sb.String()
}
