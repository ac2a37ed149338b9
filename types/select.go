package types

import "github.com/bits-and-blooms/bitset"

// SelectItem applies a 1-based item selector to a bit-set, list, string,
// matrix or byte array. i2 == NoIndex selects the single item i1; otherwise
// [i1, i2] is a range. Indexes <= 0 count back from the end. A selector of
// Unselected returns v unchanged. Out-of-range selections on strings and
// lists yield "". A single list item is returned itself, so selecting a
// nested container shares it.
func SelectItem(v Value, i1, i2 int) Value {
	if i1 == Unselected {
		return v
	}
	isOne := i2 == NoIndex

	var n int
	switch x := v.(type) {
	case BitSetValue:
		if x.IsSelected() {
			n = 1
		} else {
			n = int(x.Bits.Count())
		}
	case StrValue:
		n = x.Len()
	case *ListValue:
		n = x.Len()
	case BytesValue:
		n = len(x.Data)
	case Matrix3Value, Matrix4Value:
		return selectMatrix(v, i1, i2, isOne)
	default:
		return v
	}

	if i1 <= 0 {
		i1 = n + i1
	}
	if !isOne {
		if i1 < 1 {
			i1 = 1
		}
		switch {
		case i2 == 0:
			i2 = n
		case i2 < 0:
			i2 = n + i2
		}
		if i2 < i1 {
			i2 = i1
		}
	}

	switch x := v.(type) {
	case BitSetValue:
		return selectBits(x, i1, i2, isOne)
	case StrValue:
		if i1 < 1 || i1 > n || !isOne && i2 > n {
			return EmptyStr
		}
		rs := []rune(x.val)
		if isOne {
			return NewStr(string(rs[i1-1]))
		}
		return NewStr(string(rs[i1-1 : i2]))
	case *ListValue:
		if i1 < 1 || i1 > n || !isOne && i2 > n {
			return EmptyStr
		}
		if isOne {
			return x.Get(i1)
		}
		return x.Slice(i1, i2)
	case BytesValue:
		if i1 < 1 || i1 > n || !isOne && i2 > n {
			return EmptyStr
		}
		if isOne {
			return NewInt(int(x.Data[i1-1]))
		}
		out := make([]byte, i2-i1+1)
		copy(out, x.Data[i1-1:i2])
		return NewBytes(out)
	}
	return v
}

// selectBits keeps the i1-th member (or members i1..i2) of the set. An
// already-selected set cannot be narrowed past its first member.
func selectBits(x BitSetValue, i1, i2 int, isOne bool) Value {
	if x.IsSelected() {
		if i1 > 1 {
			return x.WithBits(bitset.New(0))
		}
		return x
	}
	if isOne {
		i2 = i1
	}
	out := bitset.New(x.Bits.Len())
	k := 0
	for i, ok := x.Bits.NextSet(0); ok; i, ok = x.Bits.NextSet(i + 1) {
		k++
		if k > i2 {
			break
		}
		if k >= i1 {
			out.Set(i)
		}
	}
	return x.WithBits(out)
}

// selectMatrix implements m[row][col], m[rc] (row*10+col), m[r] (a row)
// and m[-c] (a column)
func selectMatrix(v Value, i1, i2 int, isOne bool) Value {
	n := matrixDim(v)
	if i1 > n {
		// m[23] reads row 2, column 3
		if !isOne {
			return EmptyStr
		}
		col := i1 % 10
		row := i1 / 10
		if row < 1 || row > n || col < 1 || col > n {
			return EmptyStr
		}
		return NewFloat(MatrixElement(v, row-1, col-1))
	}
	if i1 == 0 || -i1 > n {
		return EmptyStr
	}
	if i1 < 0 {
		col := MatrixColumn(v, -1-i1)
		if isOne {
			return FloatList(col)
		}
		if i2 < 1 || i2 > n {
			return EmptyStr
		}
		return NewFloat(col[i2-1])
	}
	row := MatrixRow(v, i1-1)
	if isOne {
		return FloatList(row)
	}
	if i2 < 1 || i2 > n {
		return EmptyStr
	}
	return NewFloat(row[i2-1])
}
