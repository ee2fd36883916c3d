// Package boundedint implements checked arithmetic over the range of
// integers that can be losslessly represented as an [internet JSON] number,
// as required for index and step values in JSONPath queries by [RFC 9535].
//
// [internet JSON]: https://www.rfc-editor.org/rfc/rfc7493#section-2.2
// [RFC 9535]: https://www.rfc-editor.org/rfc/rfc9535.html#name-overview
package boundedint

const (
	// Max is the maximum value representable, 2^53 - 1.
	Max int64 = 1<<53 - 1

	// Min is the minimum value representable, -(2^53) + 1.
	Min int64 = -1<<53 + 1
)

// InRange returns true if n falls within [Min, Max].
func InRange(n int64) bool {
	return n >= Min && n <= Max
}

// Add returns n1+n2 and true, or 0 and false if the operation overflows
// int64 or the result falls outside [Min, Max].
func Add(n1, n2 int64) (int64, bool) {
	sum := n1 + n2
	if (n2 > 0 && sum < n1) || (n2 < 0 && sum > n1) {
		// int64 overflow.
		return 0, false
	}
	if !InRange(sum) {
		return 0, false
	}
	return sum, true
}

// Sub returns n1-n2 and true, or 0 and false if the operation overflows
// int64 or the result falls outside [Min, Max].
func Sub(n1, n2 int64) (int64, bool) {
	diff := n1 - n2
	if (n2 < 0 && diff < n1) || (n2 > 0 && diff > n1) {
		// int64 overflow.
		return 0, false
	}
	if !InRange(diff) {
		return 0, false
	}
	return diff, true
}

// Mul returns n1*n2 and true, or 0 and false if the operation overflows
// int64 or the result falls outside [Min, Max].
func Mul(n1, n2 int64) (int64, bool) {
	if n1 == 0 || n2 == 0 {
		return 0, true
	}
	product := n1 * n2
	if product/n2 != n1 {
		// int64 overflow.
		return 0, false
	}
	if !InRange(product) {
		return 0, false
	}
	return product, true
}

// Abs returns the absolute value of n and true, or 0 and false if n is
// math.MinInt64 (whose negation overflows int64) or the result falls
// outside [Min, Max].
func Abs(n int64) (int64, bool) {
	if n == -1<<63 {
		return 0, false
	}
	if n < 0 {
		n = -n
	}
	if !InRange(n) {
		return 0, false
	}
	return n, true
}
