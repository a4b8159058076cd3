// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package chainbdd

// _PAIR maps a pair of integers (a, b) bijectively onto a single integer
// then folds it into [0, len) with a modulo operation.
func _PAIR(a, b, len int) int {
	ua := uint64(uint32(a))
	ub := uint64(uint32(b))
	return int(((((ua + ub) * (ua + ub + 1)) / 2) + ua) % uint64(len))
}

// _TRIPLE extends _PAIR to three integers.
func _TRIPLE(a, b, c, len int) int {
	return _PAIR(c, _PAIR(a, b, len), len)
}

// _QUAD extends _PAIR to four integers, used to hash operation-cache keys
// (an operation tag plus three operands).
func _QUAD(a, b, c, d, len int) int {
	return _PAIR(d, _TRIPLE(a, b, c, len), len)
}
