// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

// Version table: alignment pattern centres and, for levels L, M, Q
// and H, the number of error correction blocks and check codewords
// per block.  Codeword totals are derived from the module count.
var vtab = [MaxVersion + 1]version{
	1:  {nil, [4]level{{1, 7}, {1, 10}, {1, 13}, {1, 17}}, 0, 0},
	2:  {[]int{6, 18}, [4]level{{1, 10}, {1, 16}, {1, 22}, {1, 28}}, 0, 0},
	3:  {[]int{6, 22}, [4]level{{1, 15}, {1, 26}, {2, 18}, {2, 22}}, 0, 0},
	4:  {[]int{6, 26}, [4]level{{1, 20}, {2, 18}, {2, 26}, {4, 16}}, 0, 0},
	5:  {[]int{6, 30}, [4]level{{1, 26}, {2, 24}, {4, 18}, {4, 22}}, 0, 0},
	6:  {[]int{6, 34}, [4]level{{2, 18}, {4, 16}, {4, 24}, {4, 28}}, 0, 0},
	7:  {[]int{6, 22, 38}, [4]level{{2, 20}, {4, 18}, {6, 18}, {5, 26}}, 0, 0},
	8:  {[]int{6, 24, 42}, [4]level{{2, 24}, {4, 22}, {6, 22}, {6, 26}}, 0, 0},
	9:  {[]int{6, 26, 46}, [4]level{{2, 30}, {5, 22}, {8, 20}, {8, 24}}, 0, 0},
	10: {[]int{6, 28, 50}, [4]level{{4, 18}, {5, 26}, {8, 24}, {8, 28}}, 0, 0},
	11: {[]int{6, 30, 54}, [4]level{{4, 20}, {5, 30}, {8, 28}, {11, 24}}, 0, 0},
	12: {[]int{6, 32, 58}, [4]level{{4, 24}, {8, 22}, {10, 26}, {11, 28}}, 0, 0},
	13: {[]int{6, 34, 62}, [4]level{{4, 26}, {9, 22}, {12, 24}, {16, 22}}, 0, 0},
	14: {[]int{6, 26, 46, 66}, [4]level{{4, 30}, {9, 24}, {16, 20}, {16, 24}}, 0, 0},
	15: {[]int{6, 26, 48, 70}, [4]level{{6, 22}, {10, 24}, {12, 30}, {18, 24}}, 0, 0},
	16: {[]int{6, 26, 50, 74}, [4]level{{6, 24}, {10, 28}, {17, 24}, {16, 30}}, 0, 0},
	17: {[]int{6, 30, 54, 78}, [4]level{{6, 28}, {11, 28}, {16, 28}, {19, 28}}, 0, 0},
	18: {[]int{6, 30, 56, 82}, [4]level{{6, 30}, {13, 26}, {18, 28}, {21, 28}}, 0, 0},
	19: {[]int{6, 30, 58, 86}, [4]level{{7, 28}, {14, 26}, {21, 26}, {25, 26}}, 0, 0},
	20: {[]int{6, 34, 62, 90}, [4]level{{8, 28}, {16, 26}, {20, 30}, {25, 28}}, 0, 0},
	21: {[]int{6, 28, 50, 72, 94}, [4]level{{8, 28}, {17, 26}, {23, 28}, {25, 30}}, 0, 0},
	22: {[]int{6, 26, 50, 74, 98}, [4]level{{9, 28}, {17, 28}, {23, 30}, {34, 24}}, 0, 0},
	23: {[]int{6, 30, 54, 78, 102}, [4]level{{9, 30}, {18, 28}, {25, 30}, {30, 30}}, 0, 0},
	24: {[]int{6, 28, 54, 80, 106}, [4]level{{10, 30}, {20, 28}, {27, 30}, {32, 30}}, 0, 0},
	25: {[]int{6, 32, 58, 84, 110}, [4]level{{12, 26}, {21, 28}, {29, 30}, {35, 30}}, 0, 0},
	26: {[]int{6, 30, 58, 86, 114}, [4]level{{12, 28}, {23, 28}, {34, 28}, {37, 30}}, 0, 0},
	27: {[]int{6, 34, 62, 90, 118}, [4]level{{12, 30}, {25, 28}, {34, 30}, {40, 30}}, 0, 0},
	28: {[]int{6, 26, 50, 74, 98, 122}, [4]level{{13, 30}, {26, 28}, {35, 30}, {42, 30}}, 0, 0},
	29: {[]int{6, 30, 54, 78, 102, 126}, [4]level{{14, 30}, {28, 28}, {38, 30}, {45, 30}}, 0, 0},
	30: {[]int{6, 26, 52, 78, 104, 130}, [4]level{{15, 30}, {29, 28}, {40, 30}, {48, 30}}, 0, 0},
	31: {[]int{6, 30, 56, 82, 108, 134}, [4]level{{16, 30}, {31, 28}, {43, 30}, {51, 30}}, 0, 0},
	32: {[]int{6, 34, 60, 86, 112, 138}, [4]level{{17, 30}, {33, 28}, {45, 30}, {54, 30}}, 0, 0},
	33: {[]int{6, 30, 58, 86, 114, 142}, [4]level{{18, 30}, {35, 28}, {48, 30}, {57, 30}}, 0, 0},
	34: {[]int{6, 34, 62, 90, 118, 146}, [4]level{{19, 30}, {37, 28}, {51, 30}, {60, 30}}, 0, 0},
	35: {[]int{6, 30, 54, 78, 102, 126, 150}, [4]level{{19, 30}, {38, 28}, {53, 30}, {63, 30}}, 0, 0},
	36: {[]int{6, 24, 50, 76, 102, 128, 154}, [4]level{{20, 30}, {40, 28}, {56, 30}, {66, 30}}, 0, 0},
	37: {[]int{6, 28, 54, 80, 106, 132, 158}, [4]level{{21, 30}, {43, 28}, {59, 30}, {70, 30}}, 0, 0},
	38: {[]int{6, 32, 58, 84, 110, 136, 162}, [4]level{{22, 30}, {45, 28}, {62, 30}, {74, 30}}, 0, 0},
	39: {[]int{6, 26, 54, 82, 110, 138, 166}, [4]level{{24, 30}, {47, 28}, {65, 30}, {77, 30}}, 0, 0},
	40: {[]int{6, 30, 58, 86, 114, 142, 170}, [4]level{{25, 30}, {49, 28}, {68, 30}, {81, 30}}, 0, 0},
}

// maxCheck is the largest number of check codewords per block.
const maxCheck = 30
