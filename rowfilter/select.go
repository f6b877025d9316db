package rowfilter

// FilterRows runs every enabled filter over each active row of a
// width*height int16 plane and keeps the one minimizing the sum of
// absolute residuals. active, when non-nil, marks which rows actually
// carry DCT-class residuals (rows outside any DCT-classified block are
// left at filter id None with a zero residual row). maxFilter bounds the
// candidate set to MaxFilterBasic or MaxFilterPhoto.
func FilterRows(data []int16, width, height int, active []bool, maxFilter byte) (filterIDs []byte, residuals []int16) {
	filterIDs = make([]byte, height)
	residuals = make([]int16, width*height)

	cand := make([][]int16, Count)
	for f := range cand {
		cand[f] = make([]int16, width)
	}

	for y := 0; y < height; y++ {
		if active != nil && !active[y] {
			continue
		}
		row := data[y*width : y*width+width]
		var prev []int16
		if y > 0 {
			prev = data[(y-1)*width : (y-1)*width+width]
		}

		for x := 0; x < width; x++ {
			a, b, c := neighbors(row, prev, x)
			for f := byte(0); f <= maxFilter; f++ {
				pred := Predict(f, a, b, c)
				cand[f][x] = int16(int32(row[x]) - pred)
			}
		}

		best := byte(0)
		bestSum := int64(-1)
		for f := byte(0); f <= maxFilter; f++ {
			var sum int64
			for x := 0; x < width; x++ {
				sum += int64(abs32(int32(cand[f][x])))
			}
			if bestSum < 0 || sum < bestSum {
				bestSum = sum
				best = f
			}
		}

		filterIDs[y] = best
		copy(residuals[y*width:y*width+width], cand[best])
	}
	return filterIDs, residuals
}

// UnfilterRows reverses FilterRows; rows with active[y] == true (every
// row when active is nil) are reconstructed causally from filterIDs,
// and rows with active[y] == false are skipped and left zero.
func UnfilterRows(filterIDs []byte, residuals []int16, width, height int, active []bool) []int16 {
	out := make([]int16, width*height)
	for y := 0; y < height; y++ {
		if active != nil && !active[y] {
			continue
		}
		row := out[y*width : y*width+width]
		resid := residuals[y*width : y*width+width]
		var prev []int16
		if y > 0 {
			prev = out[(y-1)*width : (y-1)*width+width]
		}
		ftype := filterIDs[y]
		for x := 0; x < width; x++ {
			a, b, c := neighbors(row, prev, x)
			pred := Predict(ftype, a, b, c)
			row[x] = int16(int32(resid[x]) + pred)
		}
	}
	return out
}

func neighbors(row, prev []int16, x int) (a, b, c int32) {
	if x > 0 {
		a = int32(row[x-1])
	}
	if prev != nil {
		b = int32(prev[x])
		if x > 0 {
			c = int32(prev[x-1])
		}
	}
	return a, b, c
}
