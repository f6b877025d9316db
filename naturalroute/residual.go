package naturalroute

// neighbors returns the causal left/up/upper-left samples for (x,y) in a
// padW x padH int16 plane, treating out-of-bounds neighbors as zero.
func neighbors(padded []int16, padW, x, y int) (a, b, c int32) {
	if x > 0 {
		a = int32(padded[y*padW+x-1])
	}
	if y > 0 {
		b = int32(padded[(y-1)*padW+x])
		if x > 0 {
			c = int32(padded[(y-1)*padW+x-1])
		}
	}
	return a, b, c
}

// chooseRowPredictor picks, for one row, the predictor id among the
// first numPredictors ids that minimizes the sum of absolute residuals.
func chooseRowPredictor(padded []int16, padW, y, numPredictors int) byte {
	costs := make([]int64, numPredictors)
	for x := 0; x < padW; x++ {
		cur := int32(padded[y*padW+x])
		a, b, c := neighbors(padded, padW, x, y)
		for id := 0; id < numPredictors; id++ {
			costs[id] += abs64(int64(cur - predict(byte(id), a, b, c)))
		}
	}
	best := 0
	for id := 1; id < numPredictors; id++ {
		if costs[id] < costs[best] {
			best = id
		}
	}
	return byte(best)
}

// buildRowIDs chooses one predictor id per row of a padW x padH plane.
func buildRowIDs(padded []int16, padW, padH, numPredictors int) []byte {
	ids := make([]byte, padH)
	for y := 0; y < padH; y++ {
		ids[y] = chooseRowPredictor(padded, padW, y, numPredictors)
	}
	return ids
}

// residualsForRowIDs walks the plane row by row applying the chosen
// per-row predictor, returning the signed residual for every pixel in
// raster order.
func residualsForRowIDs(padded []int16, padW, padH int, rowIDs []byte) []int16 {
	out := make([]int16, padW*padH)
	for y := 0; y < padH; y++ {
		id := rowIDs[y]
		for x := 0; x < padW; x++ {
			cur := int32(padded[y*padW+x])
			a, b, c := neighbors(padded, padW, x, y)
			out[y*padW+x] = int16(cur - predict(id, a, b, c))
		}
	}
	return out
}

// reconstructForRowIDs reverses residualsForRowIDs.
func reconstructForRowIDs(residuals []int16, padW, padH int, rowIDs []byte) []int16 {
	out := make([]int16, padW*padH)
	for y := 0; y < padH; y++ {
		id := rowIDs[y]
		for x := 0; x < padW; x++ {
			a, b, c := neighbors(out, padW, x, y)
			out[y*padW+x] = int16(predict(id, a, b, c) + int32(residuals[y*padW+x]))
		}
	}
	return out
}
