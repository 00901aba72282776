package field

// Fixed-width packing of element vectors

// PackElements writes each element in exactly k bits, most significant bit
// first, and rounds the output up to a whole byte.
func PackElements(elements []Element, k int) []byte {
	out := make([]byte, (len(elements)*k+7)/8)
	for i, element := range elements {
		src := element.Bits(k)
		base := i * k
		for bit := 0; bit < k; bit++ {
			if src[bit/8]&(1<<(7-bit%8)) == 0 {
				continue
			}
			dst := base + bit
			out[dst/8] |= 1 << (7 - dst%8)
		}
	}
	return out
}

// UnpackElements reads n elements of k bits each from data. Missing trailing
// bits read as zero.
func UnpackElements(data []byte, n, k int, f Field) []Element {
	result := make([]Element, n)
	buf := make([]byte, (k+7)/8)
	for i := 0; i < n; i++ {
		for j := range buf {
			buf[j] = 0
		}
		base := i * k
		for bit := 0; bit < k; bit++ {
			src := base + bit
			if src/8 < len(data) && data[src/8]&(1<<(7-src%8)) != 0 {
				buf[bit/8] |= 1 << (7 - bit%8)
			}
		}
		result[i] = f.FromBits(buf, k)
	}
	return result
}
