package mp3

import "math"

// pow43Table[i] = i^(4/3), precomputed for every magnitude a Huffman-decoded
// big-values or count1 sample can take. 8207 entries cover magnitudes 0..8206;
// the largest big_values magnitude is 15 plus a 13-bit linbits value
// (15+8191 = 8206), matching
// sonata-codec-mp3/src/layer3/requantize.rs's REQUANTIZE_POW43 table.
var pow43Table [8207]float32

func init() {
	for i := range pow43Table {
		pow43Table[i] = float32(math.Pow(float64(i), 4.0/3.0))
	}
}

// pow43 returns i^(4/3) for i >= 0, extending the precomputed table for any
// magnitude beyond it (a sample magnitude this large cannot occur within
// Layer III's coded range, but computing rather than panicking keeps this
// helper total).
func pow43(i int) float32 {
	if i >= 0 && i < len(pow43Table) {
		return pow43Table[i]
	}
	return float32(math.Pow(float64(i), 4.0/3.0))
}
