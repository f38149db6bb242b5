package mp3

import (
	"math"
	"testing"
)

func TestPow43KnownValues(t *testing.T) {
	cases := []struct {
		in   int
		want float64
	}{
		{0, 0},
		{1, 1},
		{8, 16}, // 8^(4/3) = (2^3)^(4/3) = 2^4 = 16
	}
	for _, c := range cases {
		got := float64(pow43(c.in))
		if math.Abs(got-c.want) > 1e-3 {
			t.Errorf("pow43(%d) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestPow43BeyondTableStillComputes(t *testing.T) {
	got := pow43(len(pow43Table) + 5)
	want := math.Pow(float64(len(pow43Table)+5), 4.0/3.0)
	if math.Abs(float64(got)-want) > 1 {
		t.Errorf("pow43 beyond table = %v, want ~%v", got, want)
	}
}
