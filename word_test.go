package hwdiv

import "testing"

func Test_xword_asr(t *testing.T) {
	x := newXWord(9)
	td := []struct {
		in, out uint64
	}{
		{0x100, 0x180}, // most negative stays negative
		{0x1FF, 0x1FF}, // -1 >> 1 == -1
		{0x0FF, 0x07F},
		{0x001, 0x000},
		{0x000, 0x000},
		{0x101, 0x180},
	}
	for _, d := range td {
		if got := x.asr(d.in); got != d.out {
			t.Errorf("asr(%#x) = %#x, expected %#x", d.in, got, d.out)
		}
	}

	// walk the most negative value down to -1
	v := uint64(1) << 8
	for i := 0; i < 8; i++ {
		v = x.asr(v)
	}
	if v != x.mask {
		t.Errorf("8 shifts of min value = %#x, expected %#x", v, x.mask)
	}
}

func Test_xword_64bits(t *testing.T) {
	x := newXWord(64)
	if x.mask != ^uint64(0) {
		t.Fatalf("mask = %#x", x.mask)
	}
	if got := x.asr(1 << 63); got != 3<<62 {
		t.Errorf("asr(1<<63) = %#x", got)
	}
	if got := x.int64(x.extend(-5)); got != -5 {
		t.Errorf("int64(extend(-5)) = %d", got)
	}
}

func Test_xword_extend(t *testing.T) {
	x := newXWord(9)
	td := []struct {
		in  int64
		out uint64
		neg bool
	}{
		{0, 0, false},
		{-1, 0x1FF, true},
		{-128, 0x180, true},
		{127, 0x07F, false},
		{22, 22, false},
	}
	for _, d := range td {
		v := x.extend(d.in)
		if v != d.out {
			t.Errorf("extend(%d) = %#x, expected %#x", d.in, v, d.out)
		}
		if x.sign(v) != d.neg {
			t.Errorf("sign(%#x) = %v, expected %v", v, x.sign(v), d.neg)
		}
		if back := x.int64(v); back != d.in {
			t.Errorf("int64(%#x) = %d, expected %d", v, back, d.in)
		}
	}
}

func Test_truncate_fits(t *testing.T) {
	if got := truncate(0x080, 8); got != -128 {
		t.Errorf("truncate(0x80, 8) = %d", got)
	}
	if got := truncate(0x1FF, 8); got != -1 {
		t.Errorf("truncate(0x1FF, 8) = %d", got)
	}
	if got := truncate(0x17F, 8); got != 127 {
		t.Errorf("truncate(0x17F, 8) = %d", got)
	}
	td := []struct {
		v    int64
		w    uint
		fits bool
	}{
		{127, 8, true},
		{128, 8, false},
		{-128, 8, true},
		{-129, 8, false},
		{0, 1, true},
		{-1, 1, true},
		{1, 1, false},
	}
	for _, d := range td {
		if fits(d.v, d.w) != d.fits {
			t.Errorf("fits(%d, %d) = %v", d.v, d.w, !d.fits)
		}
	}
}

func Test_xword_allSign(t *testing.T) {
	x := newXWord(5)
	for v := uint64(0); v < 32; v++ {
		exp := v == 0 || v == 31
		if x.allSign(v) != exp {
			t.Errorf("allSign(%#x) = %v", v, !exp)
		}
	}
}
