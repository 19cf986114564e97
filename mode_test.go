package aspect

import (
	"math"
	"testing"
)

func TestModeRefresh(t *testing.T) {
	tests := []struct {
		name string
		m    Mode
		want float64
	}{
		{"1080p60", Mode{Width: 1920, Height: 1080, Clock: 148500, HTotal: 2200, VTotal: 1125}, 60.0},
		{"720p60", Mode{Width: 1280, Height: 720, Clock: 74250, HTotal: 1650, VTotal: 750}, 60.0},
		{"synthetic", Mode{Clock: 60000, HTotal: 1000, VTotal: 1000}, 60.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.Refresh(); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Refresh() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestModeFrameHeight(t *testing.T) {
	p := Mode{Width: 1920, Height: 1080}
	if got := p.FrameHeight(); got != 1080 {
		t.Errorf("FrameHeight() = %d, want 1080", got)
	}
	i := Mode{Width: 1920, Height: 540, Interlaced: true}
	if got := i.FrameHeight(); got != 1080 {
		t.Errorf("FrameHeight() = %d, want 1080", got)
	}
}

func TestModeString(t *testing.T) {
	tests := []struct {
		m    Mode
		want string
	}{
		{Mode{Name: "1920x1080"}, "1920x1080"},
		{Mode{Width: 1280, Height: 720}, "1280x720"},
		{Mode{Width: 1920, Height: 540, Interlaced: true}, "1920x540i"},
	}

	for _, tt := range tests {
		if got := tt.m.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestMatchMode(t *testing.T) {
	mode1080p60 := Mode{Name: "1080p60", Width: 1920, Height: 1080, Clock: 148500, HTotal: 2200, VTotal: 1125}
	mode1080p50 := Mode{Name: "1080p50", Width: 1920, Height: 1080, Clock: 148500, HTotal: 2640, VTotal: 1125}
	mode1080i60 := Mode{Name: "1080i60", Width: 1920, Height: 540, Clock: 74250, HTotal: 2200, VTotal: 562, Interlaced: true}
	mode540p60 := Mode{Name: "540p60", Width: 1920, Height: 540, Clock: 74250, HTotal: 2200, VTotal: 562}
	modes := []Mode{mode1080p60, mode1080p50, mode1080i60, mode540p60}

	fps60 := NewFraction(60, 1)
	fps50 := NewFraction(50, 1)

	t.Run("progressive rate match", func(t *testing.T) {
		got, ok := MatchMode(modes, geom(1920, 1080, Square), fps50, false)
		if !ok || got.Name != "1080p50" {
			t.Errorf("MatchMode() = %v, %v, want 1080p50", got, ok)
		}
	})

	t.Run("progressive falls back to a size match", func(t *testing.T) {
		got, ok := MatchMode(modes, geom(1920, 1080, Square), NewFraction(24, 1), false)
		if !ok {
			t.Fatal("MatchMode() found nothing, want the size-matching fallback")
		}
		// Both 1080p modes match on size; the loop remembers the last.
		if got.Name != "1080p50" {
			t.Errorf("MatchMode() = %v, want 1080p50", got)
		}
	})

	t.Run("interlaced requires the interlace flag", func(t *testing.T) {
		got, ok := MatchMode([]Mode{mode540p60}, geom(1920, 1080, Square), fps60, true)
		if ok {
			t.Errorf("MatchMode() = %v, want no match against a progressive mode", got)
		}
	})

	t.Run("interlaced matches the field height", func(t *testing.T) {
		want := mode1080i60.Refresh()
		got, ok := MatchMode(modes, geom(1920, 1080, Square), NewFraction(int64(want*1000), 1000), true)
		if !ok || got.Name != "1080i60" {
			t.Errorf("MatchMode() = %v, %v, want 1080i60", got, ok)
		}
	})

	t.Run("interlaced never falls back on rate", func(t *testing.T) {
		_, ok := MatchMode(modes, geom(1920, 1080, Square), NewFraction(24, 1), true)
		if ok {
			t.Error("MatchMode() matched an interlaced mode at the wrong rate")
		}
	})

	t.Run("no size match", func(t *testing.T) {
		_, ok := MatchMode(modes, geom(1280, 720, Square), fps60, false)
		if ok {
			t.Error("MatchMode() matched a size no mode has")
		}
	})
}

func TestModeConstraints(t *testing.T) {
	c := ModeConstraints(Mode{Width: 1920, Height: 540, Interlaced: true})
	if w, ok := c.Width.Fixed(); !ok || w != 1920 {
		t.Errorf("width constraint = %v, want fixed 1920", c.Width)
	}
	if h, ok := c.Height.Fixed(); !ok || h != 1080 {
		t.Errorf("height constraint = %v, want fixed 1080", c.Height)
	}
	if c.PAR.Present() {
		t.Errorf("PAR constraint = %v, want absent", c.PAR)
	}
}

func TestRangeConstraints(t *testing.T) {
	c := RangeConstraints(16, 4096, 16, 2160)
	if got := c.Width.Nearest(8192); got != 4096 {
		t.Errorf("width Nearest(8192) = %d, want 4096", got)
	}
	if got := c.Height.Nearest(1); got != 16 {
		t.Errorf("height Nearest(1) = %d, want 16", got)
	}
}

func TestForceNTSCTV(t *testing.T) {
	got := ForceNTSCTV(geom(640, 480, Square))
	if got.Width != 720 || got.Height != 486 {
		t.Errorf("ForceNTSCTV() = %v, want 720x486", got)
	}
	same := geom(1920, 1080, Square)
	if got := ForceNTSCTV(same); got != same {
		t.Errorf("ForceNTSCTV() = %v, want unchanged %v", got, same)
	}
}
