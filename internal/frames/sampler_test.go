package frames

import "testing"

func TestSampleTimestampsSingle(t *testing.T) {
	got := SampleTimestamps(10500, 1)
	if len(got) != 1 {
		t.Fatalf("expected 1 timestamp, got %d", len(got))
	}
	if got[0] != 5250 {
		t.Errorf("midpoint = %d, want 5250", got[0])
	}

	// Zero and negative counts also collapse to the midpoint
	if got := SampleTimestamps(10000, 0); len(got) != 1 || got[0] != 5000 {
		t.Errorf("count=0 gave %v, want [5000]", got)
	}
}

func TestSampleTimestampsEvenSpread(t *testing.T) {
	tests := []struct {
		name       string
		durationMs int64
		count      int
	}{
		{"two frames", 60000, 2},
		{"five frames", 90017, 5},
		{"many frames short clip", 1000, 10},
		{"odd duration", 33333, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SampleTimestamps(tt.durationMs, tt.count)
			if len(got) != tt.count {
				t.Fatalf("got %d timestamps, want %d", len(got), tt.count)
			}
			if got[0] != 0 {
				t.Errorf("first timestamp = %d, want 0", got[0])
			}
			if got[len(got)-1] != tt.durationMs {
				t.Errorf("last timestamp = %d, want %d", got[len(got)-1], tt.durationMs)
			}
			for i := 1; i < len(got); i++ {
				if got[i] < got[i-1] {
					t.Errorf("timestamps not non-decreasing at %d: %d < %d", i, got[i], got[i-1])
				}
			}
			for _, ts := range got {
				if ts < 0 || ts > tt.durationMs {
					t.Errorf("timestamp %d outside [0, %d]", ts, tt.durationMs)
				}
			}
		})
	}
}

func TestSampleTimestampsFloorDivision(t *testing.T) {
	// durationMs*i/(count-1) with integer floor: 100*1/3 = 33
	got := SampleTimestamps(100, 4)
	want := []int64{0, 33, 66, 100}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("timestamp[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}
