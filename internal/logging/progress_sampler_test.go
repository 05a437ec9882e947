package logging

import "testing"

func TestNewProgressSampler(t *testing.T) {
	tests := []struct {
		name       string
		bucketSize float64
		wantSize   float64
	}{
		{"default bucket size for zero", 0, 5},
		{"default bucket size for negative", -1, 5},
		{"custom bucket size", 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewProgressSampler(tt.bucketSize)
			if s.bucketSize != tt.wantSize {
				t.Errorf("bucketSize = %v, want %v", s.bucketSize, tt.wantSize)
			}
			if s.lastBucket != -1 {
				t.Errorf("lastBucket = %d, want -1", s.lastBucket)
			}
		})
	}
}

func TestProgressSamplerNilSampler(t *testing.T) {
	var s *ProgressSampler
	if !s.ShouldLog(50, "weeding") {
		t.Error("ShouldLog on nil sampler should always return true")
	}
	s.Reset()
}

func TestProgressSamplerPassChange(t *testing.T) {
	s := NewProgressSampler(5)
	if !s.ShouldLog(0, "frequency") {
		t.Error("first pass should log")
	}
	if s.ShouldLog(1, "frequency") {
		t.Error("same pass and bucket should not log again")
	}
	if !s.ShouldLog(1, "weeding") {
		t.Error("new pass should log")
	}
	if s.lastPass != "weeding" {
		t.Errorf("lastPass = %q, want weeding", s.lastPass)
	}
}

func TestProgressSamplerBuckets(t *testing.T) {
	s := NewProgressSampler(25)
	emitted := 0
	for done := 0; done <= 100; done++ {
		if s.ShouldLog(Percent(done, 100), "weeding") {
			emitted++
		}
	}
	// pass start plus 25, 50, 75, 100
	if emitted != 5 {
		t.Fatalf("expected 5 emissions, got %d", emitted)
	}
	if s.ShouldLog(150, "weeding") {
		t.Fatal("percent above 100 must clamp to the final bucket")
	}
}

func TestPercentUnknownTotal(t *testing.T) {
	if got := Percent(3, 0); got != -1 {
		t.Fatalf("Percent(3, 0) = %v, want -1", got)
	}
	if got := Percent(1, 4); got != 25 {
		t.Fatalf("Percent(1, 4) = %v, want 25", got)
	}
}
