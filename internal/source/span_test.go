package source

import (
	"testing"
)

func TestSpan_Empty(t *testing.T) {
	tests := []struct {
		name     string
		span     Span
		expected bool
	}{
		{
			name:     "zero span is empty",
			span:     Span{},
			expected: true,
		},
		{
			name:     "zero-length span at offset is empty",
			span:     Span{File: 1, Start: 10, End: 10},
			expected: true,
		},
		{
			name:     "normal span is not empty",
			span:     Span{File: 1, Start: 10, End: 15},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.span.Empty(); got != tt.expected {
				t.Errorf("Empty() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSpan_Cover(t *testing.T) {
	tests := []struct {
		name     string
		span     Span
		other    Span
		expected Span
	}{
		{
			name:     "cover extends end",
			span:     Span{File: 1, Start: 5, End: 10},
			other:    Span{File: 1, Start: 8, End: 20},
			expected: Span{File: 1, Start: 5, End: 20},
		},
		{
			name:     "cover extends start",
			span:     Span{File: 1, Start: 5, End: 10},
			other:    Span{File: 1, Start: 2, End: 6},
			expected: Span{File: 1, Start: 2, End: 10},
		},
		{
			name:     "different file leaves span unchanged",
			span:     Span{File: 1, Start: 5, End: 10},
			other:    Span{File: 2, Start: 0, End: 100},
			expected: Span{File: 1, Start: 5, End: 10},
		},
		{
			name:     "contained span changes nothing",
			span:     Span{File: 1, Start: 0, End: 50},
			other:    Span{File: 1, Start: 10, End: 20},
			expected: Span{File: 1, Start: 0, End: 50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.span.Cover(tt.other); got != tt.expected {
				t.Errorf("Cover() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestSpan_Contains(t *testing.T) {
	sp := Span{File: 1, Start: 10, End: 15}
	for off, want := range map[uint32]bool{9: false, 10: true, 14: true, 15: false} {
		if got := sp.Contains(off); got != want {
			t.Errorf("Contains(%d) = %v, want %v", off, got, want)
		}
	}
}
