package observability

import (
	"context"
	"reflect"
	"testing"
)

func TestParseHeaders(t *testing.T) {
	got := ParseHeaders(" api-key = abc , broken, x=1,=y")
	want := map[string]string{"api-key": "abc", "x": "1"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if ParseHeaders("") != nil {
		t.Fatal("expected nil for empty input")
	}
}

func TestParseRatio(t *testing.T) {
	tests := map[string]float64{
		"":     0.1,
		"0.5":  0.5,
		"2":    1,
		"-1":   0,
		"nope": 0.1,
	}
	for in, want := range tests {
		if got := ParseRatio(in); got != want {
			t.Errorf("ParseRatio(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestInitOTel_Disabled(t *testing.T) {
	shutdown := InitOTel(context.Background(), nil, OtelConfig{Enabled: false})
	if shutdown == nil {
		t.Fatal("expected a shutdown func")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("expected no-op shutdown, got %v", err)
	}
}
