package audit

import "testing"

func TestToJSON(t *testing.T) {
	if ToJSON(nil) != nil {
		t.Fatalf("nil should stay nil")
	}
	got := ToJSON(map[string][]string{"names": {"Priya Sharma"}})
	if string(got) != `{"names":["Priya Sharma"]}` {
		t.Fatalf("unexpected json %s", got)
	}
	if ToJSON(make(chan int)) != nil {
		t.Fatalf("unmarshalable value should give nil")
	}
}

func TestFilterLimit(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 50},
		{-3, 50},
		{1, 1},
		{120, 120},
		{200, 200},
		{201, 200},
		{10000, 200},
	}
	for _, tt := range tests {
		if got := (Filter{Limit: tt.in}).limit(); got != tt.want {
			t.Fatalf("limit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
