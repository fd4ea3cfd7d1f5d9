package domain

import "testing"

func TestFunctionSpecEqual(t *testing.T) {
	a := FunctionSpec{Kind: "resize-image", MemSize: 256, RunTime: 1000, WarmTime: 100}
	b := FunctionSpec{Kind: "resize-image", MemSize: 512, RunTime: 2000, WarmTime: 50}
	c := FunctionSpec{Kind: "thumbnail", MemSize: 256, RunTime: 1000, WarmTime: 100}

	if !a.Equal(b) {
		t.Fatalf("specs sharing a kind must compare equal regardless of other fields")
	}
	if a.Equal(c) {
		t.Fatalf("specs with different kinds must not compare equal")
	}
}

func TestFunctionSpecValidate(t *testing.T) {
	tests := []struct {
		name    string
		spec    FunctionSpec
		wantErr bool
	}{
		{"valid", FunctionSpec{Kind: "a", MemSize: 128, RunTime: 1000, WarmTime: 100}, false},
		{"empty kind", FunctionSpec{Kind: "", MemSize: 128, RunTime: 1000, WarmTime: 100}, true},
		{"zero mem", FunctionSpec{Kind: "a", MemSize: 0, RunTime: 1000, WarmTime: 100}, true},
		{"negative run time", FunctionSpec{Kind: "a", MemSize: 128, RunTime: -1, WarmTime: 0}, true},
		{"warm exceeds run", FunctionSpec{Kind: "a", MemSize: 128, RunTime: 100, WarmTime: 200}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestColdProcTime(t *testing.T) {
	s := FunctionSpec{Kind: "a", MemSize: 128, RunTime: 1000, WarmTime: 100}
	got := s.ColdProcTime(3000, 0.2)
	want := 3000.0 + 1000.0*1.2
	if got != want {
		t.Fatalf("ColdProcTime() = %v, want %v", got, want)
	}
}
