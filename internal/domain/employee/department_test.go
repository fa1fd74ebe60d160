package employee

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseDepartment(t *testing.T) {
	tests := []struct {
		in      string
		want    Department
		wantErr bool
	}{
		{in: "IT", want: DepartmentIT},
		{in: "finance", want: DepartmentFinance},
		{in: " Operations ", want: DepartmentOperations},
		{in: "1", want: DepartmentHR},
		{in: "6", wantErr: true},
		{in: "Legal", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDepartment(tt.in)

			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDepartment) {
					t.Fatalf("expected ErrInvalidDepartment, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDepartmentJSON(t *testing.T) {
	b, err := json.Marshal(DepartmentSales)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"Sales"` {
		t.Fatalf("expected \"Sales\", got %s", b)
	}

	var fromName, fromCode Department
	if err := json.Unmarshal([]byte(`"hr"`), &fromName); err != nil {
		t.Fatalf("unmarshal name: %v", err)
	}
	if err := json.Unmarshal([]byte(`2`), &fromCode); err != nil {
		t.Fatalf("unmarshal code: %v", err)
	}
	if fromName != DepartmentHR || fromCode != DepartmentIT {
		t.Fatalf("got %v and %v", fromName, fromCode)
	}

	var bad Department
	if err := json.Unmarshal([]byte(`"Marketing"`), &bad); err == nil {
		t.Fatalf("expected error for unknown department")
	}
}

func TestDepartmentString_Unknown(t *testing.T) {
	if got := Department(42).String(); got != "Department(42)" {
		t.Fatalf("got %q", got)
	}
}
