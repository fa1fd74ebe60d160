package employee

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Department is a closed enumeration. The numeric codes are what the
// database stores; the names are what every API and report shows.
type Department int

const (
	DepartmentHR         Department = 1
	DepartmentIT         Department = 2
	DepartmentFinance    Department = 3
	DepartmentSales      Department = 4
	DepartmentOperations Department = 5
)

var ErrInvalidDepartment = errors.New("invalid department")

var departmentNames = map[Department]string{
	DepartmentHR:         "HR",
	DepartmentIT:         "IT",
	DepartmentFinance:    "Finance",
	DepartmentSales:      "Sales",
	DepartmentOperations: "Operations",
}

// Departments lists every department in declaration order.
func Departments() []Department {
	return []Department{
		DepartmentHR,
		DepartmentIT,
		DepartmentFinance,
		DepartmentSales,
		DepartmentOperations,
	}
}

func (d Department) IsValid() bool {
	_, ok := departmentNames[d]
	return ok
}

func (d Department) String() string {
	if name, ok := departmentNames[d]; ok {
		return name
	}
	return "Department(" + strconv.Itoa(int(d)) + ")"
}

// ParseDepartment accepts a department name (any case) or its numeric code.
func ParseDepartment(s string) (Department, error) {
	s = strings.TrimSpace(s)

	if n, err := strconv.Atoi(s); err == nil {
		d := Department(n)
		if !d.IsValid() {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDepartment, s)
		}
		return d, nil
	}

	for d, name := range departmentNames {
		if strings.EqualFold(name, s) {
			return d, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalidDepartment, s)
}

func (d Department) MarshalJSON() ([]byte, error) {
	if !d.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDepartment, int(d))
	}
	return json.Marshal(d.String())
}

func (d *Department) UnmarshalJSON(b []byte) error {
	var raw string

	if err := json.Unmarshal(b, &raw); err != nil {
		var n int
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidDepartment, string(b))
		}
		raw = strconv.Itoa(n)
	}

	parsed, err := ParseDepartment(raw)
	if err != nil {
		return err
	}

	*d = parsed
	return nil
}
