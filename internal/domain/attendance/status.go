package attendance

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type Status int

const (
	StatusPresent Status = 1
	StatusAbsent  Status = 2
	StatusHalfDay Status = 3
	StatusLeave   Status = 4
)

var ErrInvalidStatus = errors.New("invalid attendance status")

var statusNames = map[Status]string{
	StatusPresent: "Present",
	StatusAbsent:  "Absent",
	StatusHalfDay: "HalfDay",
	StatusLeave:   "Leave",
}

func (s Status) IsValid() bool {
	_, ok := statusNames[s]
	return ok
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "Status(" + strconv.Itoa(int(s)) + ")"
}

func ParseStatus(raw string) (Status, error) {
	raw = strings.TrimSpace(raw)

	if n, err := strconv.Atoi(raw); err == nil {
		s := Status(n)
		if !s.IsValid() {
			return 0, fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
		}
		return s, nil
	}

	for s, name := range statusNames {
		if strings.EqualFold(name, raw) {
			return s, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
}

func (s Status) MarshalJSON() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatus, int(s))
	}
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(b []byte) error {
	var raw string

	if err := json.Unmarshal(b, &raw); err != nil {
		var n int
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidStatus, string(b))
		}
		raw = strconv.Itoa(n)
	}

	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}

	*s = parsed
	return nil
}
