package quotes

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var errMissingRate = errors.New("rate field missing")

// rateValue decodes a JSON number or a numeric string.
type rateValue struct {
	value float64
	set   bool
}

func (r *rateValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("rate %q is not numeric", s)
		}
		r.value, r.set = f, true
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("rate is not numeric: %w", err)
	}
	r.value, r.set = f, true
	return nil
}

// positive returns the decoded rate if it is present, finite and > 0.
func (r *rateValue) positive() (float64, error) {
	if r == nil || !r.set {
		return 0, errMissingRate
	}
	if math.IsNaN(r.value) || math.IsInf(r.value, 0) || r.value <= 0 {
		return 0, fmt.Errorf("non-positive rate %v", r.value)
	}
	return r.value, nil
}
