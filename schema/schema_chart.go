package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrReservedSeriesName is returned for series names ending in the compare suffix.
var ErrReservedSeriesName = errors.New("series name must not end in " + CompareSuffix)

// ValidateSeriesNames rejects series whose wire key would parse back as a
// comparison key, so chart points survive a JSON round-trip.
func ValidateSeriesNames(sets ...[]Series) error {
	for _, set := range sets {
		for _, s := range set {
			if strings.HasSuffix(s.Name, CompareSuffix) {
				return fmt.Errorf("%w: %q", ErrReservedSeriesName, s.Name)
			}
		}
	}
	return nil
}

// SeriesKey identifies a series within a chart point.
type SeriesKey struct {
	Kind SeriesKind
	Name string
}

// PrimaryKey returns the key of a primary series.
func PrimaryKey(name string) SeriesKey {
	return SeriesKey{Kind: PrimaryKind, Name: name}
}

// ComparisonKey returns the key of a comparison series.
func ComparisonKey(name string) SeriesKey {
	return SeriesKey{Kind: ComparisonKind, Name: name}
}

// Wire returns the flattened key used in JSON, CSV and Parquet output.
func (k SeriesKey) Wire() string {
	if k.Kind == ComparisonKind {
		return k.Name + CompareSuffix
	}
	return k.Name
}

// String implements fmt.Stringer.
func (k SeriesKey) String() string {
	return k.Wire()
}

// ParseSeriesKey reverses Wire. Names ending in the compare suffix are comparison keys;
// the reversal is exact only for names accepted by ValidateSeriesNames.
func ParseSeriesKey(wire string) SeriesKey {
	if name, ok := strings.CutSuffix(wire, CompareSuffix); ok && name != "" {
		return ComparisonKey(name)
	}
	return PrimaryKey(wire)
}

// SeriesValue is the count one series contributes to a chart point.
type SeriesValue struct {
	Key   SeriesKey
	Count int
}

// ChartPoint is one bucket of aligned chart data. A series with no value at
// this index is absent from Values, which is distinct from a zero count.
type ChartPoint struct {
	Index     int
	TimeLabel string
	Values    []SeriesValue
}

// Value returns the count for key and whether it is present.
func (p ChartPoint) Value(key SeriesKey) (int, bool) {
	for _, v := range p.Values {
		if v.Key == key {
			return v.Count, true
		}
	}
	return 0, false
}

// Keys returns the series keys present in this point, in output order.
func (p ChartPoint) Keys() []SeriesKey {
	keys := make([]SeriesKey, 0, len(p.Values))
	for _, v := range p.Values {
		keys = append(keys, v.Key)
	}
	return keys
}

// MarshalJSON writes the flat wire object: index, timeLabel, then series keys in order.
func (p ChartPoint) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"index":`)
	fmt.Fprintf(&buf, "%d", p.Index)
	buf.WriteString(`,"timeLabel":`)
	label, err := json.Marshal(p.TimeLabel)
	if err != nil {
		return nil, err
	}
	buf.Write(label)
	for _, v := range p.Values {
		key, err := json.Marshal(v.Key.Wire())
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(key)
		fmt.Fprintf(&buf, ":%d", v.Count)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the flat wire object, keeping series keys in document order.
func (p *ChartPoint) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("chart point must be a JSON object")
	}

	*p = ChartPoint{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected chart point key %v", tok)
		}
		switch name {
		case "index":
			if err := dec.Decode(&p.Index); err != nil {
				return fmt.Errorf("invalid index: %w", err)
			}
		case "timeLabel":
			if err := dec.Decode(&p.TimeLabel); err != nil {
				return fmt.Errorf("invalid timeLabel: %w", err)
			}
		default:
			var count int
			if err := dec.Decode(&count); err != nil {
				return fmt.Errorf("invalid count for %q: %w", name, err)
			}
			p.Values = append(p.Values, SeriesValue{Key: ParseSeriesKey(name), Count: count})
		}
	}
	_, err = dec.Token()
	return err
}
