package nbastats

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Record is one row keyed by column name.
type Record map[string]any

// String returns the field as a string. Numbers are formatted without
// exponent.
func (r Record) String(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// Int returns the field as an int. ok is false when the field is absent,
// null or not numeric.
func (r Record) Int(key string) (int64, bool) {
	switch v := r[key].(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, true
		}
		if f, err := v.Float64(); err == nil {
			return int64(f), true
		}
	case float64:
		return int64(v), true
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// Float returns the field as a float64.
func (r Record) Float(key string) (float64, bool) {
	switch v := r[key].(type) {
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}

// IntOrZero is Int without the presence flag.
func (r Record) IntOrZero(key string) int64 {
	n, _ := r.Int(key)
	return n
}

// ResultSet is a headers-and-rows table.
type ResultSet struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
	RowSet  [][]any  `json:"rowSet"`
}

// Records zips each row with the headers.
func (rs ResultSet) Records() []Record {
	out := make([]Record, 0, len(rs.RowSet))
	for _, row := range rs.RowSet {
		rec := make(Record, len(rs.Headers))
		for i, h := range rs.Headers {
			if i < len(row) {
				rec[h] = row[i]
			}
		}
		out = append(out, rec)
	}
	return out
}

// Payload is an upstream response after shape normalization. Endpoints
// answer either with a list of result sets or with a dictionary holding a
// playlist and its video URLs; both end up here.
type Payload struct {
	Sets      []ResultSet
	Playlist  []Record
	VideoURLs []Record
}

// Set returns the result set with the given name, case-insensitively.
func (p *Payload) Set(name string) (ResultSet, bool) {
	for _, s := range p.Sets {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return ResultSet{}, false
}

// decodePayload normalizes the two response shapes.
func decodePayload(body []byte) (*Payload, error) {
	var root map[string]json.RawMessage
	if err := decodeJSON(body, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamSchema, err)
	}

	raw, ok := root["resultSets"]
	if !ok {
		raw, ok = root["resultSet"]
	}
	if !ok || len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return nil, fmt.Errorf("%w: no result sets", ErrUpstreamSchema)
	}

	p := &Payload{}
	switch bytes.TrimSpace(raw)[0] {
	case '[':
		if err := decodeJSON(raw, &p.Sets); err != nil {
			return nil, fmt.Errorf("%w: result set list: %v", ErrUpstreamSchema, err)
		}
		if s, ok := p.Set("Playlist"); ok {
			p.Playlist = s.Records()
		}
		if s, ok := p.Set("VideoUrls"); ok {
			p.VideoURLs = s.Records()
		} else if s, ok := p.Set("Meta"); ok {
			p.VideoURLs = s.Records()
		}
	case '{':
		var obj map[string]json.RawMessage
		if err := decodeJSON(raw, &obj); err != nil {
			return nil, fmt.Errorf("%w: result set object: %v", ErrUpstreamSchema, err)
		}
		if _, single := obj["rowSet"]; single {
			var s ResultSet
			if err := decodeJSON(raw, &s); err != nil {
				return nil, fmt.Errorf("%w: result set: %v", ErrUpstreamSchema, err)
			}
			p.Sets = []ResultSet{s}
			break
		}
		if err := decodePlaylist(obj, p); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: result sets are neither list nor object", ErrUpstreamSchema)
	}
	return p, nil
}

func decodePlaylist(obj map[string]json.RawMessage, p *Payload) error {
	if raw, ok := obj["playlist"]; ok {
		var items []map[string]any
		if err := decodeJSON(raw, &items); err != nil {
			return fmt.Errorf("%w: playlist: %v", ErrUpstreamSchema, err)
		}
		for _, it := range items {
			p.Playlist = append(p.Playlist, Record(it))
		}
	}
	if raw, ok := obj["Meta"]; ok {
		var meta struct {
			VideoURLs []map[string]any `json:"videoUrls"`
		}
		if err := decodeJSON(raw, &meta); err != nil {
			return fmt.Errorf("%w: meta: %v", ErrUpstreamSchema, err)
		}
		for _, it := range meta.VideoURLs {
			p.VideoURLs = append(p.VideoURLs, Record(it))
		}
	}
	return nil
}

func decodeJSON(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(v)
}
