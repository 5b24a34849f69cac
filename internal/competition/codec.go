package competition

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// Encode serializes c in the save-file and document-writer exchange format.
func Encode(c Competition) ([]byte, error) {
	data, err := json.Marshal(c.Clone())
	if err != nil {
		return nil, fmt.Errorf("encode competition: %w", err)
	}
	return data, nil
}

// EncodeIndent is Encode with two-space indentation, used for save files.
func EncodeIndent(c Competition) ([]byte, error) {
	data, err := json.MarshalIndent(c.Clone(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode competition: %w", err)
	}
	return data, nil
}

// Decode parses the exchange format. Missing or null collections decode as
// empty.
func Decode(data []byte) (Competition, error) {
	rec, err := DecodeRecord(data)
	if err != nil {
		return Competition{}, err
	}
	return rec.Competition(), nil
}

// DecodeRecord parses the exchange format keeping absent collections nil.
func DecodeRecord(data []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("decode competition: %w", err)
	}
	return rec, nil
}
