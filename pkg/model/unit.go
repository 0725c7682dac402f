package model

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var jsonIt = jsoniter.ConfigCompatibleWithStandardLibrary

// HexBytes is a binary blob serialized as a 0x-prefixed hex string,
// the usual encoding for compiled bytecode.
type HexBytes []byte

// MarshalJSON encodes the blob as "0x...."
func (h HexBytes) MarshalJSON() ([]byte, error) {
	return json.Marshal("0x" + hex.EncodeToString(h))
}

// UnmarshalJSON accepts a hex string, with or without the 0x prefix
func (h *HexBytes) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	s = strings.TrimPrefix(s, "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("invalid hex blob: %w", err)
	}
	*h = b
	return nil
}

// CompiledUnit is one compiled output in a bundle: an interface
// descriptor (ABI), the raw bytecode and free-form metadata, opaque to
// the store. Immutable once produced.
//
// This is also the on-disk shape of a unit file: one self-describing
// JSON document per unit.
type CompiledUnit struct {
	SourceName string          `json:"sourceName"`
	UnitName   string          `json:"unitName"`
	ABI        json.RawMessage `json:"abi"`
	Bytecode   HexBytes        `json:"bytecode"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
	_          struct{}
}

// QualifiedName uniquely identifies the unit within a bundle, as
// "<path>:<unitName>" (e.g. "src/Token.sol:Token").
func (u *CompiledUnit) QualifiedName() string {
	return u.SourceName + ":" + u.UnitName
}

// ParseQualifiedName splits a qualified unit name into its source path
// and unit name parts.
func ParseQualifiedName(qualified string) (sourceName, unitName string, err error) {
	i := strings.LastIndex(qualified, ":")
	if i <= 0 || i == len(qualified)-1 {
		return "", "", fmt.Errorf("invalid qualified unit name %q: want <path>:<unitName>", qualified)
	}
	return qualified[:i], qualified[i+1:], nil
}

// UnmarshalUnit decodes a unit file
func UnmarshalUnit(data []byte) (*CompiledUnit, error) {
	var u CompiledUnit
	if err := jsonIt.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("decoding unit file: %w", err)
	}
	if u.SourceName == "" || u.UnitName == "" {
		return nil, fmt.Errorf("unit file misses sourceName or unitName")
	}
	return &u, nil
}

// MarshalUnit encodes a unit file
func MarshalUnit(u *CompiledUnit) ([]byte, error) {
	return jsonIt.Marshal(u)
}
