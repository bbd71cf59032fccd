package abc

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// cborEncMode uses canonical mode so fixtures encode deterministically.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("abc: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Fixture is a serialized translation unit: a constant pool plus the load
// parameters the materializer needs.
type Fixture struct {
	SWFVersion uint8        `cbor:"1,keyasint"`
	Builtin    bool         `cbor:"2,keyasint"`
	Pool       ConstantPool `cbor:"3,keyasint"`
}

// MarshalPool serializes a ConstantPool to CBOR bytes.
func MarshalPool(p *ConstantPool) ([]byte, error) {
	return cborEncMode.Marshal(p)
}

// UnmarshalPool deserializes a ConstantPool from CBOR bytes.
func UnmarshalPool(data []byte) (*ConstantPool, error) {
	var p ConstantPool
	if err := cbor.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("abc: unmarshal pool: %w", err)
	}
	if err := p.validateKinds(); err != nil {
		return nil, err
	}
	return &p, nil
}

// MarshalFixture serializes a Fixture to CBOR bytes.
func MarshalFixture(f *Fixture) ([]byte, error) {
	return cborEncMode.Marshal(f)
}

// UnmarshalFixture deserializes a Fixture from CBOR bytes.
func UnmarshalFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := cbor.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("abc: unmarshal fixture: %w", err)
	}
	if err := f.Pool.validateKinds(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (p *ConstantPool) validateKinds() error {
	for i, ns := range p.Namespaces {
		if !ns.Kind.Valid() {
			return fmt.Errorf("abc: namespace %d: %w: %#x", i+1, ErrInvalidNamespaceKind, uint8(ns.Kind))
		}
	}
	return nil
}
