package sqisign

import "math/big"

// Element is the wire representation of an element re + im*i of GF(p^2).
// Values are reduced modulo p when they are bound to a field.
type Element struct {
	Re *big.Int
	Im *big.Int
}

// NewElement returns the element re + im*i.
func NewElement(re, im int64) Element {
	return Element{Re: big.NewInt(re), Im: big.NewInt(im)}
}

// PublicKey is the Montgomery coefficient A of the public curve.
type PublicKey struct {
	A Element
}

// UncompressedSignature lists one explicit kernel x-coordinate per response
// block, followed by the commitment curve.
type UncompressedSignature struct {
	Kernels    []Element
	Commitment Element // Montgomery coefficient of the commitment curve E_1
}

// CompressedBlock encodes a kernel point as P + s*Q over the canonical
// torsion basis (P, Q) of the current curve, with P and Q exchanged when
// Swap is set.
type CompressedBlock struct {
	Swap   bool
	Scalar *big.Int
}

// CompressedSignature is the compact form of a signature.
type CompressedSignature struct {
	Blocks     []CompressedBlock
	Commitment Element
}
