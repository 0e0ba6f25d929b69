package awsign

import "encoding/hex"

// signature is a raw computed signature. String renders the lowercase
// hex form that goes into Authorization headers and X-Amz-Signature
// query values.
type signature []byte

func newSignatureFromDecoded(b []byte) signature {
	s := make(signature, len(b))
	copy(s, b)
	return s
}

func (s signature) String() string {
	return hex.EncodeToString(s)
}
