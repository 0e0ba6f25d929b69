package awsign

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"strings"
)

const (
	// AlgorithmHMACSHA256 is the algorithm tag of the standard SigV4
	// signing scheme.
	AlgorithmHMACSHA256 = "AWS4-HMAC-SHA256"

	// EmptyPayloadSHA256 is the hex SHA-256 of the empty byte sequence,
	// the payload hash of requests without a body.
	EmptyPayloadSHA256 = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

	// UnsignedPayload, passed as a payload hash, excludes the payload
	// from the signature.
	UnsignedPayload = "UNSIGNED-PAYLOAD"

	awsISO8601Format = "20060102T150405Z"

	secretKeyPrefix = "AWS4"
	scopeTerminator = "aws4_request"

	lf = '\n'
)

// Config binds the algorithm tag to the digest the pipeline uses. An
// alternate digest can be substituted for testing without touching the
// pipeline logic. The zero value is not usable; start from
// DefaultConfig.
type Config struct {
	AlgorithmTag string
	NewHash      func() hash.Hash
}

// DefaultConfig is the AWS4-HMAC-SHA256 scheme every AWS service
// accepts.
var DefaultConfig = Config{
	AlgorithmTag: AlgorithmHMACSHA256,
	NewHash:      sha256.New,
}

// HashPayload returns the hex content hash of the given bytes. A nil or
// empty payload hashes to EmptyPayloadSHA256 under DefaultConfig.
func (c Config) HashPayload(payload []byte) string {
	b := newHashBuilder(c.NewHash)
	b.Write(payload)
	return hex.EncodeToString(b.Sum())
}

// HashCanonicalRequest returns the hex content hash of the canonical
// request, the last element of the string to sign.
func (c Config) HashCanonicalRequest(canonicalRequest string) string {
	return c.HashPayload([]byte(canonicalRequest))
}

func (c Config) keyedHash(key []byte, message string) []byte {
	b := newHashBuilder(func() hash.Hash { return hmac.New(c.NewHash, key) })
	b.WriteString(message)
	return b.Sum()
}

// scope binds a signature to a date, region and service.
type scope struct {
	date    string
	region  string
	service string
}

func (s scope) String() string {
	return s.date + "/" + s.region + "/" + s.service + "/" + scopeTerminator
}

// scopeFromDateTime takes the 8-character date prefix of an
// ISO-8601-basic timestamp. A malformed timestamp yields a malformed
// scope, not an error.
func scopeFromDateTime(dateTime, region, service string) scope {
	date := dateTime
	if len(date) > 8 {
		date = date[:8]
	}
	return scope{
		date:    date,
		region:  region,
		service: service,
	}
}

// BuildSignableString assembles the string to sign from the canonical
// request, the request timestamp (ISO-8601-basic, 20060102T150405Z) and
// the scope components.
func (c Config) BuildSignableString(canonicalRequest, dateTime, region, service string) string {
	b := new(strings.Builder)

	b.WriteString(c.AlgorithmTag)
	b.WriteByte(lf)
	b.WriteString(dateTime)
	b.WriteByte(lf)
	b.WriteString(scopeFromDateTime(dateTime, region, service).String())
	b.WriteByte(lf)
	b.WriteString(c.HashCanonicalRequest(canonicalRequest))

	return b.String()
}

// DeriveSigningKey derives the request-scoped signing key from the
// secret access key via four sequential keyed-hash operations. The
// result is raw bytes; it is never transmitted and is valid for a
// single (date, region, service) scope.
func (c Config) DeriveSigningKey(secretKey, date, region, service string) []byte {
	dateKey := c.keyedHash([]byte(secretKeyPrefix+secretKey), date)
	dateRegionKey := c.keyedHash(dateKey, region)
	dateRegionServiceKey := c.keyedHash(dateRegionKey, service)
	return c.keyedHash(dateRegionServiceKey, scopeTerminator)
}

// ComputeSignature applies the derived signing key to the string to
// sign and returns the lowercase-hex signature.
func (c Config) ComputeSignature(signingKey []byte, signableString string) string {
	return newSignatureFromDecoded(c.keyedHash(signingKey, signableString)).String()
}

// ComputeRequestSignature runs the full pipeline for a single request:
// canonical request, string to sign, key derivation and signature
// computation.
func (c Config) ComputeRequestSignature(r Request, creds Credentials, dateTime, region, service string) string {
	signable := c.BuildSignableString(c.BuildCanonicalRequest(r), dateTime, region, service)
	key := c.DeriveSigningKey(creds.SecretAccessKey, scopeFromDateTime(dateTime, region, service).date, region, service)
	return c.ComputeSignature(key, signable)
}

// BuildAuthorizationHeader returns the complete Authorization value:
//
//	<tag> Credential=<id>/<scope>, SignedHeaders=<h1;h2;...>, Signature=<hex>
func (c Config) BuildAuthorizationHeader(r Request, creds Credentials, dateTime, region, service string) string {
	_, signed := canonicalHeaders(r.Headers)
	sc := scopeFromDateTime(dateTime, region, service)
	sig := c.ComputeRequestSignature(r, creds, dateTime, region, service)
	return c.assembleAuthorization(creds.AccessKeyID, sc, signed, sig)
}

func (c Config) assembleAuthorization(accessKeyID string, sc scope, signedHeaders []string, sig string) string {
	b := new(strings.Builder)

	b.WriteString(c.AlgorithmTag)
	b.WriteString(" Credential=")
	b.WriteString(accessKeyID)
	b.WriteByte('/')
	b.WriteString(sc.String())
	b.WriteString(", SignedHeaders=")
	b.WriteString(strings.Join(signedHeaders, ";"))
	b.WriteString(", Signature=")
	b.WriteString(sig)

	return b.String()
}
