package awsign

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"hash"
	"hash/crc32"
	"maps"
	"strconv"

	"github.com/minio/crc64nvme"
)

var ErrInvalidChecksumAlgorithm = errors.New("invalid checksum algorithm")

type ChecksumAlgorithm int

const (
	ChecksumCRC32 ChecksumAlgorithm = iota
	ChecksumCRC32C
	ChecksumCRC64NVME
	ChecksumSHA1
	ChecksumSHA256
)

const checksumHeaderPrefix = "x-amz-checksum-"

func (a ChecksumAlgorithm) valid() bool {
	return a >= ChecksumCRC32 && a <= ChecksumSHA256
}

func (a ChecksumAlgorithm) String() string {
	switch a {
	case ChecksumCRC32:
		return "crc32"
	case ChecksumCRC32C:
		return "crc32c"
	case ChecksumCRC64NVME:
		return "crc64nvme"
	case ChecksumSHA1:
		return "sha1"
	case ChecksumSHA256:
		return "sha256"
	default:
		return strconv.Itoa(int(a))
	}
}

// HeaderName returns the x-amz-checksum-* header the algorithm's value
// travels in.
func (a ChecksumAlgorithm) HeaderName() string {
	return checksumHeaderPrefix + a.String()
}

func (a ChecksumAlgorithm) newHash() hash.Hash {
	switch a {
	case ChecksumCRC32:
		return crc32.NewIEEE()
	case ChecksumCRC32C:
		return crc32.New(crc32.MakeTable(crc32.Castagnoli))
	case ChecksumCRC64NVME:
		return crc64nvme.New()
	case ChecksumSHA1:
		return sha1.New()
	case ChecksumSHA256:
		return sha256.New()
	default:
		return nil
	}
}

// ComputeChecksum returns the base64 payload checksum in the form the
// x-amz-checksum-* headers carry.
func ComputeChecksum(algorithm ChecksumAlgorithm, payload []byte) (string, error) {
	if !algorithm.valid() {
		return "", ErrInvalidChecksumAlgorithm
	}

	b := newHashBuilder(algorithm.newHash)
	b.Write(payload)

	return base64.StdEncoding.EncodeToString(b.Sum()), nil
}

// WithChecksum returns a copy of the request with the matching
// x-amz-checksum-* header populated from the payload bytes. The header
// participates in canonicalization like any other header. The receiver
// is not modified.
func (r Request) WithChecksum(algorithm ChecksumAlgorithm) (Request, error) {
	value, err := ComputeChecksum(algorithm, r.Payload)
	if err != nil {
		return Request{}, err
	}

	headers := make(map[string]HeaderValue, len(r.Headers)+1)
	maps.Copy(headers, r.Headers)
	headers[algorithm.HeaderName()] = SingleHeader(value)
	r.Headers = headers

	return r, nil
}
