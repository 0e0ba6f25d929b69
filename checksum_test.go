package awsign

import (
	"errors"
	"strings"
	"testing"

	"github.com/zeebo/assert"
)

func TestComputeChecksum(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		for algorithm, expected := range map[ChecksumAlgorithm]string{
			ChecksumCRC32:     "AAAAAA==",
			ChecksumCRC32C:    "AAAAAA==",
			ChecksumCRC64NVME: "AAAAAAAAAAA=",
			ChecksumSHA1:      "2jmj7l5rSw0yVb/vlWAYkK/YBwk=",
			ChecksumSHA256:    "47DEQpj8HBSa+/TImW+5JCeuQeRkm5NMpJWZG3hSuFU=",
		} {
			actual, err := ComputeChecksum(algorithm, nil)
			assert.NoError(t, err)
			assert.Equal(t, expected, actual)
		}
	})
	t.Run("sha256 of content", func(t *testing.T) {
		actual, err := ComputeChecksum(ChecksumSHA256, []byte("test"))
		assert.NoError(t, err)
		assert.Equal(t, "n4bQgYhMfWWaL+qgxVrQFaO/TxsrC4Is0V1sFbDwCgg=", actual)
	})
	t.Run("deterministic", func(t *testing.T) {
		first, err := ComputeChecksum(ChecksumCRC64NVME, []byte("payload"))
		assert.NoError(t, err)
		second, err := ComputeChecksum(ChecksumCRC64NVME, []byte("payload"))
		assert.NoError(t, err)
		assert.Equal(t, first, second)
	})
	t.Run("invalid algorithm", func(t *testing.T) {
		_, err := ComputeChecksum(ChecksumAlgorithm(42), nil)
		assert.That(t, errors.Is(err, ErrInvalidChecksumAlgorithm))
	})
}

func TestChecksumHeaderName(t *testing.T) {
	assert.Equal(t, "x-amz-checksum-crc32", ChecksumCRC32.HeaderName())
	assert.Equal(t, "x-amz-checksum-crc32c", ChecksumCRC32C.HeaderName())
	assert.Equal(t, "x-amz-checksum-crc64nvme", ChecksumCRC64NVME.HeaderName())
	assert.Equal(t, "x-amz-checksum-sha1", ChecksumSHA1.HeaderName())
	assert.Equal(t, "x-amz-checksum-sha256", ChecksumSHA256.HeaderName())
}

func TestRequestWithChecksum(t *testing.T) {
	original := Request{
		Method:  "PUT",
		URI:     "/object",
		Headers: map[string]HeaderValue{"host": SingleHeader("examplebucket.s3.amazonaws.com")},
		Payload: []byte("test"),
	}

	r, err := original.WithChecksum(ChecksumSHA256)
	assert.NoError(t, err)

	assert.Equal(t, "n4bQgYhMfWWaL+qgxVrQFaO/TxsrC4Is0V1sFbDwCgg=", r.Headers["x-amz-checksum-sha256"].normalized())

	_, ok := original.Headers["x-amz-checksum-sha256"]
	assert.False(t, ok) // the receiver stays untouched

	canonical := DefaultConfig.BuildCanonicalRequest(r)
	assert.That(t, strings.Contains(canonical, "x-amz-checksum-sha256:n4bQgYhMfWWaL+qgxVrQFaO/TxsrC4Is0V1sFbDwCgg=\n"))
	assert.That(t, strings.Contains(canonical, "host;x-amz-checksum-sha256\n"))

	t.Run("invalid algorithm", func(t *testing.T) {
		_, err := original.WithChecksum(ChecksumAlgorithm(-1))
		assert.That(t, errors.Is(err, ErrInvalidChecksumAlgorithm))
	})
}
