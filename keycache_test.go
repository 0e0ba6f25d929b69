package awsign

import (
	"bytes"
	"testing"

	"github.com/zeebo/assert"
)

func TestDerivedKeyCache(t *testing.T) {
	c := newDerivedKeyCache()
	assert.Equal(t, 0, len(c.values))

	creds := Credentials{AccessKeyID: "AKIA1234567890", SecretAccessKey: "SECRET"}

	key := c.get(DefaultConfig, creds, "19700101", "us-east-1", "dynamodb")
	assert.Equal(t, 1, len(c.values))
	assert.Equal(t, DefaultConfig.DeriveSigningKey("SECRET", "19700101", "us-east-1", "dynamodb"), key)

	cached, ok := c.values["AKIA1234567890/19700101/us-east-1/dynamodb"]
	assert.True(t, ok)
	assert.Equal(t, key, cached.key)

	t.Run("hit returns the stored key", func(t *testing.T) {
		assert.Equal(t, key, c.get(DefaultConfig, creds, "19700101", "us-east-1", "dynamodb"))
		assert.Equal(t, 1, len(c.values))
	})
	t.Run("scopes are cached independently", func(t *testing.T) {
		other := c.get(DefaultConfig, creds, "19700101", "eu-west-1", "dynamodb")
		assert.False(t, bytes.Equal(key, other))
		assert.Equal(t, 2, len(c.values))
	})
	t.Run("date rollover evicts stale entries", func(t *testing.T) {
		next := c.get(DefaultConfig, creds, "19700102", "us-east-1", "dynamodb")
		assert.Equal(t, 1, len(c.values))
		assert.Equal(t, DefaultConfig.DeriveSigningKey("SECRET", "19700102", "us-east-1", "dynamodb"), next)

		_, ok := c.values["AKIA1234567890/19700101/us-east-1/dynamodb"]
		assert.False(t, ok)
	})
}
