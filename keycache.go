package awsign

import "sync"

type cachedKey struct {
	key  []byte
	date string
}

// derivedKeyCache memoizes signing keys per credential scope. Outputs
// are byte-identical with and without the cache. Signing keys rotate
// with the scope date, so entries from other dates are evicted on
// insert.
type derivedKeyCache struct {
	mu     sync.Mutex
	values map[string]cachedKey
}

func newDerivedKeyCache() *derivedKeyCache {
	return &derivedKeyCache{values: make(map[string]cachedKey)}
}

func (c *derivedKeyCache) get(config Config, creds Credentials, date, region, service string) []byte {
	id := creds.AccessKeyID + "/" + date + "/" + region + "/" + service

	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.values[id]; ok {
		return v.key
	}

	key := config.DeriveSigningKey(creds.SecretAccessKey, date, region, service)

	for k, v := range c.values {
		if v.date != date {
			delete(c.values, k)
		}
	}
	c.values[id] = cachedKey{key: key, date: date}

	return key
}
