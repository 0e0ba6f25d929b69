package awsign

import (
	"maps"
	"slices"
	"strings"
)

// HeaderValue is either a single header value or a sequence of values
// for a repeated header. The zero value normalizes to an empty string.
type HeaderValue struct {
	single string
	multi  []string
}

// SingleHeader wraps a single-valued header.
func SingleHeader(value string) HeaderValue {
	return HeaderValue{single: value}
}

// MultiHeader wraps a repeated header; the values are normalized
// individually and joined with commas during canonicalization.
func MultiHeader(values ...string) HeaderValue {
	return HeaderValue{multi: values}
}

// normalized trims the value and collapses internal runs of whitespace
// to a single space. Sequence elements are normalized per element and
// joined with a comma.
func (v HeaderValue) normalized() string {
	if v.multi != nil {
		elements := make([]string, len(v.multi))
		for i, e := range v.multi {
			elements[i] = normalizeHeaderValue(e)
		}
		return strings.Join(elements, ",")
	}
	return normalizeHeaderValue(v.single)
}

func normalizeHeaderKey(key string) string {
	return strings.ToLower(key)
}

func normalizeHeaderValue(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

// QueryParam is a single already-encoded query pair.
type QueryParam struct {
	Key   string
	Value string
}

// Request describes the attributes of a request to sign. URI and Query
// must already be percent-encoded and Headers must contain a host
// entry; the pipeline performs no encoding and no validation.
type Request struct {
	Method  string
	URI     string
	Query   []QueryParam
	Headers map[string]HeaderValue
	Payload []byte

	// PayloadHash optionally carries a precomputed payload hash, such
	// as UnsignedPayload or an externally computed SHA-256. When empty,
	// Payload is hashed.
	PayloadHash string
}

// canonicalQueryString sorts pairs by exact byte order of the key, then
// of the value for repeated keys. This is deliberately not the
// case-insensitive order headers use.
func canonicalQueryString(query []QueryParam) string {
	pairs := slices.Clone(query)
	slices.SortStableFunc(pairs, func(a, b QueryParam) int {
		if c := strings.Compare(a.Key, b.Key); c != 0 {
			return c
		}
		return strings.Compare(a.Value, b.Value)
	})

	b := new(strings.Builder)
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p.Key)
		b.WriteByte('=')
		b.WriteString(p.Value)
	}
	return b.String()
}

// canonicalHeaders returns the canonical headers block, terminated by a
// trailing newline, and the sorted lowercase signed-header list.
// Distinct keys folding to the same lowercase name are merged in sorted
// order of the original keys.
func canonicalHeaders(headers map[string]HeaderValue) (string, []string) {
	folded := make(map[string][]string, len(headers))
	for _, key := range slices.Sorted(maps.Keys(headers)) {
		k := normalizeHeaderKey(key)
		folded[k] = append(folded[k], headers[key].normalized())
	}

	signed := slices.Sorted(maps.Keys(folded))

	b := new(strings.Builder)
	for _, k := range signed {
		b.WriteString(k)
		b.WriteByte(':')
		b.WriteString(strings.Join(folded[k], ","))
		b.WriteByte(lf)
	}
	return b.String(), signed
}

func (c Config) payloadHash(r Request) string {
	if r.PayloadHash != "" {
		return r.PayloadHash
	}
	return c.HashPayload(r.Payload)
}

// BuildCanonicalRequest assembles the canonical request: method, URI,
// canonical query string, canonical headers block, signed-header list
// and hex payload hash, joined by newlines.
func (c Config) BuildCanonicalRequest(r Request) string {
	headersBlock, signed := canonicalHeaders(r.Headers)

	b := new(strings.Builder)

	b.WriteString(r.Method)
	b.WriteByte(lf)
	b.WriteString(r.URI)
	b.WriteByte(lf)
	b.WriteString(canonicalQueryString(r.Query))
	b.WriteByte(lf)
	b.WriteString(headersBlock)
	b.WriteByte(lf)
	b.WriteString(strings.Join(signed, ";"))
	b.WriteByte(lf)
	b.WriteString(c.payloadHash(r))

	return b.String()
}
