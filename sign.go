package awsign

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrInvalidExpires = errors.New("invalid expires duration")
)

const (
	headerAuthorization     = "Authorization"
	headerHost              = "host"
	headerXAmzDate          = "X-Amz-Date"
	headerXAmzSecurityToken = "X-Amz-Security-Token"

	queryXAmzAlgorithm     = "X-Amz-Algorithm"
	queryXAmzCredential    = "X-Amz-Credential"
	queryXAmzDate          = "X-Amz-Date"
	queryXAmzExpires       = "X-Amz-Expires"
	queryXAmzSecurityToken = "X-Amz-Security-Token"
	queryXAmzSignedHeaders = "X-Amz-SignedHeaders"
	queryXAmzSignature     = "X-Amz-Signature"

	maxPresignExpiry = 7 * 24 * time.Hour
)

// Signing never covers the authorization value itself or hop-added
// tracing headers.
var unsignableHeaders = map[string]bool{
	"authorization":   true,
	"x-amzn-trace-id": true,
}

type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// CredentialsProvider supplies the long-term credentials to sign with.
type CredentialsProvider interface {
	Provide(ctx context.Context) (Credentials, error)
}

// StaticCredentials is a CredentialsProvider that always returns the
// same credentials.
type StaticCredentials Credentials

func (c StaticCredentials) Provide(context.Context) (Credentials, error) {
	return Credentials(c), nil
}

// Signer signs *http.Request values for a fixed region and service. It
// performs the percent-encoding and boundary validation the pure
// pipeline omits. Safe for concurrent use.
type Signer struct {
	provider CredentialsProvider
	region   string
	service  string

	config Config
	keys   *derivedKeyCache

	now func() time.Time
}

func NewSigner(provider CredentialsProvider, region, service string) *Signer {
	return &Signer{
		provider: provider,
		region:   region,
		service:  service,
		config:   DefaultConfig,
		keys:     newDerivedKeyCache(),
		now:      time.Now,
	}
}

func requestHost(r *http.Request) string {
	if r.Host != "" {
		return r.Host
	}
	if r.URL != nil {
		return r.URL.Host
	}
	return ""
}

func canonicalURI(u *url.URL) string {
	path := u.Path
	if path == "" {
		path = "/"
	}
	return uriEncode(path, true)
}

func canonicalQueryParams(query url.Values) []QueryParam {
	params := make([]QueryParam, 0, len(query))
	for key, values := range query {
		for _, value := range values {
			params = append(params, QueryParam{
				Key:   uriEncode(key, false),
				Value: uriEncode(value, false),
			})
		}
	}
	return params
}

// signableRequestHeaders copies the request headers into descriptor
// form, dropping unsignable entries plus any in skip, and adds the host
// entry the canonical request requires.
func signableRequestHeaders(r *http.Request, skip ...string) map[string]HeaderValue {
	headers := make(map[string]HeaderValue, len(r.Header)+1)
	for key, values := range r.Header {
		k := normalizeHeaderKey(key)
		if unsignableHeaders[k] || slices.Contains(skip, k) {
			continue
		}
		headers[key] = MultiHeader(values...)
	}
	headers[headerHost] = SingleHeader(requestHost(r))
	return headers
}

// Sign computes the SigV4 signature for r and injects the X-Amz-Date,
// X-Amz-Security-Token (when a session token is present) and
// Authorization headers. payloadHash is the hex content hash of the
// request body, EmptyPayloadSHA256 for empty bodies or UnsignedPayload
// to exclude the body; the empty string hashes an empty body.
//
// The transport must send the signed headers byte-identical to their
// values at signing time or the remote service rejects the signature.
func (s *Signer) Sign(ctx context.Context, r *http.Request, payloadHash string) error {
	if requestHost(r) == "" {
		return nestError(ErrInvalidRequest, "request has no host")
	}

	creds, err := s.provider.Provide(ctx)
	if err != nil {
		return err
	}

	dateTime := s.now().UTC().Format(awsISO8601Format)

	r.Header.Set(headerXAmzDate, dateTime)
	if creds.SessionToken != "" {
		r.Header.Set(headerXAmzSecurityToken, creds.SessionToken)
	}

	desc := Request{
		Method:      r.Method,
		URI:         canonicalURI(r.URL),
		Query:       canonicalQueryParams(r.URL.Query()),
		Headers:     signableRequestHeaders(r),
		PayloadHash: payloadHash,
	}

	sc := scopeFromDateTime(dateTime, s.region, s.service)
	signable := s.config.BuildSignableString(s.config.BuildCanonicalRequest(desc), dateTime, s.region, s.service)
	key := s.keys.get(s.config, creds, sc.date, s.region, s.service)
	sig := s.config.ComputeSignature(key, signable)

	_, signed := canonicalHeaders(desc.Headers)
	r.Header.Set(headerAuthorization, s.config.assembleAuthorization(creds.AccessKeyID, sc, signed, sig))

	return nil
}

// Presign computes a presigned variant of r without mutating it. The
// returned URL carries the X-Amz-* query parameters including the
// signature; the returned headers must accompany any request made with
// it. payloadHash is typically UnsignedPayload.
func (s *Signer) Presign(ctx context.Context, r *http.Request, payloadHash string, expires time.Duration) (*url.URL, http.Header, error) {
	if requestHost(r) == "" {
		return nil, nil, nestError(ErrInvalidRequest, "request has no host")
	}
	if expires <= 0 || expires > maxPresignExpiry {
		return nil, nil, nestError(ErrInvalidExpires, "expires must be within (0, %s], got %s", maxPresignExpiry, expires)
	}

	creds, err := s.provider.Provide(ctx)
	if err != nil {
		return nil, nil, err
	}

	dateTime := s.now().UTC().Format(awsISO8601Format)
	sc := scopeFromDateTime(dateTime, s.region, s.service)

	// The timestamp travels in the query for presigned requests; an
	// X-Amz-Date header left on the request must not be signed twice.
	headers := signableRequestHeaders(r, normalizeHeaderKey(headerXAmzDate))
	_, signed := canonicalHeaders(headers)

	params := append(canonicalQueryParams(r.URL.Query()),
		QueryParam{queryXAmzAlgorithm, s.config.AlgorithmTag},
		QueryParam{queryXAmzCredential, uriEncode(creds.AccessKeyID+"/"+sc.String(), false)},
		QueryParam{queryXAmzDate, dateTime},
		QueryParam{queryXAmzExpires, strconv.FormatInt(int64(expires/time.Second), 10)},
		QueryParam{queryXAmzSignedHeaders, uriEncode(strings.Join(signed, ";"), false)},
	)
	if creds.SessionToken != "" {
		params = append(params, QueryParam{queryXAmzSecurityToken, uriEncode(creds.SessionToken, false)})
	}

	desc := Request{
		Method:      r.Method,
		URI:         canonicalURI(r.URL),
		Query:       params,
		Headers:     headers,
		PayloadHash: payloadHash,
	}

	signable := s.config.BuildSignableString(s.config.BuildCanonicalRequest(desc), dateTime, s.region, s.service)
	key := s.keys.get(s.config, creds, sc.date, s.region, s.service)
	sig := s.config.ComputeSignature(key, signable)

	signedURL := *r.URL
	signedURL.RawQuery = canonicalQueryString(params) + "&" + queryXAmzSignature + "=" + sig

	outHeaders := make(http.Header, len(signed))
	for _, name := range signed {
		if name == headerHost {
			outHeaders.Set("Host", requestHost(r))
			continue
		}
		for _, v := range r.Header.Values(name) {
			outHeaders.Add(name, v)
		}
	}

	return &signedURL, outHeaders, nil
}
