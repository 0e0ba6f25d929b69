/*
Package awsign implements the AWS Signature Version 4 (SigV4) signing
process for outbound HTTP requests. See
https://docs.aws.amazon.com/IAM/latest/UserGuide/signing-elements.html for
the authoritative description.

The pipeline is a chain of pure derivations:

 1. A canonical request is assembled from the method, the encoded path,
    the sorted query, the normalized headers, the signed-header list and
    the hex payload hash.
 2. The canonical request is hashed and bound together with the
    timestamp and the date/region/service/aws4_request credential scope
    into the string to sign.
 3. A signing key is derived from the secret access key via four
    sequential HMAC operations over the scope components.
 4. The signature is the hex HMAC of the string to sign under the
    derived key, carried either in the Authorization header or in
    X-Amz-* query parameters (presigned URLs).

The pipeline operations are methods on [Config] and trust their inputs:
paths and query values must already be percent-encoded, and the headers
must include a host entry. [Signer] wraps the pipeline for *http.Request
values, performs the encoding and boundary validation the pure
operations omit, and adds the X-Amz-Date, X-Amz-Security-Token and
Authorization headers (or the presigned query parameters).
*/
package awsign
