// Package puburl maps storage keys to public URLs and back. Downloads
// are served either from a configured CDN host or straight from the
// blob store's virtual-hosted URL form.
package puburl

import (
	"fmt"
	"net/url"
	"strings"
)

// Resolver builds public URLs for storage keys. CDNHost is optional;
// when absent the blob store's direct URL form is used.
type Resolver struct {
	Bucket  string
	Region  string
	CDNHost string
}

// New returns a resolver. Any protocol prefix on cdnHost is stripped so
// the composed URL is never double-prefixed.
func New(bucket, region, cdnHost string) Resolver {
	return Resolver{
		Bucket:  bucket,
		Region:  region,
		CDNHost: stripProtocol(cdnHost),
	}
}

// PublicURL returns the URL a client uses to fetch the object stored
// under key.
func (r Resolver) PublicURL(key string) string {
	if r.CDNHost != "" {
		return fmt.Sprintf("https://%s/%s", r.CDNHost, key)
	}
	return fmt.Sprintf("https://%s/%s", r.directHost(), key)
}

// KeyFromURL maps a public URL back to its storage key. It reports
// false when the URL does not belong to the configured CDN host or the
// bucket's virtual-hosted form, in which case overwrite-in-place is not
// available for that object.
func (r Resolver) KeyFromURL(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", false
	}

	switch u.Host {
	case r.CDNHost, r.directHost(), fmt.Sprintf("%s.s3.amazonaws.com", r.Bucket):
	default:
		return "", false
	}

	key := strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", false
	}
	return key, true
}

func (r Resolver) directHost() string {
	return fmt.Sprintf("%s.s3.%s.amazonaws.com", r.Bucket, r.Region)
}

func stripProtocol(host string) string {
	host = strings.TrimPrefix(host, "https://")
	host = strings.TrimPrefix(host, "http://")
	return strings.TrimSuffix(host, "/")
}
