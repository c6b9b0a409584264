package bucket

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/odpf/jobpack/internal/errors"
)

// Location is a bucket and key pair of an object store
type Location struct {
	Bucket string
	Key    string
}

// ParseS3URI splits s3://bucket/key into its parts
func ParseS3URI(uri string) (Location, error) {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "s3" || u.Host == "" {
		return Location{}, errors.InvalidArgument(EntityBucket, fmt.Sprintf("[%s] is not a valid s3 uri", uri))
	}
	return Location{
		Bucket: u.Host,
		Key:    strings.TrimPrefix(u.Path, "/"),
	}, nil
}

// Root is where keys written to the bucket opened from storageURL end up.
// For s3 it is the url bucket and its path as key prefix, other schemes have
// no s3 location so defaultBucket is reported without prefix.
func Root(storageURL, defaultBucket string) (Location, error) {
	u, err := url.Parse(storageURL)
	if err != nil {
		return Location{}, errors.InvalidArgument(EntityBucket, "unable to parse url "+storageURL)
	}
	if u.Scheme != "s3" {
		return Location{Bucket: defaultBucket}, nil
	}
	loc, err := ParseS3URI(storageURL)
	if err != nil {
		return Location{}, err
	}
	loc.Key = strings.Trim(loc.Key, "/\\")
	return loc, nil
}

func (l Location) URI() string {
	if l.Key == "" {
		return fmt.Sprintf("s3://%s", l.Bucket)
	}
	return fmt.Sprintf("s3://%s/%s", l.Bucket, strings.TrimPrefix(l.Key, "/"))
}
