package s3

import (
	"fmt"
	"net/url"
	"strings"
)

// Object identifies a key in a bucket.
type Object struct {
	Bucket string `errorTxt:"bucket name" mandatory:"yes"`
	Key    string `errorTxt:"object key" mandatory:"yes"`
}

func (o Object) String() string {
	return fmt.Sprintf("s3://%v/%v", o.Bucket, o.Key)
}

// ParseURL expects s to be of the form [s3://]<bucket>/<key>
// It returns an Object populated with the components of s.
// If there is a parsing error it returns an error.
func ParseURL(s string) (retval Object, err error) {
	expectedScheme := "s3"
	if !strings.Contains(s, "://") { // if there is no scheme then url.Parse would see a path only...
		s = expectedScheme + "://" + s
	}
	s3url, err := url.Parse(s)
	if err != nil {
		return retval, fmt.Errorf("error parsing S3 URL: %v", err)
	}
	if s3url.Scheme != expectedScheme {
		return retval, fmt.Errorf("expected S3 URL scheme %q but got %q", expectedScheme, s3url.Scheme)
	}
	retval.Bucket = s3url.Host
	if retval.Bucket == "" {
		return retval, fmt.Errorf("URL failed to parse bucket name")
	}
	retval.Key = strings.TrimPrefix(s3url.Path, "/")
	if retval.Key == "" {
		return retval, fmt.Errorf("URL failed to parse object key")
	}
	return
}
