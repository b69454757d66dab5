package s3

import (
	"context"
	"errors"
	"io"
	"io/ioutil"
	"net/url"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// NewBasicClient returns a client for the given region using the default AWS credential chain.
// An empty region falls back to the SDK's own resolution.
func NewBasicClient(region string) (BasicClient, error) {
	awsConfig := aws.NewConfig()
	if region != "" {
		awsConfig.Region = aws.String(region)
	}
	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, err
	}
	return NewBasicClientWithAPI(s3.New(sess)), nil
}

func NewBasicClientWithAPI(api s3iface.S3API) BasicClient {
	return &basicClient{api: api}
}

type basicClient struct {
	api s3iface.S3API
}

func (s *basicClient) List(ctx context.Context, bucket, prefix string) (keys []string, err error) {
	keys = make([]string, 0, 1000)
	params := &s3.ListObjectsInput{
		Bucket:  aws.String(bucket),
		MaxKeys: aws.Int64(1000),
		Prefix:  aws.String(prefix),
	}
	err = s.api.ListObjectsPagesWithContext(ctx, params, func(page *s3.ListObjectsOutput, lastPage bool) bool {
		for _, v := range page.Contents {
			keys = append(keys, aws.StringValue(v.Key))
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return
}

func (s *basicClient) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	res, err := s.getObject(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	return ioutil.ReadAll(res.Body)
}

func (s *basicClient) Download(ctx context.Context, bucket, key string, w io.Writer) error {
	res, err := s.getObject(ctx, bucket, key)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	_, err = io.Copy(w, res.Body)
	return err
}

func (s *basicClient) Copy(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error {
	_, err := s.api.CopyObjectWithContext(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(dstBucket),
		Key:        aws.String(dstKey),
		CopySource: aws.String(url.PathEscape(srcBucket + "/" + srcKey)),
	})
	return mapNotFound(err)
}

func (s *basicClient) getObject(ctx context.Context, bucket, key string) (*s3.GetObjectOutput, error) {
	res, err := s.api.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, mapNotFound(err)
	}
	return res, nil
}

// mapNotFound converts the SDK's missing-key errors into ErrKeyNotFound.
func mapNotFound(err error) error {
	var awsErr awserr.Error
	if errors.As(err, &awsErr) && awsErr.Code() == s3.ErrCodeNoSuchKey {
		return ErrKeyNotFound
	}
	return err
}
