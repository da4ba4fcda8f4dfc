package blob

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Options configures the remote object-store backend. When AccessKeyID is
// empty the default AWS credential chain is used.
type S3Options struct {
	Bucket          string
	Prefix          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// S3Store is a remote object-store implementation of the Store interface.
// Snapshots are objects under <prefix>projects/, each with a JSON metadata
// sidecar; the metadata keyspace lives under <prefix>meta/.
type S3Store struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Store creates an S3-backed snapshot store.
func NewS3Store(opts S3Options) (*S3Store, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3 store requires a bucket")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, "")))
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	prefix := opts.Prefix
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &S3Store{client: s3.NewFromConfig(cfg), bucket: opts.Bucket, prefix: prefix}, nil
}

func (s *S3Store) snapshotKey(id string) string { return s.prefix + "projects/" + id }
func (s *S3Store) metaKey(key string) string    { return s.prefix + "meta/" + key }

func (s *S3Store) Put(id string, data []byte, meta Metadata) error {
	metaBytes, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encoding metadata for %s: %w", id, err)
	}
	if err := s.putObject(s.snapshotKey(id), data); err != nil {
		return fmt.Errorf("storing snapshot %s: %w", id, err)
	}
	if err := s.putObject(s.snapshotKey(id)+".meta", metaBytes); err != nil {
		return fmt.Errorf("storing metadata %s: %w", id, err)
	}
	return nil
}

func (s *S3Store) Get(id string) ([]byte, *Metadata, error) {
	data, found, err := s.getObject(s.snapshotKey(id))
	if err != nil {
		return nil, nil, fmt.Errorf("reading snapshot %s: %w", id, err)
	}
	if !found {
		return nil, nil, nil
	}

	metaBytes, found, err := s.getObject(s.snapshotKey(id) + ".meta")
	if err != nil || !found {
		return nil, nil, fmt.Errorf("reading metadata %s: %w", id, err)
	}
	var meta Metadata
	if err := json.Unmarshal(metaBytes, &meta); err != nil {
		return nil, nil, fmt.Errorf("decoding metadata %s: %w", id, err)
	}
	return data, &meta, nil
}

func (s *S3Store) ListKeys() ([]string, error) {
	prefix := s.prefix + "projects/"
	var keys []string
	var continuation *string
	for {
		out, err := s.client.ListObjectsV2(context.Background(), &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: continuation,
		})
		if err != nil {
			return nil, fmt.Errorf("listing snapshots: %w", err)
		}
		for _, obj := range out.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), prefix)
			if name == "" || strings.HasSuffix(name, ".meta") {
				continue
			}
			keys = append(keys, name)
		}
		if out.NextContinuationToken == nil {
			break
		}
		continuation = out.NextContinuationToken
	}
	return keys, nil
}

func (s *S3Store) PutMeta(key, value string) error {
	if err := s.putObject(s.metaKey(key), []byte(value)); err != nil {
		return fmt.Errorf("storing meta key %q: %w", key, err)
	}
	return nil
}

func (s *S3Store) GetMeta(key string) (string, error) {
	data, found, err := s.getObject(s.metaKey(key))
	if err != nil {
		return "", fmt.Errorf("reading meta key %q: %w", key, err)
	}
	if !found {
		return "", nil
	}
	return string(data), nil
}

func (s *S3Store) Close() error { return nil }

func (s *S3Store) putObject(key string, data []byte) error {
	_, err := s.client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	return err
}

// getObject returns (data, found, error); a missing key is not an error.
func (s *S3Store) getObject(key string) ([]byte, bool, error) {
	out, err := s.client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *s3types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Compile-time check that S3Store implements the Store interface
var _ Store = (*S3Store)(nil)
