/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package s3backup copies ladder snapshots to and from an Amazon S3 bucket.
package s3backup

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var ErrNotFound = errors.New("backup object not found")

// ObjectAPI is the subset of *s3.Client the store uses.
type ObjectAPI interface {
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput,
		optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input,
		optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput,
		optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput,
		optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput,
		optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Store reads and writes named backup objects.
type Store struct {
	// Config is the AWS configuration loaded by Init.
	Config aws.Config

	// Client is set by Init from Config. Callers may replace it before use.
	Client ObjectAPI

	bucket string
	prefix string

	// gzip compresses objects on Put and expands them on Get. Object keys
	// get a ".gz" suffix.
	gzip bool

	log *logrus.Entry
}

// New returns a Store for bucket. Call Init before use unless Client is
// assigned directly.
func New(bucket, prefix string, gzip bool, log *logrus.Entry) *Store {
	return &Store{
		bucket: bucket,
		prefix: prefix,
		gzip:   gzip,
		log:    log.WithField("component", "s3backup"),
	}
}

// Init loads the default AWS configuration (environment, then shared config
// and credentials files) and checks that the bucket can be read and listed.
func (s *Store) Init(ctx context.Context) error {
	var err error
	s.Config, err = config.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("s3backup.init: failed to load AWS config: %w", err)
	}
	s.Client = s3.NewFromConfig(s.Config)

	return s.checkAccess(ctx)
}

func (s *Store) checkAccess(ctx context.Context) error {
	if _, err := s.Client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	}); err != nil {
		return fmt.Errorf("s3backup.init: head bucket failed for %s: %w", s.bucket, err)
	}

	if _, err := s.Client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		Prefix:  aws.String(s.prefix),
		MaxKeys: aws.Int32(1),
	}); err != nil {
		return fmt.Errorf("s3backup.init: list objects failed for %s: %w", s.bucket, err)
	}

	return nil
}

func (s *Store) objectKey(name string) string {
	key := path.Join(s.prefix, name)
	if s.gzip {
		key += ".gz"
	}
	return key
}

func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(name)),
		Body:   bytes.NewReader(data),
	}

	if s.gzip {
		var buf bytes.Buffer
		gw := gzip.NewWriter(&buf)
		if _, err := gw.Write(data); err != nil {
			return fmt.Errorf("s3backup.put: failed to gzip %v: %w", *input.Key, err)
		}
		if err := gw.Close(); err != nil {
			return fmt.Errorf("s3backup.put: failed to close gzip writer for %v: %w",
				*input.Key, err)
		}
		input.Body = bytes.NewReader(buf.Bytes())
		input.ContentEncoding = aws.String("gzip")
	}

	if _, err := s.Client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("s3backup.put: put failed for %v/%v: %w", s.bucket,
			*input.Key, err)
	}
	s.log.WithField("bytes", len(data)).Debugf("s3backup.put: stored %v/%v",
		s.bucket, *input.Key)

	return nil
}

// Get returns the named object, or ErrNotFound if it does not exist.
func (s *Store) Get(ctx context.Context, name string) ([]byte, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(name)),
	}

	resp, err := s.Client.GetObject(ctx, input)
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey" {
			return nil, fmt.Errorf("%w: %v/%v", ErrNotFound, s.bucket, *input.Key)
		}
		return nil, fmt.Errorf("s3backup.get: failed to get object %v/%v: %w",
			s.bucket, *input.Key, err)
	}
	defer resp.Body.Close()

	rdr := io.Reader(resp.Body)
	if s.gzip {
		gr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("s3backup.get: failed to open compressed object %v/%v: %w",
				s.bucket, *input.Key, err)
		}
		defer gr.Close()
		rdr = gr
	}

	data, err := io.ReadAll(rdr)
	if err != nil {
		return nil, fmt.Errorf("s3backup.get: failed to read object %v/%v: %w",
			s.bucket, *input.Key, err)
	}

	return data, nil
}

func (s *Store) Delete(ctx context.Context, name string) error {
	_, err := s.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(name)),
	})
	if err != nil {
		return fmt.Errorf("s3backup.delete: delete failed for %v: %w", name, err)
	}
	return nil
}

// SaveSnapshot uploads every file concurrently. It fails if any upload
// fails.
func (s *Store) SaveSnapshot(ctx context.Context, files map[string][]byte) error {
	eg, egCtx := errgroup.WithContext(ctx)
	for name, data := range files {
		eg.Go(func() error {
			return s.Put(egCtx, name, data)
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	s.log.WithField("objects", len(files)).Infof("s3backup.save: snapshot stored in %v",
		s.bucket)

	return nil
}

// DeleteSnapshot removes the named objects concurrently. Objects that do not
// exist are not an error.
func (s *Store) DeleteSnapshot(ctx context.Context, names []string) error {
	eg, egCtx := errgroup.WithContext(ctx)
	for _, name := range names {
		eg.Go(func() error {
			return s.Delete(egCtx, name)
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	s.log.WithField("objects", len(names)).Infof("s3backup.purge: snapshot removed from %v",
		s.bucket)

	return nil
}
