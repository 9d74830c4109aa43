// Package upload pushes a built chunk directory (and its index
// manifest) to an S3-compatible object store such as Cloudflare R2.
package upload

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	meshconfig "github.com/ximhear/songdo-meshbuilder/internal/config"
)

// numWorkers bounds parallel uploads. A chunk directory holds far
// fewer objects than a vector tile pyramid, so this is a fraction of
// what a tile-serving upload would use.
const numWorkers = 16

// Client wraps an S3-compatible client configured for a single
// bucket and key prefix.
type Client struct {
	client     *s3.Client
	bucket     string
	bucketPath string
	uploader   *manager.Uploader
}

// NewClient builds a Client for an R2/S3-compatible endpoint.
func NewClient(cfg meshconfig.S3Config) (*Client, error) {
	logger := slog.With("endpoint", cfg.Endpoint, "bucket", cfg.Bucket)
	logger.Info("initializing object storage client")

	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if service == s3.ServiceID {
			return aws.Endpoint{
				URL:           cfg.Endpoint,
				SigningRegion: cfg.Region,
			}, nil
		}
		return aws.Endpoint{}, &smithy.GenericAPIError{Code: "UnknownEndpoint"}
	})

	httpClient := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        numWorkers * 2,
			MaxIdleConnsPerHost: numWorkers * 2,
			IdleConnTimeout:     90 * time.Second,
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
		Timeout: 5 * time.Minute,
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithHTTPClient(httpClient),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
		config.WithRegion(cfg.Region),
		config.WithEndpointResolverWithOptions(customResolver),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	return &Client{
		client:     s3Client,
		bucket:     cfg.Bucket,
		bucketPath: cfg.BucketPath,
		uploader:   manager.NewUploader(s3Client),
	}, nil
}

type fileToUpload struct {
	path    string
	relPath string
	key     string
	size    int64
}

// UploadDirectory uploads every file under localDir (the output
// directory produced by the pipeline: chunks/*.bin plus index.json)
// to the client's bucket, under bucketPath.
func (c *Client) UploadDirectory(ctx context.Context, localDir string) (int64, error) {
	logger := slog.With("local_dir", localDir, "prefix", c.bucketPath)
	logger.Info("starting directory upload")

	var files []fileToUpload
	err := filepath.Walk(localDir, func(filePath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		relPath, err := filepath.Rel(localDir, filePath)
		if err != nil {
			return err
		}
		files = append(files, fileToUpload{
			path:    filePath,
			relPath: relPath,
			key:     filepath.Join(c.bucketPath, filepath.ToSlash(relPath)),
			size:    info.Size(),
		})
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to scan directory: %w", err)
	}
	logger.Info("found files to upload", "count", len(files))

	var totalBytes int64
	var fileCount int
	var mu sync.Mutex
	var wg sync.WaitGroup

	workChan := make(chan fileToUpload, numWorkers*2)
	errChan := make(chan error, 1)

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for file := range workChan {
				if err := c.uploadOne(ctx, file); err != nil {
					select {
					case errChan <- err:
					default:
					}
					return
				}

				mu.Lock()
				totalBytes += file.size
				fileCount++
				current := fileCount
				mu.Unlock()
				if current%100 == 0 {
					logger.Info("upload progress", "files_uploaded", current)
				}
			}
		}()
	}

	go func() {
		for _, file := range files {
			select {
			case <-ctx.Done():
				return
			case workChan <- file:
			}
		}
		close(workChan)
	}()

	wg.Wait()
	close(errChan)

	if err := <-errChan; err != nil {
		return 0, err
	}

	logger.Info("directory upload complete", "total_files", fileCount, "total_bytes", totalBytes)
	return totalBytes, nil
}

func (c *Client) uploadOne(ctx context.Context, file fileToUpload) error {
	f, err := os.Open(file.path)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", file.relPath, err)
	}
	defer f.Close()

	_, err = c.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(file.key),
		Body:   f,
		ACL:    types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return fmt.Errorf("failed to upload file %s: %w", file.relPath, err)
	}
	return nil
}
