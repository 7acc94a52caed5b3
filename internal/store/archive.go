package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/hipaaguard/hipaaguard/internal/report"
)

// Archive stores and retrieves full report documents. The index keeps the
// summary row; the archive keeps everything, including the violation list.
type Archive interface {
	Put(ctx context.Context, rep report.Report) error
	Get(ctx context.Context, projectID, scanID string) (report.Report, error)
}

// archiveKey is shared between archive backends so a report written by one
// deployment layout can be read by another.
func archiveKey(projectID, scanID string) string {
	return fmt.Sprintf("reports/%s/%s.json", projectID, scanID)
}

// S3Archive archives reports as JSON documents in an S3 bucket.
type S3Archive struct {
	client *s3.Client
	bucket string
}

func NewS3Archive(ctx context.Context, bucket, region string) (*S3Archive, error) {
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return nil, errors.New("archive bucket is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{}
	if region = strings.TrimSpace(region); region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &S3Archive{client: s3.NewFromConfig(cfg), bucket: bucket}, nil
}

func (a *S3Archive) Put(ctx context.Context, rep report.Report) error {
	body, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("encode report %s: %w", rep.ScanID, err)
	}

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(archiveKey(rep.ProjectID, rep.ScanID)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("archive report %s: %w", rep.ScanID, err)
	}
	return nil
}

func (a *S3Archive) Get(ctx context.Context, projectID, scanID string) (report.Report, error) {
	out, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(archiveKey(projectID, scanID)),
	})
	if err != nil {
		return report.Report{}, fmt.Errorf("fetch report %s: %w", scanID, err)
	}
	defer out.Body.Close()
	return decodeReport(out.Body, scanID)
}

// DirArchive archives reports on local disk under the same key layout as
// S3Archive. It is the default for single-node deployments and tests.
type DirArchive struct {
	Dir string
}

func (a DirArchive) Put(ctx context.Context, rep report.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report %s: %w", rep.ScanID, err)
	}

	path := filepath.Join(a.Dir, filepath.FromSlash(archiveKey(rep.ProjectID, rep.ScanID)))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("archive report %s: %w", rep.ScanID, err)
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("archive report %s: %w", rep.ScanID, err)
	}
	return nil
}

func (a DirArchive) Get(ctx context.Context, projectID, scanID string) (report.Report, error) {
	if err := ctx.Err(); err != nil {
		return report.Report{}, err
	}
	path := filepath.Join(a.Dir, filepath.FromSlash(archiveKey(projectID, scanID)))
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return report.Report{}, ErrNotFound
		}
		return report.Report{}, fmt.Errorf("fetch report %s: %w", scanID, err)
	}
	defer file.Close()
	return decodeReport(file, scanID)
}

func decodeReport(r io.Reader, scanID string) (report.Report, error) {
	var rep report.Report
	if err := json.NewDecoder(r).Decode(&rep); err != nil {
		return report.Report{}, fmt.Errorf("decode report %s: %w", scanID, err)
	}
	return rep, nil
}
