package photos

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dmitrijs2005/snaplocation/internal/common"
	"github.com/dmitrijs2005/snaplocation/internal/models"
)

// Object user-metadata keys.
const (
	metaHidden    = "hidden"
	metaChecksum  = "checksum"
	metaCreatedAt = "created-at"
)

// s3API is the subset of *s3.Client the backend uses.
type s3API interface {
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, in *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObjects(ctx context.Context, in *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

// Seams for tests.
var (
	loadDefaultAWSConfig  = awsconfig.LoadDefaultConfig
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) s3API {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// S3Config holds the connection settings of an S3-compatible store.
type S3Config struct {
	Region       string
	BaseEndpoint string
	User         string
	Password     string
	Bucket       string
	Authorized   bool
}

// S3Backend keeps each album under the key prefix "<album>/" of one bucket.
type S3Backend struct {
	client     s3API
	bucket     string
	authorized bool
}

// NewS3Backend builds an S3 client with static credentials and path-style
// addressing (MinIO-compatible).
func NewS3Backend(ctx context.Context, c S3Config) (*S3Backend, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(c.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(c.User, c.Password, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if c.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(c.BaseEndpoint)
		}
		o.UsePathStyle = true
	})

	return &S3Backend{client: client, bucket: c.Bucket, authorized: c.Authorized}, nil
}

func (b *S3Backend) key(album, ref string) string {
	return path.Join(album, ref+".png")
}

func (b *S3Backend) Authorized(ctx context.Context) bool {
	return b.authorized
}

func (b *S3Backend) EnsureAlbum(ctx context.Context, album string) error {
	_, err := b.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(b.bucket)})
	if err == nil {
		return nil
	}
	_, err = b.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(b.bucket)})
	if err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &owned) {
			return nil
		}
		return fmt.Errorf("create bucket %s: %w", b.bucket, err)
	}
	return nil
}

func (b *S3Backend) Put(ctx context.Context, album string, asset models.Asset, data []byte) error {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(b.bucket),
		Key:           aws.String(b.key(album, asset.Reference)),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(asset.ContentType),
		Metadata: map[string]string{
			metaHidden:    fmt.Sprint(asset.Hidden),
			metaChecksum:  asset.Checksum,
			metaCreatedAt: asset.CreatedAt.UTC().Format(time.RFC3339Nano),
		},
	})
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}

func (b *S3Backend) Delete(ctx context.Context, album string, refs []string) error {
	if len(refs) == 0 {
		return nil
	}
	ids := make([]types.ObjectIdentifier, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, types.ObjectIdentifier{Key: aws.String(b.key(album, ref))})
	}

	out, err := b.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(b.bucket),
		Delete: &types.Delete{Objects: ids, Quiet: aws.Bool(true)},
	})
	if err != nil {
		return fmt.Errorf("delete objects: %w", err)
	}
	if len(out.Errors) > 0 {
		e := out.Errors[0]
		return fmt.Errorf("delete objects: %d failed, first %s: %s",
			len(out.Errors), aws.ToString(e.Key), aws.ToString(e.Message))
	}
	return nil
}

func (b *S3Backend) List(ctx context.Context, album string) ([]models.Asset, error) {
	prefix := album + "/"
	p := s3.NewListObjectsV2Paginator(b.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(b.bucket),
		Prefix: aws.String(prefix),
	})

	var assets []models.Asset
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), prefix)
			if strings.Contains(name, "/") || !strings.HasSuffix(name, ".png") {
				continue
			}
			assets = append(assets, models.Asset{
				Reference:   strings.TrimSuffix(name, ".png"),
				Album:       album,
				CreatedAt:   aws.ToTime(obj.LastModified),
				Hidden:      true,
				Size:        aws.ToInt64(obj.Size),
				ContentType: "image/png",
			})
		}
	}

	sort.SliceStable(assets, func(i, j int) bool {
		if assets[i].CreatedAt.Equal(assets[j].CreatedAt) {
			return assets[i].Reference < assets[j].Reference
		}
		return assets[i].CreatedAt.Before(assets[j].CreatedAt)
	})
	return assets, nil
}

func isNotFound(err error) bool {
	var nf *types.NotFound
	var nk *types.NoSuchKey
	return errors.As(err, &nf) || errors.As(err, &nk)
}

func (b *S3Backend) Get(ctx context.Context, album, ref string) (models.Asset, error) {
	out, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key(album, ref)),
	})
	if isNotFound(err) {
		return models.Asset{}, common.ErrorNotFound
	}
	if err != nil {
		return models.Asset{}, fmt.Errorf("head object: %w", err)
	}

	a := models.Asset{
		Reference:   ref,
		Album:       album,
		Hidden:      out.Metadata[metaHidden] == "true",
		Size:        aws.ToInt64(out.ContentLength),
		Checksum:    out.Metadata[metaChecksum],
		ContentType: aws.ToString(out.ContentType),
		CreatedAt:   aws.ToTime(out.LastModified),
	}
	if ts, err := time.Parse(time.RFC3339Nano, out.Metadata[metaCreatedAt]); err == nil {
		a.CreatedAt = ts
	}
	return a, nil
}

func (b *S3Backend) Open(ctx context.Context, album, ref string) ([]byte, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key(album, ref)),
	})
	if isNotFound(err) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get object: %w", err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}
