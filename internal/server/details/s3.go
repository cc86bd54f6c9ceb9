package details

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/server/models"
)

const cborContentType = "application/cbor"

var loadDefaultAWSConfig = config.LoadDefaultConfig

// S3Config describes an S3-compatible endpoint (AWS S3 or MinIO).
type S3Config struct {
	Region          string
	Bucket          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PathStyle       bool
}

// S3Store keeps each document as one CBOR object under
// "<collection>/<ref>" in a single bucket.
type S3Store struct {
	client *s3.Client
	bucket string
}

// NewS3Store builds the client. optFns are applied after the settings
// derived from cfg.
func NewS3Store(ctx context.Context, cfg S3Config, optFns ...func(*s3.Options)) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, common.Validationf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := loadDefaultAWSConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	opts := append([]func(*s3.Options){func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}}, optFns...)

	return &S3Store{client: s3.NewFromConfig(awsCfg, opts...), bucket: cfg.Bucket}, nil
}

func (s *S3Store) InsertItemDetail(ctx context.Context, description string, image []byte) (models.DetailRef, error) {
	ref := models.NewDetailRef()
	data, err := encodeItem(ref, description, image)
	if err != nil {
		return models.DetailRef{}, common.WrapStore(common.StoreS3, "insert item detail", err)
	}
	if err := s.put(ctx, objectKey(ItemDetails, ref), data); err != nil {
		return models.DetailRef{}, common.WrapStore(common.StoreS3, "insert item detail", err)
	}
	return ref, nil
}

func (s *S3Store) InsertClaimDetail(ctx context.Context, evidence []byte, note string) (models.DetailRef, error) {
	ref := models.NewDetailRef()
	data, err := encodeClaim(ref, evidence, note)
	if err != nil {
		return models.DetailRef{}, common.WrapStore(common.StoreS3, "insert claim detail", err)
	}
	if err := s.put(ctx, objectKey(ClaimDetails, ref), data); err != nil {
		return models.DetailRef{}, common.WrapStore(common.StoreS3, "insert claim detail", err)
	}
	return ref, nil
}

func (s *S3Store) GetItemDetail(ctx context.Context, ref models.DetailRef) (*models.ItemDetail, error) {
	data, err := s.get(ctx, ItemDetails, ref)
	if err != nil {
		return nil, common.WrapStore(common.StoreS3, "get item detail", err)
	}
	d, err := decodeItem(ref, data)
	if err != nil {
		return nil, common.WrapStore(common.StoreS3, "get item detail", err)
	}
	return d, nil
}

func (s *S3Store) GetClaimDetail(ctx context.Context, ref models.DetailRef) (*models.ClaimDetail, error) {
	data, err := s.get(ctx, ClaimDetails, ref)
	if err != nil {
		return nil, common.WrapStore(common.StoreS3, "get claim detail", err)
	}
	d, err := decodeClaim(ref, data)
	if err != nil {
		return nil, common.WrapStore(common.StoreS3, "get claim detail", err)
	}
	return d, nil
}

func (s *S3Store) DeleteItemDetail(ctx context.Context, ref models.DetailRef) error {
	return common.WrapStore(common.StoreS3, "delete item detail", s.delete(ctx, ItemDetails, ref))
}

func (s *S3Store) DeleteClaimDetail(ctx context.Context, ref models.DetailRef) error {
	return common.WrapStore(common.StoreS3, "delete claim detail", s.delete(ctx, ClaimDetails, ref))
}

// Ping checks that the bucket is reachable with the configured credentials.
func (s *S3Store) Ping(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: &s.bucket})
	return common.WrapStore(common.StoreS3, "ping", classifyS3(err))
}

func (s *S3Store) put(ctx context.Context, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        &s.bucket,
		Key:           &key,
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(cborContentType),
	})
	return classifyS3(err)
}

func (s *S3Store) get(ctx context.Context, collection string, ref models.DetailRef) ([]byte, error) {
	if err := checkRef(ref); err != nil {
		return nil, err
	}
	key := objectKey(collection, ref)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &key})
	if err != nil {
		return nil, classifyS3(err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, classifyS3(err)
	}
	return data, nil
}

func (s *S3Store) delete(ctx context.Context, collection string, ref models.DetailRef) error {
	if ref.IsZero() {
		return nil
	}
	if err := ref.Validate(); err != nil {
		return fmt.Errorf("%w: %w", common.ErrorNotFound, err)
	}
	key := objectKey(collection, ref)
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: &s.bucket, Key: &key})
	if err = classifyS3(err); errors.Is(err, common.ErrorNotFound) {
		return nil
	}
	return err
}

// classifyS3 maps SDK errors onto the common sentinels, keeping the
// original in the chain.
func classifyS3(err error) error {
	if err == nil {
		return nil
	}

	var (
		noSuchKey    *types.NoSuchKey
		notFound     *types.NotFound
		noSuchBucket *types.NoSuchBucket
	)
	if errors.As(err, &noSuchKey) || errors.As(err, &notFound) || errors.As(err, &noSuchBucket) {
		return fmt.Errorf("%w: %w", common.ErrorNotFound, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "NoSuchBucket":
			return fmt.Errorf("%w: %w", common.ErrorNotFound, err)
		}
	}

	// A failed send still surfaces as a response error with status 0.
	var (
		sendErr *smithyhttp.RequestSendError
		netErr  net.Error
	)
	if errors.As(err, &sendErr) || errors.As(err, &netErr) {
		return fmt.Errorf("%w: %w", common.ErrConnectionUnavailable, err)
	}

	var status interface{ HTTPStatusCode() int }
	if errors.As(err, &status) {
		switch code := status.HTTPStatusCode(); {
		case code == http.StatusNotFound:
			return fmt.Errorf("%w: %w", common.ErrorNotFound, err)
		case code == 0 || code >= http.StatusInternalServerError:
			return fmt.Errorf("%w: %w", common.ErrConnectionUnavailable, err)
		}
	}
	return err
}
