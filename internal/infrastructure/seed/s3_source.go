package seed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/jhoicas/stock-sync/internal/domain"
	"github.com/jhoicas/stock-sync/internal/domain/entity"
	"github.com/jhoicas/stock-sync/internal/domain/repository"
)

// GetObjectAPI subconjunto del cliente S3 usado por S3Source.
type GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

var _ repository.SeedSource = (*S3Source)(nil)

// S3Source lee la semilla de un objeto S3 (o compatible, p. ej. MinIO) en cada carga.
type S3Source struct {
	client GetObjectAPI
	bucket string
	key    string
}

// NewS3Source construye la fuente.
func NewS3Source(client GetObjectAPI, bucket, key string) *S3Source {
	return &S3Source{client: client, bucket: bucket, key: key}
}

// Load descarga y parsea el objeto. Cualquier fallo de acceso es un IOError.
func (s *S3Source) Load(ctx context.Context) (entity.StockList, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(s.key)})
	if err != nil {
		return entity.StockList{}, domain.IOError(fmt.Sprintf("leer semilla s3://%s/%s", s.bucket, s.key), err)
	}
	defer func() { _ = out.Body.Close() }()
	return Parse(out.Body)
}

// S3Config parámetros del cliente S3.
type S3Config struct {
	Region          string
	Endpoint        string // opcional (MinIO)
	PathStyle       bool
	AccessKeyID     string // opcional; vacío = cadena de credenciales por defecto
	SecretAccessKey string
	HTTPClient      *http.Client // opcional (tests)
}

// NewS3Client construye un cliente S3 desde la configuración.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	if cfg.HTTPClient != nil {
		loadOpts = append(loadOpts, config.WithHTTPClient(cfg.HTTPClient))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

// Open resuelve la ubicación configurada: vacío = sin semilla (nil), "s3://bucket/key" = S3,
// cualquier otra cosa = ruta de archivo local.
func Open(ctx context.Context, location string, s3cfg S3Config) (repository.SeedSource, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, nil
	}
	if !strings.HasPrefix(location, "s3://") {
		return FileSource{Path: location}, nil
	}
	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("%w: STOCK_FILE %q", domain.ErrInvalidInput, location)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return nil, fmt.Errorf("%w: STOCK_FILE %q requiere s3://bucket/key", domain.ErrInvalidInput, location)
	}
	client, err := NewS3Client(ctx, s3cfg)
	if err != nil {
		return nil, err
	}
	return NewS3Source(client, u.Host, key), nil
}
