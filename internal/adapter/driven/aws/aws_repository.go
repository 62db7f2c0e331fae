package aws

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/diillson/revenue-forecast-go/internal/domain/repository"
)

// Options identifica o bucket de destino e as credenciais a usar.
type Options struct {
	Bucket  string
	Prefix  string
	Profile string
	Region  string
}

type stsAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// AWSRepositoryImpl implementa o AWSRepository com clientes criados sob demanda.
type AWSRepositoryImpl struct {
	opts Options

	mu        sync.Mutex
	stsClient stsAPI
	s3Client  s3API
}

// NewAWSRepository cria uma nova implementação do AWSRepository.
func NewAWSRepository(opts Options) repository.AWSRepository {
	return &AWSRepositoryImpl{opts: opts}
}

var contentTypes = map[string]string{
	".csv":  "text/csv",
	".json": "application/json",
	".pdf":  "application/pdf",
}

func (r *AWSRepositoryImpl) getAWSConfig(ctx context.Context) (aws.Config, error) {
	var loadOpts []func(*config.LoadOptions) error
	if r.opts.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(r.opts.Profile))
	}
	if r.opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(r.opts.Region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config for profile %q: %w", r.opts.Profile, err)
	}
	return cfg, nil
}

// clients inicializa os clientes STS e S3 uma única vez.
func (r *AWSRepositoryImpl) clients(ctx context.Context) (stsAPI, s3API, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stsClient != nil && r.s3Client != nil {
		return r.stsClient, r.s3Client, nil
	}

	cfg, err := r.getAWSConfig(ctx)
	if err != nil {
		return nil, nil, err
	}

	if r.stsClient == nil {
		r.stsClient = sts.NewFromConfig(cfg)
	}
	if r.s3Client == nil {
		r.s3Client = s3.NewFromConfig(cfg)
	}
	return r.stsClient, r.s3Client, nil
}

// GetAccountID retorna a conta dona das credenciais configuradas.
func (r *AWSRepositoryImpl) GetAccountID(ctx context.Context) (string, error) {
	stsClient, _, err := r.clients(ctx)
	if err != nil {
		return "", err
	}

	result, err := stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("error getting account ID for profile %q: %w", r.opts.Profile, err)
	}
	return aws.ToString(result.Account), nil
}

// UploadReport envia um relatório local para s3://bucket/prefix/<arquivo>.
func (r *AWSRepositoryImpl) UploadReport(ctx context.Context, filePath string) (string, error) {
	if r.opts.Bucket == "" {
		return "", fmt.Errorf("no S3 bucket configured")
	}

	_, s3Client, err := r.clients(ctx)
	if err != nil {
		return "", err
	}

	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("error opening report %s: %w", filePath, err)
	}
	defer file.Close()

	key := objectKey(r.opts.Prefix, filePath)
	input := &s3.PutObjectInput{
		Bucket: aws.String(r.opts.Bucket),
		Key:    aws.String(key),
		Body:   file,
	}
	if contentType, ok := contentTypes[strings.ToLower(filepath.Ext(filePath))]; ok {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s3Client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("error uploading %s to bucket %s: %w", filepath.Base(filePath), r.opts.Bucket, err)
	}

	return fmt.Sprintf("s3://%s/%s", r.opts.Bucket, key), nil
}

func objectKey(prefix, filePath string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return filepath.Base(filePath)
	}
	return path.Join(prefix, filepath.Base(filePath))
}
