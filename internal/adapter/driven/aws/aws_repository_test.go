package aws

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSTS struct {
	err error
}

func (f *fakeSTS) GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &sts.GetCallerIdentityOutput{Account: aws.String("123456789012")}, nil
}

type fakeS3 struct {
	bucket      string
	key         string
	contentType string
	body        []byte
	err         error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.bucket = aws.ToString(params.Bucket)
	f.key = aws.ToString(params.Key)
	f.contentType = aws.ToString(params.ContentType)
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &s3.PutObjectOutput{}, nil
}

func newTestRepo(opts Options, stsClient *fakeSTS, s3Client *fakeS3) *AWSRepositoryImpl {
	return &AWSRepositoryImpl{opts: opts, stsClient: stsClient, s3Client: s3Client}
}

func TestGetAccountID(t *testing.T) {
	repo := newTestRepo(Options{}, &fakeSTS{}, &fakeS3{})
	account, err := repo.GetAccountID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "123456789012", account)

	repo = newTestRepo(Options{Profile: "prod"}, &fakeSTS{err: errors.New("expired token")}, &fakeS3{})
	_, err = repo.GetAccountID(context.Background())
	assert.ErrorContains(t, err, `profile "prod"`)
}

func TestUploadReport(t *testing.T) {
	file := filepath.Join(t.TempDir(), "revenue_20250715_102030.csv")
	require.NoError(t, os.WriteFile(file, []byte("ds,type\n"), 0o600))

	s3Client := &fakeS3{}
	repo := newTestRepo(Options{Bucket: "reports", Prefix: "/forecasts/"}, &fakeSTS{}, s3Client)

	uri, err := repo.UploadReport(context.Background(), file)
	require.NoError(t, err)
	assert.Equal(t, "s3://reports/forecasts/revenue_20250715_102030.csv", uri)
	assert.Equal(t, "reports", s3Client.bucket)
	assert.Equal(t, "forecasts/revenue_20250715_102030.csv", s3Client.key)
	assert.Equal(t, "text/csv", s3Client.contentType)
	assert.Equal(t, "ds,type\n", string(s3Client.body))
}

func TestUploadReportErrors(t *testing.T) {
	repo := newTestRepo(Options{}, &fakeSTS{}, &fakeS3{})
	_, err := repo.UploadReport(context.Background(), "x.csv")
	assert.ErrorContains(t, err, "no S3 bucket configured")

	repo = newTestRepo(Options{Bucket: "reports"}, &fakeSTS{}, &fakeS3{})
	_, err = repo.UploadReport(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	assert.ErrorContains(t, err, "error opening report")

	file := filepath.Join(t.TempDir(), "r.json")
	require.NoError(t, os.WriteFile(file, []byte("{}"), 0o600))
	repo = newTestRepo(Options{Bucket: "reports"}, &fakeSTS{}, &fakeS3{err: errors.New("access denied")})
	_, err = repo.UploadReport(context.Background(), file)
	assert.ErrorContains(t, err, "access denied")
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "a.pdf", objectKey("", "/tmp/a.pdf"))
	assert.Equal(t, "x/y/a.pdf", objectKey("x/y", "/tmp/a.pdf"))
	assert.Equal(t, "x/a.pdf", objectKey("/x/", "a.pdf"))
}
