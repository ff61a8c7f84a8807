package seed_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-sync/internal/domain"
	"github.com/jhoicas/stock-sync/internal/infrastructure/seed"
)

// fakeGetObject implementa seed.GetObjectAPI sin red.
type fakeGetObject struct {
	body []byte
	err  error
	got  *s3.GetObjectInput
}

func (f *fakeGetObject) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.got = in
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(f.body))}, nil
}

func TestS3Source_LeeObjeto(t *testing.T) {
	fake := &fakeGetObject{body: []byte(sampleTSV)}
	got, err := seed.NewS3Source(fake, "bucket", "stock.tsv").Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, expectedList(), got)
	assert.Equal(t, "bucket", *fake.got.Bucket)
	assert.Equal(t, "stock.tsv", *fake.got.Key)
}

func TestS3Source_FalloDeAccesoEsIOError(t *testing.T) {
	fake := &fakeGetObject{err: errors.New("access denied")}
	_, err := seed.NewS3Source(fake, "bucket", "stock.tsv").Load(context.Background())
	le, ok := domain.AsLoadingError(err)
	require.True(t, ok)
	assert.Equal(t, domain.LoadingErrorIO, le.Kind)
}

// mockRoundTripper subconjunto mínimo de S3 (GetObject path-style) para ejercitar el SDK real sin red.
type mockRoundTripper struct {
	objects map[string]string
}

func (m *mockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	path := strings.TrimPrefix(req.URL.Path, "/")
	if req.Method == http.MethodGet {
		if body, ok := m.objects[path]; ok {
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader(body)),
				Header:     http.Header{"Content-Type": {"text/tab-separated-values"}},
				Request:    req,
			}, nil
		}
	}
	return &http.Response{
		StatusCode: http.StatusNotFound,
		Body:       io.NopCloser(strings.NewReader(`<?xml version="1.0"?><Error><Code>NoSuchKey</Code><Message>not found</Message></Error>`)),
		Header:     http.Header{"Content-Type": {"application/xml"}},
		Request:    req,
	}, nil
}

func newMockS3Client(t *testing.T, objects map[string]string) *s3.Client {
	t.Helper()
	client, err := seed.NewS3Client(context.Background(), seed.S3Config{
		Region:          "eu-west-2",
		Endpoint:        "http://s3.local",
		PathStyle:       true,
		AccessKeyID:     "test",
		SecretAccessKey: "test",
		HTTPClient:      &http.Client{Transport: &mockRoundTripper{objects: objects}},
	})
	require.NoError(t, err)
	return client
}

func TestS3Source_ConClienteSDK(t *testing.T) {
	client := newMockS3Client(t, map[string]string{"seeds/stock/stock.tsv": sampleTSV})

	got, err := seed.NewS3Source(client, "seeds", "stock/stock.tsv").Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, expectedList(), got)

	_, err = seed.NewS3Source(client, "seeds", "missing.tsv").Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrStockUnavailable)
}
