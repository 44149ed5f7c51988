package publish

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeUploader struct {
	bucket, key string
	body        []byte
	err         error
}

func (f *fakeUploader) Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.bucket = *input.Bucket
	f.key = *input.Key
	body, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &manager.UploadOutput{Location: "https://" + f.bucket + ".s3.amazonaws.com/" + f.key}, nil
}

func TestParseS3URI(t *testing.T) {
	tests := []struct {
		uri     string
		want    Target
		wantErr bool
	}{
		{uri: "s3://bucket/path/archive.zip", want: Target{Bucket: "bucket", Key: "path/archive.zip"}},
		{uri: "bucket/prefix/", want: Target{Bucket: "bucket", Key: "prefix/"}},
		{uri: "s3://bucket", want: Target{Bucket: "bucket"}},
		{uri: "s3://", wantErr: true},
		{uri: "/key-only", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			got, err := ParseS3URI(tt.uri)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error but got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTargetObjectKey(t *testing.T) {
	local := filepath.Join("data", "BERPublicsearch.zip")
	tests := []struct {
		target Target
		want   string
	}{
		{Target{Bucket: "b"}, "BERPublicsearch.zip"},
		{Target{Bucket: "b", Key: "ber/"}, "ber/BERPublicsearch.zip"},
		{Target{Bucket: "b", Key: "ber/2026-10.zip"}, "ber/2026-10.zip"},
	}
	for _, tt := range tests {
		if got := tt.target.ObjectKey(local); got != tt.want {
			t.Errorf("%v: got %q, want %q", tt.target, got, tt.want)
		}
	}
}

func TestPublish(t *testing.T) {
	local := filepath.Join(t.TempDir(), "BERPublicsearch.zip")
	if err := os.WriteFile(local, []byte("PK\x03\x04archive"), 0644); err != nil {
		t.Fatal(err)
	}
	up := &fakeUploader{}
	p := &S3Publisher{uploader: up}

	location, err := p.Publish(context.Background(), local, Target{Bucket: "energy", Key: "ber/"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if location != "s3://energy/ber/BERPublicsearch.zip" {
		t.Errorf("got location %q", location)
	}
	if up.bucket != "energy" || up.key != "ber/BERPublicsearch.zip" {
		t.Errorf("uploaded to %s/%s", up.bucket, up.key)
	}
	if string(up.body) != "PK\x03\x04archive" {
		t.Errorf("uploaded body %q", up.body)
	}
}

func TestPublishErrors(t *testing.T) {
	p := &S3Publisher{uploader: &fakeUploader{}}
	if _, err := p.Publish(context.Background(), filepath.Join(t.TempDir(), "missing.zip"), Target{Bucket: "b"}); err == nil {
		t.Error("expected error for missing file")
	}

	local := filepath.Join(t.TempDir(), "a.zip")
	if err := os.WriteFile(local, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	boom := errors.New("access denied")
	p = &S3Publisher{uploader: &fakeUploader{err: boom}}
	if _, err := p.Publish(context.Background(), local, Target{Bucket: "b"}); !errors.Is(err, boom) {
		t.Errorf("expected wrapped upload error, got %v", err)
	}
}
