package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/yanizio/viyakaptan/internal/config"
)

func TestNewKey(t *testing.T) {
	now := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	re := regexp.MustCompile(`^2026/03/[0-9a-f-]{36}\.jpg$`)
	if k := NewKey("Kapadokya Balon.JPG", now); !re.MatchString(k) {
		t.Fatalf("NewKey = %q", k)
	}
	if k := NewKey("../../etc/passwd", now); filepath.Ext(k) != "" {
		t.Fatalf("extensionless input kept an ext: %q", k)
	}
	if a, b := NewKey("a.png", now), NewKey("a.png", now); a == b {
		t.Fatal("keys must be unique")
	}
}

func TestValidKey(t *testing.T) {
	for _, k := range []string{"", "/abs", "../x", "a/../../b", "a//b"} {
		if validKey(k) == nil {
			t.Errorf("validKey(%q) accepted", k)
		}
	}
	if err := validKey("2026/03/x.png"); err != nil {
		t.Errorf("validKey rejected a good key: %v", err)
	}
}

func TestDiskPutDelete(t *testing.T) {
	dir := t.TempDir()
	d, err := NewDisk(dir, "")
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	url, err := d.Put(ctx, "2026/03/a.txt", []byte("merhaba"), "text/plain")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if url != "/media/2026/03/a.txt" {
		t.Fatalf("url = %q", url)
	}
	b, err := os.ReadFile(filepath.Join(dir, "2026", "03", "a.txt"))
	if err != nil || string(b) != "merhaba" {
		t.Fatalf("file = %q, %v", b, err)
	}
	if _, err := d.Put(ctx, "2026/03/a.txt", []byte("x"), ""); err == nil {
		t.Fatal("overwrite must fail")
	}

	if err := d.Delete(ctx, "2026/03/a.txt"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := d.Delete(ctx, "2026/03/a.txt"); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}

type fakeS3 struct {
	put     *s3.PutObjectInput
	body    []byte
	deleted string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.put = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = *in.Key
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3PutDelete(t *testing.T) {
	f := &fakeS3{}
	s := &S3{api: f, bucket: "viya", base: "https://cdn.viyakaptan.com"}

	url, err := s.Put(context.Background(), "2026/03/a.png", []byte{1, 2, 3}, "image/png")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if url != "https://cdn.viyakaptan.com/2026/03/a.png" {
		t.Fatalf("url = %q", url)
	}
	if *f.put.Bucket != "viya" || *f.put.ContentType != "image/png" || len(f.body) != 3 {
		t.Fatalf("put input = %+v", f.put)
	}
	if err := s.Delete(context.Background(), "2026/03/a.png"); err != nil || f.deleted != "2026/03/a.png" {
		t.Fatalf("Delete = %v (%q)", err, f.deleted)
	}
}

func TestS3PublicBase(t *testing.T) {
	cases := []struct {
		cfg      config.S3
		endpoint string
		want     string
	}{
		{config.S3{Bucket: "b", Region: "eu-central-1"}, "", "https://b.s3.eu-central-1.amazonaws.com"},
		{config.S3{Bucket: "b", Region: "auto"}, "https://minio.local:9000", "https://minio.local:9000/b"},
		{config.S3{Bucket: "b", PublicBaseURL: "https://cdn.example/"}, "x", "https://cdn.example"},
	}
	for _, c := range cases {
		if got := s3PublicBase(c.cfg, c.endpoint); got != c.want {
			t.Errorf("s3PublicBase(%+v) = %q, want %q", c.cfg, got, c.want)
		}
	}
}

func TestNewSelectsDriver(t *testing.T) {
	b, err := New(context.Background(), config.Storage{Driver: "disk", Dir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := b.(*Disk); !ok {
		t.Fatalf("driver = %T", b)
	}
	if _, err := New(context.Background(), config.Storage{Driver: "ftp"}); err == nil {
		t.Fatal("unknown driver accepted")
	}
	if _, err := New(context.Background(), config.Storage{Driver: "s3"}); err == nil {
		t.Fatal("s3 without bucket accepted")
	}
}
