package source_test

import (
	"context"
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/langdiff/pkg/keypath"
	"github.com/dmitrymomot/langdiff/pkg/source"
)

func file(s string) *fstest.MapFile { return &fstest.MapFile{Data: []byte(s)} }

func TestDir(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"en/translation.json": file(`{"greeting":"hi"}`),
		"fr/translation.json": file(`{"greeting":"bonjour"}`),
		"de/translation.yaml": file("greeting: hallo\n"),
		".git/config":         file(""),
		"_drafts/x.json":      file(`{}`),
		"README.md":           file("# locales"),
		"es/other.json":       file(`{}`),
	}

	t.Run("lists language directories", func(t *testing.T) {
		t.Parallel()

		langs, err := source.NewDir(fsys).Languages(context.Background())
		require.NoError(t, err)
		require.Equal(t, []string{"de", "en", "es", "fr"}, langs)
	})

	t.Run("reads default file", func(t *testing.T) {
		t.Parallel()

		f, err := source.NewDir(fsys).Read(context.Background(), "en")
		require.NoError(t, err)
		require.Equal(t, "en/translation.json", f.Name)
		require.Equal(t, "en", f.Language)

		v, err := f.Decode()
		require.NoError(t, err)
		require.Equal(t, `{"greeting":"hi"}`, v.Text())
	})

	t.Run("tries file names in order", func(t *testing.T) {
		t.Parallel()

		d := source.NewDir(fsys, source.WithFileNames("translation.json", "translation.yaml"))
		f, err := d.Read(context.Background(), "de")
		require.NoError(t, err)
		require.Equal(t, "de/translation.yaml", f.Name)

		v, err := f.Decode()
		require.NoError(t, err)
		require.Equal(t, `{"greeting":"hallo"}`, v.Text())
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := source.NewDir(fsys).Read(context.Background(), "es")
		require.ErrorIs(t, err, source.ErrNotFound)

		_, err = source.NewDir(fsys).Read(context.Background(), "../etc")
		require.ErrorIs(t, err, source.ErrNotFound)
	})

	t.Run("open dir validates root", func(t *testing.T) {
		t.Parallel()

		_, err := source.OpenDir(t.TempDir() + "/missing")
		require.ErrorIs(t, err, source.ErrInvalidConfig)

		d, err := source.OpenDir(t.TempDir())
		require.NoError(t, err)
		langs, err := d.Languages(context.Background())
		require.NoError(t, err)
		require.Empty(t, langs)
	})
}

func TestDecode(t *testing.T) {
	t.Parallel()

	_, err := (&source.File{Name: "en/translation.json", Data: []byte(`{"a":`)}).Decode()
	require.ErrorIs(t, err, source.ErrParseFailed)

	_, err = (&source.File{Name: "en/translation.json", Data: []byte(`"scalar"`)}).Decode()
	require.ErrorIs(t, err, source.ErrParseFailed)

	v, err := (&source.File{Name: "en/t.YML", Data: []byte("- a\n- b\n")}).Decode()
	require.NoError(t, err)
	require.Equal(t, `["a","b"]`, v.Text())
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("isolates per-language failures", func(t *testing.T) {
		t.Parallel()

		fsys := fstest.MapFS{
			"en/translation.json": file(`{"a":{"b":"x"},"c":[1,2]}`),
			"fr/translation.json": file(`{not json`),
			"it/readme.txt":       file(`nothing`),
			"pt/translation.json": file(`{"a":{"b":"y"}}`),
		}

		langs, err := source.Load(context.Background(), source.NewDir(fsys), source.WithConcurrency(2))
		require.NoError(t, err)
		require.Len(t, langs, 4)

		require.Equal(t, "en", langs[0].Name)
		require.False(t, langs[0].Failed())
		require.Equal(t, []string{"a.b", "c[0]", "c[1]"}, langs[0].Flat.Keys())
		require.Equal(t, "en/translation.json", langs[0].Source)

		require.Equal(t, "fr", langs[1].Name)
		require.ErrorIs(t, langs[1].Err, source.ErrParseFailed)
		require.Zero(t, langs[1].Flat.Len())

		require.Equal(t, "it", langs[2].Name)
		require.ErrorIs(t, langs[2].Err, source.ErrNotFound)

		require.Equal(t, "pt", langs[3].Name)
		require.False(t, langs[3].Failed())
	})

	t.Run("passes flatten options", func(t *testing.T) {
		t.Parallel()

		fsys := fstest.MapFS{"en/translation.json": file(`{"a":{},"b":"x"}`)}
		langs, err := source.Load(context.Background(), source.NewDir(fsys),
			source.WithFlattenOptions(keypath.WithEmptyContainers(keypath.KeepEmpty)))
		require.NoError(t, err)
		require.Equal(t, []string{"a", "b"}, langs[0].Flat.Keys())
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := source.Load(ctx, source.NewDir(fstest.MapFS{"en/translation.json": file(`{}`)}))
		require.ErrorIs(t, err, context.Canceled)
	})
}

type fakeS3 struct {
	objects  map[string]string
	prefixes []string
	denied   bool
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	if f.denied {
		return nil, &smithy.GenericAPIError{Code: "AccessDenied", Message: "denied"}
	}
	out := &s3.ListObjectsV2Output{}
	for _, p := range f.prefixes {
		if strings.HasPrefix(p, aws.ToString(in.Prefix)) {
			out.CommonPrefixes = append(out.CommonPrefixes, types.CommonPrefix{Prefix: aws.String(p)})
		}
	}
	return out, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(data))}, nil
}

func TestS3(t *testing.T) {
	t.Parallel()

	client := &fakeS3{
		prefixes: []string{"locales/en/", "locales/fr/", "locales/.cache/"},
		objects: map[string]string{
			"locales/en/translation.json": `{"greeting":"hi"}`,
		},
	}

	src, err := source.NewS3WithClient(client, source.S3Config{Bucket: "b", Prefix: "locales"})
	require.NoError(t, err)

	langs, err := src.Languages(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"en", "fr"}, langs)

	f, err := src.Read(context.Background(), "en")
	require.NoError(t, err)
	require.Equal(t, "en/translation.json", f.Name)
	require.Equal(t, `{"greeting":"hi"}`, string(f.Data))

	_, err = src.Read(context.Background(), "fr")
	require.ErrorIs(t, err, source.ErrNotFound)

	loaded, err := source.Load(context.Background(), src)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	require.True(t, loaded[1].Failed())

	client.denied = true
	_, err = src.Languages(context.Background())
	require.ErrorIs(t, err, source.ErrAccessDenied)
}

func TestNewS3(t *testing.T) {
	t.Parallel()

	src, err := source.NewS3(source.S3Config{
		Bucket:    "translations",
		AccessKey: "key",
		SecretKey: "secret",
		Endpoint:  "http://localhost:9000",
		PathStyle: true,
	})
	require.NoError(t, err)
	require.NotNil(t, src)

	_, err = source.NewS3(source.S3Config{Bucket: "translations"})
	require.ErrorIs(t, err, source.ErrInvalidConfig)

	_, err = source.NewS3WithClient(nil, source.S3Config{Bucket: "b"})
	require.ErrorIs(t, err, source.ErrInvalidConfig)
}
