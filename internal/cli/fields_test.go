package cli

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/familytree/pkg/types"
)

// pngHeader is enough of a PNG file for content sniffing.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestPhotoDataURL(t *testing.T) {
	path := writeFile(t, "face.png", pngHeader)

	got, err := photoDataURL(path)
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(pngHeader), got)
	assert.NoError(t, types.MemberFields{Name: "X", Gender: types.GenderMale, PhotoURL: got}.Validate())
}

func TestPhotoDataURLErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := photoDataURL(filepath.Join(t.TempDir(), "absent.png"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
	t.Run("not an image", func(t *testing.T) {
		_, err := photoDataURL(writeFile(t, "notes.txt", []byte("just some notes\n")))
		assert.ErrorContains(t, err, "not an image")
	})
}

func TestFieldFlagsApply(t *testing.T) {
	photo := writeFile(t, "face.png", pngHeader)

	tests := []struct {
		name    string
		args    []string
		want    types.MemberFields
		wantErr error
	}{
		{
			name: "unset flags keep values",
			args: []string{"--occupation", " farmer "},
			want: types.MemberFields{Name: "Old", Gender: types.GenderFemale, Occupation: "farmer"},
		},
		{
			name: "gender is lowercased",
			args: []string{"--gender", "MALE"},
			want: types.MemberFields{Name: "Old", Gender: types.GenderMale},
		},
		{
			name: "photo file becomes a data URL",
			args: []string{"--photo-file", photo},
			want: types.MemberFields{
				Name:     "Old",
				Gender:   types.GenderFemale,
				PhotoURL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngHeader),
			},
		},
		{
			name:    "photo and photo file conflict",
			args:    []string{"--photo", "https://example.com/a.jpg", "--photo-file", photo},
			wantErr: errPhotoConflict,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ff fieldFlags
			fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
			ff.register(fs)
			require.NoError(t, fs.Parse(tt.args))

			f := types.MemberFields{Name: "Old", Gender: types.GenderFemale}
			err := ff.apply(fs, &f)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, f)
		})
	}
}
