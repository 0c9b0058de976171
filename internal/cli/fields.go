package cli

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/pflag"

	"github.com/mesh-intelligence/familytree/pkg/types"
)

// Member field flag names shared by add-child, add-sibling and edit.
const (
	flagName       = "name"
	flagGender     = "gender"
	flagBirth      = "birth"
	flagDeath      = "death"
	flagPlace      = "place"
	flagOccupation = "occupation"
	flagPartner    = "partner"
	flagPhoto      = "photo"
	flagPhotoFile  = "photo-file"
)

var fieldFlagNames = []string{
	flagName, flagGender, flagBirth, flagDeath,
	flagPlace, flagOccupation, flagPartner, flagPhoto, flagPhotoFile,
}

var errPhotoConflict = errors.New("--photo and --photo-file cannot be combined")

// fieldFlags binds the member field flags of one command.
type fieldFlags struct {
	name, gender, birth, death        string
	place, occupation, partner, photo string
	photoFile                         string
}

func (ff *fieldFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&ff.name, flagName, "", "full name")
	fs.StringVar(&ff.gender, flagGender, "", "male, female or other")
	fs.StringVar(&ff.birth, flagBirth, "", "birth date, usually a year")
	fs.StringVar(&ff.death, flagDeath, "", "death date; empty when living")
	fs.StringVar(&ff.place, flagPlace, "", "birthplace")
	fs.StringVar(&ff.occupation, flagOccupation, "", "occupation")
	fs.StringVar(&ff.partner, flagPartner, "", "partner's name")
	fs.StringVar(&ff.photo, flagPhoto, "", "photo URL (http, https or data)")
	fs.StringVar(&ff.photoFile, flagPhotoFile, "", "local image stored inline as a data: URL")
}

// apply copies every flag set on the command line into f. A --photo-file is
// read and stored as a data URL.
func (ff *fieldFlags) apply(fs *pflag.FlagSet, f *types.MemberFields) error {
	if fs.Changed(flagPhoto) && fs.Changed(flagPhotoFile) {
		return errPhotoConflict
	}
	set := func(flag, value string, dst *string) {
		if fs.Changed(flag) {
			*dst = strings.TrimSpace(value)
		}
	}
	set(flagName, ff.name, &f.Name)
	set(flagBirth, ff.birth, &f.BirthDate)
	set(flagDeath, ff.death, &f.DeathDate)
	set(flagPlace, ff.place, &f.BirthPlace)
	set(flagOccupation, ff.occupation, &f.Occupation)
	set(flagPartner, ff.partner, &f.Partner)
	set(flagPhoto, ff.photo, &f.PhotoURL)
	if fs.Changed(flagGender) {
		f.Gender = types.Gender(strings.ToLower(strings.TrimSpace(ff.gender)))
	}
	if fs.Changed(flagPhotoFile) {
		url, err := photoDataURL(strings.TrimSpace(ff.photoFile))
		if err != nil {
			return err
		}
		f.PhotoURL = url
	}
	return nil
}

// photoDataURL reads an image file and encodes it as
// data:<mime>;base64,<payload>. The MIME type is sniffed from the content.
func photoDataURL(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read photo: %w", err)
	}
	mt := mimetype.Detect(data).String()
	if !strings.HasPrefix(mt, "image/") {
		return "", fmt.Errorf("read photo: %s is %s, not an image", path, mt)
	}
	return "data:" + mt + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// anyChanged reports whether any of the named flags was set.
func anyChanged(fs *pflag.FlagSet, names ...string) bool {
	for _, n := range names {
		if fs.Changed(n) {
			return true
		}
	}
	return false
}
