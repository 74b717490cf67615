package flame

import (
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/flamelink/pkg/errors"
)

// DecodeTOML decodes the native TOML format. Unknown keys are rejected so
// typos do not silently fall back to defaults.
func DecodeTOML(data []byte) (*Flame, error) {
	var f Flame
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode TOML flame")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown key %q in TOML flame", undecoded[0].String())
	}
	if err := checkAffines(&f); err != nil {
		return nil, err
	}
	return &f, nil
}

func checkAffines(f *Flame) error {
	check := func(what string, xf *Xform) error {
		if n := len(xf.Affine); n != 0 && n != 6 {
			return errors.New(errors.ErrCodeInvalidFormat, "%s: affine needs 6 coefficients, got %d", what, n)
		}
		if n := len(xf.Post); n != 0 && n != 6 {
			return errors.New(errors.ErrCodeInvalidFormat, "%s: post needs 6 coefficients, got %d", what, n)
		}
		return nil
	}
	for i := range f.Transforms {
		if err := check("xform "+strconv.Itoa(i), &f.Transforms[i]); err != nil {
			return err
		}
	}
	if f.Final != nil {
		return check("final", f.Final)
	}
	return nil
}
