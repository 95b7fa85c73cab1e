// Package config parses the legacy key=value parameter file of spec §6
// into a validated RunConfig, and loads the whitespace-separated (or
// optional YAML) snapshot scale-factor list. Parsing keeps the wire
// format unchanged (it is part of the spec's External Interfaces);
// validation and tree-type corroboration are additive safety nets spec
// §9's "Global mutable config" note does not require but which the
// driver (internal/driver) relies on to fail fast with a ConfigError
// instead of a confusing failure deep inside a reader.
package config

import (
	"fmt"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/cosmotree/sage/internal/faults"
	"github.com/cosmotree/sage/internal/physics"
	"github.com/cosmotree/sage/internal/units"
)

// TreeType selects the merger-tree input format (spec §6 "TreeType").
type TreeType string

const (
	TreeTypeLHaloBinary      TreeType = "lhalo_binary"
	TreeTypeGenesisLHaloHDF5 TreeType = "genesis_lhalo_hdf5"
)

// RunConfig is the fully parsed, validated parameter set for one run:
// every recognized key from spec §6, grouped by the subsystem that
// consumes it.
type RunConfig struct {
	OutputDir    string   `validate:"required"`
	FilePrefix   string   `validate:"required"`
	TreeDir      string   `validate:"required"`
	TreeName     string   `validate:"required"`
	FirstFile    int      `validate:"gte=0"`
	LastFile     int      `validate:"gtefield=FirstFile"`
	LastSnapNr   int32    `validate:"gte=0"`
	NumOutputs   int      `validate:"gte=-1"`
	SnapshotList string   `validate:"required"`
	TreeType     TreeType `validate:"oneof=lhalo_binary genesis_lhalo_hdf5"`

	Cosmology units.Cosmology
	System    units.UnitSystem
	SN        units.SNConstants

	Physics physics.Config
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = en_translations.RegisterDefaultTranslations(v, enTrans)
	return v
}

var (
	enLocale  = en.New()
	uniTrans  = ut.New(enLocale, enLocale)
	enTrans, _ = uniTrans.GetTranslator("en")
)

// Validate runs struct-tag validation over cfg and, on failure, returns
// a faults.ConfigError whose message is the first English-translated
// field error rather than raw validator internals.
func Validate(cfg RunConfig) error {
	if err := validate.Struct(cfg); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok || len(verrs) == 0 {
			return &faults.ConfigError{Reason: err.Error()}
		}
		first := verrs[0]
		return &faults.ConfigError{Key: first.Field(), Reason: translateOrRaw(first)}
	}
	return nil
}

func translateOrRaw(fe validator.FieldError) string {
	if msg := fe.Translate(enTrans); msg != "" {
		return msg
	}
	return fe.Error()
}

// Validate (method form) is the package-level Validate as a method on
// RunConfig.
func (c RunConfig) Validate() error { return Validate(c) }

// String renders a one-line summary, printed by cmd/sage's
// validate-config on success.
func (c RunConfig) String() string {
	return fmt.Sprintf("tree=%s/%s files=[%d,%d] snapshots<=%d outputs=%d type=%s",
		c.TreeDir, c.TreeName, c.FirstFile, c.LastFile, c.LastSnapNr, c.NumOutputs, c.TreeType)
}
