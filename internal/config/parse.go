package config

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/cosmotree/sage/internal/faults"
	"github.com/cosmotree/sage/internal/physics"
)

// Parse reads the legacy key=value parameter file of spec §6 (one
// "Key   Value" pair per line, whitespace-separated, '%' introduces a
// line comment, blank lines ignored) and returns an unvalidated
// RunConfig. Call Validate afterwards.
func Parse(r io.Reader) (RunConfig, error) {
	raw := map[string]string{}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '%'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return RunConfig{}, &faults.ConfigError{Reason: "malformed parameter line: " + line}
		}
		raw[fields[0]] = fields[1]
	}
	if err := scanner.Err(); err != nil {
		return RunConfig{}, &faults.ConfigError{Reason: "reading parameter file: " + err.Error()}
	}

	return fromRaw(raw)
}

func fromRaw(raw map[string]string) (RunConfig, error) {
	var cfg RunConfig
	var err error

	cfg.OutputDir = raw["OutputDir"]
	cfg.FilePrefix = raw["FileNameGalaxies"]
	cfg.TreeDir = raw["SimulationDir"]
	cfg.TreeName = raw["TreeName"]
	cfg.SnapshotList = raw["FileWithSnapList"]
	cfg.TreeType = TreeType(raw["TreeType"])

	if cfg.FirstFile, err = reqInt(raw, "FirstFile"); err != nil {
		return cfg, err
	}
	if cfg.LastFile, err = reqInt(raw, "LastFile"); err != nil {
		return cfg, err
	}
	lastSnap, err := reqInt(raw, "LastSnapShotNr")
	if err != nil {
		return cfg, err
	}
	cfg.LastSnapNr = int32(lastSnap)
	if cfg.NumOutputs, err = reqInt(raw, "NumOutputs"); err != nil {
		return cfg, err
	}

	if cfg.Cosmology.Omega, err = reqFloat(raw, "Omega"); err != nil {
		return cfg, err
	}
	if cfg.Cosmology.OmegaLambda, err = reqFloat(raw, "OmegaLambda"); err != nil {
		return cfg, err
	}
	if cfg.Cosmology.Hubble_h, err = reqFloat(raw, "Hubble_h"); err != nil {
		return cfg, err
	}
	if cfg.Cosmology.BaryonFrac, err = reqFloat(raw, "BaryonFrac"); err != nil {
		return cfg, err
	}
	if cfg.Cosmology.PartMass, err = reqFloat(raw, "PartMass"); err != nil {
		return cfg, err
	}

	if cfg.System.UnitLengthCM, err = reqFloat(raw, "UnitLength_in_cm"); err != nil {
		return cfg, err
	}
	if cfg.System.UnitMassG, err = reqFloat(raw, "UnitMass_in_g"); err != nil {
		return cfg, err
	}
	if cfg.System.UnitVelocityCM, err = reqFloat(raw, "UnitVelocity_in_cm_per_s"); err != nil {
		return cfg, err
	}

	if cfg.SN.EnergySNErg, err = reqFloat(raw, "EnergySN"); err != nil {
		return cfg, err
	}
	if cfg.SN.EtaSN, err = reqFloat(raw, "EtaSN"); err != nil {
		return cfg, err
	}

	if cfg.Physics, err = parsePhysics(raw); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func parsePhysics(raw map[string]string) (physics.Config, error) {
	var p physics.Config
	var err error

	p.ReionizationOn, err = reqBool(raw, "ReionizationOn")
	if err != nil {
		return p, err
	}
	p.SupernovaRecipeOn, err = reqBool(raw, "SupernovaRecipeOn")
	if err != nil {
		return p, err
	}
	p.DiskInstabilityOn, err = reqBool(raw, "DiskInstabilityOn")
	if err != nil {
		return p, err
	}

	sfOn, err := reqInt(raw, "SFprescription")
	if err != nil {
		return p, err
	}
	if sfOn == 0 {
		p.SFprescription = physics.SFPlain
	} else {
		p.SFprescription = physics.SFClumping
	}

	agn, err := reqInt(raw, "AGNrecipeOn")
	if err != nil {
		return p, err
	}
	switch agn {
	case 0:
		p.AGNrecipeOn = physics.AGNOff
	case 1:
		p.AGNrecipeOn = physics.AGNEmpirical
	case 2:
		p.AGNrecipeOn = physics.AGNBondiHoyle
	case 3:
		p.AGNrecipeOn = physics.AGNColdCloud
	default:
		return p, &faults.ConfigError{Key: "AGNrecipeOn", Reason: "must be 0, 1, 2, or 3"}
	}

	if p.SfrEfficiency, err = reqFloat(raw, "SfrEfficiency"); err != nil {
		return p, err
	}
	if p.FeedbackReheatingEpsilon, err = reqFloat(raw, "FeedbackReheatingEpsilon"); err != nil {
		return p, err
	}
	if p.FeedbackEjectionEfficiency, err = reqFloat(raw, "FeedbackEjectionEfficiency"); err != nil {
		return p, err
	}
	if p.RecycleFraction, err = reqFloat(raw, "RecycleFraction"); err != nil {
		return p, err
	}
	if p.Yield, err = reqFloat(raw, "Yield"); err != nil {
		return p, err
	}
	if p.FracZleaveDisk, err = reqFloat(raw, "FracZleaveDisk"); err != nil {
		return p, err
	}
	if p.ReIncorporationFactor, err = reqFloat(raw, "ReIncorporationFactor"); err != nil {
		return p, err
	}
	if p.RadioModeEfficiency, err = reqFloat(raw, "RadioModeEfficiency"); err != nil {
		return p, err
	}
	if p.QuasarModeEfficiency, err = reqFloat(raw, "QuasarModeEfficiency"); err != nil {
		return p, err
	}
	if p.BlackHoleGrowthRate, err = reqFloat(raw, "BlackHoleGrowthRate"); err != nil {
		return p, err
	}
	if p.ThreshMajorMerger, err = reqFloat(raw, "ThreshMajorMerger"); err != nil {
		return p, err
	}
	if p.ThresholdSatDisruption, err = reqFloat(raw, "ThresholdSatDisruption"); err != nil {
		return p, err
	}
	if p.Reionization_z0, err = reqFloat(raw, "Reionization_z0"); err != nil {
		return p, err
	}
	if p.Reionization_zr, err = reqFloat(raw, "Reionization_zr"); err != nil {
		return p, err
	}
	if p.ClumpingFactor, err = reqFloat(raw, "ClumpingFactor"); err != nil {
		return p, err
	}

	return p, nil
}

func reqInt(raw map[string]string, key string) (int, error) {
	v, ok := raw[key]
	if !ok {
		return 0, &faults.ConfigError{Key: key, Reason: "missing required parameter"}
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &faults.ConfigError{Key: key, Reason: "not an integer: " + v}
	}
	return n, nil
}

func reqFloat(raw map[string]string, key string) (float64, error) {
	v, ok := raw[key]
	if !ok {
		return 0, &faults.ConfigError{Key: key, Reason: "missing required parameter"}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, &faults.ConfigError{Key: key, Reason: "not a number: " + v}
	}
	return f, nil
}

func reqBool(raw map[string]string, key string) (bool, error) {
	n, err := reqInt(raw, key)
	if err != nil {
		return false, err
	}
	return n != 0, nil
}
