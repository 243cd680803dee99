package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/hupe1980/arcrack"
	"github.com/hupe1980/arcrack/internal/bloom"
	"github.com/hupe1980/arcrack/internal/keyspace"
	"github.com/hupe1980/arcrack/internal/status"
)

// skipFPRate is the target false-positive rate for fresh skip filters.
const skipFPRate = 0.01

// maxFilterBits caps the skip filter bit vector at 4 GiB.
const maxFilterBits = uint64(4) << 30 * 8

// verifierName is the binary the candidates are verified with.
func verifierName() string {
	if runtime.GOOS == "windows" {
		return "7z.exe"
	}
	return "7z"
}

// locateVerifier finds the 7-Zip binary: first ./bin and ../bin
// relative to this executable, then (on POSIX) the system search path.
func locateVerifier(reporter *status.Reporter) (string, error) {
	exe, err := os.Executable()
	if err != nil {
		reporter.Errorf("Could not determine the directory containing this executable. Cannot find %s.", verifierName())
		return "", errNoExecutableDir
	}
	exeDir := filepath.Dir(exe)
	reporter.Infof("Executable running from: %s", exeDir)

	name := verifierName()
	candidates := []string{
		filepath.Join(exeDir, "bin", name),
		filepath.Join(exeDir, "..", "bin", name),
	}
	for _, candidate := range candidates {
		reporter.Infof("Checking for %s at: %s", name, candidate)
		if isRegularFile(candidate) {
			reporter.Infof("Using %s executable: %s", name, candidate)
			return candidate, nil
		}
	}

	if runtime.GOOS != "windows" {
		reporter.Infof("%s not found locally. Checking system PATH...", name)
		if path, err := exec.LookPath(name); err == nil {
			reporter.Infof("Found %s in system PATH: %s", name, path)
			return path, nil
		}
	}

	reporter.Errorf("%s could not be found.", name)
	reporter.Errorf("Expected locations: './bin/' or '../bin/' relative to the executable at %s, or the system PATH.", exeDir)
	return "", errVerifierMissing
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// initFilter loads the skip filter from cfg.SkipFilePath, or builds a
// fresh one sized to the configured key space. Overflow, an oversized
// bit vector, or an allocation failure disables the skip-list feature
// for this run by clearing cfg.SkipFilePath.
func initFilter(cfg *arcrack.Config, reporter *status.Reporter) *bloom.Filter {
	if cfg.SkipFilePath == "" {
		reporter.Infof("Skip list feature not requested.")
		return nil
	}

	reporter.Infof("Skip list feature enabled. File: %s", cfg.SkipFilePath)
	if cfg.CheckpointInterval > 0 {
		reporter.Infof("Checkpoint interval: %d seconds.", int(cfg.CheckpointInterval.Seconds()))
	} else {
		reporter.Infof("Automatic checkpointing disabled (only final save on exit).")
	}

	filter, err := bloom.LoadFile(cfg.SkipFilePath)
	if err == nil && filter.Valid() {
		reporter.Infof("Loaded existing skip list state. Bits: %d, Hashes: %d", filter.NumBits(), filter.NumHashes())
		return filter
	}
	if err != nil && !os.IsNotExist(err) {
		reporter.Warnf("Existing skip list file was invalid or corrupted. Creating new one.")
	} else {
		reporter.Infof("No valid existing skip list found, or file doesn't exist. Creating new one.")
	}

	disable := func() *bloom.Filter {
		cfg.SkipFilePath = ""
		return nil
	}

	estimated, ok := keyspace.Total(uint64(len(cfg.Charset)), cfg.MinLength, cfg.MaxLength)
	if !ok {
		reporter.Errorf("Cannot accurately estimate items due to overflow. Disabling skip list feature for this run.")
		return disable()
	}
	if estimated == 0 {
		reporter.Warnf("Calculated 0 estimated items. Disabling skip list for this run.")
		return disable()
	}

	bits := bloom.EstimateBits(estimated, skipFPRate)
	requiredMB := bits / 8 / (1024 * 1024)
	if bits > maxFilterBits {
		reporter.Errorf("Required Bloom filter size (%d MB for %d bits) exceeds limit (%d MB). Disabling skip list.",
			requiredMB, bits, maxFilterBits/8/(1024*1024))
		return disable()
	}

	reporter.Infof("Initializing new Bloom filter for approx. %d items with FP rate ~%v (Requires ~%d MB)",
		estimated, skipFPRate, requiredMB)

	filter = bloom.New(estimated, skipFPRate)
	if !filter.Valid() {
		reporter.Errorf("Memory allocation failed for Bloom filter. Disabling skip list.")
		return disable()
	}

	reporter.Infof("New filter created. Bits: %d, Hashes: %d", filter.NumBits(), filter.NumHashes())
	return filter
}
