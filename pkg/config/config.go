package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/shirou/gopsutil/v3/host"
)

// Config carries the explicit install locations that every operation
// receives. Nothing reads these from ambient globals.
type Config struct {
	path      string
	configDir string

	// Actual Config
	RootDir     string `json:"root-dir"`
	NWChemRoot  string `json:"nwchem-root"`
	ArchiveDir  string `json:"archive-dir"`
	ProfilePath string `json:"profile-path"`
	Jobs        int    `json:"jobs"`
}

const (
	DefaultConfigPath  = "~/.config/chemstack/config.json"
	DefaultRootDir     = "~/apps"
	DefaultNWChemRoot  = "~/nwchem"
	DefaultProfilePath = "~/.bashrc"
)

func LoadConfig() (*Config, error) {
	if loc := os.Getenv("CHEMSTACK_CONFIG"); loc != "" {
		return loadFile(loc)
	}

	path, err := homedir.Expand(DefaultConfigPath)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); err == nil {
		return loadFile(path)
	}

	cfg := &Config{
		path:      path,
		configDir: filepath.Dir(path),
	}

	return updateFromEnv(cfg)
}

func loadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	defer f.Close()

	var cfg Config

	err = json.NewDecoder(f).Decode(&cfg)
	if err != nil {
		return nil, err
	}

	cfg.path = path
	cfg.configDir = filepath.Dir(path)

	return updateFromEnv(&cfg)
}

func updateFromEnv(cfg *Config) (*Config, error) {
	if path := os.Getenv("CHEMSTACK_ROOT"); path != "" {
		cfg.RootDir = path
	}

	if path := os.Getenv("CHEMSTACK_NWCHEM_ROOT"); path != "" {
		cfg.NWChemRoot = path
	}

	if path := os.Getenv("CHEMSTACK_ARCHIVES"); path != "" {
		cfg.ArchiveDir = path
	}

	if path := os.Getenv("CHEMSTACK_PROFILE"); path != "" {
		cfg.ProfilePath = path
	}

	if jobs := os.Getenv("CHEMSTACK_JOBS"); jobs != "" {
		n, err := strconv.Atoi(jobs)
		if err != nil {
			return nil, fmt.Errorf("CHEMSTACK_JOBS is not a number: %s", jobs)
		}

		cfg.Jobs = n
	}

	return fillDefaults(cfg)
}

func fillDefaults(cfg *Config) (*Config, error) {
	var err error

	if cfg.RootDir == "" {
		cfg.RootDir, err = homedir.Expand(DefaultRootDir)
		if err != nil {
			return nil, err
		}
	}

	if cfg.NWChemRoot == "" {
		cfg.NWChemRoot, err = homedir.Expand(DefaultNWChemRoot)
		if err != nil {
			return nil, err
		}
	}

	if cfg.ArchiveDir == "" {
		cfg.ArchiveDir, err = os.Getwd()
		if err != nil {
			return nil, err
		}
	}

	if cfg.ProfilePath == "" {
		cfg.ProfilePath, err = homedir.Expand(DefaultProfilePath)
		if err != nil {
			return nil, err
		}
	}

	if cfg.Jobs <= 0 {
		cfg.Jobs = runtime.NumCPU()
	}

	return ensureDirs(cfg)
}

func ensureDirs(cfg *Config) (*Config, error) {
	dirs := []string{
		cfg.RootDir,
		cfg.NWChemRoot,
	}

	for _, dir := range dirs {
		fi, err := os.Stat(dir)
		if err != nil {
			if os.IsNotExist(err) {
				err = os.MkdirAll(dir, 0755)
				if err != nil {
					return nil, err
				}
			}
		} else if !fi.IsDir() {
			return nil, fmt.Errorf("path is not a directory: %s", dir)
		}
	}

	return cfg, nil
}

func (c *Config) ConfigDir() string {
	return c.configDir
}

func (c *Config) Platform() (string, string, string) {
	osName, _, osVersion, err := host.PlatformInformation()
	if err != nil {
		return runtime.GOOS, "", runtime.GOARCH
	}

	arch, err := host.KernelArch()
	if err != nil {
		arch = runtime.GOARCH
	}

	return osName, osVersion, arch
}

func (c *Config) Constraints() map[string]string {
	osName, osVersion, arch := c.Platform()

	constraints := map[string]string{
		"machine/arch":   arch,
		"os/name":        osName,
		"chemstack/root": c.RootDir,
	}

	if osName == "darwin" {
		// Strip off the minor version
		dot := strings.LastIndexByte(osVersion, '.')
		if dot != -1 {
			osVersion = osVersion[:dot]
		}

		constraints["darwin/version"] = osVersion
	}

	return constraints
}
