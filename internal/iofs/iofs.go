// Package iofs keeps file system helpers of gnvern: application
// directories, the default config file, names files and language
// display names.
package iofs

import (
	"bufio"
	_ "embed"
	"io"
	"os"
	"strings"

	"github.com/gnames/gnlib"
	"github.com/gnames/gnvern/pkg/config"
	"gopkg.in/yaml.v3"
)

//go:embed config.yaml
var ConfigYAML string

//go:embed languages.yaml
var LanguagesYAML string

func EnsureDirs(homeDir string) error {
	dirs := []string{
		config.ConfigDir(homeDir),
		config.CacheDir(homeDir),
		config.LogDir(homeDir),
	}
	for _, v := range dirs {
		if err := touchDir(v); err != nil {
			return err
		}
	}
	return nil
}

func touchDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return CreateDirError(dir, err)
	}

	return nil
}

// EnsureConfigFile writes the embedded config.yaml to the config
// directory if it does not exist yet.
func EnsureConfigFile(homeDir string) error {
	configPath := config.ConfigFilePath(homeDir)

	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	if err := os.WriteFile(configPath, []byte(ConfigYAML), 0644); err != nil {
		return CopyFileError(configPath, err)
	}

	return nil
}

// ReadNames reads scientific names from a file, one name per line.
// The path "-" reads from standard input.
func ReadNames(path string) ([]string, error) {
	if path == "-" {
		res, err := ReadNamesFrom(os.Stdin)
		if err != nil {
			return nil, ReadNamesError(path, err)
		}
		return res, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, ReadNamesError(path, err)
	}
	defer f.Close()

	res, err := ReadNamesFrom(f)
	if err != nil {
		return nil, ReadNamesError(path, err)
	}
	return res, nil
}

// ReadNamesFrom reads names line by line. Empty lines are skipped, if a
// line has tab-separated fields only the first one is used.
func ReadNamesFrom(r io.Reader) ([]string, error) {
	var res []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if idx := strings.IndexByte(line, '\t'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(gnlib.FixUtf8(line))
		if line == "" {
			continue
		}
		res = append(res, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

type languagesFile struct {
	Languages map[string]string `yaml:"languages"`
}

// Languages returns display names of language codes.
func Languages() (map[string]string, error) {
	var lf languagesFile
	if err := yaml.Unmarshal([]byte(LanguagesYAML), &lf); err != nil {
		return nil, ReadFileError("languages.yaml", err)
	}
	return lf.Languages, nil
}
