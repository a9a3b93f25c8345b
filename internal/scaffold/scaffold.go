// Package scaffold creates the directory structure of a new period: one
// input directory per region of the template config, the target directory
// and a copy of the template as the period's region config.
package scaffold

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/JonMunkholm/labliste/internal/core"
)

// Options configures Create.
type Options struct {
	Dir        string // Period directory to create; must not exist
	Template   string // Template region config
	ConfigFile string // Name of the copied config inside Dir
	TargetDir  string // Name of the output directory inside Dir
}

// Create builds the period directory described by opts. The template is
// read completely before anything is created.
func Create(opts Options) error {
	if _, err := os.Lstat(opts.Dir); err == nil {
		return &core.FatalError{Msg: opts.Dir + " existiert schon."}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return &core.FatalError{Msg: opts.Dir + " kann nicht geprüft werden", Err: err}
	}

	data, err := os.ReadFile(opts.Template)
	if err != nil {
		return &core.FatalError{Msg: "Vorlage " + opts.Template + " kann nicht gelesen werden", Err: err}
	}
	codes, err := core.ReadRegionCodes(bytes.NewReader(data), opts.Template)
	if err != nil {
		return err
	}

	dirs := make([]string, 0, len(codes)+2)
	dirs = append(dirs, opts.Dir)
	for _, code := range codes {
		dirs = append(dirs, filepath.Join(opts.Dir, code))
	}
	dirs = append(dirs, filepath.Join(opts.Dir, opts.TargetDir))

	for _, dir := range dirs {
		if err := os.Mkdir(dir, 0o755); err != nil {
			return &core.FatalError{Msg: dir + " kann nicht angelegt werden", Err: err}
		}
	}

	dst := filepath.Join(opts.Dir, opts.ConfigFile)
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return &core.FatalError{Msg: dst + " kann nicht geschrieben werden", Err: err}
	}
	return nil
}
