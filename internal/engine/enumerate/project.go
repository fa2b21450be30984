package enumerate

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"

	domainerrors "typelint/internal/core/errors"
	"typelint/internal/shared/util"
)

const (
	DefaultProjectConfig = "tsconfig.json"
	maxExtendsDepth      = 5
)

// ErrProjectNotFound is returned when the project root has no project
// configuration file. Callers treat it as fatal.
var ErrProjectNotFound = domainerrors.New(domainerrors.CodeNotFound, "project configuration not found")

// Project is the include/exclude/files selection read from tsconfig.json.
// Patterns are relative to the project root.
type Project struct {
	ConfigPath string
	Include    []string
	Exclude    []string
	Files      []string
}

type rawProject struct {
	Extends json.RawMessage `json:"extends"`
	Include *[]string       `json:"include"`
	Exclude *[]string       `json:"exclude"`
	Files   *[]string       `json:"files"`
}

// LoadProject reads name from root, following relative "extends" chains.
func LoadProject(root, name string) (*Project, error) {
	if strings.TrimSpace(name) == "" {
		name = DefaultProjectConfig
	}
	configPath := filepath.Join(root, name)
	if _, err := os.Stat(configPath); err != nil {
		if os.IsNotExist(err) {
			return nil, &domainerrors.DomainError{
				Code:    domainerrors.CodeNotFound,
				Message: "project configuration not found",
				Context: map[string]any{domainerrors.CtxPath: configPath},
			}
		}
		return nil, domainerrors.AddContext(
			domainerrors.Wrap(err, domainerrors.CodePermissionDenied, "cannot stat project configuration"),
			domainerrors.CtxPath, configPath,
		)
	}

	project := &Project{ConfigPath: configPath}
	if err := loadInto(project, root, configPath, 0); err != nil {
		return nil, err
	}
	return project, nil
}

func loadInto(project *Project, root, configPath string, depth int) error {
	raw, err := readProjectFile(configPath)
	if err != nil {
		return err
	}

	if depth < maxExtendsDepth {
		for _, parent := range extendsTargets(raw.Extends) {
			if !strings.HasPrefix(parent, "./") && !strings.HasPrefix(parent, "../") {
				slog.Debug("skipping non-relative extends", "config", configPath, "extends", parent)
				continue
			}
			parentPath := filepath.Join(filepath.Dir(configPath), parent)
			if !strings.HasSuffix(parentPath, ".json") {
				if _, err := os.Stat(parentPath); err != nil {
					parentPath += ".json"
				}
			}
			if err := loadInto(project, root, parentPath, depth+1); err != nil {
				slog.Warn("failed to load extended project configuration", "path", parentPath, "error", err)
			}
		}
	}

	base := util.RelSlash(root, filepath.Dir(configPath))
	if raw.Include != nil {
		project.Include = rebase(base, *raw.Include)
	}
	if raw.Exclude != nil {
		project.Exclude = rebase(base, *raw.Exclude)
	}
	if raw.Files != nil {
		project.Files = rebase(base, *raw.Files)
	}
	return nil
}

func readProjectFile(configPath string) (rawProject, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return rawProject{}, domainerrors.AddContext(
			domainerrors.Wrap(err, domainerrors.CodeInternal, "read project configuration"),
			domainerrors.CtxPath, configPath,
		)
	}
	std, err := hujson.Standardize(data)
	if err != nil {
		return rawProject{}, domainerrors.AddContext(
			domainerrors.Wrap(err, domainerrors.CodeValidationError, "project configuration is not valid JSON"),
			domainerrors.CtxPath, configPath,
		)
	}
	var raw rawProject
	if err := json.Unmarshal(std, &raw); err != nil {
		return rawProject{}, domainerrors.AddContext(
			domainerrors.Wrap(err, domainerrors.CodeValidationError, "decode project configuration"),
			domainerrors.CtxPath, configPath,
		)
	}
	return raw, nil
}

// extendsTargets accepts both the string and the array form of "extends".
func extendsTargets(msg json.RawMessage) []string {
	if len(msg) == 0 {
		return nil
	}
	var one string
	if err := json.Unmarshal(msg, &one); err == nil {
		return []string{one}
	}
	var many []string
	if err := json.Unmarshal(msg, &many); err == nil {
		return many
	}
	return nil
}

func rebase(base string, patterns []string) []string {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = util.NormalizePatternPath(p)
		if p == "" {
			continue
		}
		if base != "" {
			p = path.Join(base, p)
		}
		out = append(out, p)
	}
	return out
}

func (p *Project) String() string {
	return fmt.Sprintf("%s (include=%d exclude=%d files=%d)", p.ConfigPath, len(p.Include), len(p.Exclude), len(p.Files))
}
