// The prober decides, for one repository, whether it carries a
// dependency manifest and which style of CI configuration it uses:
// top-level marker files of third-party CI vendors, or workflow
// definitions nested under the platform's own CI directory.

package prober

import (
	"context"
	"errors"
	"strings"

	"github.com/repoharvest/ci-crawler/cfg"
	githubapi "github.com/repoharvest/ci-crawler/internal/github_api"
	"github.com/repoharvest/ci-crawler/internal/model"
	"github.com/repoharvest/ci-crawler/pkg/log"
)

const (
	manifestFile = "package.json"
	nativeCiDir  = ".github"
	workflowsDir = ".github/workflows"
)

// Top-level config filenames of the recognized third-party CI vendors.
var otherCiFiles = map[string]bool{
	".travis.yml":         true,
	"circle.yml":          true,
	"Jenkinsfile":         true,
	"appveyor.yml":        true,
	"azure-pipelines.yml": true,
	".gitlab-ci.yml":      true,
	".drone.yml":          true,
}

var workflowExtensions = []string{".yml", ".yaml"}

type Prober struct {
	Logger log.Logger
	Config *cfg.Config
	Api    *githubapi.Caller
}

func NewProber(logger log.Logger, config *cfg.Config) (*Prober, error) {
	return &Prober{
		Logger: logger,
		Config: config,
		Api:    githubapi.NewCaller(logger, config),
	}, nil
}

// Probe inspects the root listing of a repository and, when the native
// CI directory exists, its workflow listing. Failures collapse to
// all-false: an inaccessible or empty repository simply has no CI.
func (p *Prober) Probe(ctx context.Context, fullName string) model.ProbeResult {
	result := model.ProbeResult{}

	entries, err := p.Api.ListContents(ctx, fullName, "")
	if err != nil {
		if !errors.Is(err, githubapi.ErrNotFound) {
			p.Logger.Warn(ctx, "Root listing failed for %s: %v", fullName, err)
		}
		return result
	}

	hasNativeCiDir := false
	for _, entry := range entries {
		if entry.Name == manifestFile {
			result.HasManifest = true
		}
		if otherCiFiles[entry.Name] {
			result.HasOtherCi = true
		}
		if entry.Type == "dir" && entry.Name == nativeCiDir {
			hasNativeCiDir = true
		}
	}

	if hasNativeCiDir {
		result.HasNativeCi = p.hasWorkflows(ctx, fullName)
	}

	result.HasCi = result.HasNativeCi || result.HasOtherCi
	return result
}

func (p *Prober) hasWorkflows(ctx context.Context, fullName string) bool {
	entries, err := p.Api.ListContents(ctx, fullName, workflowsDir)
	if err != nil {
		// A missing workflows directory just means no workflows.
		if !errors.Is(err, githubapi.ErrNotFound) {
			p.Logger.Warn(ctx, "Workflow listing failed for %s: %v", fullName, err)
		}
		return false
	}

	for _, entry := range entries {
		for _, ext := range workflowExtensions {
			if strings.HasSuffix(entry.Name, ext) {
				return true
			}
		}
	}

	return false
}
