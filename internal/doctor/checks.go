package doctor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/conn-castle/sitepub/internal/config"
	"github.com/conn-castle/sitepub/internal/messages"
	"github.com/conn-castle/sitepub/internal/publish"
)

// CheckStructure verifies that the project directory and config file exist.
func CheckStructure(root string) []Result {
	paths := config.DefaultPaths(root)
	info, err := os.Stat(filepath.Join(root, config.ProjectDirName))
	switch {
	case err != nil:
		return []Result{{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameStructure,
			Message:        fmt.Sprintf(messages.DoctorMissingRequiredDirFmt, config.ProjectDirName),
			Recommendation: messages.DoctorMissingRequiredDirRecommend,
		}}
	case !info.IsDir():
		return []Result{{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameStructure,
			Message:        fmt.Sprintf(messages.DoctorPathNotDirFmt, config.ProjectDirName),
			Recommendation: messages.DoctorPathNotDirRecommend,
		}}
	}
	if _, err := os.Stat(paths.ConfigPath); err != nil {
		return []Result{{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameStructure,
			Message:        fmt.Sprintf(messages.DoctorMissingConfigFmt, relPath(root, paths.ConfigPath)),
			Recommendation: messages.DoctorMissingRequiredDirRecommend,
		}}
	}
	return []Result{{
		Status:    StatusOK,
		CheckName: messages.DoctorCheckNameStructure,
		Message:   fmt.Sprintf(messages.DoctorDirExistsFmt, config.ProjectDirName),
	}}
}

// CheckConfig loads the project config. The config is nil when loading failed.
func CheckConfig(root string) ([]Result, *config.ProjectConfig) {
	cfg, err := config.LoadProjectConfig(root)
	if err != nil {
		recommend := messages.DoctorConfigLoadRecommend
		if errors.Is(err, config.ErrConfigValidation) {
			recommend = messages.ConfigValidationGuidance
		}
		return []Result{{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameConfig,
			Message:        fmt.Sprintf(messages.DoctorConfigLoadFailedFmt, err),
			Recommendation: recommend,
		}}, nil
	}
	return []Result{{
		Status:    StatusOK,
		CheckName: messages.DoctorCheckNameConfig,
		Message:   fmt.Sprintf(messages.DoctorConfigLoadedFmt, len(cfg.Config.Servers)),
	}}, cfg
}

// CheckServers checks that every enabled server can be dispatched to a publisher.
func CheckServers(env *publish.Env) []Result {
	cfg := &env.Project.Config
	ids := cfg.ServerIDs()
	if len(ids) == 0 {
		return []Result{{
			Status:         StatusWarn,
			CheckName:      messages.DoctorCheckNameServers,
			Message:        messages.ServersNone,
			Recommendation: messages.DoctorNoServersRecommend,
		}}
	}
	var results []Result
	if _, ok := cfg.DefaultServer(); !ok {
		results = append(results, Result{
			Status:         StatusWarn,
			CheckName:      messages.DoctorCheckNameServers,
			Message:        messages.PublishNoDefaultServer,
			Recommendation: messages.DoctorNoDefaultRecommend,
		})
	}
	for _, id := range ids {
		server, _ := cfg.Server(id)
		if !server.IsEnabled() {
			results = append(results, Result{
				Status:    StatusWarn,
				CheckName: messages.DoctorCheckNameServers,
				Message:   fmt.Sprintf(messages.DoctorServerDisabledFmt, id),
			})
			continue
		}
		target, err := env.ResolveTarget(id)
		if err == nil {
			err = publish.CheckTarget(target)
		}
		if err != nil {
			results = append(results, Result{
				Status:         StatusFail,
				CheckName:      messages.DoctorCheckNameServers,
				Message:        err.Error(),
				Recommendation: fmt.Sprintf(messages.DoctorServerRecommendFmt, strings.Join(publish.Schemes(), ", ")),
			})
			continue
		}
		results = append(results, Result{
			Status:    StatusOK,
			CheckName: messages.DoctorCheckNameServers,
			Message:   fmt.Sprintf(messages.DoctorServerOKFmt, id, target.URL.Redacted()),
		})
	}
	return results
}

// CheckTools verifies that the executables needed by the enabled servers are installed.
func CheckTools(env *publish.Env) []Result {
	cfg := &env.Project.Config
	seen := map[string]bool{}
	var results []Result
	for _, id := range cfg.ServerIDs() {
		server, _ := cfg.Server(id)
		if !server.IsEnabled() {
			continue
		}
		target, err := env.ResolveTarget(id)
		if err != nil {
			continue
		}
		exe := env.Executable(target.URL.Scheme)
		if exe == "" || seen[exe] {
			continue
		}
		seen[exe] = true
		if path, err := env.Sys.LookPath(exe); err != nil {
			results = append(results, Result{
				Status:         StatusFail,
				CheckName:      messages.DoctorCheckNameTools,
				Message:        fmt.Sprintf(messages.PublishExecutableMissingFmt, exe),
				Recommendation: fmt.Sprintf(messages.DoctorToolRecommendFmt, exe),
			})
		} else {
			results = append(results, Result{
				Status:    StatusOK,
				CheckName: messages.DoctorCheckNameTools,
				Message:   fmt.Sprintf(messages.DoctorToolFoundFmt, exe, path),
			})
		}
	}
	return results
}

// CheckCredentials validates deploy credentials supplied through the environment.
func CheckCredentials(env *publish.Env) []Result {
	lookup := func(key string) string {
		if value := strings.TrimSpace(env.Sys.Getenv(key)); value != "" {
			return value
		}
		return env.Project.Env[key]
	}
	creds := publish.Credentials{
		Username: lookup(config.EnvDeployUsername),
		Password: lookup(config.EnvDeployPassword),
		KeyFile:  lookup(config.EnvDeployKeyFile),
		Key:      lookup(config.EnvDeployKey),
	}
	if creds.IsZero() {
		return []Result{{
			Status:    StatusOK,
			CheckName: messages.DoctorCheckNameCredentials,
			Message:   messages.DoctorNoCredentials,
		}}
	}
	if err := creds.Validate(); err != nil {
		return []Result{{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameCredentials,
			Message:        err.Error(),
			Recommendation: messages.DoctorCredentialsRecommend,
		}}
	}
	return []Result{{
		Status:    StatusOK,
		CheckName: messages.DoctorCheckNameCredentials,
		Message:   messages.DoctorCredentialsValid,
	}}
}

func relPath(root string, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
