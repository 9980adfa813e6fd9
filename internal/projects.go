package internal

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Project describes one discovered Claude Code project directory
type Project struct {
	DirName        string
	DisplayName    string
	SessionCount   int
	TotalSizeBytes int64
}

// DiscoverProjects lists all project directories containing session logs.
// A missing projects directory yields an empty list, not an error.
func DiscoverProjects(claudeDir string) ([]Project, error) {
	projectsDir := filepath.Join(claudeDir, "projects")

	entries, err := os.ReadDir(projectsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var projects []Project
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dirName := entry.Name()
		files, err := filepath.Glob(filepath.Join(projectsDir, dirName, "*.jsonl"))
		if err != nil || len(files) == 0 {
			continue
		}

		var totalSize int64
		for _, f := range files {
			if info, err := os.Stat(f); err == nil {
				totalSize += info.Size()
			}
		}

		projects = append(projects, Project{
			DirName:        dirName,
			DisplayName:    BuildProjectName(dirName),
			SessionCount:   len(files),
			TotalSizeBytes: totalSize,
		})
	}

	sort.Slice(projects, func(i, j int) bool {
		return projects[i].DirName < projects[j].DirName
	})
	return projects, nil
}

var commonHomeDirs = map[string]bool{
	"Documents": true,
	"Downloads": true,
	"Desktop":   true,
}

// BuildProjectName converts a hyphen-encoded project directory name to a
// human-readable name by stripping the home-directory prefix.
//
//	-Users-alice-Documents-myapp -> myapp
//	-home-bob-project            -> project
//	standalone                   -> standalone
func BuildProjectName(dirName string) string {
	path := strings.TrimLeft(strings.ReplaceAll(dirName, "-", "/"), "/")
	if path == "" {
		return "unknown"
	}
	parts := strings.Split(path, "/")

	var meaningful []string
	switch {
	case len(parts) >= 2 && parts[0] == "Users":
		if len(parts) >= 4 && commonHomeDirs[parts[2]] {
			meaningful = parts[3:]
		} else if len(parts) >= 3 && !commonHomeDirs[parts[2]] {
			meaningful = parts[2:]
		}
	case len(parts) >= 2 && parts[0] == "home":
		if len(parts) > 2 {
			meaningful = parts[2:]
		}
	default:
		meaningful = parts
	}

	if len(meaningful) > 0 {
		segments := strings.Split(strings.TrimLeft(dirName, "-"), "-")
		prefixParts := len(parts) - len(meaningful)
		if prefixParts < len(segments) {
			if name := strings.Join(segments[prefixParts:], "-"); name != "" {
				return name
			}
		}
		return dirName
	}

	if len(parts) >= 2 && (parts[0] == "Users" || parts[0] == "home") {
		if len(parts) == 2 {
			return "~home"
		}
		if len(parts) == 3 && commonHomeDirs[parts[2]] {
			return "~" + parts[2]
		}
	}
	if name := strings.Trim(dirName, "-"); name != "" {
		return name
	}
	return "unknown"
}
