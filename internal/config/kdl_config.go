package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// LoadKDL attempts to load configuration from a .lcc.kdl file in projectRoot.
// A missing file is not an error; the caller falls back to defaults.
func LoadKDL(projectRoot string) (*Config, error) {
	kdlPath := filepath.Join(projectRoot, ".lcc.kdl")

	if _, err := os.Stat(kdlPath); os.IsNotExist(err) {
		return nil, nil
	}

	content, err := os.ReadFile(kdlPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read .lcc.kdl: %v", err)
	}

	cfg, err := parseKDL(string(content))
	if err != nil {
		return nil, err
	}

	if cfg.Project.Root == "" {
		cfg.Project.Root = projectRoot
	} else if !filepath.IsAbs(cfg.Project.Root) {
		cfg.Project.Root = filepath.Clean(filepath.Join(projectRoot, cfg.Project.Root))
	}
	return cfg, nil
}

// parseKDL walks the KDL document into a Config. Unknown nodes are ignored
// so older binaries tolerate newer config files.
func parseKDL(content string) (*Config, error) {
	cfg := Default()

	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse KDL config: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "project":
			for _, cn := range n.Children {
				assignSimpleString(cn, "root", func(v string) { cfg.Project.Root = v })
				assignSimpleString(cn, "name", func(v string) { cfg.Project.Name = v })
			}
		case "completion":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "limit":
					if v, ok := firstIntArg(cn); ok {
						cfg.Completion.Limit = v
					}
				case "include_macros":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Completion.IncludeMacros = b
					}
				case "include_globals":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Completion.IncludeGlobals = b
					}
				case "include_brief_comments":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Completion.IncludeBriefComments = b
					}
				case "enable_snippets":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Completion.EnableSnippets = b
					}
				case "include_code_patterns":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Completion.IncludeCodePatterns = b
					}
				case "include_ineligible_results":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Completion.IncludeIneligibleResults = b
					}
				}
			}
		case "server":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "workers":
					if v, ok := firstIntArg(cn); ok {
						cfg.Server.Workers = v
					}
				case "watch_mode":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Server.WatchMode = b
					}
				case "watch_debounce_ms":
					if v, ok := firstIntArg(cn); ok {
						cfg.Server.WatchDebounceMs = v
					}
				case "snapshot":
					if s, ok := firstStringArg(cn); ok {
						cfg.Server.SnapshotPath = s
					}
				}
			}
		case "include":
			cfg.Include = append(cfg.Include, collectStringArgs(n)...)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}
	for _, cn := range n.Children {
		if s, ok := firstStringArg(cn); ok {
			out = append(out, s)
		}
	}
	return out
}

func assignSimpleString(n *document.Node, target string, set func(string)) {
	if nodeName(n) == target {
		if s, ok := firstStringArg(n); ok {
			set(s)
		}
	}
}
