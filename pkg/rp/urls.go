package rp

import (
	"fmt"
	"net/url"
	"strings"
)

const apiPath = "api/v1"

// pathTemplate is a fixed list of path segments where "{name}" segments are
// placeholders filled positionally by expand.
type pathTemplate []string

var (
	startLaunchPath     = pathTemplate{apiPath, "{projectName}", "launch"}
	finishLaunchPath    = pathTemplate{apiPath, "{projectName}", "launch", "{launchUuid}", "finish"}
	updateLaunchPath    = pathTemplate{apiPath, "{projectName}", "launch", "{launchId}", "update"}
	startItemPath       = pathTemplate{apiPath, "{projectName}", "item"}
	startNestedItemPath = pathTemplate{apiPath, "{projectName}", "item", "{parentUuid}"}
	finishItemPath      = pathTemplate{apiPath, "{projectName}", "item", "{itemUuid}"}
	addLogPath          = pathTemplate{apiPath, "{projectName}", "log"}
)

func isPlaceholder(segment string) bool {
	return strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}")
}

// expand resolves the template against base. Each value is escaped as a
// single path segment. A mismatch between placeholders and values is a
// programming error and panics.
func (t pathTemplate) expand(base *url.URL, values ...string) *url.URL {
	escaped := make([]string, 0, len(t))
	next := 0
	for _, segment := range t {
		if !isPlaceholder(segment) {
			escaped = append(escaped, segment)
			continue
		}
		if next >= len(values) {
			panic(fmt.Sprintf("rp: no value for %s in %s", segment, t))
		}
		escaped = append(escaped, url.PathEscape(values[next]))
		next++
	}
	if next != len(values) {
		panic(fmt.Sprintf("rp: %d unused values for %s", len(values)-next, t))
	}

	u := *base
	rawPath := strings.TrimSuffix(base.EscapedPath(), "/") + "/" + strings.Join(escaped, "/")
	path, err := url.PathUnescape(rawPath)
	if err != nil {
		panic(fmt.Sprintf("rp: invalid path %q: %v", rawPath, err))
	}
	u.Path = path
	u.RawPath = rawPath
	u.RawQuery = ""
	u.Fragment = ""
	return &u
}

func (t pathTemplate) String() string { return strings.Join(t, "/") }

// startItemURL picks the nested item path when parentUUID is non-blank.
func startItemURL(base *url.URL, project, parentUUID string) *url.URL {
	if blank(parentUUID) {
		return startItemPath.expand(base, project)
	}
	return startNestedItemPath.expand(base, project, parentUUID)
}
