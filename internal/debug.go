package internal

import (
	"fmt"
	"os"
	"os/user"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/earthboundkid/versioninfo/v2"
	"go.uber.org/zap"
)

var sensitiveRegex = regexp.MustCompile(`(?i)(PASSWORD|API_KEY|ACCESS_KEY|SECRET|TOKEN)`)

func ShowVersion() {
	zap.S().Infow("inteliver", "version", versioninfo.Short(), "revision", versioninfo.Revision, "modified", versioninfo.DirtyBuild)
}

// MaskedEnvironment returns the process environment sorted by key, with the
// values of anything that looks like a credential masked.
func MaskedEnvironment(environ []string) []string {
	sorted := append([]string(nil), environ...)
	sort.Slice(sorted, func(i, j int) bool {
		keyI := strings.SplitN(sorted[i], "=", 2)[0]
		keyJ := strings.SplitN(sorted[j], "=", 2)[0]
		return keyI < keyJ
	})

	masked := make([]string, 0, len(sorted))
	for _, entry := range sorted {
		key, value, _ := strings.Cut(entry, "=")
		if sensitiveRegex.MatchString(key) {
			value = "********"
		}
		masked = append(masked, key+"="+value)
	}
	return masked
}

func EnvironmentVars() {
	zap.S().Debugw("environment variables", "env", MaskedEnvironment(os.Environ()))
}

func UserInfo() {
	log := zap.S()
	currentUser, err := user.Current()
	if err != nil {
		log.Warnw("error getting current user", "pid", os.Getpid(), "error", err)
		return
	}

	groups, err := os.Getgroups()
	if err != nil {
		log.Warnw("error getting groups", "error", err)
	}
	groupNames := make([]string, 0, len(groups))
	for _, gid := range groups {
		group, err := user.LookupGroupId(strconv.Itoa(gid))
		if err != nil {
			groupNames = append(groupNames, strconv.Itoa(gid)) // Append ID if name lookup fails
		} else {
			groupNames = append(groupNames, fmt.Sprintf("%s(%s)", group.Name, group.Gid))
		}
	}

	log.Infow("process",
		"pid", os.Getpid(),
		"user", fmt.Sprintf("uid=%s(%s) gid=%s", currentUser.Uid, currentUser.Username, currentUser.Gid),
		"groups", groupNames,
	)
}
