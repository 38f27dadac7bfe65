package container

import (
	"os"
	"strings"
)

var (
	dockerEnvFile = "/.dockerenv"
	initCGroup    = "/proc/1/cgroup"
)

// IsContainerised reports whether we look to be running in a container.
// Inside one, "localhost" in a server list means the container itself, which
// is rarely what the caller meant, so the fetch path logs a hint.
func IsContainerised() bool {
	return fileExists(dockerEnvFile) || cgroupMentionsRuntime(initCGroup) || os.Getenv("KUBERNETES_SERVICE_HOST") != ""
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func cgroupMentionsRuntime(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	content := string(data)
	for _, marker := range []string{"docker", "containerd", "kubepods", "libpod"} {
		if strings.Contains(content, marker) {
			return true
		}
	}
	return false
}
