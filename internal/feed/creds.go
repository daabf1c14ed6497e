package feed

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Env overrides for installs where the lockfile is unreadable (remote
// clients, containers). Both must be set to take effect.
const (
	envPort     = "LCU_PORT"
	envPassword = "LCU_PASSWORD"
)

// Credentials authenticate against the game client's local API.
type Credentials struct {
	Port     int
	Password string
}

// ReadLockfile loads credentials from the client's lockfile, written as
// name:pid:port:password:protocol. LCU_PORT and LCU_PASSWORD, when both
// set, bypass the lockfile entirely.
func ReadLockfile(path string) (Credentials, error) {
	if creds, ok := credsFromEnv(); ok {
		return creds, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Credentials{}, err
	}
	return parseLockfile(string(b))
}

func credsFromEnv() (Credentials, bool) {
	rawPort := os.Getenv(envPort)
	password := os.Getenv(envPassword)
	if rawPort == "" || password == "" {
		return Credentials{}, false
	}
	port, err := strconv.Atoi(rawPort)
	if err != nil {
		return Credentials{}, false
	}
	return Credentials{Port: port, Password: password}, true
}

// parseLockfile splits name:pid:port:password:protocol. The password is
// client-generated and may itself contain colons, so the three leading
// fields come off the left and the protocol comes off the right; whatever
// sits between is the password.
func parseLockfile(contents string) (Credentials, error) {
	parts := strings.SplitN(strings.TrimSpace(contents), ":", 4)
	if len(parts) < 4 {
		return Credentials{}, fmt.Errorf("malformed lockfile: want 5 fields, got %d", len(parts))
	}
	port, err := strconv.Atoi(parts[2])
	if err != nil {
		return Credentials{}, fmt.Errorf("malformed lockfile port %q: %w", parts[2], err)
	}
	cut := strings.LastIndex(parts[3], ":")
	if cut < 0 {
		return Credentials{}, fmt.Errorf("malformed lockfile: missing protocol field")
	}
	return Credentials{Port: port, Password: parts[3][:cut]}, nil
}
