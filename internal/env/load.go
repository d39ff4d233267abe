package env

import (
	"bufio"
	"os"
	"strings"
)

// Prefix is prepended to every environment variable the viewer reads.
const Prefix = "CUBEVIEW_"

// Load reads the given file (e.g. ".env") and sets an environment variable for each
// line of the form KEY=VALUE that is not already set, so the real environment wins.
// Empty lines and lines starting with # are skipped; an optional leading "export " is
// ignored. The file may be missing; that is not an error. Returns the keys it set.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()
	var set []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, ok := parseLine(scanner.Text())
		if !ok {
			continue
		}
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err == nil {
			set = append(set, key)
		}
	}
	return set, scanner.Err()
}

func parseLine(line string) (key, value string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	line = strings.TrimPrefix(line, "export ")
	i := strings.Index(line, "=")
	if i <= 0 {
		return "", "", false
	}
	key = strings.TrimSpace(line[:i])
	value = strings.TrimSpace(line[i+1:])
	if key == "" {
		return "", "", false
	}
	// Remove surrounding quotes if present
	if len(value) >= 2 && (value[0] == '"' && value[len(value)-1] == '"' || value[0] == '\'' && value[len(value)-1] == '\'') {
		value = value[1 : len(value)-1]
	}
	return key, value, true
}

// Get returns the value of Prefix+name, or fallback when unset or empty.
func Get(name, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(Prefix + name)); v != "" {
		return v
	}
	return fallback
}
