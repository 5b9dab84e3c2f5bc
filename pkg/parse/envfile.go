package parse

import (
	"bufio"
	"io"
	"strings"
)

// EnvFile reads an env-style configuration file ("KEY=value" per line, as in
// the cluster's /etc conf files) into a map. Comment lines and lines without
// an "=" are skipped. Surrounding double quotes on values are removed.
func EnvFile(r io.Reader) (map[string]string, error) {
	vars := make(map[string]string)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		vars[strings.TrimSpace(key)] = strings.Trim(strings.TrimSpace(value), `"`)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return vars, nil
}
