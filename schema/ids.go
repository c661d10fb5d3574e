package schema

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// ParseIDS builds a sparse table from an IDS resource: optional "IDS V1.0"
// header and count lines, then one "value label" pair per line. Values may
// be decimal or 0x-prefixed hex.
func ParseIDS(name string, data []byte) (*Table, error) {
	m := make(map[int64]string)
	sc := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(strings.ToUpper(text), "IDS") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 2 {
			// A lone number is the optional entry count.
			continue
		}
		v, err := parseIDSValue(fields[0])
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, line, err)
		}
		if _, dup := m[v]; !dup {
			m[v] = strings.Join(fields[1:], " ")
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return Sparse(name, m), nil
}

func parseIDSValue(s string) (int64, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		u, err := strconv.ParseUint(s[2:], 16, 32)
		return int64(u), err
	}
	return strconv.ParseInt(s, 10, 64)
}
