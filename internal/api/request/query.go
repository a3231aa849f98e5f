package request

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseRefresh reads the optional "refresh" query parameter of the summary
// endpoint. An empty value means false.
func ParseRefresh(refreshParam string) (bool, error) {
	refreshParam = strings.TrimSpace(refreshParam)
	if refreshParam == "" {
		return false, nil
	}
	refresh, err := strconv.ParseBool(refreshParam)
	if err != nil {
		return false, fmt.Errorf("invalid refresh parameter: %q", refreshParam)
	}
	return refresh, nil
}
