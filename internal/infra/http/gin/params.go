package ginserver

import (
	"strconv"
	"strings"

	gin "github.com/gin-gonic/gin"
)

func intQuery(c *gin.Context, name string) int {
	value, err := strconv.Atoi(strings.TrimSpace(c.Query(name)))
	if err != nil {
		return 0
	}
	return value
}

func int64Query(c *gin.Context, name string) int64 {
	value, err := strconv.ParseInt(strings.TrimSpace(c.Query(name)), 10, 64)
	if err != nil {
		return 0
	}
	return value
}

func boolQuery(c *gin.Context, name string) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(c.Query(name)))
	if err != nil {
		return false
	}
	return value
}

func csvQuery(c *gin.Context, name string) []string {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
