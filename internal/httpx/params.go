package httpx

import (
	"strconv"
	"strings"

	"github.com/fekuna/omnipos-catalog-service/internal/query"
	"github.com/gin-gonic/gin"
)

// ListParams reads page, pageSize, query and sort from the query string.
func ListParams(c *gin.Context) query.Params {
	return query.Params{
		StoreID:  c.Param("storeId"),
		Page:     intQuery(c, "page"),
		PageSize: intQuery(c, "pageSize"),
		Query:    c.Query("query"),
		Sort:     c.Query("sort"),
	}.Normalize()
}

// Flag reports a boolean query flag such as withChildCategories=true.
func Flag(c *gin.Context, key string) bool {
	v, err := strconv.ParseBool(c.Query(key))
	return err == nil && v
}

// FilterTokens splits the comma separated filter parameter.
func FilterTokens(c *gin.Context) map[string]bool {
	out := map[string]bool{}
	for _, tok := range strings.Split(c.Query("filter"), ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			out[tok] = true
		}
	}
	return out
}

// CSV splits a comma separated query value, dropping blanks.
func CSV(c *gin.Context, key string) []string {
	var out []string
	for _, v := range strings.Split(c.Query(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func intQuery(c *gin.Context, key string) int {
	n, _ := strconv.Atoi(c.Query(key))
	return n
}

// OptionalFlag reads a tri-state boolean: nil when key is absent.
func OptionalFlag(c *gin.Context, key string) *bool {
	raw, ok := c.GetQuery(key)
	if !ok {
		return nil
	}
	v := raw == "true"
	return &v
}
