package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
)

// strict strips every HTML tag; names, emails and course titles have no
// business carrying markup.
var strict = bluemonday.StrictPolicy()

// SanitizeInputMiddleware strips HTML from every string in a JSON request
// body, including nested objects and arrays. Webhook routes must never use
// it: rewriting the body would break signature verification.
func SanitizeInputMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			c.Next()
			return
		}

		buf, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid body"})
			return
		}
		if len(buf) == 0 {
			c.Next()
			return
		}

		var body map[string]interface{}
		if err := json.Unmarshal(buf, &body); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Malformed JSON"})
			return
		}

		cleaned, _ := json.Marshal(sanitizeValue(body))
		c.Request.Body = io.NopCloser(bytes.NewBuffer(cleaned))
		c.Request.ContentLength = int64(len(cleaned))

		c.Next()
	}
}

func sanitizeValue(v interface{}) interface{} {
	switch t := v.(type) {
	case string:
		return strict.Sanitize(t)
	case map[string]interface{}:
		for k, elem := range t {
			t[k] = sanitizeValue(elem)
		}
		return t
	case []interface{}:
		for i, elem := range t {
			t[i] = sanitizeValue(elem)
		}
		return t
	default:
		return v
	}
}
