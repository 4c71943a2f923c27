package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/valyala/bytebufferpool"
	"github.com/zeebo/xxh3"
)

// JSONSerializer is echo's JSON codec backed by goccy/go-json.
type JSONSerializer struct{}

func (JSONSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := json.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (JSONSerializer) Deserialize(c echo.Context, i interface{}) error {
	if err := json.NewDecoder(c.Request().Body).Decode(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err)).SetInternal(err)
	}
	return nil
}

var bufPool bytebufferpool.Pool

func etag(b []byte) string {
	return `"` + strconv.FormatUint(xxh3.Hash(b), 16) + `"`
}

// writeJSON encodes v with an ETag. GET requests carrying a matching
// If-None-Match get 304.
func writeJSON(c echo.Context, code int, v interface{}) error {
	buf := bufPool.Get()
	defer bufPool.Put(buf)

	if err := json.NewEncoder(buf).Encode(v); err != nil {
		return err
	}
	return writeBlob(c, code, echo.MIMEApplicationJSON, buf.B)
}

func writeBlob(c echo.Context, code int, contentType string, b []byte) error {
	tag := etag(b)
	c.Response().Header().Set("ETag", tag)
	if c.Request().Method == http.MethodGet && c.Request().Header.Get("If-None-Match") == tag {
		return c.NoContent(http.StatusNotModified)
	}
	return c.Blob(code, contentType, b)
}
