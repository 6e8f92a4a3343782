package cbtserver

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"
)

// pathUint64 binds a simple-style path parameter.
func (s *Server) pathUint64(c *gin.Context, name string) (uint64, bool) {
	var value uint64
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &value, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		s.badRequest(c, fmt.Errorf("invalid %s: %w", name, err))
		return 0, false
	}
	return value, true
}

func (s *Server) pathString(c *gin.Context, name string) (string, bool) {
	var value string
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &value, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		s.badRequest(c, fmt.Errorf("invalid %s: %w", name, err))
		return "", false
	}
	return value, true
}

// queryString binds an optional form-style query parameter.
func (s *Server) queryString(c *gin.Context, name string) (string, bool) {
	var value string
	if err := runtime.BindQueryParameter("form", true, false, name, c.Request.URL.Query(), &value); err != nil {
		s.badRequest(c, fmt.Errorf("invalid %s: %w", name, err))
		return "", false
	}
	return value, true
}
