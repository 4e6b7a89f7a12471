package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"nirman/pkg/apperror"
	"nirman/pkg/response"
)

// writeError maps a service error onto the standard envelope. Expected
// business errors pass their message through; anything else is logged in
// full and surfaced as a generic internal error.
func writeError(c *gin.Context, err error) {
	status := apperror.HTTPStatus(err)
	msg := err.Error()
	if !apperror.Expected(err) {
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		msg = "internal server error"
	}
	c.JSON(status, response.Error(status, msg))
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, msg))
}
