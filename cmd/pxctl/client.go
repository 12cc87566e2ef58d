package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// post sends payload as JSON (or an empty body when nil) and returns the
// response body. Any status other than 200 is an error carrying the body.
func post(opts *options, path string, payload any) (string, error) {
	a := fiber.Post(strings.TrimRight(opts.addr, "/") + path)
	a.Timeout(opts.timeout)
	if payload != nil {
		a.JSON(payload)
	}

	code, body, errs := a.String()
	if len(errs) > 0 {
		return "", errors.Join(errs...)
	}
	if code != fiber.StatusOK {
		return "", fmt.Errorf("server returned %d: %s", code, strings.TrimSpace(body))
	}
	return body, nil
}
