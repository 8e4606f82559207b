package handler // declare the package name; contains HTTP handlers

import (
	"net/http" // net/http provides status codes and response helpers
	"os"       // os reads the injected secret at request time

	"github.com/labstack/echo/v4" // echo is the web framework used for this project
)

// secretEnvName is the variable the deployment pipeline injects from the
// secret manager.  /ping only ever reports its presence.
const secretEnvName = "SECRET_VALUE"

// Root is the pipeline validation endpoint.  It returns the fixed
// confirmation string the deploy check greps for, with an HTTP 200 status.
func Root(c echo.Context) error {
	return c.String(http.StatusOK, "Hello, Cloud Run!")
}

// pingResp reports whether the injected secret reached the process
// environment.  The secret's value is deliberately never included.
type pingResp struct {
	SecretPresent bool   `json:"secret_present"`
	Note          string `json:"note"`
}

// Ping checks at request time whether SECRET_VALUE is set and non-empty.
// Absence is a normal state communicated as data, not an error: locally the
// variable is expected to be missing, in the managed environment the secret
// injection should make it present.
func Ping(c echo.Context) error {
	v := os.Getenv(secretEnvName)
	return c.JSON(http.StatusOK, pingResp{
		SecretPresent: v != "",
		Note:          "Locally this is expected to be false. In Cloud Run it will be true.",
	})
}
