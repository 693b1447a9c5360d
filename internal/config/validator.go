// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `loader.go` calls `validateStruct` after defaults are applied.  Any tag
// mismatch aborts startup, so the binaries never run with partial or
// malformed configuration.  Cross-field rules that tags cannot express
// live in `checkCrossField`.

package config

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

//
// validator instance (package-level singleton)
//

var v = validator.New()

//
// public API
//

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	if err := v.Struct(c); err != nil {
		return err
	}
	return checkCrossField(c)
}

func checkCrossField(c *Config) error {
	if c.Storage.Driver == "s3" && (c.Storage.S3.Bucket == "" || c.Storage.S3.Region == "") {
		return errors.New("config: storage.s3.bucket and storage.s3.region are required for the s3 driver")
	}
	// A half-configured portal would produce a broken redirect; either both
	// values are set or neither is.
	if (c.Auth.PortalURL == "") != (c.Auth.AppID == "") {
		return errors.New("config: auth.portal_url and auth.app_id must be set together")
	}
	return nil
}
