// Package handler contains the HTTP handlers of the reservation API,
// grouped by domain in subpackages (auth, hotel, reservation, admin).
//
// This file exists so tooling (e.g. `swag init --dir ./internal/handler`) can
// treat `internal/handler` as a valid Go package and avoid "no Go files" warnings.
package handler

