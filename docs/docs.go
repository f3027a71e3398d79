// Package docs classification Framework job scheduler API.
//
// This is the API Server for the framework job scheduler.
//
//	Schemes: http, https
//	BasePath: /api/v1
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
// swagger:meta
package docs
