package controllers

import (
	"github.com/gin-gonic/gin"
)

// Route binds one HTTP endpoint to its handler.
type Route struct {
	Path    string
	Method  string
	Handler gin.HandlerFunc
}

// Controller lists the routes it serves.
type Controller interface {
	GetRoutes() []Route
}
