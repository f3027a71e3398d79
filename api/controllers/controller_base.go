package controllers

import (
	"github.com/gin-gonic/gin"

	apierrors "github.com/opencluster/framework-job-scheduler/api/errors"
	"github.com/opencluster/framework-job-scheduler/models/common"
	"github.com/opencluster/framework-job-scheduler/utils"
)

type ControllerBase struct {
}

// HandleError writes the error's status as the response body.
func (controller *ControllerBase) HandleError(c *gin.Context, err error) {
	_ = c.Error(err)

	var status *common.Status
	switch t := err.(type) {
	case apierrors.APIStatus:
		status = t.Status()
	default:
		status = apierrors.NewFromError(err).Status()
	}

	utils.StatusResponse(c.Writer, status)
}
