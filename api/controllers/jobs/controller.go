package jobs

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/opencluster/framework-job-scheduler/api/controllers"
	apierrors "github.com/opencluster/framework-job-scheduler/api/errors"
	jobApi "github.com/opencluster/framework-job-scheduler/api/jobs"
	"github.com/opencluster/framework-job-scheduler/utils"
)

const (
	jobNameParam = "jobName"

	// userNameHeader carries the authenticated submitter, set by the
	// gateway in front of this service.
	userNameHeader = "X-User-Name"
)

type jobController struct {
	controllers.ControllerBase
	handler jobApi.JobHandler
}

// New create a new job controller
func New(handler jobApi.JobHandler) controllers.Controller {
	return &jobController{
		handler: handler,
	}
}

// GetRoutes List the supported routes of this controller
func (controller *jobController) GetRoutes() []controllers.Route {
	routes := []controllers.Route{
		{
			Path:    "/jobs",
			Method:  http.MethodPost,
			Handler: controller.CreateJob,
		},
		{
			Path:    "/jobs",
			Method:  http.MethodGet,
			Handler: controller.GetJobs,
		},
		{
			Path:    fmt.Sprintf("/jobs/:%s", jobNameParam),
			Method:  http.MethodGet,
			Handler: controller.GetJob,
		},
		{
			Path:    fmt.Sprintf("/jobs/:%s/config", jobNameParam),
			Method:  http.MethodGet,
			Handler: controller.GetJobConfig,
		},
		{
			Path:    fmt.Sprintf("/jobs/:%s/executionType", jobNameParam),
			Method:  http.MethodPut,
			Handler: controller.ExecuteJob,
		},
		{
			Path:    fmt.Sprintf("/jobs/:%s/ssh", jobNameParam),
			Method:  http.MethodGet,
			Handler: controller.GetJobSshInfo,
		},
	}
	return routes
}

func (controller *jobController) CreateJob(c *gin.Context) {
	// swagger:operation POST /jobs Job createJob
	// ---
	// summary: Create job
	// parameters:
	// - name: jobDescription
	//   in: body
	//   description: Job to create
	//   required: true
	//   schema:
	//       "$ref": "#/definitions/JobDescription"
	// responses:
	//   "200":
	//     description: "Successful create job"
	//     schema:
	//        "$ref": "#/definitions/JobSummary"
	//   "403":
	//     description: "Forbidden"
	//     schema:
	//        "$ref": "#/definitions/Status"
	//   "422":
	//     description: "Invalid job description"
	//     schema:
	//        "$ref": "#/definitions/Status"
	//   "500":
	//     description: "Internal server error"
	//     schema:
	//        "$ref": "#/definitions/Status"
	userName := c.GetHeader(userNameHeader)
	if userName == "" {
		controller.HandleError(c, apierrors.NewInvalid(fmt.Errorf("missing %s header", userNameHeader)))
		return
	}
	rawConfig, err := io.ReadAll(c.Request.Body)
	if err != nil {
		controller.HandleError(c, apierrors.NewInvalid(err))
		return
	}
	log.Ctx(c.Request.Context()).Debug().Msgf("Create job for user %s, %d bytes", userName, len(rawConfig))

	summary, err := controller.handler.CreateJob(c.Request.Context(), userName, rawConfig)
	if err != nil {
		controller.HandleError(c, err)
		return
	}
	utils.JSONResponse(c.Writer, summary)
}

func (controller *jobController) GetJobs(c *gin.Context) {
	// swagger:operation GET /jobs Job getJobs
	// ---
	// summary: Gets job summaries
	// responses:
	//   "200":
	//     description: "Successful get jobs"
	//     schema:
	//        type: "array"
	//        items:
	//           "$ref": "#/definitions/JobSummary"
	//   "500":
	//     description: "Internal server error"
	//     schema:
	//        "$ref": "#/definitions/Status"
	log.Ctx(c.Request.Context()).Debug().Msg("Get job list")
	summaries, err := controller.handler.GetJobs(c.Request.Context())
	if err != nil {
		controller.HandleError(c, err)
		return
	}
	utils.JSONResponse(c.Writer, summaries)
}

func (controller *jobController) GetJob(c *gin.Context) {
	// swagger:operation GET /jobs/{jobName} Job getJob
	// ---
	// summary: Gets job detail
	// parameters:
	// - name: jobName
	//   in: path
	//   description: Name of the job
	//   type: string
	//   required: true
	// responses:
	//   "200":
	//     description: "Successful get job"
	//     schema:
	//        "$ref": "#/definitions/JobDetail"
	//   "404":
	//     description: "Not found"
	//     schema:
	//        "$ref": "#/definitions/Status"
	//   "500":
	//     description: "Internal server error"
	//     schema:
	//        "$ref": "#/definitions/Status"
	jobName := c.Param(jobNameParam)
	log.Ctx(c.Request.Context()).Debug().Msgf("Get job %s", jobName)
	detail, err := controller.handler.GetJob(c.Request.Context(), jobName)
	if err != nil {
		controller.HandleError(c, err)
		return
	}
	utils.JSONResponse(c.Writer, detail)
}

func (controller *jobController) GetJobConfig(c *gin.Context) {
	// swagger:operation GET /jobs/{jobName}/config Job getJobConfig
	// ---
	// summary: Gets the raw configuration a job was submitted with
	// parameters:
	// - name: jobName
	//   in: path
	//   description: Name of the job
	//   type: string
	//   required: true
	// responses:
	//   "200":
	//     description: "Successful get job config"
	//   "404":
	//     description: "Not found"
	//     schema:
	//        "$ref": "#/definitions/Status"
	//   "500":
	//     description: "Internal server error"
	//     schema:
	//        "$ref": "#/definitions/Status"
	jobName := c.Param(jobNameParam)
	rawConfig, err := controller.handler.GetJobConfig(c.Request.Context(), jobName)
	if err != nil {
		controller.HandleError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(rawConfig))
}

func (controller *jobController) ExecuteJob(c *gin.Context) {
	// swagger:operation PUT /jobs/{jobName}/executionType Job executeJob
	// ---
	// summary: Starts or stops a job
	// parameters:
	// - name: jobName
	//   in: path
	//   description: Name of the job
	//   type: string
	//   required: true
	// - name: execution
	//   in: body
	//   description: Execution to apply
	//   required: true
	//   schema:
	//       "$ref": "#/definitions/JobExecution"
	// responses:
	//   "200":
	//     description: "Successful execute job"
	//   "404":
	//     description: "Not found"
	//     schema:
	//        "$ref": "#/definitions/Status"
	//   "422":
	//     description: "Invalid execution type"
	//     schema:
	//        "$ref": "#/definitions/Status"
	//   "500":
	//     description: "Internal server error"
	//     schema:
	//        "$ref": "#/definitions/Status"
	jobName := c.Param(jobNameParam)
	var execution JobExecution
	if err := c.ShouldBindJSON(&execution); err != nil {
		controller.HandleError(c, apierrors.NewInvalid(err))
		return
	}
	log.Ctx(c.Request.Context()).Debug().Msgf("Execute %s on job %s", execution.Value, jobName)
	if err := controller.handler.ExecuteJob(c.Request.Context(), jobName, execution.Value); err != nil {
		controller.HandleError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (controller *jobController) GetJobSshInfo(c *gin.Context) {
	// swagger:operation GET /jobs/{jobName}/ssh Job getJobSshInfo
	// ---
	// summary: Gets SSH info of a job
	// parameters:
	// - name: jobName
	//   in: path
	//   description: Name of the job
	//   type: string
	//   required: true
	// responses:
	//   "404":
	//     description: "Not found"
	//     schema:
	//        "$ref": "#/definitions/Status"
	jobName := c.Param(jobNameParam)
	controller.HandleError(c, controller.handler.GetJobSshInfo(c.Request.Context(), jobName))
}

// JobExecution is the body of an execute request.
// swagger:model JobExecution
type JobExecution struct {
	// Value is the execution type to apply, Start or Stop
	//
	// required: true
	// example: Stop
	Value string `json:"value"`
}
