package errors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	kubeerrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime/schema"

	apierrors "github.com/opencluster/framework-job-scheduler/api/errors"
	"github.com/opencluster/framework-job-scheduler/models/common"
)

func Test_StatusErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      *apierrors.StatusError
		reason   common.StatusReason
		code     int
		contains string
	}{
		{name: "no job", err: apierrors.NewNoJob("alice~job1"), reason: common.StatusReasonNotFound, code: http.StatusNotFound, contains: "alice~job1"},
		{name: "no job config", err: apierrors.NewNoJobConfig("alice~job1"), reason: common.StatusReasonNoJobConfig, code: http.StatusNotFound, contains: "config"},
		{name: "forbidden user", err: apierrors.NewForbiddenUser("mallory", "vc1"), reason: common.StatusReasonForbidden, code: http.StatusForbidden, contains: "mallory"},
		{name: "no ssh info", err: apierrors.NewNoJobSshInfo("alice~job1"), reason: common.StatusReasonNoJobSshInfo, code: http.StatusNotFound, contains: "ssh"},
		{name: "invalid", err: apierrors.NewInvalid(errors.New("bad input")), reason: common.StatusReasonInvalid, code: http.StatusUnprocessableEntity, contains: "bad input"},
		{name: "unknown", err: apierrors.NewUnknown(errors.New("boom")), reason: common.StatusReasonUnknown, code: http.StatusInternalServerError, contains: "boom"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			status := test.err.Status()
			assert.Equal(t, common.StatusFailure, status.Status)
			assert.Equal(t, test.reason, status.Reason)
			assert.Equal(t, test.code, status.Code)
			assert.Contains(t, status.Message, test.contains)
			assert.Equal(t, status.Message, test.err.Error())
		})
	}
}

func Test_NewFromError(t *testing.T) {
	t.Run("status error passes through", func(t *testing.T) {
		original := apierrors.NewNoJob("alice~job1")
		assert.Same(t, original, apierrors.NewFromError(original))
	})

	t.Run("wrapped status error passes through", func(t *testing.T) {
		original := apierrors.NewNoJob("alice~job1")
		wrapped := fmt.Errorf("context: %w", original)
		assert.Same(t, original, apierrors.NewFromError(wrapped))
	})

	t.Run("kubernetes api error keeps code and message", func(t *testing.T) {
		kubeErr := kubeerrors.NewAlreadyExists(schema.GroupResource{Resource: "frameworks"}, "somejob")
		statusError := apierrors.NewFromError(kubeErr)
		assert.Equal(t, http.StatusConflict, statusError.Status().Code)
		assert.Equal(t, kubeErr.Status().Message, statusError.Status().Message)
	})

	t.Run("arbitrary error becomes unknown", func(t *testing.T) {
		statusError := apierrors.NewFromError(errors.New("boom"))
		assert.Equal(t, common.StatusReasonUnknown, statusError.Status().Reason)
		assert.Equal(t, http.StatusInternalServerError, statusError.Status().Code)
	})
}

func Test_ReasonForError(t *testing.T) {
	assert.Equal(t, common.StatusReasonNotFound, apierrors.ReasonForError(apierrors.NewNoJob("x")))
	assert.Equal(t, common.StatusReasonUnknown, apierrors.ReasonForError(errors.New("boom")))
}
