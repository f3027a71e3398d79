package common_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/ptr"

	"github.com/opencluster/framework-job-scheduler/models/common"
)

func validDescription() common.JobDescription {
	return common.JobDescription{
		Name: "job1",
		TaskRoles: []common.TaskRoleDescription{
			{
				Name:        "worker",
				Instances:   1,
				DockerImage: "example.com/base:latest",
				Entrypoint:  "python train.py",
			},
		},
	}
}

func Test_ParseJobDescription(t *testing.T) {
	t.Run("YAML input", func(t *testing.T) {
		raw := `
name: job1
virtualCluster: vc1
retryCount: 2
taskRoles:
  - name: worker
    instances: 2
    resources:
      cpu: 4
      memoryMB: 8192
      gpu: 1
      ports:
        tensorboard: 1
    dockerImage: example.com/base:latest
    entrypoint: python train.py
`
		desc, err := common.ParseJobDescription([]byte(raw))
		require.NoError(t, err)
		assert.Equal(t, "job1", desc.Name)
		assert.Equal(t, "vc1", desc.VirtualCluster)
		assert.Equal(t, int32(2), desc.RetryCount)
		require.Len(t, desc.TaskRoles, 1)
		assert.Equal(t, int32(1), desc.TaskRoles[0].Resources.Ports["tensorboard"])
	})

	t.Run("JSON input parses as YAML", func(t *testing.T) {
		raw := `{"name":"job1","taskRoles":[{"name":"worker","instances":1,"dockerImage":"img","entrypoint":"cmd"}]}`
		desc, err := common.ParseJobDescription([]byte(raw))
		require.NoError(t, err)
		assert.Equal(t, "job1", desc.Name)
	})

	t.Run("malformed input fails", func(t *testing.T) {
		_, err := common.ParseJobDescription([]byte("{broken"))
		assert.Error(t, err)
	})
}

func Test_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(desc *common.JobDescription)
		wantErr bool
	}{
		{name: "valid", mutate: func(*common.JobDescription) {}},
		{name: "missing name", mutate: func(desc *common.JobDescription) { desc.Name = "" }, wantErr: true},
		{name: "no task roles", mutate: func(desc *common.JobDescription) { desc.TaskRoles = nil }, wantErr: true},
		{name: "unnamed task role", mutate: func(desc *common.JobDescription) { desc.TaskRoles[0].Name = "" }, wantErr: true},
		{name: "zero instances", mutate: func(desc *common.JobDescription) { desc.TaskRoles[0].Instances = 0 }, wantErr: true},
		{name: "missing docker image", mutate: func(desc *common.JobDescription) { desc.TaskRoles[0].DockerImage = "" }, wantErr: true},
		{name: "missing entrypoint", mutate: func(desc *common.JobDescription) { desc.TaskRoles[0].Entrypoint = "" }, wantErr: true},
		{name: "duplicate task role", mutate: func(desc *common.JobDescription) {
			desc.TaskRoles = append(desc.TaskRoles, desc.TaskRoles[0])
		}, wantErr: true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			desc := validDescription()
			test.mutate(&desc)
			err := desc.Validate()
			if test.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func Test_GangAllocationEnabled(t *testing.T) {
	desc := validDescription()
	assert.True(t, desc.GangAllocationEnabled())

	desc.GangAllocation = ptr.To(true)
	assert.True(t, desc.GangAllocationEnabled())

	desc.GangAllocation = ptr.To(false)
	assert.False(t, desc.GangAllocationEnabled())
}
