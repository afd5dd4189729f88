package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"project-tracker/internal/domain"
	"project-tracker/internal/errors"
	"project-tracker/internal/services"
)

func TestGetProject(t *testing.T) {
	m := &mockBusinessAPI{}
	m.On("GetProject", mock.Anything, int64(5)).Return(&domain.Project{ID: 5, Name: "Website"}, nil)

	rec := serve(t, m, http.MethodGet, "/api/v1/projects/5")
	require.Equal(t, http.StatusOK, rec.Code)

	var project domain.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &project))
	assert.Equal(t, "Website", project.Name)
}

func TestUpdateProject_OnlySentFields(t *testing.T) {
	m := &mockBusinessAPI{}
	m.On("UpdateProject", mock.Anything, int64(5), mock.MatchedBy(func(u services.ProjectUpdate) bool {
		return u.Name != nil && *u.Name == "Storefront" && u.Budget != nil && *u.Budget == 900 &&
			u.Status == nil && u.StartDate == nil && u.ClientID == nil
	})).Return(&domain.Project{ID: 5, Name: "Storefront", Budget: 900}, nil)

	rec := serveJSON(t, m, http.MethodPatch, "/api/v1/projects/5", `{"name":"Storefront","budget":900}`)
	require.Equal(t, http.StatusOK, rec.Code)
	m.AssertExpectations(t)
}

func TestUpdateProject_MalformedBody(t *testing.T) {
	m := &mockBusinessAPI{}

	rec := serveJSON(t, m, http.MethodPatch, "/api/v1/projects/5", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	m.AssertNotCalled(t, "UpdateProject", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteProject(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"deleted", nil, http.StatusNoContent},
		{"missing", errors.NewNotFoundError("project", "5"), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockBusinessAPI{}
			m.On("DeleteProject", mock.Anything, int64(5)).Return(tt.err)

			rec := serve(t, m, http.MethodDelete, "/api/v1/projects/5")
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestUpdateTask(t *testing.T) {
	m := &mockBusinessAPI{}
	m.On("UpdateTask", mock.Anything, int64(3), mock.MatchedBy(func(u services.TaskUpdate) bool {
		return u.ProjectID != nil && *u.ProjectID == "7" && u.Title == nil
	})).Return(&domain.Task{ID: 3, Title: "Layout", ProjectID: "7"}, nil)

	rec := serveJSON(t, m, http.MethodPatch, "/api/v1/tasks/3", `{"projectId":"7"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var task domain.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
	assert.Equal(t, "7", task.ProjectID)
}

func TestUpdateTaskStatus(t *testing.T) {
	m := &mockBusinessAPI{}
	m.On("UpdateTaskStatus", mock.Anything, int64(3), "done").Return(&domain.Task{ID: 3, Status: "done"}, nil)
	m.On("UpdateTaskStatus", mock.Anything, int64(3), "").Return(nil, errors.NewValidationError("status is required", nil))

	rec := serveJSON(t, m, http.MethodPut, "/api/v1/tasks/3/status", `{"status":"done"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serveJSON(t, m, http.MethodPut, "/api/v1/tasks/3/status", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteTask(t *testing.T) {
	m := &mockBusinessAPI{}
	m.On("DeleteTask", mock.Anything, int64(3)).Return(nil)

	rec := serve(t, m, http.MethodDelete, "/api/v1/tasks/3")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = serve(t, m, http.MethodDelete, "/api/v1/tasks/zero")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	m.AssertNumberOfCalls(t, "DeleteTask", 1)
}
