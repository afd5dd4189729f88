package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"project-tracker/internal/services"
)

type projectPatch struct {
	Name      *string  `json:"name"`
	Status    *string  `json:"status"`
	Budget    *float64 `json:"budget"`
	StartDate *string  `json:"startDate"`
	EndDate   *string  `json:"endDate"`
	ClientID  *int64   `json:"clientId"`
}

type taskPatch struct {
	Title     *string `json:"title"`
	ProjectID *string `json:"projectId"`
	Priority  *string `json:"priority"`
	Status    *string `json:"status"`
	DueDate   *string `json:"dueDate"`
}

type taskStatusBody struct {
	Status string `json:"status"`
}

func (s *Server) handleGetProject(c echo.Context) error {
	id, err := idParam(c, "project_id")
	if err != nil {
		return err
	}
	project, err := s.api.GetProject(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, project)
}

func (s *Server) handleUpdateProject(c echo.Context) error {
	id, err := idParam(c, "project_id")
	if err != nil {
		return err
	}
	var body projectPatch
	if err := c.Bind(&body); err != nil {
		return err
	}

	project, err := s.api.UpdateProject(c.Request().Context(), id, services.ProjectUpdate{
		Name:      body.Name,
		Status:    body.Status,
		Budget:    body.Budget,
		StartDate: body.StartDate,
		EndDate:   body.EndDate,
		ClientID:  body.ClientID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, project)
}

func (s *Server) handleDeleteProject(c echo.Context) error {
	id, err := idParam(c, "project_id")
	if err != nil {
		return err
	}
	if err := s.api.DeleteProject(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleUpdateTask(c echo.Context) error {
	id, err := taskIDParam(c)
	if err != nil {
		return err
	}
	var body taskPatch
	if err := c.Bind(&body); err != nil {
		return err
	}

	task, err := s.api.UpdateTask(c.Request().Context(), id, services.TaskUpdate(body))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

func (s *Server) handleUpdateTaskStatus(c echo.Context) error {
	id, err := taskIDParam(c)
	if err != nil {
		return err
	}
	var body taskStatusBody
	if err := c.Bind(&body); err != nil {
		return err
	}

	task, err := s.api.UpdateTaskStatus(c.Request().Context(), id, body.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

func (s *Server) handleDeleteTask(c echo.Context) error {
	id, err := taskIDParam(c)
	if err != nil {
		return err
	}
	if err := s.api.DeleteTask(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
