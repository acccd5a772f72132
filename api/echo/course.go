package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/user"
)

type courseApi struct {
	svc     *course.Service
	userSvc *user.Service
}

func registerCourseAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *course.Service, userSvc *user.Service) {
	api := courseApi{svc: svc, userSvc: userSvc}

	cg := g.Group("/courses", jwt)
	cg.POST("", api.create, teacherMiddleware())
	cg.GET("/:slug", api.retrieve)
	cg.POST("/:slug/enroll", api.enroll)
	cg.DELETE("/:slug/enroll", api.unenroll)
	cg.GET("/:slug/materials", api.queryMaterials)
	cg.POST("/:slug/materials", api.addMaterial, teacherMiddleware())
	cg.DELETE("/:slug/students/:username", api.removeStudent, teacherMiddleware())
	cg.PUT("/:slug/students/:username/status", api.setEnrollmentStatus, teacherMiddleware())
	cg.POST("/:slug/feedback", api.addFeedback)
}

// Handlers

func (api *courseApi) create(ctx echo.Context) error {
	var data course.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	teacher, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return err
	}
	crs, err := api.svc.Create(ctx.Request().Context(), teacher, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, crs)
}

func (api *courseApi) getCourse(ctx echo.Context) (course.Course, error) {
	return api.svc.GetBySlug(ctx.Request().Context(), ctx.Param("slug"))
}

func (api *courseApi) retrieve(ctx echo.Context) error {
	crs, err := api.getCourse(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, crs)
}

func (api *courseApi) enroll(ctx echo.Context) error {
	crs, err := api.getCourse(ctx)
	if err != nil {
		return err
	}
	student, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return err
	}
	enr, err := api.svc.Enroll(ctx.Request().Context(), crs, student)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, enr)
}

func (api *courseApi) unenroll(ctx echo.Context) error {
	crs, err := api.getCourse(ctx)
	if err != nil {
		return err
	}
	student, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return err
	}
	if err = api.svc.Unenroll(ctx.Request().Context(), crs, student); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *courseApi) queryMaterials(ctx echo.Context) error {
	crs, err := api.getCourse(ctx)
	if err != nil {
		return err
	}
	mats, err := api.svc.QueryMaterials(ctx.Request().Context(), crs)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, mats)
}

func (api *courseApi) addMaterial(ctx echo.Context) error {
	crs, err := api.getCourse(ctx)
	if err != nil {
		return err
	}
	var data course.NewMaterial
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMaterial")
	}
	if err = data.Validate(); err != nil {
		return err
	}

	teacher, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return err
	}
	mat, err := api.svc.AddMaterial(ctx.Request().Context(), crs, teacher, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, mat)
}

func (api *courseApi) removeStudent(ctx echo.Context) error {
	crs, err := api.getCourse(ctx)
	if err != nil {
		return err
	}
	student, err := api.userSvc.GetByUsername(ctx.Request().Context(), ctx.Param("username"))
	if err != nil {
		return err
	}
	teacher, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return err
	}
	if err = api.svc.RemoveStudent(ctx.Request().Context(), crs, student, teacher); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *courseApi) setEnrollmentStatus(ctx echo.Context) error {
	crs, err := api.getCourse(ctx)
	if err != nil {
		return err
	}
	var data EnrollmentStatusRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EnrollmentStatusRequest")
	}
	if err = data.Validate(); err != nil {
		return err
	}

	student, err := api.userSvc.GetByUsername(ctx.Request().Context(), ctx.Param("username"))
	if err != nil {
		return err
	}
	teacher, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return err
	}
	status := course.EnrollmentStatus(data.Status)
	if err = api.svc.SetEnrollmentStatus(ctx.Request().Context(), crs, student, teacher, status); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *courseApi) addFeedback(ctx echo.Context) error {
	crs, err := api.getCourse(ctx)
	if err != nil {
		return err
	}
	var data course.NewFeedback
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFeedback")
	}
	if err = data.Validate(); err != nil {
		return err
	}

	student, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return err
	}
	fb, err := api.svc.AddFeedback(ctx.Request().Context(), crs, student, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, fb)
}

type EnrollmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active dropped blocked"`
}

func (r *EnrollmentStatusRequest) Validate() error {
	return core.Validate.Struct(r)
}
