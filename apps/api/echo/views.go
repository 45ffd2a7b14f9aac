package echoapi

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Mohan-b-dev/std-dash/apps/views"
	"github.com/Mohan-b-dev/std-dash/core/session"
	"github.com/Mohan-b-dev/std-dash/core/student"
	rostersvc "github.com/Mohan-b-dev/std-dash/services/roster"
)

const importField = "roster"

type viewsApi struct {
	sessions *session.Service
	deps     views.Deps
}

func registerViewsAPI(app *echo.Echo, sessions *session.Service, deps views.Deps) {
	api := viewsApi{sessions: sessions, deps: deps}

	g := app.Group("", sessionMiddleware(sessions))

	// un-gated views
	g.GET(views.RouteSignup, api.signupPage)
	g.POST(views.RouteSignup, api.signup)
	g.GET(views.RouteLogin, api.loginPage)
	g.POST(views.RouteLogin, api.login)
	g.GET("/courses", api.courses)

	// student dashboard
	sg := g.Group(views.RouteDashboard)
	sg.GET("", api.studentDashboard)
	sg.POST("/logout", api.studentLogout)

	// admin dashboard
	ag := g.Group(views.RouteAdminDashboard)
	ag.GET("", api.adminDashboard(nil))
	ag.POST("/logout", api.adminLogout)
	ag.POST("/students", api.adminDashboard(api.addStudent))
	ag.GET("/students/:id/edit", api.adminDashboard(api.openEdit))
	ag.PUT("/students/:id", api.adminDashboard(api.submitEdit))
	ag.DELETE("/students/:id", api.adminDashboard(api.deleteStudent))
	ag.POST("/import", api.adminDashboard(api.importRoster))
	ag.GET("/export", api.export)
}

func (api *viewsApi) client(ctx echo.Context) *session.Client {
	return session.NewClient(api.sessions, contextSession(ctx))
}

func render(ctx echo.Context, page *views.Page, view interface{}) error {
	page.View = view
	return ctx.JSON(http.StatusOK, page)
}

// Handlers

func (api *viewsApi) signupPage(ctx echo.Context) error {
	page := views.NewPage()
	return render(ctx, page, views.NewSignup(api.deps, api.client(ctx), page))
}

func (api *viewsApi) signup(ctx echo.Context) error {
	var form views.SignupForm
	if err := ctx.Bind(&form); err != nil {
		return errors.Wrap(err, "binding to SignupForm")
	}
	page := views.NewPage()
	v := views.NewSignup(api.deps, api.client(ctx), page)
	v.Submit(ctx.Request().Context(), form)
	return render(ctx, page, v)
}

func (api *viewsApi) loginPage(ctx echo.Context) error {
	page := views.NewPage()
	return render(ctx, page, views.NewLogin(api.deps, api.client(ctx), page))
}

func (api *viewsApi) login(ctx echo.Context) error {
	var form views.LoginForm
	if err := ctx.Bind(&form); err != nil {
		return errors.Wrap(err, "binding to LoginForm")
	}
	page := views.NewPage()
	v := views.NewLogin(api.deps, api.client(ctx), page)
	v.Submit(ctx.Request().Context(), form)
	return render(ctx, page, v)
}

func (api *viewsApi) courses(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, student.Courses)
}

func (api *viewsApi) studentDashboard(ctx echo.Context) error {
	page := views.NewPage()
	v := views.NewStudentDashboard(api.deps, api.client(ctx), page)
	v.Mount(ctx.Request().Context())
	defer v.Unmount()
	return render(ctx, page, v)
}

func (api *viewsApi) studentLogout(ctx echo.Context) error {
	page := views.NewPage()
	v := views.NewStudentDashboard(api.deps, api.client(ctx), page)
	if contextSession(ctx) == nil {
		// let the gate report the missing session
		v.Mount(ctx.Request().Context())
		defer v.Unmount()
	} else {
		v.Logout(ctx.Request().Context())
	}
	return render(ctx, page, v)
}

type adminAction func(ctx echo.Context, v *views.AdminDashboard) error

func filterFromQuery(ctx echo.Context) student.Filter {
	return student.Filter{NameQuery: ctx.QueryParam("name"), SelectedCourse: ctx.QueryParam("course")}
}

// mountAdmin mounts the admin dashboard behind its gate with the filter from the query string.
func (api *viewsApi) mountAdmin(ctx echo.Context, page *views.Page) *views.AdminDashboard {
	v := views.NewAdminDashboard(api.deps, api.client(ctx), page)
	v.Mount(ctx.Request().Context())
	v.SetFilter(filterFromQuery(ctx))
	return v
}

// adminDashboard runs action once the gate passed and the collection is loaded.
func (api *viewsApi) adminDashboard(action adminAction) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		page := views.NewPage()
		v := api.mountAdmin(ctx, page)
		defer v.Unmount()

		if action != nil && v.Loaded() {
			if err := action(ctx, v); err != nil {
				return err
			}
		}
		return render(ctx, page, v)
	}
}

func (api *viewsApi) adminLogout(ctx echo.Context) error {
	page := views.NewPage()
	v := views.NewAdminDashboard(api.deps, api.client(ctx), page)
	if contextSession(ctx) == nil {
		v.Mount(ctx.Request().Context())
		defer v.Unmount()
	} else {
		v.Logout(ctx.Request().Context())
	}
	return render(ctx, page, v)
}

func (api *viewsApi) addStudent(ctx echo.Context, v *views.AdminDashboard) error {
	var form student.Form
	if err := ctx.Bind(&form); err != nil {
		return errors.Wrap(err, "binding to student.Form")
	}
	v.AddStudent(ctx.Request().Context(), form)
	return nil
}

func (api *viewsApi) openEdit(ctx echo.Context, v *views.AdminDashboard) error {
	v.OpenEdit(ctx.Param("id"))
	return nil
}

func (api *viewsApi) submitEdit(ctx echo.Context, v *views.AdminDashboard) error {
	var form student.Form
	if err := ctx.Bind(&form); err != nil {
		return errors.Wrap(err, "binding to student.Form")
	}
	v.SubmitEdit(ctx.Request().Context(), ctx.Param("id"), form)
	return nil
}

func (api *viewsApi) deleteStudent(ctx echo.Context, v *views.AdminDashboard) error {
	confirmed, _ := strconv.ParseBool(ctx.QueryParam("confirm"))
	v.Delete(ctx.Request().Context(), ctx.Param("id"), views.Confirmed(confirmed))
	return nil
}

func (api *viewsApi) importRoster(ctx echo.Context, v *views.AdminDashboard) error {
	fh, err := ctx.FormFile(importField)
	if err != nil {
		return &echo.HTTPError{Code: http.StatusBadRequest, Message: "missing roster file", Internal: err}
	}
	file, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening roster file")
	}
	defer func() { _ = file.Close() }()

	forms, err := rostersvc.Import(file)
	if err != nil {
		return &echo.HTTPError{Code: http.StatusBadRequest, Message: "invalid roster file", Internal: err}
	}
	for _, form := range forms {
		if !v.AddStudent(ctx.Request().Context(), form) {
			break
		}
	}
	return nil
}

// export answers the filtered roster as a workbook, or the gated page when access is refused.
func (api *viewsApi) export(ctx echo.Context) error {
	page := views.NewPage()
	v := api.mountAdmin(ctx, page)
	defer v.Unmount()

	if !v.Loaded() {
		return render(ctx, page, v)
	}

	var buf bytes.Buffer
	if err := rostersvc.Export(&buf, v.Users); err != nil {
		return errors.Wrap(err, "exporting roster")
	}
	fname := fmt.Sprintf("students-%s.xlsx", time.Now().UTC().Format("20060102"))
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", fname))
	return ctx.Blob(http.StatusOK, rostersvc.ContentType, buf.Bytes())
}
