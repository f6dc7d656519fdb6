// Package routes is the console's static route table.
package routes

import "strings"

const (
	SignIn  = "/"
	SignUp  = "/signup"
	SignOut = "/logout"

	Dashboard = "/dashboard"
	Projects  = "/dashboard/projects"
	Settings  = "/dashboard/settings"
	Users     = "/dashboard/users"

	SessionEvents = "/events/session"
	Health        = "/healthz"
	GeoStates     = "/geo/states"
	GeoCities     = "/geo/cities"
)

// IsProtected reports whether path needs an authenticated session: the
// dashboard and everything below it.
func IsProtected(path string) bool {
	path = "/" + strings.Trim(path, "/")
	return path == Dashboard || strings.HasPrefix(path, Dashboard+"/")
}

func UserEdit(id string) string {
	return Users + "/" + id + "/edit"
}

const UserNew = Users + "/new"

func UserUpdate(id string) string {
	return Users + "/" + id
}

func UserDelete(id string) string {
	return Users + "/" + id + "/delete"
}
